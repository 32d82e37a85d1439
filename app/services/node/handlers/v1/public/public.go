// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/validate"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(e); err != nil {
				h.Log.Infow("events", "traceid", v.TraceID, "status", "client gone", "ERROR", err)
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the pending queue.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(fmt.Errorf("%w: %w", database.ErrInvalidTransaction, err), http.StatusBadRequest)
	}

	tran, err := h.State.SubmitTransaction(req.Sender, req.Receiver, req.Amount)
	if err != nil {
		if errors.Is(err, database.ErrInvalidTransaction) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "sender", tran.Sender, "receiver", tran.Receiver, "amount", tran.Amount)

	return web.Respond(ctx, w, toTx(tran), http.StatusCreated)
}

// Genesis returns the ledger parameters.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of pending transactions in submission order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := toTxs(h.State.RetrieveMempool())
	return web.Respond(ctx, w, trans, http.StatusOK)
}

// SignalMining asks the worker to mine the pending transactions. The
// request is accepted even when no run starts so clients can tell a
// busy or empty ledger apart from a failure.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var resp miningSignal

	switch {
	case h.State.Worker == nil:
		return errs.NewTrusted(errors.New("mining is not available"), http.StatusServiceUnavailable)

	case h.State.Worker.SignalStartMining():
		resp = miningSignal{Started: true, Status: "mining started"}

	case h.State.IsMining():
		resp = miningSignal{Status: "mining already in progress"}

	default:
		resp = miningSignal{Status: "no pending transactions"}
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Balance returns the confirmed balance of an account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	bal, err := h.State.QueryBalance(account)
	if err != nil {
		return err
	}

	resp := balance{
		Account: account,
		Balance: bal,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns all the blocks, or the blocks holding a
// transaction for the specified account.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.QueryBlocksByAccount(web.Param(r, "account"))
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	data := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		data[i] = database.NewBlockData(block)
	}

	return web.Respond(ctx, w, data, http.StatusOK)
}

// Validate reports whether the chain is valid and which block breaks it.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validity{Valid: true}

	if err := h.State.ValidateChain(); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()

		var ibe *database.InvalidBlockError
		if errors.As(err, &ibe) {
			resp.Index = &ibe.Index
			resp.Reason = ibe.Reason
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Stats returns a summary of the ledger.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats, err := h.State.QueryStats()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, stats, http.StatusOK)
}

// Export returns the chain, the pending transactions and the mining
// parameters as a single document.
func (h Handlers) Export(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	exp, err := h.State.Export()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, exp, http.StatusOK)
}

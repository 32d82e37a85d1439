// Package worker implements the background mining for the ledger.
package worker

import (
	"context"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Worker manages the POW workflows for the ledger.
type Worker struct {
	state       *state.State
	wg          sync.WaitGroup
	shutOnce    sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	shut        chan struct{}
	startMining chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, evHandler state.EventHandler) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:       st,
		ctx:         ctx,
		cancel:      cancel,
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		evHandler:   ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work. A mining run in
// flight is cancelled. Calling it more than once is safe.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: signal cancel mining")
		w.cancel()

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)
	})

	w.wg.Wait()
}

// SignalStartMining starts a mining operation. It reports false when a run
// is already in flight or there is nothing to mine. If there is already a
// signal pending in the channel, a mining operation will start anyway.
func (w *Worker) SignalStartMining() bool {
	if w.isShutdown() {
		w.evHandler("worker: SignalStartMining: shutting down")
		return false
	}

	if w.state.IsMining() {
		w.evHandler("worker: SignalStartMining: mining in progress")
		return false
	}

	if w.state.QueryMempoolLength() == 0 {
		w.evHandler("worker: SignalStartMining: no transactions to mine")
		return false
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")

	return true
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

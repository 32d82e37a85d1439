package worker

import (
	"errors"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the transactions from the mempool and writes a
// new block to the database. Transactions submitted while the search runs
// wait for the next signal.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	t := time.Now()
	block, mined, err := w.state.MineNewBlock(w.ctx)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	switch {
	case err == nil && !mined:
		w.evHandler("worker: runMiningOperation: MINING: nothing to do")

	case err == nil:
		w.evHandler("worker: runMiningOperation: MINING: SOLVED: blk[%d]: hash[%s]", block.Header.Number, block.Hash)

	case errors.Is(err, database.ErrMiningExhausted):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: attempts exhausted, transactions stay pending")

	case w.ctx.Err() != nil:
		w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")

	default:
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
	}
}

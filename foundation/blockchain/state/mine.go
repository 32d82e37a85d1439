package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/events"
)

// MineNewBlock attempts to create a new block from the pending transactions
// with a proper hash that can become the next block in the chain. The bool
// reports whether a block was appended. No block is produced and no error is
// returned when a mining run is already in flight or nothing is pending.
// Exhausting the attempt budget returns database.ErrMiningExhausted and
// leaves the ledger untouched.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, bool, error) {

	// Only one mining run can be in flight at any given time.
	if !s.mining.CompareAndSwap(false, true) {
		s.evHandler("state: MineNewBlock: MINING: already in progress")
		return database.Block{}, false, nil
	}
	defer s.mining.Store(false)

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Transactions submitted after this point stay pending for the next run.
	trans := s.mempool.Copy()
	if len(trans) == 0 {
		s.evHandler("state: MineNewBlock: MINING: no transactions to mine")
		return database.Block{}, false, nil
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	args := database.POWArgs{
		BeneficiaryID: s.beneficiaryID,
		SystemID:      s.genesis.SystemAccount,
		Reward:        s.genesis.MiningReward,
		Difficulty:    s.genesis.Difficulty,
		MaxAttempts:   s.genesis.MaxAttempts,
		ProgressEvery: s.genesis.ProgressEvery,
		HashFunc:      s.hashFn,
		PrevBlock:     s.RetrieveLatestBlock(),
		Trans:         trans,
		Progress: func(p database.Progress) {
			s.notify(events.MiningProgress(p.Fraction, p.Nonce))
		},
		EvHandler: s.evHandler,
	}

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	block, err := database.POW(ctx, args)
	if err != nil {
		if errors.Is(err, database.ErrMiningExhausted) {
			s.notify(events.MiningResult(false))
		}
		return database.Block{}, false, err
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	chainLen, pending, err := s.updateLocalState(block, len(trans))
	if err != nil {
		return database.Block{}, false, err
	}

	s.notify(events.ChainChanged(chainLen))
	s.notify(events.PendingChanged(pending))
	s.notify(events.MiningResult(true))

	return block, true, nil
}

// =============================================================================

// updateLocalState appends the block to the chain and removes the mined
// transactions from the front of the mempool. It returns the new chain
// and mempool lengths.
func (s *State) updateLocalState(block database.Block, mined int) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: updateLocalState: write block[%d]", block.Header.Number)

	if err := s.db.Write(block); err != nil {
		return 0, 0, err
	}

	s.evHandler("state: updateLocalState: remove %d transactions from mempool", mined)

	pending := s.mempool.RemoveFront(mined)

	return int(s.db.Count()), pending, nil
}

package database

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
	"github.com/shopspring/decimal"
)

// ErrMiningExhausted is returned when the proof of work search used its
// full attempt budget without finding a solution.
var ErrMiningExhausted = errors.New("mining attempts exhausted")

// =============================================================================

// Progress represents how far a proof of work search has gone.
type Progress struct {
	Fraction float64 // Share of the attempt budget consumed.
	Nonce    uint64  // Nonce most recently tried.
}

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	BeneficiaryID string          // Account receiving the mining reward.
	SystemID      string          // Account issuing the mining reward.
	Reward        decimal.Decimal // Value of the mining reward.
	Difficulty    uint            // Number of leading 0's the hash needs.
	MaxAttempts   uint64          // Nonces tried before giving up.
	ProgressEvery uint64          // Attempts between calls to Progress.
	HashFunc      hash.Func       // Strong hash used to seal the block.
	PrevBlock     Block           // Current tip of the chain.
	Trans         []Tx            // Snapshot of the pending transactions.
	Progress      func(p Progress)
	EvHandler     func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle within the attempt budget.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	// The reward is appended to a copy of the snapshot so the caller's
	// transactions stay untouched if the search fails.
	now := time.Now().UnixMilli()
	trans := make([]Tx, 0, len(args.Trans)+1)
	trans = append(trans, args.Trans...)
	trans = append(trans, NewSystemTx(args.SystemID, args.BeneficiaryID, args.Reward, now))

	c := NewCandidate(args.PrevBlock, trans, now)

	return c.search(ctx, args, ev)
}

// search iterates over nonces computing the digest for each one until a
// digest solves the difficulty or the attempt budget is used up.
func (c Candidate) search(ctx context.Context, args POWArgs, ev func(v string, args ...any)) (Block, error) {
	ev("database: POW: MINING: started: blk[%d]: txs[%d]", c.Header.Number, len(c.Trans))
	defer ev("database: POW: MINING: completed: blk[%d]", c.Header.Number)

	for _, tx := range c.Trans {
		ev("database: POW: MINING: tx[%s]", tx)
	}

	fn := args.HashFunc
	if fn == nil {
		fn = hash.Strong
	}

	var nonce uint64
	for attempts := uint64(1); attempts <= args.MaxAttempts; attempts++ {

		// Did we get told to stop.
		if ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED")
			return Block{}, ctx.Err()
		}

		nonce++

		// Hash the candidate and check if we have solved the puzzle.
		digest := c.Digest(fn, nonce)
		if hash.IsSolved(args.Difficulty, digest) {
			ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", c.Header.PrevBlockHash, digest, attempts)
			return c.Seal(nonce, digest), nil
		}

		if args.ProgressEvery > 0 && attempts%args.ProgressEvery == 0 {
			if args.Progress != nil {
				args.Progress(Progress{
					Fraction: float64(attempts) / float64(args.MaxAttempts),
					Nonce:    nonce,
				})
			}

			// Give other goroutines a chance to run between progress reports.
			runtime.Gosched()
		}
	}

	ev("database: POW: MINING: EXHAUSTED: attempts[%d]", args.MaxAttempts)

	return Block{}, ErrMiningExhausted
}

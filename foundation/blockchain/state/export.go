package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/shopspring/decimal"
)

// Export represents a full dump of the ledger.
type Export struct {
	Chain        []database.BlockData `json:"chain"`
	Pending      []database.Tx        `json:"pending_transactions"`
	Difficulty   uint                 `json:"difficulty"`
	MiningReward decimal.Decimal      `json:"mining_reward"`
}

// Export returns a copy of the chain, the pending transactions and the
// mining parameters.
func (s *State) Export() (Export, error) {
	blocks, err := s.db.Blocks()
	if err != nil {
		return Export{}, err
	}

	chain := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		chain[i] = database.NewBlockData(block)
	}

	exp := Export{
		Chain:        chain,
		Pending:      s.mempool.Copy(),
		Difficulty:   s.genesis.Difficulty,
		MiningReward: s.genesis.MiningReward,
	}

	return exp, nil
}

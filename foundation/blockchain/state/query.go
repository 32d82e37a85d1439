package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/shopspring/decimal"
)

// Stats represents a summary of the ledger.
type Stats struct {
	Blocks       int             `json:"blocks"`
	Pending      int             `json:"pending"`
	Difficulty   uint            `json:"difficulty"`
	MiningReward decimal.Decimal `json:"mining_reward"`
	Transactions int             `json:"transactions"`
	Valid        bool            `json:"valid"`
	Mining       bool            `json:"mining"`
	Beneficiary  string          `json:"beneficiary"`
}

// =============================================================================

// QueryBalance computes the balance of the account by walking every
// transaction in the chain. Pending transactions are not counted and an
// unknown account has a zero balance. Balances can go negative.
func (s *State) QueryBalance(account string) (decimal.Decimal, error) {
	balance := decimal.Zero

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return decimal.Zero, err
		}

		for _, tx := range block.Trans {
			if tx.Sender == account {
				balance = balance.Sub(tx.Amount)
			}
			if tx.Receiver == account {
				balance = balance.Add(tx.Amount)
			}
		}
	}

	return balance, nil
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain, including
// the genesis block.
func (s *State) QueryChainLength() int {
	return int(s.db.Count())
}

// QueryBlocks returns a copy of the full chain starting with the
// genesis block.
func (s *State) QueryBlocks() ([]database.Block, error) {
	return s.db.Blocks()
}

// QueryBlocksByAccount returns the set of blocks holding a transaction
// sent or received by the account. If the account is empty, all blocks
// are returned.
func (s *State) QueryBlocksByAccount(account string) ([]database.Block, error) {
	var out []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		for _, tx := range block.Trans {
			if account == "" || tx.Sender == account || tx.Receiver == account {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}

// ValidateChain checks every block in the chain links to its predecessor
// and still matches its recorded hash. The error identifies the first
// block that fails.
func (s *State) ValidateChain() error {
	blocks, err := s.db.Blocks()
	if err != nil {
		return err
	}

	return database.ValidateChain(blocks, s.hashFn)
}

// IsChainValid reports whether the chain passes validation.
func (s *State) IsChainValid() bool {
	return s.ValidateChain() == nil
}

// QueryStats returns a summary of the ledger.
func (s *State) QueryStats() (Stats, error) {
	blocks, err := s.db.Blocks()
	if err != nil {
		return Stats{}, err
	}

	var txs int
	for _, block := range blocks {
		txs += len(block.Trans)
	}

	stats := Stats{
		Blocks:       len(blocks),
		Pending:      s.mempool.Count(),
		Difficulty:   s.genesis.Difficulty,
		MiningReward: s.genesis.MiningReward,
		Transactions: txs,
		Valid:        database.IsValidChain(blocks, s.hashFn),
		Mining:       s.mining.Load(),
		Beneficiary:  s.beneficiaryID,
	}

	return stats, nil
}

// Package genesis maintains access to the ledger parameters.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
	"github.com/shopspring/decimal"
)

// Default values used when no genesis file is provided.
const (
	DefaultDifficulty     = 4
	DefaultMaxAttempts    = 10_000
	DefaultProgressEvery  = 100
	DefaultSystemAccount  = "System"
	DefaultGenesisAccount = "Genesis"
)

// DefaultMiningReward is the reward credited for every mined block.
var DefaultMiningReward = decimal.NewFromInt(50)

// Genesis represents the fixed parameters of a ledger.
type Genesis struct {
	Date           time.Time       `json:"date"`
	Difficulty     uint            `json:"difficulty"`      // Number of leading 0's a block hash needs.
	MiningReward   decimal.Decimal `json:"mining_reward"`   // Reward for mining a block.
	MaxAttempts    uint64          `json:"max_attempts"`    // Nonces tried before a mining run gives up.
	ProgressEvery  uint64          `json:"progress_every"`  // Attempts between mining progress reports.
	SystemAccount  string          `json:"system_account"`  // Sender of the genesis endowment and rewards.
	GenesisAccount string          `json:"genesis_account"` // Receiver of the genesis endowment.
	StrongHash     string          `json:"strong_hash"`     // Hash used for mined blocks.
}

// Default returns the parameters used by the reference ledger.
func Default() Genesis {
	return Genesis{
		Date:           time.Now().UTC(),
		Difficulty:     DefaultDifficulty,
		MiningReward:   DefaultMiningReward,
		MaxAttempts:    DefaultMaxAttempts,
		ProgressEvery:  DefaultProgressEvery,
		SystemAccount:  DefaultSystemAccount,
		GenesisAccount: DefaultGenesisAccount,
		StrongHash:     hash.SHA256,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the parameters can drive a ledger.
func (g Genesis) Validate() error {
	if g.Difficulty > hash.Size {
		return fmt.Errorf("difficulty %d is larger than the digest size %d", g.Difficulty, hash.Size)
	}

	if g.MiningReward.IsNegative() {
		return errors.New("mining reward can't be negative")
	}

	if g.MaxAttempts == 0 {
		return errors.New("max attempts must be greater than zero")
	}

	if g.SystemAccount == "" || g.GenesisAccount == "" {
		return errors.New("system and genesis accounts are required")
	}

	if _, err := hash.Retrieve(g.StrongHash); err != nil {
		return err
	}

	return nil
}

// HashFunc returns the strong hash function configured for mined blocks.
func (g Genesis) HashFunc() hash.Func {
	fn, err := hash.Retrieve(g.StrongHash)
	if err != nil {
		return hash.Strong
	}
	return fn
}

// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/events"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// NotifyHandler defines a function that is called with the notifications
// a presentation layer consumes.
type NotifyHandler func(e events.Event)

// Worker interface represents the behavior required to be implemented by any
// package providing support for running mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining() bool
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	BeneficiaryID string
	Genesis       genesis.Genesis
	Storage       database.Storage
	EvHandler     EventHandler
	Notify        NotifyHandler
}

// State manages the ledger. It exclusively owns the chain and the pending
// transactions.
type State struct {
	mu     sync.Mutex
	mining atomic.Bool

	beneficiaryID string
	evHandler     EventHandler
	notify        NotifyHandler

	genesis genesis.Genesis
	hashFn  hash.Func
	mempool *mempool.Mempool
	db      *database.Database

	Worker Worker
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build safe handler functions for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}
	notify := func(e events.Event) {
		if cfg.Notify != nil {
			cfg.Notify(e)
		}
	}

	if cfg.BeneficiaryID == "" {
		return nil, errors.New("beneficiary account is required")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	// Default to keeping the chain in memory.
	strg := cfg.Storage
	if strg == nil {
		var err error
		if strg, err = memory.New(); err != nil {
			return nil, err
		}
	}

	genesisTime := cfg.Genesis.Date
	if genesisTime.IsZero() {
		genesisTime = time.Now()
	}

	// The genesis block is built once with the weak hash and is
	// never mined.
	gb := database.NewGenesisBlock(cfg.Genesis.SystemAccount, cfg.Genesis.GenesisAccount, genesisTime.UnixMilli())
	ev("state: New: genesis block: hash[%s]", gb.Hash)

	hashFn := cfg.Genesis.HashFunc()

	db, err := database.New(gb, strg, hashFn)
	if err != nil {
		return nil, err
	}

	state := State{
		beneficiaryID: cfg.BeneficiaryID,
		evHandler:     ev,
		notify:        notify,

		genesis: cfg.Genesis,
		hashFn:  hashFn,
		mempool: mempool.New(),
		db:      db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the background mining.

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the storage is properly closed.
	defer s.db.Close()

	// Stop all mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// IsMining reports whether a proof of work search is in flight.
func (s *State) IsMining() bool {
	return s.mining.Load()
}

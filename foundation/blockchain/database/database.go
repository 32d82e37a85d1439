// Package database handles the block and transaction data model, the proof
// of work search, chain validation and the lower level access to the chain.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	Count() uint64
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks. The chain is never empty, the first
// block is always the genesis block.
type Database struct {
	mu          sync.RWMutex
	hashFn      hash.Func
	latestBlock Block
	storage     Storage
}

// New constructs a new database over the specified storage and writes the
// genesis block. Any blocks held by the storage are discarded.
func New(genesisBlock Block, storage Storage, hashFn hash.Func) (*Database, error) {
	if genesisBlock.Header.Number != 0 || genesisBlock.Header.PrevBlockHash != GenesisPrevHash {
		return nil, errors.New("genesis block must be block 0 with no predecessor")
	}

	if err := storage.Reset(); err != nil {
		return nil, fmt.Errorf("reset storage: %w", err)
	}

	if err := storage.Write(genesisBlock); err != nil {
		return nil, fmt.Errorf("write genesis: %w", err)
	}

	db := Database{
		hashFn:      hashFn,
		latestBlock: genesisBlock,
		storage:     storage,
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.storage.Close()
}

// Write validates the block extends the latest block and adds it to
// the chain.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if nextNumber := db.latestBlock.Header.Number + 1; block.Header.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", block.Header.Number, nextNumber)
	}

	if err := block.ValidateBlock(db.latestBlock, db.hashFn); err != nil {
		return err
	}

	if err := db.storage.Write(block); err != nil {
		return err
	}
	db.latestBlock = block.Clone()

	return nil
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock.Clone()
}

// Count returns the number of blocks in the chain.
func (db *Database) Count() uint64 {
	return db.storage.Count()
}

// GetBlock returns the block at the specified position in the chain.
func (db *Database) GetBlock(num uint64) (Block, error) {
	return db.storage.GetBlock(num)
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() Iterator {
	return db.storage.ForEach()
}

// Blocks returns a copy of the full chain.
func (db *Database) Blocks() ([]Block, error) {
	var blocks []Block

	iter := db.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

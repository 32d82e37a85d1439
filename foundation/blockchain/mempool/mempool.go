// Package mempool maintains the queue of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Mempool represents the pending transactions in submission order.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the queue and returns the new
// length of the queue.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a snapshot of the queue in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// RemoveFront drops the first n transactions from the queue. These are the
// transactions captured by a snapshot that has since been mined. The new
// length of the queue is returned.
func (mp *Mempool) RemoveFront(n int) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	n = max(0, min(n, len(mp.pool)))
	mp.pool = append([]database.Tx(nil), mp.pool[n:]...)

	return len(mp.pool)
}

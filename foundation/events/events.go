// Package events allows for the registering and receiving of ledger
// notifications.
package events

import (
	"fmt"
	"sync"
)

// Kind identifies the type of notification.
type Kind string

// Set of notifications the ledger emits.
const (
	KindMiningProgress Kind = "mining-progress"
	KindMiningResult   Kind = "mining-result"
	KindChainChanged   Kind = "chain-changed"
	KindPendingChanged Kind = "pending-changed"
)

// Set of mining results.
const (
	ResultSuccess   = "success"
	ResultExhausted = "exhausted"
)

// Event represents a single notification. Only the fields related to the
// kind are set.
type Event struct {
	Kind     Kind    `json:"kind"`
	Fraction float64 `json:"fraction,omitempty"`
	Nonce    uint64  `json:"nonce,omitempty"`
	Result   string  `json:"result,omitempty"`
	Length   int     `json:"length"`
}

// MiningProgress constructs a mining progress notification.
func MiningProgress(fraction float64, nonce uint64) Event {
	return Event{Kind: KindMiningProgress, Fraction: fraction, Nonce: nonce}
}

// MiningResult constructs a mining result notification.
func MiningResult(success bool) Event {
	result := ResultExhausted
	if success {
		result = ResultSuccess
	}
	return Event{Kind: KindMiningResult, Result: result}
}

// ChainChanged constructs a notification carrying the new chain length.
func ChainChanged(length int) Event {
	return Event{Kind: KindChainChanged, Length: length}
}

// PendingChanged constructs a notification carrying the new queue length.
func PendingChanged(length int) Event {
	return Event{Kind: KindPendingChanged, Length: length}
}

// =============================================================================

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]chan Event
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]chan Event),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	// Since a message will be dropped if the websocket receiver is
	// not ready to receive, this arbitrary buffer should give the receiver
	// enough time to not lose a message. Websocket send could take long.
	const messageBuffer = 100

	evt.m[id] = make(chan Event, messageBuffer)
	return evt.m[id]
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Send signals an event to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(e Event) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- e:
		default:
		}
	}
}

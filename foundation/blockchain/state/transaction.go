package state

import (
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/shopspring/decimal"
)

// SubmitTransaction accepts a transaction for inclusion in the next mined
// block. A malformed transaction is rejected with database.ErrInvalidTransaction
// and the mempool is left as it was.
func (s *State) SubmitTransaction(sender string, receiver string, amount decimal.Decimal) (database.Tx, error) {
	tx, err := database.NewTx(sender, receiver, amount, time.Now().UnixMilli())
	if err != nil {
		s.evHandler("state: SubmitTransaction: REJECTED: %s", err)
		return database.Tx{}, err
	}

	n := s.mempool.Append(tx)
	s.evHandler("state: SubmitTransaction: tx[%s]: pending[%d]", tx, n)

	s.notify(events.PendingChanged(n))

	return tx, nil
}

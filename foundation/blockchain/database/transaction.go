package database

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction is returned when a submitted transaction is
// malformed. The reason is wrapped around this error.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Bounds on the written form of an amount. Amounts are rendered in full in
// the block payload, so an exponent like 1e100000000 must not get through.
const (
	maxAmountDigits = 64
	maxAmountScale  = 32
)

// =============================================================================

// Tx is the value transfer between two parties.
type Tx struct {
	Sender    string          `json:"sender"`    // Account sending the value.
	Receiver  string          `json:"receiver"`  // Account receiving the value.
	Amount    decimal.Decimal `json:"amount"`    // Value being transferred.
	TimeStamp int64           `json:"timestamp"` // Unix milliseconds when the transaction was created.
}

// NewTx constructs a new user transaction and validates it.
func NewTx(sender string, receiver string, amount decimal.Decimal, timeStamp int64) (Tx, error) {
	switch {
	case sender == "":
		return Tx{}, fmt.Errorf("%w: sender is required", ErrInvalidTransaction)

	case receiver == "":
		return Tx{}, fmt.Errorf("%w: receiver is required", ErrInvalidTransaction)

	case !amountInBounds(amount):
		return Tx{}, fmt.Errorf("%w: amount exceeds %d digits or %d decimal places", ErrInvalidTransaction, maxAmountDigits, maxAmountScale)

	case !amount.IsPositive():
		return Tx{}, fmt.Errorf("%w: amount must be greater than zero, got %s", ErrInvalidTransaction, amount)

	case sender == receiver:
		return Tx{}, fmt.Errorf("%w: sending value to yourself, account %s", ErrInvalidTransaction, sender)
	}

	tx := Tx{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}

	return tx, nil
}

// NewSystemTx constructs a transaction issued by the system account. These
// are the genesis endowment and the mining rewards and skip the user
// validation rules, so a zero amount is allowed.
func NewSystemTx(systemID string, receiver string, amount decimal.Decimal, timeStamp int64) Tx {
	return Tx{
		Sender:    systemID,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}
}

// amountInBounds reports whether the amount can be written out with at most
// maxAmountDigits whole digits and maxAmountScale decimal places.
func amountInBounds(amount decimal.Decimal) bool {
	exp := int(amount.Exponent())
	if -exp > maxAmountScale {
		return false
	}

	return amount.NumDigits()+exp <= maxAmountDigits
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Receiver, tx.Amount)
}

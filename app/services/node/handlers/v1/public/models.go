package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/shopspring/decimal"
)

type submitTx struct {
	Sender   string          `json:"sender" validate:"required"`
	Receiver string          `json:"receiver" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

type tx struct {
	Sender    string          `json:"sender"`
	Receiver  string          `json:"receiver"`
	Amount    decimal.Decimal `json:"amount"`
	TimeStamp int64           `json:"timestamp"`
}

func toTx(t database.Tx) tx {
	return tx{
		Sender:    t.Sender,
		Receiver:  t.Receiver,
		Amount:    t.Amount,
		TimeStamp: t.TimeStamp,
	}
}

func toTxs(trans []database.Tx) []tx {
	out := make([]tx, len(trans))
	for i, t := range trans {
		out[i] = toTx(t)
	}
	return out
}

type balance struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

type miningSignal struct {
	Started bool   `json:"started"`
	Status  string `json:"status"`
}

type validity struct {
	Valid  bool    `json:"valid"`
	Index  *uint64 `json:"index,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

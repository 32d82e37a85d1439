package mempool_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/shopspring/decimal"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name    string
		txs     []database.Tx
		mined   int
		remains []string
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{Sender: "A", Receiver: "B", Amount: decimal.NewFromInt(10)},
				{Sender: "B", Receiver: "C", Amount: decimal.NewFromInt(5)},
				{Sender: "C", Receiver: "D", Amount: decimal.NewFromInt(1)},
				{Sender: "D", Receiver: "A", Amount: decimal.NewFromInt(2)},
			},
			mined:   3,
			remains: []string{"D"},
		},
		{
			name: "overflow",
			txs: []database.Tx{
				{Sender: "A", Receiver: "B", Amount: decimal.NewFromInt(10)},
			},
			mined:   5,
			remains: nil,
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
				{
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Append(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the new length %d, got %d.", failed, testID, i+1, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add new transactions.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.Sender != tst.txs[i].Sender {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx.Sender)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i].Sender)
							t.Fatalf("\t%s\tTest %d:\tShould keep submission order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep submission order.", success, testID)

					snapshot := mp.Copy()
					snapshot[0].Sender = "changed"
					if mp.Copy()[0].Sender == "changed" {
						t.Fatalf("\t%s\tTest %d:\tShould hand out copies.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould hand out copies.", success, testID)

					if n := mp.RemoveFront(tst.mined); n != len(tst.remains) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d transactions left, got %d.", failed, testID, len(tst.remains), n)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d transactions left.", success, testID, len(tst.remains))

					for i, tx := range mp.Copy() {
						if tx.Sender != tst.remains[i] {
							t.Fatalf("\t%s\tTest %d:\tShould keep the transactions that were not mined.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep the transactions that were not mined.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

package state_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/shopspring/decimal"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const miner = "Miner1"

func newState(t *testing.T, difficulty uint, maxAttempts uint64, progressEvery uint64, notify state.NotifyHandler) *state.State {
	t.Helper()

	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.MaxAttempts = maxAttempts
	gen.ProgressEvery = progressEvery

	st, err := state.New(state.Config{
		BeneficiaryID: miner,
		Genesis:       gen,
		Notify:        notify,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}

	return st
}

func balance(t *testing.T, st *state.State, account string) string {
	t.Helper()

	b, err := st.QueryBalance(account)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to query the balance of %s: %v", failed, account, err)
	}

	return b.String()
}

// =============================================================================

func TestSubmitTransaction(t *testing.T) {
	type table struct {
		name     string
		sender   string
		receiver string
		amount   decimal.Decimal
	}

	tt := []table{
		{name: "nosender", sender: "", receiver: "B", amount: decimal.NewFromInt(10)},
		{name: "noreceiver", sender: "A", receiver: "", amount: decimal.NewFromInt(10)},
		{name: "zero", sender: "A", receiver: "B", amount: decimal.Zero},
		{name: "negative", sender: "A", receiver: "B", amount: decimal.NewFromInt(-3)},
		{name: "self", sender: "A", receiver: "A", amount: decimal.NewFromInt(10)},
	}

	t.Log("Given the need to reject malformed transactions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen submitting %s.", testID, tst.name)
				{
					st := newState(t, 1, 10_000, 100, nil)
					defer st.Shutdown()

					_, err := st.SubmitTransaction(tst.sender, tst.receiver, tst.amount)
					if !errors.Is(err, database.ErrInvalidTransaction) {
						t.Fatalf("\t%s\tTest %d:\tShould get back an invalid transaction error: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get back an invalid transaction error.", success, testID)

					if n := st.QueryMempoolLength(); n != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould leave the queue unchanged, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould leave the queue unchanged.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestMineNewBlock(t *testing.T) {
	t.Log("Given the need to mine pending transactions into the chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the ledger only holds the genesis block.", testID)
		{
			st := newState(t, 1, 10_000, 100, nil)
			defer st.Shutdown()

			if n := st.QueryChainLength(); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have a chain of length 1, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould have a chain of length 1.", success, testID)

			for _, account := range []string{"A", "Genesis", "System", miner} {
				if b := balance(t, st, account); b != "0" {
					t.Fatalf("\t%s\tTest %d:\tShould have a zero balance for %s, got %s.", failed, testID, account, b)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have a zero balance for every account.", success, testID)

			_, mined, err := st.MineNewBlock(context.Background())
			if err != nil || mined {
				t.Fatalf("\t%s\tTest %d:\tShould not mine an empty queue: mined[%v] err[%v].", failed, testID, mined, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not mine an empty queue.", success, testID)

			if !st.IsChainValid() {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining a single transfer.", testID)
		{
			var mu sync.Mutex
			var got []events.Event
			notify := func(e events.Event) {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, e)
			}

			st := newState(t, 1, 10_000, 100, notify)
			defer st.Shutdown()

			if _, err := st.SubmitTransaction("A", "B", decimal.NewFromInt(10)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit a transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to submit a transaction.", success, testID)

			block, mined, err := st.MineNewBlock(context.Background())
			if err != nil || !mined {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: mined[%v] err[%v].", failed, testID, mined, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			exp := map[string]string{"A": "-10", "B": "10", miner: "50"}
			for account, want := range exp {
				if b := balance(t, st, account); b != want {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, b)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, want)
					t.Fatalf("\t%s\tTest %d:\tShould have the right balance for %s.", failed, testID, account)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have the right balances.", success, testID)

			if n := st.QueryChainLength(); n != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have a chain of length 2, got %d.", failed, testID, n)
			}
			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have drained the queue, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould extend the chain and drain the queue.", success, testID)

			blocks, err := st.QueryBlocks()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to query the blocks: %v", failed, testID, err)
			}
			if blocks[1].Header.PrevBlockHash != blocks[0].Hash || block.Hash != blocks[1].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould link the new block to genesis.", failed, testID)
			}
			if !strings.HasPrefix(blocks[1].Hash, "0") {
				t.Fatalf("\t%s\tTest %d:\tShould meet the difficulty: %s", failed, testID, blocks[1].Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould link the block and meet the difficulty.", success, testID)

			last := len(blocks[1].Trans) - 1
			reward := blocks[1].Trans[last]
			if reward.Sender != "System" || reward.Receiver != miner || !reward.Amount.Equal(decimal.NewFromInt(50)) {
				t.Fatalf("\t%s\tTest %d:\tShould end the block with the reward: %s", failed, testID, reward)
			}
			t.Logf("\t%s\tTest %d:\tShould end the block with the reward.", success, testID)

			if err := st.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)

			mu.Lock()
			tail := got[len(got)-3:]
			mu.Unlock()

			if tail[0] != events.ChainChanged(2) || tail[1] != events.PendingChanged(0) || tail[2] != events.MiningResult(true) {
				t.Fatalf("\t%s\tTest %d:\tShould notify the chain, queue and result: %+v", failed, testID, tail)
			}
			t.Logf("\t%s\tTest %d:\tShould notify the chain, queue and result.", success, testID)

			stats, err := st.QueryStats()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to query stats: %v", failed, testID, err)
			}
			if stats.Blocks != 2 || stats.Transactions != 3 || !stats.Valid || stats.Pending != 0 || stats.Beneficiary != miner {
				t.Fatalf("\t%s\tTest %d:\tShould report the right stats: %+v", failed, testID, stats)
			}
			t.Logf("\t%s\tTest %d:\tShould report the right stats.", success, testID)

			byAccount, err := st.QueryBlocksByAccount("B")
			if err != nil || len(byAccount) != 1 || byAccount[0].Header.Number != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould find the block by account: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould find the block by account.", success, testID)

			exp2, err := st.Export()
			if err != nil || len(exp2.Chain) != 2 || len(exp2.Pending) != 0 || exp2.Difficulty != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould export the ledger: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould export the ledger.", success, testID)
		}
	}
}

func TestMiningExhausted(t *testing.T) {
	t.Log("Given the need to handle a mining run that runs out of attempts.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the difficulty can never be met.", testID)
		{
			var st *state.State
			var reentered, reenteredMined bool
			var reenteredErr error
			var results []events.Event

			notify := func(e events.Event) {
				switch e.Kind {
				case events.KindMiningProgress:
					if reentered {
						return
					}
					reentered = true

					st.SubmitTransaction("C", "D", decimal.NewFromInt(1))
					_, reenteredMined, reenteredErr = st.MineNewBlock(context.Background())

				case events.KindMiningResult:
					results = append(results, e)
				}
			}

			st = newState(t, 64, 200, 100, notify)
			defer st.Shutdown()

			if _, err := st.SubmitTransaction("A", "B", decimal.NewFromInt(10)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit a transaction: %v", failed, testID, err)
			}

			_, mined, err := st.MineNewBlock(context.Background())
			if !errors.Is(err, database.ErrMiningExhausted) || mined {
				t.Fatalf("\t%s\tTest %d:\tShould get back the exhausted error: mined[%v] err[%v].", failed, testID, mined, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the exhausted error.", success, testID)

			if !reentered || reenteredMined || reenteredErr != nil {
				t.Fatalf("\t%s\tTest %d:\tShould not start a second run while mining: mined[%v] err[%v].", failed, testID, reenteredMined, reenteredErr)
			}
			t.Logf("\t%s\tTest %d:\tShould not start a second run while mining.", success, testID)

			if n := st.QueryChainLength(); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged.", success, testID)

			pending := st.RetrieveMempool()
			if len(pending) != 2 || pending[0].Sender != "A" || pending[1].Sender != "C" {
				t.Fatalf("\t%s\tTest %d:\tShould keep every pending transaction in order: %v", failed, testID, pending)
			}
			t.Logf("\t%s\tTest %d:\tShould keep every pending transaction in order.", success, testID)

			if len(results) != 1 || results[0].Result != events.ResultExhausted {
				t.Fatalf("\t%s\tTest %d:\tShould report an exhausted result: %+v", failed, testID, results)
			}
			t.Logf("\t%s\tTest %d:\tShould report an exhausted result.", success, testID)

			if st.IsMining() {
				t.Fatalf("\t%s\tTest %d:\tShould be idle after the run.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be idle after the run.", success, testID)
		}
	}
}

func TestSubmitWhileMining(t *testing.T) {
	t.Log("Given the need to accept transactions while a block is being mined.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a transaction arrives during the search.", testID)
		{
			var st *state.State
			var once sync.Once
			var submitted bool

			notify := func(e events.Event) {
				if e.Kind != events.KindMiningProgress {
					return
				}
				once.Do(func() {
					if _, err := st.SubmitTransaction("C", "D", decimal.NewFromInt(1)); err == nil {
						submitted = true
					}
				})
			}

			st = newState(t, 2, 10_000, 1, notify)
			defer st.Shutdown()

			if _, err := st.SubmitTransaction("A", "B", decimal.NewFromInt(10)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit a transaction: %v", failed, testID, err)
			}

			block, mined, err := st.MineNewBlock(context.Background())
			if err != nil || !mined {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: mined[%v] err[%v].", failed, testID, mined, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			if len(block.Trans) != 2 || block.Trans[0].Sender != "A" {
				t.Fatalf("\t%s\tTest %d:\tShould only mine the snapshot and the reward: %v", failed, testID, block.Trans)
			}
			t.Logf("\t%s\tTest %d:\tShould only mine the snapshot and the reward.", success, testID)

			exp := 0
			if submitted {
				exp = 1
			}

			pending := st.RetrieveMempool()
			if len(pending) != exp {
				t.Fatalf("\t%s\tTest %d:\tShould keep %d transactions pending, got %d.", failed, testID, exp, len(pending))
			}
			if exp == 1 && pending[0].Sender != "C" {
				t.Fatalf("\t%s\tTest %d:\tShould keep the late transaction pending.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the late transaction pending.", success, testID)
		}
	}
}

func TestConfig(t *testing.T) {
	t.Log("Given the need to reject a bad configuration.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the configuration is incomplete.", testID)
		{
			if _, err := state.New(state.Config{Genesis: genesis.Default()}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould require a beneficiary.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould require a beneficiary.", success, testID)

			gen := genesis.Default()
			gen.Difficulty = 65
			if _, err := state.New(state.Config{BeneficiaryID: miner, Genesis: gen}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a difficulty above 64.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a difficulty above 64.", success, testID)
		}
	}
}

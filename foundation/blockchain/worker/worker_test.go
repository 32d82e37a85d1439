package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/shopspring/decimal"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newState(t *testing.T, gen genesis.Genesis, evts *events.Events) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		BeneficiaryID: "Miner1",
		Genesis:       gen,
		EvHandler:     func(v string, args ...any) { t.Logf(v, args...) },
		Notify:        evts.Send,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}

	return st
}

// waitFor reads events until one of the kind arrives or the timeout expires.
func waitFor(t *testing.T, ch chan events.Event, kind events.Kind) events.Event {
	t.Helper()

	timeout := time.After(30 * time.Second)
	for {
		select {
		case e := <-ch:
			if e.Kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("\t%s\tShould receive a %s event.", failed, kind)
		}
	}
}

// =============================================================================

func TestMining(t *testing.T) {
	t.Log("Given the need to mine in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining is signaled with pending transactions.", testID)
		{
			evts := events.New()
			defer evts.Shutdown()
			ch := evts.Acquire("test")

			gen := genesis.Default()
			gen.Difficulty = 1

			st := newState(t, gen, evts)
			defer st.Shutdown()

			worker.Run(st, func(v string, args ...any) { t.Logf(v, args...) })

			if st.Worker.SignalStartMining() {
				t.Fatalf("\t%s\tTest %d:\tShould not signal with an empty queue.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not signal with an empty queue.", success, testID)

			if _, err := st.SubmitTransaction("A", "B", decimal.NewFromInt(10)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit a transaction: %v", failed, testID, err)
			}

			if !st.Worker.SignalStartMining() {
				t.Fatalf("\t%s\tTest %d:\tShould be able to signal mining.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to signal mining.", success, testID)

			e := waitFor(t, ch, events.KindMiningResult)
			if e.Result != events.ResultSuccess {
				t.Fatalf("\t%s\tTest %d:\tShould mine the block, got %s.", failed, testID, e.Result)
			}
			t.Logf("\t%s\tTest %d:\tShould mine the block.", success, testID)

			if n := st.QueryChainLength(); n != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have a chain of length 2, got %d.", failed, testID, n)
			}
			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have drained the queue, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould extend the chain and drain the queue.", success, testID)
		}
	}
}

func TestShutdown(t *testing.T) {
	t.Log("Given the need to stop a long mining run.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the ledger shuts down while mining.", testID)
		{
			evts := events.New()
			defer evts.Shutdown()
			ch := evts.Acquire("test")

			gen := genesis.Default()
			gen.Difficulty = 64
			gen.MaxAttempts = 1 << 40

			st := newState(t, gen, evts)
			worker.Run(st, nil)

			if _, err := st.SubmitTransaction("A", "B", decimal.NewFromInt(10)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit a transaction: %v", failed, testID, err)
			}
			st.Worker.SignalStartMining()

			waitFor(t, ch, events.KindMiningProgress)
			t.Logf("\t%s\tTest %d:\tShould see mining progress.", success, testID)

			if st.Worker.SignalStartMining() {
				t.Fatalf("\t%s\tTest %d:\tShould not signal while mining.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not signal while mining.", success, testID)

			done := make(chan struct{})
			go func() {
				st.Shutdown()
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(30 * time.Second):
				t.Fatalf("\t%s\tTest %d:\tShould cancel the mining run.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould cancel the mining run.", success, testID)

			if st.IsMining() || st.QueryChainLength() != 1 || st.QueryMempoolLength() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the ledger untouched.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the ledger untouched.", success, testID)

			st.Shutdown()
			if st.Worker.SignalStartMining() {
				t.Fatalf("\t%s\tTest %d:\tShould not signal after shutdown.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould allow a second shutdown.", success, testID)
		}
	}
}

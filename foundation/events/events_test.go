package events_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out ledger notifications.")
	{
		evts := events.New()

		testID := 0
		t.Logf("\tTest %d:\tWhen two receivers are registered.", testID)
		{
			a := evts.Acquire("a")
			b := evts.Acquire("b")

			if evts.Acquire("a") != a {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same channel for the same id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the same channel for the same id.", success, testID)

			evts.Send(events.ChainChanged(2))

			for _, ch := range []chan events.Event{a, b} {
				e := <-ch
				if e.Kind != events.KindChainChanged || e.Length != 2 {
					t.Fatalf("\t%s\tTest %d:\tShould receive the chain change: %+v", failed, testID, e)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould receive the chain change on every channel.", success, testID)

			if err := evts.Release("a"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to release a channel: %v", failed, testID, err)
			}
			if _, open := <-a; open {
				t.Fatalf("\t%s\tTest %d:\tShould close a released channel.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould close a released channel.", success, testID)

			if err := evts.Release("a"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not release an unknown id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not release an unknown id.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a receiver is not draining its channel.", testID)
		{
			ch := evts.Acquire("slow")
			for i := 0; i < 500; i++ {
				evts.Send(events.MiningProgress(0.5, 1))
			}

			if len(ch) != cap(ch) {
				t.Fatalf("\t%s\tTest %d:\tShould drop events once the buffer is full.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould drop events once the buffer is full.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen building mining results.", testID)
		{
			if events.MiningResult(true).Result != events.ResultSuccess || events.MiningResult(false).Result != events.ResultExhausted {
				t.Fatalf("\t%s\tTest %d:\tShould map the outcome to a result.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould map the outcome to a result.", success, testID)
		}

		evts.Shutdown()
	}
}

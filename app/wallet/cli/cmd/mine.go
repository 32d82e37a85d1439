package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineWait time.Duration

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions and watch the progress",
	RunE: func(cmd *cobra.Command, args []string) error {

		// Listen for notifications before asking for the run so the
		// result can't be missed.
		conn, _, err := websocket.DefaultDialer.Dial(wsURL()+"/v1/events", nil)
		if err != nil {
			return fmt.Errorf("connecting to events: %w", err)
		}
		defer conn.Close()

		var signal struct {
			Started bool   `json:"started"`
			Status  string `json:"status"`
		}
		if err := post("/v1/mining/signal", nil, &signal); err != nil {
			return err
		}

		if !signal.Started {
			pterm.Warning.Println(signal.Status)
			return nil
		}

		return watchMining(conn, mineWait)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().DurationVarP(&mineWait, "wait", "w", 5*time.Minute, "How long to wait for the mining result.")
}

// watchMining renders the progress notifications until the mining result
// arrives.
func watchMining(conn *websocket.Conn, wait time.Duration) error {
	pb, err := pterm.DefaultProgressbar.WithTotal(100).WithTitle("Mining").Start()
	if err != nil {
		return err
	}

	if err := conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		pb.Stop()
		return err
	}

	for {
		var e events.Event
		if err := conn.ReadJSON(&e); err != nil {
			pb.Stop()
			return fmt.Errorf("waiting for mining result: %w", err)
		}

		switch e.Kind {
		case events.KindMiningProgress:
			if pct := int(e.Fraction * 100); pct > pb.Current {
				pb.Add(pct - pb.Current)
			}
			pb.UpdateTitle(fmt.Sprintf("Mining nonce %d", e.Nonce))

		case events.KindMiningResult:
			pb.Stop()

			if e.Result == events.ResultSuccess {
				pterm.Success.Println("Block mined.")
				return nil
			}
			pterm.Warning.Println("Attempts exhausted, transactions stay pending. Try again.")
			return nil
		}
	}
}

func wsURL() string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

package cmd

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a summary of the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats state.Stats
		if err := get("/v1/chain/stats", &stats); err != nil {
			return err
		}

		printStats(stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

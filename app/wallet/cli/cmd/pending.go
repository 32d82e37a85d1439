package cmd

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		var trans []database.Tx
		if err := get("/v1/tx/pending/list", &trans); err != nil {
			return err
		}

		printPending(trans)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

package cmd

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var blocksAccount string

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/v1/blocks/list"
		if blocksAccount != "" {
			path += "/" + blocksAccount
		}

		var blocks []database.BlockData
		if err := get(path, &blocks); err != nil {
			return err
		}

		printBlocks(blocks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVarP(&blocksAccount, "account", "a", "", "Only blocks with transactions for this account.")
}

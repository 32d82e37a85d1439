package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Print the confirmed balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var bal struct {
			Account string          `json:"account"`
			Balance decimal.Decimal `json:"balance"`
		}
		if err := get("/v1/balances/list/"+args[0], &bal); err != nil {
			return err
		}

		printBalance(bal.Account, bal.Balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the pending queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amount, err)
		}

		req := struct {
			Sender   string          `json:"sender"`
			Receiver string          `json:"receiver"`
			Amount   decimal.Decimal `json:"amount"`
		}{
			Sender:   from,
			Receiver: to,
			Amount:   value,
		}

		var tx database.Tx
		if err := post("/v1/tx/submit", req, &tx); err != nil {
			return err
		}

		pterm.Success.Printfln("Transaction added: %s", tx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sending account.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Receiving account.")
	sendCmd.Flags().StringVarP(&amount, "amount", "v", "", "Amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

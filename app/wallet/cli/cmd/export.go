package cmd

import (
	"encoding/json"
	"os"

	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var exp state.Export
		if err := get("/v1/chain/export", &exp); err != nil {
			return err
		}

		if err := writeExport(exportFile, exp); err != nil {
			return err
		}

		pterm.Success.Printfln("Ledger written to %s", exportFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFile, "out", "o", "blockchain.json", "File to write.")
}

func writeExport(path string, exp state.Export) error {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the chain is intact",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Valid  bool   `json:"valid"`
			Reason string `json:"reason"`
		}
		if err := get("/v1/chain/valid", &resp); err != nil {
			return err
		}

		printValidity(resp.Valid, resp.Reason)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

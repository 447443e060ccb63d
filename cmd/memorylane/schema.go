package main

import (
	"encoding/json"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schemas of the backend contracts",
	Args:  cobra.NoArgs,
	// Printing schemas needs neither configuration nor logging.
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(agents.Contracts())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

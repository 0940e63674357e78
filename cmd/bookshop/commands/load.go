package commands

import (
	"github.com/marshallshelly/pebble-bookshop/cmd/bookshop/output"
	"github.com/spf13/cobra"
)

// loadCmd replaces the database contents with the fixture
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load test data",
	Long: `Drop and recreate every table, then load the fixture file.

All existing rows are lost. The load runs in one transaction: if any record
fails, nothing changes.

Examples:
  bookshop load
  bookshop load --fixture ./my_data.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := newOperations(cmd)
		if err != nil {
			return err
		}
		result, err := ops.Load(cmd.Context())
		if err != nil {
			return err
		}
		printLoadResult(output.New(cmd.OutOrStdout()), result, verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

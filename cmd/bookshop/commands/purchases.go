package commands

import (
	"github.com/marshallshelly/pebble-bookshop/internal/sales"
	"github.com/spf13/cobra"
)

var jsonOutput bool

// purchasesCmd prints the purchases report for one publisher
var purchasesCmd = &cobra.Command{
	Use:   "purchases <publisher>",
	Short: "Find purchases by publisher",
	Long: `List every sale of a publisher's books, oldest first.

The publisher is matched by id when the argument is all digits, otherwise by
exact name.

Examples:
  bookshop purchases Питер
  bookshop purchases 2
  bookshop purchases 2 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := newOperations(cmd)
		if err != nil {
			return err
		}
		report, err := ops.Purchases(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return sales.WriteJSON(cmd.OutOrStdout(), report)
		}
		return sales.WriteText(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(purchasesCmd)
	purchasesCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

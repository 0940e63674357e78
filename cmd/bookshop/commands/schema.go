package commands

import (
	"fmt"

	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/pkg/migration"
	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/spf13/cobra"
)

// schemaCmd prints the reset DDL
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema reset SQL",
	Long: `Print the DROP and CREATE statements the load action runs, in order.
No database connection is made.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.NewRegistry()
		if err := models.RegisterWith(reg); err != nil {
			return err
		}
		tables, err := reg.Ordered()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), migration.NewPlanner().ResetScript(tables))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

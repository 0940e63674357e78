package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/marshallshelly/pebble-bookshop/cmd/bookshop/output"
	"github.com/marshallshelly/pebble-bookshop/cmd/bookshop/tui"
	"github.com/marshallshelly/pebble-bookshop/internal/app"
	"github.com/marshallshelly/pebble-bookshop/internal/database"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL       string
	dbUser      string
	dbPassword  string
	dbName      string
	dbHost      string
	dbPort      int
	dbSSLMode   string
	fixturePath string
	verbose     bool
	useTUI      bool
)

// newOperations builds the operations a command runs. Tests replace it.
var newOperations = func(cmd *cobra.Command) (app.Operations, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	runner := &app.Runner{Config: cfg, URL: dbURL, FixturePath: fixturePath}
	if verbose {
		stderr := output.New(cmd.ErrOrStderr())
		runner.Logger = func(sql string, args []any) {
			stderr.Muted("%s %v", sql, args)
		}
	}
	return runner, nil
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookshop",
	Short: "Bookshop sales reporter",
	Long: `Bookshop keeps a small PostgreSQL schema of publishers, books, shops,
stock and sales, loads it from a JSON fixture and reports every sale of a
publisher's books.

Run without a subcommand for the interactive menu:
  1. Load test data
  2. Find purchases by publisher

Connection settings come from DB_USER, DB_PASSWORD, DB_NAME, DB_HOST, DB_PORT
and DB_SSLMODE, or from the matching --db-* flags.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := newOperations(cmd)
		if err != nil {
			return err
		}
		if useTUI {
			return tui.Run(cmd.Context(), ops)
		}
		return runMenu(cmd.Context(), cmd.InOrStdin(), output.New(cmd.OutOrStdout()), ops)
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.New(os.Stderr).Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbURL, "db", "", "Database connection URL (overrides the other --db-* flags)")
	flags.StringVar(&dbUser, "db-user", "", "Database user (env "+database.EnvUser+", default postgres)")
	flags.StringVar(&dbPassword, "db-password", "", "Database password (env "+database.EnvPassword+", default postgres)")
	flags.StringVar(&dbName, "db-name", "", "Database name (env "+database.EnvName+", default test_db)")
	flags.StringVar(&dbHost, "db-host", "", "Database host (env "+database.EnvHost+", default localhost)")
	flags.IntVar(&dbPort, "db-port", 0, "Database port (env "+database.EnvPort+", default 5432)")
	flags.StringVar(&dbSSLMode, "db-sslmode", "", "SSL mode (env "+database.EnvSSLMode+", default prefer)")
	flags.StringVar(&fixturePath, "fixture", app.DefaultFixturePath, "Fixture file loaded by the load action")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print SQL statements to stderr")

	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Run the menu as an interactive terminal UI")
}

// resolveConfig layers flags that were set over the DB_* environment.
func resolveConfig(cmd *cobra.Command) (*runtime.Config, error) {
	cfg, err := database.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db-user") {
		cfg.User = dbUser
	}
	if flags.Changed("db-password") {
		cfg.Password = dbPassword
	}
	if flags.Changed("db-name") {
		cfg.Database = dbName
	}
	if flags.Changed("db-host") {
		cfg.Host = dbHost
	}
	if flags.Changed("db-port") {
		if dbPort <= 0 || dbPort > 65535 {
			return nil, fmt.Errorf("invalid --db-port %d", dbPort)
		}
		cfg.Port = dbPort
	}
	if flags.Changed("db-sslmode") {
		cfg.SSLMode = dbSSLMode
	}
	return cfg, nil
}

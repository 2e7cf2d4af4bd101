package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tendant/itembank/pkg/itembank/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "itembank-admin",
		Short: "Item bank admin CLI",
		Long: `Item bank administration tool.

Works directly against the database configured through the environment
(DATABASE_TYPE, DATABASE_URL, DB_SCHEMA, SQLITE_PATH). Configuration can
be loaded from a .env file in the current directory.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewSeedCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewDraftsCommand())

	return rootCmd
}

// openStore opens the configured database without migrating it.
func openStore(ctx context.Context) (*config.ServerConfig, *config.Store, error) {
	cfg, err := config.Load(config.WithEnv(), config.WithAutoMigrate(false))
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

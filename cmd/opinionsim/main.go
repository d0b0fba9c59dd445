package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/opinion-core/internal/store"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opinionsim",
		Short: "Opinion dynamics simulator",
		Long: `opinionsim simulates opinion formation among agents linked by a random
trust network, first without influence and then under competing players,
and reports which players won the resulting consensus.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// openStore opens the SQLite store at dbPath, or an in-memory store when
// dbPath is empty
func openStore(dbPath string) (store.RunStore, error) {
	if dbPath == "" {
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}
	return s, nil
}

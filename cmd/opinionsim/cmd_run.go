package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/opinion-core/internal/experiment"
	"github.com/GoSim-25-26J-441/opinion-core/internal/report"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/config"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/logger"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

const defaultConfigPath = "config/lr5.yaml"

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print its report",
		Long: `Run both experiments of a simulation config and print the trust matrix,
the opinion vectors before and after consensus, and the winning players.

Examples:
  opinionsim run --config config/lr5.yaml
  opinionsim run --config config/lr5.yaml --db runs.db --json
  opinionsim run --cpuprofile ./profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			dbPath, _ := cmd.Flags().GetString("db")
			runID, _ := cmd.Flags().GetString("run-id")
			profileDir, _ := cmd.Flags().GetString("cpuprofile")
			jsonOut, _ := cmd.Flags().GetBool("json")
			logLevel, _ := cmd.Flags().GetString("log-level")

			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}

			if runID == "" {
				runID = utils.GenerateRunID()
			} else if err := utils.ValidateRunID(runID); err != nil {
				return err
			}

			if profileDir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook).Stop()
			}

			var log *slog.Logger
			if jsonOut {
				log = logger.New(logLevel, cmd.ErrOrStderr())
			} else {
				log = logger.NewPretty(logLevel, cmd.ErrOrStderr())
			}
			logger.SetDefault(log)

			runs, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer runs.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, runErr := experiment.NewRunner(log).Execute(ctx, runID, cfg)
			if run == nil {
				return runErr
			}

			if dbPath != "" {
				if err := runs.Save(context.Background(), run); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				log.Info("run saved", "run_id", run.ID, "db", dbPath)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(run); err != nil {
					return err
				}
			} else if err := report.NewPrinter(cmd.OutOrStdout(), cfg.Formatting.GetScale()).PrintRun(run); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().String("config", defaultConfigPath, "Path to the simulation config")
	cmd.Flags().String("db", "", "SQLite database to save the run into")
	cmd.Flags().String("run-id", "", "Run ID (generated when empty)")
	cmd.Flags().String("cpuprofile", "", "Write a CPU profile into this directory")
	return cmd
}

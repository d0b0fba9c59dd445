package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/config"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a simulation config file",
		Long: `Validate a simulation config file without running it.

Examples:
  opinionsim validate --config config/lr5.yaml
  opinionsim validate --config my.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"valid":        true,
					"agents_count": cfg.AgentsCount,
					"players":      len(cfg.Influenced.PlayersOpinions),
					"seed":         cfg.Seed,
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d agents, %d players, seed %d\n",
				path, cfg.AgentsCount, len(cfg.Influenced.PlayersOpinions), cfg.Seed)
			return err
		},
	}

	cmd.Flags().String("config", defaultConfigPath, "Path to the simulation config")
	return cmd
}

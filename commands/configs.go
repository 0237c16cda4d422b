package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naolab/cambench/benchmark"
	"github.com/naolab/cambench/video"
)

// configsCmd lists the built-in benchmark configuration matrix.
var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List the benchmark configurations",
	Run: func(cmd *cobra.Command, args []string) {
		for _, cfg := range benchmark.DefaultConfigs() {
			res, err := video.ResolutionByIndex(cfg.Resolution)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s index %d @ %d fps\n",
					cfg.Label, cfg.Resolution, cfg.TargetFPS)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s @ %d fps\n", cfg.Label, res, cfg.TargetFPS)
		}
	},
}

func init() {
	rootCmd.AddCommand(configsCmd)
}

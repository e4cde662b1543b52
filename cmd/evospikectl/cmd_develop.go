package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"evospike/pkg/evospike"
)

func newDevelopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "develop",
		Short: "Develop a representation from the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if name, _ := cmd.Flags().GetString("model"); name != "" {
				cfg.Model.Name = name
			}
			if n, _ := cmd.Flags().GetInt("neurons"); n > 0 {
				cfg.Model.Neurons = n
			}
			seed, _ := cmd.Flags().GetInt64("seed")
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Simulation.Seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client, err := openClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			var randomRange []float64
			if cmd.Flags().Changed("random-params") {
				randomRange, _ = cmd.Flags().GetFloat64Slice("random-params")
			}
			summary, err := client.Develop(cmd.Context(), evospike.DevelopRequest{
				Model:       cfg.Model,
				Seed:        seed,
				RandomRange: randomRange,
			})
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "developed %s (%s)\n", summary.ID, summary.Model)
			fmt.Fprintf(out, "  neurons:           %s (%s inhibitory)\n", humanize.Comma(int64(summary.Neurons)), humanize.Comma(int64(summary.Inhibitory)))
			fmt.Fprintf(out, "  connections:       %s\n", humanize.Comma(int64(summary.Connections)))
			fmt.Fprintf(out, "  input connections: %s\n", humanize.Comma(int64(summary.InputConnections)))
			fmt.Fprintf(out, "  parameters:        %d\n", summary.ParamCount)
			return nil
		},
	}
	cmd.Flags().String("model", "", "Model name (overrides config)")
	cmd.Flags().Int("neurons", 0, "Neuron count (overrides config)")
	cmd.Flags().Int64("seed", 1, "Random seed (defaults to the config seed)")
	cmd.Flags().Float64Slice("random-params", nil, "Draw every model parameter uniformly from lo,hi")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"evospike/internal/config"
	"evospike/pkg/evospike"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <representation-id>",
		Short: "Simulate a stored representation against Poisson input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			req := simulateRequest(cmd, cfg.Simulation, args[0])

			client, err := openClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s\n", summary.RunID)
			fmt.Fprintf(out, "  ticks:         %s\n", humanize.Comma(int64(summary.Steps)))
			fmt.Fprintf(out, "  spikes:        %s\n", humanize.Comma(int64(summary.TotalSpikes)))
			fmt.Fprintf(out, "  mean rate:     %s spikes/neuron/tick\n", humanize.FtoaWithDigits(summary.MeanRate, 4))
			fmt.Fprintf(out, "  output spikes: %v\n", summary.OutputSpikes)
			fmt.Fprintf(out, "  fitness:       %.4f\n", summary.Fitness)
			if summary.ArrowPath != "" {
				size := "?"
				if info, err := os.Stat(summary.ArrowPath); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
				}
				fmt.Fprintf(out, "  record:        %s (%s)\n", summary.ArrowPath, size)
			}
			return nil
		},
	}
	cmd.Flags().Int("steps", 0, "Ticks to simulate (overrides config)")
	cmd.Flags().Int64("seed", 0, "Random seed (overrides config)")
	cmd.Flags().String("synapse", "", "Synapse representation: matrix or map")
	cmd.Flags().Bool("arrow", false, "Export the per-tick record as an Arrow IPC file (defaults to simulation.record)")
	cmd.Flags().Float64Slice("target-rates", nil, "Score output firing rates against these targets, one per output")
	return cmd
}

// simulateRequest layers the simulate flags over the simulation config.
func simulateRequest(cmd *cobra.Command, sim config.SimulationConfig, id string) evospike.SimulateRequest {
	if cmd.Flags().Changed("steps") {
		sim.Steps, _ = cmd.Flags().GetInt("steps")
	}
	if cmd.Flags().Changed("seed") {
		sim.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("synapse") {
		sim.SynapseKind, _ = cmd.Flags().GetString("synapse")
	}
	if cmd.Flags().Changed("arrow") {
		sim.Record, _ = cmd.Flags().GetBool("arrow")
	}
	var targets []float64
	if cmd.Flags().Changed("target-rates") {
		targets, _ = cmd.Flags().GetFloat64Slice("target-rates")
	}
	return evospike.SimulateRequest{
		RepresentationID: id,
		Seed:             sim.Seed,
		Steps:            sim.Steps,
		NeuronKind:       sim.NeuronKind,
		SynapseKind:      sim.SynapseKind,
		KernelKind:       sim.KernelKind,
		Tau:              sim.Tau,
		NoiseRange:       sim.NoiseRange,
		BackgroundFiring: sim.BackgroundFiring,
		BackgroundRate:   sim.BackgroundRate,
		InputRate:        sim.InputRate,
		TargetRates:      targets,
		ExportArrow:      sim.Record,
	}
}

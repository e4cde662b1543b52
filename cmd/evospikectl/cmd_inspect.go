package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <representation-id>",
		Short: "Show a stored representation and its runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := openClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			info, err := client.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			rep := info.Representation
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "representation %s (%s)\n", rep.ID, rep.Model)
			fmt.Fprintf(out, "  neurons:     %s, %d inputs, %d outputs\n", humanize.Comma(int64(rep.N)), rep.Env.Inputs, rep.Env.Outputs)
			fmt.Fprintf(out, "  connections: %s recurrent, %s input\n", humanize.Comma(int64(rep.Connections())), humanize.Comma(int64(rep.InputConnections())))
			if showMatrix, _ := cmd.Flags().GetBool("matrix"); showMatrix {
				fmt.Fprintf(out, "  network_cm:\n%s\n", rep.NetworkCM)
			}
			for _, run := range info.Runs {
				when := run.CreatedAtUTC
				if ts, err := time.Parse(time.RFC3339Nano, run.CreatedAtUTC); err == nil {
					when = humanize.Time(ts)
				}
				fmt.Fprintf(out, "  run %s  seed=%d ticks=%s spikes=%s  %s\n",
					run.ID, run.Seed, humanize.Comma(int64(run.Steps)), humanize.Comma(int64(run.TotalSpikes)), when)
			}
			return nil
		},
	}
	cmd.Flags().Bool("matrix", false, "Print the recurrent connectivity mask")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"evospike/internal/config"
	"evospike/internal/logging"
	"evospike/pkg/evospike"
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
		Use:   "evospikectl",
		Short: "Develop and simulate spiking networks",
		Long: `evospikectl develops spiking-network representations from a
connectivity model, simulates them against Poisson input and keeps the
results in a local store.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (.yaml, .ini or .json)")
	rootCmd.PersistentFlags().String("store", "", "Store backend: memory or sqlite")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")
	rootCmd.PersistentFlags().String("exports", "", "Directory for exported records")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newDevelopCmd(),
		newSimulateCmd(),
		newInspectCmd(),
		newListCmd(),
		newDeleteCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evospikectl version %s\n", version)
			return nil
		},
	}
}

// loadConfig reads --config when given and applies the global overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
	}
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		cfg.Store.Path = path
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func openClient(cmd *cobra.Command, cfg config.Config) (*evospike.Client, error) {
	exports, _ := cmd.Flags().GetString("exports")
	client, err := evospike.New(evospike.Options{
		StoreKind:  cfg.Store.Kind,
		DBPath:     cfg.Store.Path,
		ExportsDir: exports,
		Logger:     logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()),
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(cmd.Context()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

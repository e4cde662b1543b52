package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "net.yaml", `
model:
  name: block
  neurons: 40
  outputs: 2
  proportions: [0.5, 0.25, 0.25]
  inhibitory: [2]
simulation:
  steps: 250
  seed: 7
  synapse_kind: map
  noise_range: [-1, 1]
store:
  kind: sqlite
  path: runs.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model.Name != "block" || cfg.Model.Neurons != 40 || len(cfg.Model.Proportions) != 3 {
		t.Fatalf("unexpected model config %+v", cfg.Model)
	}
	if cfg.Simulation.Steps != 250 || cfg.Simulation.Seed != 7 || cfg.Simulation.SynapseKind != "map" {
		t.Fatalf("unexpected simulation config %+v", cfg.Simulation)
	}
	if cfg.Simulation.NeuronKind != "izhikevich" {
		t.Fatalf("expected default neuron kind to survive, got %q", cfg.Simulation.NeuronKind)
	}
	if cfg.Model.Inputs != Default().Model.Inputs {
		t.Fatalf("expected default inputs, got %d", cfg.Model.Inputs)
	}
	if cfg.Store.Kind != "sqlite" || cfg.Store.Path != "runs.db" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadINI(t *testing.T) {
	path := writeFile(t, "net.ini", `
[model]
name = sbm_geometric
neurons = 60
inputs = 5
outputs = 3
proportions = 0.75, 0.25
inhibitory = 1
radius = 0.5

[simulation]
steps = 500
background_firing = true
background_rate = 0.02

[logging]
level = debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model.Neurons != 60 || cfg.Model.Inputs != 5 || cfg.Model.Outputs != 3 {
		t.Fatalf("unexpected sizes %+v", cfg.Model)
	}
	if len(cfg.Model.Proportions) != 2 || cfg.Model.Proportions[0] != 0.75 {
		t.Fatalf("unexpected proportions %v", cfg.Model.Proportions)
	}
	if !cfg.Simulation.BackgroundFiring || cfg.Simulation.BackgroundRate != 0.02 {
		t.Fatalf("unexpected simulation %+v", cfg.Simulation)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadJSONAndEncode(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Steps = 42
	data, err := cfg.Encode("json")
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	loaded, err := Load(writeFile(t, "net.json", string(data)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Simulation.Steps != 42 {
		t.Fatalf("steps: got=%d want=42", loaded.Simulation.Steps)
	}

	data, err = cfg.Encode("yaml")
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	loaded, err = Load(writeFile(t, "net.yml", string(data)))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if loaded.Simulation.Steps != 42 || loaded.Model.Name != cfg.Model.Name {
		t.Fatalf("yaml round trip lost fields: %+v", loaded)
	}
	if _, err := cfg.Encode("toml"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeFile(t, "net.toml", "x = 1")); err == nil {
		t.Fatal("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "model: [")); err == nil {
		t.Fatal("expected parse error")
	}
	_, err := Load(writeFile(t, "invalid.yaml", "model:\n  outputs: 500\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Model.Name = "" }},
		{"negative neurons", func(c *Config) { c.Model.Neurons = -1 }},
		{"negative inhibitory group", func(c *Config) { c.Model.Inhibitory = []int{-1} }},
		{"inhibitory out of range", func(c *Config) { c.Model.Inhibitory = []int{5} }},
		{"input probability", func(c *Config) { c.Model.InputProbability = 1.5 }},
		{"negative input weight", func(c *Config) { c.Model.InputWeight = -1 }},
		{"negative steps", func(c *Config) { c.Simulation.Steps = -1 }},
		{"noise bounds", func(c *Config) { c.Simulation.NoiseRange = []float64{1} }},
		{"background rate", func(c *Config) { c.Simulation.BackgroundRate = 2 }},
		{"input rate", func(c *Config) { c.Simulation.InputRate = -0.1 }},
		{"sqlite without path", func(c *Config) { c.Store.Kind = "sqlite" }},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateBlockWithoutProportions(t *testing.T) {
	cfg := Default()
	cfg.Model.Name = "block"
	cfg.Model.Proportions = nil
	cfg.Model.Inhibitory = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("block model needs no proportions: %v", err)
	}
}

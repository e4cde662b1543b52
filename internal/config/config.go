// Package config loads driver configuration for developing and simulating
// networks. The core packages never read files; they receive the parsed
// numeric fields.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

// ModelConfig describes the developmental model that produces a
// representation.
type ModelConfig struct {
	Name        string    `yaml:"name" json:"name" ini:"name"`
	Neurons     int       `yaml:"neurons" json:"neurons" ini:"neurons"`
	Inputs      int       `yaml:"inputs" json:"inputs" ini:"inputs"`
	Outputs     int       `yaml:"outputs" json:"outputs" ini:"outputs"`
	Proportions []float64 `yaml:"proportions" json:"proportions" ini:"proportions" delim:","`
	// Inhibitory lists which of the proportion groups are inhibitory.
	Inhibitory       []int   `yaml:"inhibitory" json:"inhibitory" ini:"inhibitory" delim:","`
	Radius           float64 `yaml:"radius" json:"radius" ini:"radius"`
	Width            float64 `yaml:"width" json:"width" ini:"width"`
	Height           float64 `yaml:"height" json:"height" ini:"height"`
	InputProbability float64 `yaml:"input_probability" json:"input_probability" ini:"input_probability"`
	InputWeight      float64 `yaml:"input_weight" json:"input_weight" ini:"input_weight"`
	BlockSize        int     `yaml:"block_size" json:"block_size" ini:"block_size"`
}

// SimulationConfig selects engine components and the run length.
type SimulationConfig struct {
	Steps            int       `yaml:"steps" json:"steps" ini:"steps"`
	Seed             int64     `yaml:"seed" json:"seed" ini:"seed"`
	NeuronKind       string    `yaml:"neuron_kind" json:"neuron_kind" ini:"neuron_kind"`
	SynapseKind      string    `yaml:"synapse_kind" json:"synapse_kind" ini:"synapse_kind"`
	KernelKind       string    `yaml:"kernel_kind" json:"kernel_kind" ini:"kernel_kind"`
	Tau              float64   `yaml:"tau" json:"tau" ini:"tau"`
	NoiseRange       []float64 `yaml:"noise_range" json:"noise_range" ini:"noise_range" delim:","`
	BackgroundFiring bool      `yaml:"background_firing" json:"background_firing" ini:"background_firing"`
	BackgroundRate   float64   `yaml:"background_rate" json:"background_rate" ini:"background_rate"`
	InputRate        float64   `yaml:"input_rate" json:"input_rate" ini:"input_rate"`
	// Record exports each run's per-tick record as an Arrow file.
	Record bool `yaml:"record" json:"record" ini:"record"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" json:"kind" ini:"kind"`
	Path string `yaml:"path" json:"path" ini:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" ini:"level"`
	Format string `yaml:"format" json:"format" ini:"format"`
}

type Config struct {
	Model      ModelConfig      `yaml:"model" json:"model"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// Default returns a small excitatory/inhibitory network driven by Poisson
// input for 1000 ticks.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Name:             "sbm_geometric",
			Neurons:          100,
			Inputs:           10,
			Outputs:          4,
			Proportions:      []float64{0.8, 0.2},
			Inhibitory:       []int{1},
			Radius:           0.35,
			Width:            1,
			Height:           1,
			InputProbability: 0.2,
			InputWeight:      0.5,
			BlockSize:        10,
		},
		Simulation: SimulationConfig{
			Steps:          1000,
			Seed:           1,
			NeuronKind:     "izhikevich",
			SynapseKind:    "matrix",
			KernelKind:     "exponential",
			Tau:            10,
			BackgroundRate: 0.01,
			InputRate:      0.05,
		},
		Store: StoreConfig{
			Kind: "memory",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a config file, picking the format from its extension
// (.yaml/.yml, .ini, .json). Fields absent from the file keep their
// Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse json config %s: %w", path, err)
		}
	case ".ini":
		if err := loadINI(path, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadINI(path string, cfg *Config) error {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", path, err)
	}
	sections := []struct {
		name   string
		target any
	}{
		{"model", &cfg.Model},
		{"simulation", &cfg.Simulation},
		{"store", &cfg.Store},
		{"logging", &cfg.Logging},
	}
	for _, s := range sections {
		if !file.HasSection(s.name) {
			continue
		}
		if err := file.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	return nil
}

// Validate checks ranges the core would otherwise reject later.
func (c Config) Validate() error {
	m := c.Model
	if m.Name == "" {
		return fmt.Errorf("%w: model name is required", ErrInvalid)
	}
	if m.Neurons < 0 || m.Inputs < 0 || m.Outputs < 0 {
		return fmt.Errorf("%w: negative model sizes", ErrInvalid)
	}
	if m.Outputs > m.Neurons {
		return fmt.Errorf("%w: %d outputs exceed %d neurons", ErrInvalid, m.Outputs, m.Neurons)
	}
	for _, g := range m.Inhibitory {
		if g < 0 || (len(m.Proportions) > 0 && g >= len(m.Proportions)) {
			return fmt.Errorf("%w: inhibitory group %d out of range", ErrInvalid, g)
		}
	}
	if m.InputProbability < 0 || m.InputProbability > 1 {
		return fmt.Errorf("%w: input probability %v outside [0,1]", ErrInvalid, m.InputProbability)
	}
	if m.InputWeight < 0 {
		return fmt.Errorf("%w: negative input weight", ErrInvalid)
	}

	s := c.Simulation
	if s.Steps < 0 {
		return fmt.Errorf("%w: negative step count", ErrInvalid)
	}
	if len(s.NoiseRange) != 0 && len(s.NoiseRange) != 2 {
		return fmt.Errorf("%w: noise range needs 2 bounds", ErrInvalid)
	}
	if s.BackgroundRate < 0 || s.BackgroundRate > 1 {
		return fmt.Errorf("%w: background rate %v outside [0,1]", ErrInvalid, s.BackgroundRate)
	}
	if s.InputRate < 0 || s.InputRate > 1 {
		return fmt.Errorf("%w: input rate %v outside [0,1]", ErrInvalid, s.InputRate)
	}

	switch c.Store.Kind {
	case "", "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("%w: sqlite store requires a path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unsupported store kind %q", ErrInvalid, c.Store.Kind)
	}
	return nil
}

// Encode renders the config as "yaml" or "json".
func (c Config) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(c)
	case "json":
		return json.MarshalIndent(c, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
}

// Package develop turns parameter vectors into network representations by
// composing connectivity-algebra objects.
package develop

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"evospike/internal/algebra"
	"evospike/internal/config"
	"evospike/internal/model"
	"evospike/internal/params"
)

var (
	ErrModelExists   = errors.New("model already registered")
	ErrModelNotFound = errors.New("model not found")
)

// Model develops one representation per call. Stochastic structure is drawn
// from rng, so repeated calls with the same parameters give fresh samples.
type Model interface {
	Name() string
	// Schema returns the default parameter set; its shape fixes the length of
	// the flat vectors accepted through params.Set.Assign.
	Schema() params.Set
	Develop(rng *rand.Rand, ps params.Set, env model.Env) (*model.Representation, error)
}

// Factory builds a model from driver configuration.
type Factory func(cfg config.ModelConfig) (Model, error)

var modelRegistry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

func init() {
	initializeBuiltInModels()
}

func initializeBuiltInModels() {
	MustRegisterModel(SBMGeometricName, func(cfg config.ModelConfig) (Model, error) {
		return NewSBMGeometric(cfg)
	})
	MustRegisterModel(BlockName, func(cfg config.ModelConfig) (Model, error) {
		return NewBlock(cfg)
	})
}

func RegisterModel(name string, factory Factory) error {
	if name == "" {
		return errors.New("model name is required")
	}
	if factory == nil {
		return errors.New("model factory is required")
	}
	modelRegistry.mu.Lock()
	defer modelRegistry.mu.Unlock()
	if _, exists := modelRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrModelExists, name)
	}
	modelRegistry.m[name] = factory
	return nil
}

func MustRegisterModel(name string, factory Factory) {
	if err := RegisterModel(name, factory); err != nil {
		panic(err)
	}
}

// NewModel builds the model named by cfg.Name.
func NewModel(cfg config.ModelConfig) (Model, error) {
	modelRegistry.mu.RLock()
	factory, ok := modelRegistry.m[cfg.Name]
	modelRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.Name)
	}
	return factory(cfg)
}

func ListModels() []string {
	modelRegistry.mu.RLock()
	defer modelRegistry.mu.RUnlock()
	names := make([]string, 0, len(modelRegistry.m))
	for name := range modelRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetModelRegistryForTests() {
	modelRegistry.mu.Lock()
	modelRegistry.m = make(map[string]Factory)
	modelRegistry.mu.Unlock()
	initializeBuiltInModels()
}

func neuronsFromVectors(vecs [][]float64) []model.Neuron {
	out := make([]model.Neuron, len(vecs))
	for i, v := range vecs {
		out[i] = model.Neuron{
			ID:         i,
			Dynamics:   append([]float64(nil), v[:4]...),
			Inhibitory: algebra.IsInhibitory(v),
		}
	}
	return out
}

func checkEnv(neurons int, env model.Env) error {
	if env.Inputs < 0 || env.Outputs < 0 {
		return fmt.Errorf("negative port counts %+v", env)
	}
	if env.Outputs > neurons {
		return fmt.Errorf("%d outputs exceed %d neurons", env.Outputs, neurons)
	}
	return nil
}

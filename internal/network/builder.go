// Package network builds runnable spiking networks from representations and
// steps them tick by tick.
package network

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"evospike/internal/linalg"
	"evospike/internal/logging"
	"evospike/internal/model"
	"evospike/internal/neuron"
	"evospike/internal/synapse"
)

const (
	// CurrentScale maps normalized synaptic weights onto neuron input current.
	CurrentScale = 18.0
	// DefaultBackgroundRate is the per-neuron, per-tick background spike
	// probability drivers start from. Options.BackgroundRate is used as given.
	DefaultBackgroundRate = 0.01
)

var ErrInhibitoryOutput = errors.New("output neuron is inhibitory")

// Options select the neuron and synapse implementations and the optional
// stochastic terms of a network.
type Options struct {
	NeuronKind  string
	SynapseKind string
	KernelKind  string
	Tau         float64
	RiseTau     float64

	// NoiseRange is an optional [lo, hi) interval of uniform current noise
	// added independently to every neuron each tick.
	NoiseRange []float64

	// BackgroundFiring ORs in spontaneous spikes with probability
	// BackgroundRate per neuron and tick. A zero rate fires nothing.
	BackgroundFiring bool
	BackgroundRate   float64

	Record bool
	Logger *slog.Logger
	// Rand drives noise and background firing. Required when either is on.
	Rand *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Tau == 0 {
		o.Tau = synapse.DefaultTau
	}
	if o.RiseTau == 0 {
		o.RiseTau = synapse.DefaultRiseTau
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

func (o Options) validate() error {
	if len(o.NoiseRange) != 0 {
		if len(o.NoiseRange) != 2 {
			return fmt.Errorf("noise range needs 2 bounds, got %d", len(o.NoiseRange))
		}
		if o.NoiseRange[0] > o.NoiseRange[1] {
			return fmt.Errorf("noise range [%v, %v) is inverted", o.NoiseRange[0], o.NoiseRange[1])
		}
	}
	if o.BackgroundRate < 0 || o.BackgroundRate > 1 {
		return fmt.Errorf("background rate %v outside [0,1]", o.BackgroundRate)
	}
	if o.Rand == nil && (len(o.NoiseRange) != 0 || o.BackgroundFiring) {
		return errors.New("noise and background firing require a random source")
	}
	return nil
}

// Build instantiates a runnable network from a representation. The
// representation is only read; the network owns all of its state.
func Build(rep *model.Representation, opts Options) (*Network, error) {
	if rep == nil {
		return nil, errors.New("representation is required")
	}
	if err := rep.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	dynamics := make([][]float64, rep.N)
	for i, n := range rep.Neurons {
		dynamics[i] = n.Dynamics
	}
	types := rep.NeuronTypes()
	for i := rep.NRec(); i < rep.N; i++ {
		if types[i] != 1 {
			return nil, fmt.Errorf("%w: neuron %d", ErrInhibitoryOutput, i)
		}
	}

	recurrentW, err := linalg.MulElem(rep.NetworkCM, rep.NetworkW)
	if err != nil {
		return nil, fmt.Errorf("build recurrent weights: %w", err)
	}
	inputW, err := linalg.MulElem(rep.InputCM, rep.InputW)
	if err != nil {
		return nil, fmt.Errorf("build input weights: %w", err)
	}

	neurons, err := neuron.New(opts.NeuronKind, dynamics)
	if err != nil {
		return nil, fmt.Errorf("build neurons: %w", err)
	}
	recurrent, err := newSynapse(opts, recurrentW, types)
	if err != nil {
		return nil, fmt.Errorf("build recurrent synapse: %w", err)
	}
	inputTypes := make([]float64, rep.Env.Inputs)
	for i := range inputTypes {
		inputTypes[i] = 1
	}
	input, err := newSynapse(opts, inputW, inputTypes)
	if err != nil {
		return nil, fmt.Errorf("build input synapse: %w", err)
	}

	if rep.Env.Inputs > 0 && rep.InputCM.AllZero() {
		opts.Logger.Warn("network has no input connections", "id", rep.ID, "inputs", rep.Env.Inputs, "neurons", rep.N)
	}
	opts.Logger.Debug("network built",
		"id", rep.ID,
		"neurons", rep.N,
		"outputs", rep.Env.Outputs,
		"connections", rep.Connections(),
		"input_connections", rep.InputConnections(),
		"neuron_kind", opts.NeuronKind,
		"synapse_kind", opts.SynapseKind,
	)

	net := &Network{
		env:       rep.Env,
		n:         rep.N,
		nRec:      rep.NRec(),
		neurons:   neurons,
		recurrent: recurrent,
		input:     input,
		opts:      opts,
		spikes:    make([]bool, rep.N),
		current:   make([]float64, rep.N),
	}
	if opts.Record {
		net.record = NewRecord()
	}
	return net, nil
}

func newSynapse(opts Options, weights *linalg.Matrix, types []float64) (synapse.Synapse, error) {
	w, err := synapse.NewWeighting(opts.SynapseKind, weights, types)
	if err != nil {
		return nil, err
	}
	return synapse.NewKernel(opts.KernelKind, w, opts.Tau, opts.RiseTau)
}

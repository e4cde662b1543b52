// Package synapse turns presynaptic spike vectors into postsynaptic currents.
//
// Matrix and Map are instantaneous weightings (current = W·ns with
// ns = spikes·type); Exponential and BiExponential add a decaying current
// state on top of either weighting.
package synapse

import (
	"errors"
	"fmt"

	"evospike/internal/linalg"
)

const (
	// DefaultTau is the decay constant of the exponential kernel, in ticks.
	DefaultTau = 10.0
	// DefaultRiseTau is the rise constant of the bi-exponential kernel.
	DefaultRiseTau = 2.0
)

var ErrTypes = errors.New("invalid neuron types")

// Synapse converts a presynaptic spike vector into a postsynaptic current.
type Synapse interface {
	// Step consumes a spike vector of length pre and returns a current of
	// length post. The returned slice is owned by the caller.
	Step(spikes []bool) []float64
	Reset()
	Dims() (post, pre int)
}

// Weighting is an instantaneous synapse, usable as the kernel input of a
// stateful synapse.
type Weighting interface {
	Synapse
	// Apply writes W·ns into out.
	Apply(ns []float64, out []float64)
	// Types is the ±1 sign of each presynaptic neuron.
	Types() []float64
}

const (
	KindMatrix = "matrix"
	KindMap    = "map"

	KernelNone          = "none"
	KernelExponential   = "exponential"
	KernelBiExponential = "biexponential"
)

// NewWeighting builds the named representation from a dense weight matrix.
func NewWeighting(kind string, weights *linalg.Matrix, types []float64) (Weighting, error) {
	switch kind {
	case "", KindMatrix:
		return NewMatrix(weights, types)
	case KindMap:
		return NewMap(weights, types)
	default:
		return nil, fmt.Errorf("unsupported synapse representation: %s", kind)
	}
}

// NewKernel wraps a weighting in the named current kernel.
func NewKernel(kernel string, w Weighting, tau, riseTau float64) (Synapse, error) {
	switch kernel {
	case "", KernelExponential:
		return NewExponential(w, tau)
	case KernelBiExponential:
		return NewBiExponential(w, riseTau, tau)
	case KernelNone:
		return w, nil
	default:
		return nil, fmt.Errorf("unsupported synapse kernel: %s", kernel)
	}
}

func checkTypes(types []float64, pre int) error {
	if len(types) != pre {
		return fmt.Errorf("%w: %d types for %d presynaptic neurons", ErrTypes, len(types), pre)
	}
	for i, t := range types {
		if t != 1 && t != -1 {
			return fmt.Errorf("%w: neuron %d has type %v", ErrTypes, i, t)
		}
	}
	return nil
}

func checkSpikes(spikes []bool, pre int) {
	if len(spikes) != pre {
		panic(fmt.Sprintf("synapse: spike vector has %d entries, want %d", len(spikes), pre))
	}
}

// signed computes ns = spikes·types into dst.
func signed(dst []float64, spikes []bool, types []float64) {
	for j, s := range spikes {
		if s {
			dst[j] = types[j]
		} else {
			dst[j] = 0
		}
	}
}

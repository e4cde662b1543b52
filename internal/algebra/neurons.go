package algebra

import (
	"fmt"
	"math/rand"
)

// NeuronParamCount is the length of a neuron parameter vector: four dynamical
// parameters followed by the inhibitory flag.
const NeuronParamCount = 5

// InhibitoryIndex is the position of the inhibitory flag in a parameter vector.
const InhibitoryIndex = 4

// NeuronSet maps a neuron index to its parameter vector.
type NeuronSet interface {
	Params(rng *rand.Rand, i int) []float64
}

type constantParams []float64

func (c constantParams) Params(_ *rand.Rand, _ int) []float64 {
	return append([]float64(nil), c...)
}

// ConstantParams gives every neuron the same vector.
func ConstantParams(params []float64) NeuronSet {
	return constantParams(append([]float64(nil), params...))
}

type tableParams [][]float64

func (t tableParams) Params(_ *rand.Rand, i int) []float64 {
	if i < 0 || i >= len(t) {
		panic(fmt.Sprintf("algebra: parameter row %d out of range [0,%d)", i, len(t)))
	}
	return append([]float64(nil), t[i]...)
}

// TableParams indexes rows directly, typically one row per neuron type.
func TableParams(rows [][]float64) NeuronSet {
	out := make(tableParams, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

type groupParams struct {
	label Label
	inner NeuronSet
}

func (g groupParams) Params(rng *rand.Rand, i int) []float64 {
	return g.inner.Params(rng, g.label.Of(i))
}

// NGroup lifts a neuron set over group ids to neuron indices.
func NGroup(label Label, ns NeuronSet) NeuronSet { return groupParams{label: label, inner: ns} }

// IsInhibitory reads the inhibitory flag of a parameter vector.
func IsInhibitory(params []float64) bool {
	return len(params) > InhibitoryIndex && params[InhibitoryIndex] > 0.5
}

package synapse

import "evospike/internal/linalg"

// Matrix is a dense instantaneous synapse.
type Matrix struct {
	weights *linalg.Matrix
	types   []float64
	ns      []float64
}

// NewMatrix takes a post×pre weight matrix and one ±1 type per presynaptic
// neuron.
func NewMatrix(weights *linalg.Matrix, types []float64) (*Matrix, error) {
	_, pre := weights.Dims()
	if err := checkTypes(types, pre); err != nil {
		return nil, err
	}
	return &Matrix{
		weights: weights.Clone(),
		types:   append([]float64(nil), types...),
		ns:      make([]float64, pre),
	}, nil
}

func (m *Matrix) Dims() (int, int) {
	return m.weights.Dims()
}

func (m *Matrix) Types() []float64 {
	return append([]float64(nil), m.types...)
}

func (m *Matrix) Step(spikes []bool) []float64 {
	post, pre := m.weights.Dims()
	checkSpikes(spikes, pre)
	signed(m.ns, spikes, m.types)
	out := make([]float64, post)
	m.Apply(m.ns, out)
	return out
}

// Apply sums each row left to right, skipping silent presynaptic neurons.
// Map accumulates in the same order, so both produce identical bits.
func (m *Matrix) Apply(ns []float64, out []float64) {
	post, _ := m.weights.Dims()
	for i := 0; i < post; i++ {
		row := m.weights.Row(i)
		sum := 0.0
		for j, x := range ns {
			if x == 0 {
				continue
			}
			sum += row[j] * x
		}
		out[i] = sum
	}
}

func (m *Matrix) Reset() {}

// Package neuron implements point-neuron models stepped once per tick.
package neuron

import (
	"errors"
	"fmt"
)

var ErrParams = errors.New("invalid neuron parameters")

// Model is a population of point neurons advanced one tick at a time.
type Model interface {
	Len() int
	// Step integrates one tick with the given input current and returns the
	// spike vector. len(current) must equal Len().
	Step(current []float64) []bool
	Potentials() []float64
	Reset()
}

const (
	KindIzhikevich = "izhikevich"
	KindLapicque   = "lapicque"
)

// New constructs the named model from per-neuron dynamics vectors.
func New(kind string, dynamics [][]float64) (Model, error) {
	switch kind {
	case "", KindIzhikevich:
		return NewIzhikevich(dynamics)
	case KindLapicque:
		return NewLapicque(dynamics)
	default:
		return nil, fmt.Errorf("unsupported neuron model: %s", kind)
	}
}

func checkCurrent(n int, current []float64) {
	if len(current) != n {
		panic(fmt.Sprintf("neuron: input current has %d entries for %d neurons", len(current), n))
	}
}

func columns(dynamics [][]float64, width int) ([][]float64, error) {
	cols := make([][]float64, width)
	for k := range cols {
		cols[k] = make([]float64, len(dynamics))
	}
	for i, row := range dynamics {
		if len(row) < width {
			return nil, fmt.Errorf("%w: neuron %d has %d dynamics values, want %d", ErrParams, i, len(row), width)
		}
		for k := 0; k < width; k++ {
			cols[k][i] = row[k]
		}
	}
	return cols, nil
}

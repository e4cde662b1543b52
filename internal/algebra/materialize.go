package algebra

import (
	"fmt"
	"math/rand"

	"evospike/internal/linalg"
)

// MaskMatrix evaluates m over [0,rows)×[0,cols) in row-major order into a 0/1
// matrix. rows == cols gives the square n×n form.
func MaskMatrix(rng *rand.Rand, m Mask, rows, cols int) *linalg.Matrix {
	out := linalg.Zeros(rows, cols)
	data := out.RawData()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.Has(rng, i, j) {
				data[i*cols+j] = 1
			}
		}
	}
	return out
}

// ValueMatrix evaluates v over [0,rows)×[0,cols) in row-major order.
func ValueMatrix(rng *rand.Rand, v ValueSet, rows, cols int) *linalg.Matrix {
	out := linalg.Zeros(rows, cols)
	data := out.RawData()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = v.Value(rng, i, j)
		}
	}
	return out
}

// Vectors evaluates ns for every index in [0, n).
func Vectors(rng *rand.Rand, ns NeuronSet, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = ns.Params(rng, i)
	}
	return out
}

// CheckVectors verifies every vector has the expected length.
func CheckVectors(vecs [][]float64, width int) error {
	for i, v := range vecs {
		if len(v) != width {
			return fmt.Errorf("neuron %d: parameter vector has %d entries, want %d", i, len(v), width)
		}
	}
	return nil
}

// Package params reshapes the flat real vectors produced by an external
// optimizer into named scalar, vector and matrix parameters, and back.
package params

import (
	"errors"
	"fmt"
	"math/rand"

	"evospike/internal/linalg"
)

var (
	ErrLength   = errors.New("parameter vector length mismatch")
	ErrNotFound = errors.New("parameter not found")
	ErrKind     = errors.New("parameter kind mismatch")
)

type Kind string

const (
	KindScalar Kind = "scalar"
	KindVector Kind = "vector"
	KindMatrix Kind = "matrix"
)

// Parameter is one named entry of a schema. Scalars are 1×1, vectors 1×n.
type Parameter struct {
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Values []float64 `json:"values"`
}

func (p Parameter) Size() int {
	return p.Rows * p.Cols
}

func Scalar(name string, v float64) Parameter {
	return Parameter{Name: name, Kind: KindScalar, Rows: 1, Cols: 1, Values: []float64{v}}
}

func Vector(name string, values []float64) Parameter {
	return Parameter{Name: name, Kind: KindVector, Rows: 1, Cols: len(values), Values: append([]float64(nil), values...)}
}

func Matrix(name string, m *linalg.Matrix) Parameter {
	rows, cols := m.Dims()
	return Parameter{Name: name, Kind: KindMatrix, Rows: rows, Cols: cols, Values: append([]float64(nil), m.RawData()...)}
}

// Set is an ordered schema of parameters. The order fixes the layout of the
// linearized vector.
type Set struct {
	Params []Parameter `json:"params"`
}

func NewSet(params ...Parameter) Set {
	out := Set{Params: make([]Parameter, len(params))}
	for i, p := range params {
		p.Values = append([]float64(nil), p.Values...)
		out.Params[i] = p
	}
	return out
}

// Len is the total number of reals in the linearized form.
func (s Set) Len() int {
	n := 0
	for _, p := range s.Params {
		n += p.Size()
	}
	return n
}

// Linearize concatenates all parameter values in schema order.
func (s Set) Linearize() []float64 {
	out := make([]float64, 0, s.Len())
	for _, p := range s.Params {
		out = append(out, p.Values...)
	}
	return out
}

// Assign returns a copy of the schema filled from flat.
func (s Set) Assign(flat []float64) (Set, error) {
	if len(flat) != s.Len() {
		return Set{}, fmt.Errorf("%w: got=%d want=%d", ErrLength, len(flat), s.Len())
	}
	out := Set{Params: make([]Parameter, len(s.Params))}
	offset := 0
	for i, p := range s.Params {
		size := p.Size()
		p.Values = append([]float64(nil), flat[offset:offset+size]...)
		out.Params[i] = p
		offset += size
	}
	return out, nil
}

// Random fills the schema with independent uniform draws in [lo, hi).
func (s Set) Random(rng *rand.Rand, lo, hi float64) Set {
	flat := make([]float64, s.Len())
	for i := range flat {
		flat[i] = lo + rng.Float64()*(hi-lo)
	}
	out, _ := s.Assign(flat)
	return out
}

func (s Set) Equal(other Set) bool {
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i, p := range s.Params {
		q := other.Params[i]
		if p.Name != q.Name || p.Kind != q.Kind || p.Rows != q.Rows || p.Cols != q.Cols || len(p.Values) != len(q.Values) {
			return false
		}
		for k := range p.Values {
			if p.Values[k] != q.Values[k] {
				return false
			}
		}
	}
	return true
}

func (s Set) lookup(name string, kind Kind) (Parameter, error) {
	for _, p := range s.Params {
		if p.Name != name {
			continue
		}
		if p.Kind != kind {
			return Parameter{}, fmt.Errorf("%w: %s is %s, want %s", ErrKind, name, p.Kind, kind)
		}
		return p, nil
	}
	return Parameter{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (s Set) Scalar(name string) (float64, error) {
	p, err := s.lookup(name, KindScalar)
	if err != nil {
		return 0, err
	}
	return p.Values[0], nil
}

func (s Set) Vector(name string) ([]float64, error) {
	p, err := s.lookup(name, KindVector)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), p.Values...), nil
}

func (s Set) Matrix(name string) (*linalg.Matrix, error) {
	p, err := s.lookup(name, KindMatrix)
	if err != nil {
		return nil, err
	}
	return linalg.NewMatrix(p.Rows, p.Cols, append([]float64(nil), p.Values...)), nil
}

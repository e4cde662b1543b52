package algebra

import (
	"math"
	"math/rand"

	"evospike/internal/linalg"
)

// ValueSet assigns a real value to every ordered index pair.
type ValueSet interface {
	Value(rng *rand.Rand, i, j int) float64
}

// ValueFunc adapts a plain function to ValueSet.
type ValueFunc func(rng *rand.Rand, i, j int) float64

func (f ValueFunc) Value(rng *rand.Rand, i, j int) float64 {
	return f(rng, i, j)
}

type constantValues float64

func (c constantValues) Value(_ *rand.Rand, _, _ int) float64 { return float64(c) }

func Constant(v float64) ValueSet { return constantValues(v) }

type tableValues struct{ table *linalg.Matrix }

func (t tableValues) Value(_ *rand.Rand, i, j int) float64 { return t.table.At(i, j) }

// Table looks pairs up in a fixed matrix, typically k×k over group ids.
func Table(m *linalg.Matrix) ValueSet { return tableValues{table: m.Clone()} }

type uniformValues struct{ lo, hi float64 }

func (u uniformValues) Value(rng *rand.Rand, _, _ int) float64 {
	if rng == nil {
		panic("algebra: stochastic leaf evaluated without a random source")
	}
	return u.lo + rng.Float64()*(u.hi-u.lo)
}

// Uniform draws an independent value in [lo, hi) on every evaluation.
func Uniform(lo, hi float64) ValueSet { return uniformValues{lo: lo, hi: hi} }

type groupValues struct {
	label Label
	inner ValueSet
}

func (g groupValues) Value(rng *rand.Rand, i, j int) float64 {
	return g.inner.Value(rng, g.label.Of(i), g.label.Of(j))
}

// GroupValues lifts a value set over group ids to neuron indices.
func GroupValues(label Label, v ValueSet) ValueSet { return groupValues{label: label, inner: v} }

type maskedValues struct {
	mask  Mask
	inner ValueSet
}

func (m maskedValues) Value(rng *rand.Rand, i, j int) float64 {
	if !m.mask.Has(rng, i, j) {
		return 0
	}
	return m.inner.Value(rng, i, j)
}

// Masked zeroes v wherever m has no connection.
func Masked(m Mask, v ValueSet) ValueSet { return maskedValues{mask: m, inner: v} }

type absValues struct{ inner ValueSet }

func (a absValues) Value(rng *rand.Rand, i, j int) float64 {
	return math.Abs(a.inner.Value(rng, i, j))
}

func Abs(v ValueSet) ValueSet { return absValues{inner: v} }

type scaledValues struct {
	factor float64
	inner  ValueSet
}

func (s scaledValues) Value(rng *rand.Rand, i, j int) float64 {
	return s.factor * s.inner.Value(rng, i, j)
}

func Scale(factor float64, v ValueSet) ValueSet { return scaledValues{factor: factor, inner: v} }

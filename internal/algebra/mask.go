// Package algebra describes network connectivity lazily as functions over
// neuron indices. Masks, value sets and neuron sets are combined without
// evaluating anything; the materializer samples them into concrete arrays.
//
// Every evaluation takes the caller's *rand.Rand. Deterministic leaves ignore
// it, stochastic leaves draw from it on every call, so materializing the same
// expression twice yields two independent realizations.
package algebra

import (
	"fmt"
	"math/rand"
)

// Mask reports whether a directed connection from j (pre) to i (post) exists.
type Mask interface {
	Has(rng *rand.Rand, i, j int) bool
}

// MaskFunc adapts a plain function to Mask.
type MaskFunc func(rng *rand.Rand, i, j int) bool

func (f MaskFunc) Has(rng *rand.Rand, i, j int) bool {
	return f(rng, i, j)
}

type constMask bool

func (c constMask) Has(_ *rand.Rand, _, _ int) bool { return bool(c) }

func Full() Mask  { return constMask(true) }
func Empty() Mask { return constMask(false) }

type identityMask struct{}

func (identityMask) Has(_ *rand.Rand, i, j int) bool { return i == j }

func Identity() Mask { return identityMask{} }

type binaryOp uint8

const (
	opUnion binaryOp = iota
	opDifference
	opIntersection
)

type combinedMask struct {
	op          binaryOp
	left, right Mask
}

func (m combinedMask) Has(rng *rand.Rand, i, j int) bool {
	switch m.op {
	case opUnion:
		return m.left.Has(rng, i, j) || m.right.Has(rng, i, j)
	case opDifference:
		return m.left.Has(rng, i, j) && !m.right.Has(rng, i, j)
	default:
		return m.left.Has(rng, i, j) && m.right.Has(rng, i, j)
	}
}

// Union connects a pair when either operand does.
func Union(a, b Mask) Mask { return combinedMask{op: opUnion, left: a, right: b} }

// Difference connects a pair when a does and b does not.
func Difference(a, b Mask) Mask { return combinedMask{op: opDifference, left: a, right: b} }

// Intersection connects a pair when both operands do.
func Intersection(a, b Mask) Mask { return combinedMask{op: opIntersection, left: a, right: b} }

// NoSelf removes self-loops from m.
func NoSelf(m Mask) Mask { return Difference(m, Identity()) }

type notMask struct{ inner Mask }

func (m notMask) Has(rng *rand.Rand, i, j int) bool { return !m.inner.Has(rng, i, j) }

func Not(m Mask) Mask { return notMask{inner: m} }

type blockMask struct {
	size  int
	inner Mask
}

func (m blockMask) Has(rng *rand.Rand, i, j int) bool {
	return m.inner.Has(rng, i/m.size, j/m.size)
}

// BlockExpand replicates a coarse mask so that each coarse entry covers a
// size×size block of fine indices.
func BlockExpand(size int, m Mask) Mask {
	if size <= 0 {
		panic(fmt.Sprintf("algebra: block size must be positive, got %d", size))
	}
	return blockMask{size: size, inner: m}
}

type randomMask float64

func (p randomMask) Has(rng *rand.Rand, _, _ int) bool {
	return bernoulli(rng, float64(p))
}

// RandomMask connects every pair independently with probability p, redrawn
// on each evaluation.
func RandomMask(p float64) Mask { return randomMask(p) }

type probabilityMask struct{ values ValueSet }

func (m probabilityMask) Has(rng *rand.Rand, i, j int) bool {
	return bernoulli(rng, m.values.Value(rng, i, j))
}

// P turns a value set of probabilities into a mask by one Bernoulli draw per
// pair and evaluation.
func P(v ValueSet) Mask { return probabilityMask{values: v} }

type groupMask struct {
	label Label
	inner Mask
}

func (m groupMask) Has(rng *rand.Rand, i, j int) bool {
	return m.inner.Has(rng, m.label.Of(i), m.label.Of(j))
}

// Group lifts a mask over group ids to a mask over neuron indices.
func Group(label Label, m Mask) Mask { return groupMask{label: label, inner: m} }

// SBM is the stochastic block model: pair (i,j) connects with probability
// probs(label(i), label(j)).
func SBM(label Label, probs ValueSet) Mask {
	return P(GroupValues(label, probs))
}

type discMask struct {
	threshold float64
	metric    Metric
}

func (m discMask) Has(_ *rand.Rand, i, j int) bool {
	return m.metric.Distance(i, j) < m.threshold
}

// Disc keeps pairs strictly closer than threshold under metric.
func Disc(threshold float64, metric Metric) Mask {
	return discMask{threshold: threshold, metric: metric}
}

// bernoulli skips the draw at exact 0 and 1 so those cases stay independent
// of the generator.
func bernoulli(rng *rand.Rand, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	if rng == nil {
		panic("algebra: stochastic leaf evaluated without a random source")
	}
	return rng.Float64() < p
}

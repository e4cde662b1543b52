package algebra

import (
	"errors"
	"fmt"
	"math"
)

// DistributionTolerance bounds how far a probability vector may sum above one.
const DistributionTolerance = 1e-6

var ErrDistribution = errors.New("invalid probability distribution")

// Label maps a neuron index to its group id.
type Label interface {
	Of(i int) int
}

// Distribute splits n units across groups in proportion to p using the
// largest-remainder method. Each group first gets floor(p[k]*n); the rest go
// one at a time to the group whose allocated fraction lags its target the
// most, ties resolved to the lowest index. The counts always sum to n.
func Distribute(n int, p []float64) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrDistribution, n)
	}
	if err := checkDistribution(p); err != nil {
		return nil, err
	}
	counts := make([]int, len(p))
	if n == 0 {
		return counts, nil
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: no groups for %d units", ErrDistribution, n)
	}

	total := 0
	for k, pk := range p {
		counts[k] = int(math.Floor(pk * float64(n)))
		total += counts[k]
	}
	deficit := func(k int) float64 {
		return p[k] - float64(counts[k])/float64(n)
	}
	for ; total < n; total++ {
		best := 0
		for k := 1; k < len(p); k++ {
			if deficit(k) > deficit(best) {
				best = k
			}
		}
		counts[best]++
	}
	// A sum slightly above one can overshoot by rounding; take back from the
	// group furthest above its target.
	for ; total > n; total-- {
		worst := -1
		for k := range p {
			if counts[k] == 0 {
				continue
			}
			if worst < 0 || deficit(k) < deficit(worst) {
				worst = k
			}
		}
		counts[worst]--
	}
	return counts, nil
}

func checkDistribution(p []float64) error {
	sum := 0.0
	for k, pk := range p {
		if math.IsNaN(pk) || pk < 0 {
			return fmt.Errorf("%w: p[%d]=%v", ErrDistribution, k, pk)
		}
		sum += pk
	}
	if sum > 1+DistributionTolerance {
		return fmt.Errorf("%w: sums to %v", ErrDistribution, sum)
	}
	return nil
}

// TableLabel is a label backed by an explicit id per index.
type TableLabel []int

func (t TableLabel) Of(i int) int {
	if i < 0 || i >= len(t) {
		panic(fmt.Sprintf("algebra: label index %d out of range [0,%d)", i, len(t)))
	}
	return t[i]
}

// Len is the number of labelled indices.
func (t TableLabel) Len() int { return len(t) }

// Counts tallies how many indices carry each id in [0, groups).
func (t TableLabel) Counts(groups int) []int {
	out := make([]int, groups)
	for _, g := range t {
		if g >= 0 && g < groups {
			out[g]++
		}
	}
	return out
}

// LabelFromCounts assigns contiguous runs of indices to groups in order.
func LabelFromCounts(counts []int) TableLabel {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make(TableLabel, 0, total)
	for g, c := range counts {
		for ; c > 0; c-- {
			out = append(out, g)
		}
	}
	return out
}

// NewLabel partitions [0, n) proportionally to p.
func NewLabel(n int, p []float64) (TableLabel, error) {
	counts, err := Distribute(n, p)
	if err != nil {
		return nil, err
	}
	return LabelFromCounts(counts), nil
}

// WithTrailing appends count indices labelled group, used to give the output
// block its own type.
func (t TableLabel) WithTrailing(count, group int) TableLabel {
	out := make(TableLabel, len(t), len(t)+count)
	copy(out, t)
	for ; count > 0; count-- {
		out = append(out, group)
	}
	return out
}

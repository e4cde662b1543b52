package synapse

import (
	"fmt"
	"sort"

	"evospike/internal/linalg"
)

// Edge is one outgoing connection of a presynaptic neuron.
type Edge struct {
	To     int
	Weight float64
}

// Map is a sparse instantaneous synapse stored as an adjacency list from each
// presynaptic neuron to its targets.
type Map struct {
	post  int
	out   [][]Edge
	types []float64
	ns    []float64
}

// NewMap builds the adjacency list from a dense post×pre matrix, keeping only
// non-zero weights.
func NewMap(weights *linalg.Matrix, types []float64) (*Map, error) {
	post, pre := weights.Dims()
	edges := make(map[int][]Edge)
	for i := 0; i < post; i++ {
		for j, w := range weights.Row(i) {
			if w != 0 {
				edges[j] = append(edges[j], Edge{To: i, Weight: w})
			}
		}
	}
	return NewMapFromEdges(post, pre, edges, types)
}

// NewMapFromEdges builds a map synapse directly from adjacency lists keyed by
// presynaptic index.
func NewMapFromEdges(post, pre int, edges map[int][]Edge, types []float64) (*Map, error) {
	if err := checkTypes(types, pre); err != nil {
		return nil, err
	}
	out := make([][]Edge, pre)
	for from, list := range edges {
		if from < 0 || from >= pre {
			return nil, fmt.Errorf("edge source %d out of range [0,%d)", from, pre)
		}
		for _, e := range list {
			if e.To < 0 || e.To >= post {
				return nil, fmt.Errorf("edge %d->%d target out of range [0,%d)", from, e.To, post)
			}
		}
		sorted := append([]Edge(nil), list...)
		sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].To < sorted[b].To })
		out[from] = sorted
	}
	return &Map{
		post:  post,
		out:   out,
		types: append([]float64(nil), types...),
		ns:    make([]float64, pre),
	}, nil
}

func (m *Map) Dims() (int, int) {
	return m.post, len(m.out)
}

func (m *Map) Types() []float64 {
	return append([]float64(nil), m.types...)
}

// Edges is the number of stored connections.
func (m *Map) Edges() int {
	n := 0
	for _, list := range m.out {
		n += len(list)
	}
	return n
}

func (m *Map) Step(spikes []bool) []float64 {
	checkSpikes(spikes, len(m.out))
	signed(m.ns, spikes, m.types)
	out := make([]float64, m.post)
	m.Apply(m.ns, out)
	return out
}

func (m *Map) Apply(ns []float64, out []float64) {
	for i := range out {
		out[i] = 0
	}
	for j, x := range ns {
		if x == 0 {
			continue
		}
		for _, e := range m.out[j] {
			out[e.To] += e.Weight * x
		}
	}
}

func (m *Map) Reset() {}

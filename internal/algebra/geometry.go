package algebra

import (
	"fmt"
	"math"
	"math/rand"
)

// Coordinates places neuron i in the plane.
type Coordinates interface {
	At(i int) (x, y float64)
}

// Metric is a distance between two indices.
type Metric interface {
	Distance(i, j int) float64
}

// Point is a planar position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CoordinateTable holds one fixed point per index.
type CoordinateTable []Point

func (c CoordinateTable) At(i int) (float64, float64) {
	if i < 0 || i >= len(c) {
		panic(fmt.Sprintf("algebra: coordinate index %d out of range [0,%d)", i, len(c)))
	}
	return c[i].X, c[i].Y
}

// RandomCoordinates scatters n points uniformly over a width×height box. The
// layout is drawn once here, so every pair sees consistent positions.
func RandomCoordinates(rng *rand.Rand, n int, width, height float64) CoordinateTable {
	out := make(CoordinateTable, n)
	for i := range out {
		out[i] = Point{X: rng.Float64() * width, Y: rng.Float64() * height}
	}
	return out
}

type gridCoordinates struct {
	cols    int
	spacing float64
}

func (g gridCoordinates) At(i int) (float64, float64) {
	return float64(i%g.cols) * g.spacing, float64(i/g.cols) * g.spacing
}

// GridCoordinates lays indices out row by row on a grid with cols columns.
func GridCoordinates(cols int, spacing float64) Coordinates {
	if cols <= 0 {
		panic(fmt.Sprintf("algebra: grid needs at least one column, got %d", cols))
	}
	return gridCoordinates{cols: cols, spacing: spacing}
}

type euclidean struct{ post, pre Coordinates }

func (e euclidean) Distance(i, j int) float64 {
	xi, yi := e.post.At(i)
	xj, yj := e.pre.At(j)
	return math.Hypot(xi-xj, yi-yj)
}

// DistanceMetric is the Euclidean distance between post(i) and pre(j). For
// recurrent masks both sides are the same layout.
func DistanceMetric(post, pre Coordinates) Metric {
	return euclidean{post: post, pre: pre}
}

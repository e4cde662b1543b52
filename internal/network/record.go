package network

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	SeriesPotentials = "Potentials"
	SeriesSpikes     = "Spikes"
)

// Record is an append-only per-tick time series of potentials and spikes.
type Record struct {
	potentials [][]float64
	spikes     [][]bool
}

func NewRecord() *Record {
	return &Record{}
}

// Append stores copies of one tick's potentials and spikes.
func (r *Record) Append(potentials []float64, spikes []bool) {
	r.potentials = append(r.potentials, append([]float64(nil), potentials...))
	r.spikes = append(r.spikes, append([]bool(nil), spikes...))
}

// Extend appends every tick of other.
func (r *Record) Extend(other *Record) {
	for t := range other.potentials {
		r.Append(other.potentials[t], other.spikes[t])
	}
}

// Len is the number of recorded ticks.
func (r *Record) Len() int {
	return len(r.spikes)
}

// Width is the number of neurons per tick, or 0 for an empty record.
func (r *Record) Width() int {
	if len(r.spikes) == 0 {
		return 0
	}
	return len(r.spikes[0])
}

// Potentials returns a copy of the per-tick potentials.
func (r *Record) Potentials() [][]float64 {
	out := make([][]float64, len(r.potentials))
	for t, row := range r.potentials {
		out[t] = append([]float64(nil), row...)
	}
	return out
}

// Spikes returns a copy of the per-tick spike vectors.
func (r *Record) Spikes() [][]bool {
	out := make([][]bool, len(r.spikes))
	for t, row := range r.spikes {
		out[t] = append([]bool(nil), row...)
	}
	return out
}

// Series returns the named series as float rows; spikes map to 0/1.
func (r *Record) Series(key string) ([][]float64, error) {
	switch key {
	case SeriesPotentials:
		out := make([][]float64, len(r.potentials))
		for t, row := range r.potentials {
			out[t] = append([]float64(nil), row...)
		}
		return out, nil
	case SeriesSpikes:
		out := make([][]float64, len(r.spikes))
		for t, row := range r.spikes {
			out[t] = spikeFloats(row)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown record series: %s", key)
	}
}

// SpikeCounts is the number of spikes per neuron over the record.
func (r *Record) SpikeCounts() []int {
	counts := make([]int, r.Width())
	for _, row := range r.spikes {
		for i, s := range row {
			if s {
				counts[i]++
			}
		}
	}
	return counts
}

// TotalSpikes is the number of spikes over all neurons and ticks.
func (r *Record) TotalSpikes() int {
	total := 0
	for _, row := range r.spikes {
		total += int(floats.Sum(spikeFloats(row)))
	}
	return total
}

// FiringRates is the per-neuron spike probability per tick.
func (r *Record) FiringRates() []float64 {
	counts := r.SpikeCounts()
	rates := make([]float64, len(counts))
	if r.Len() == 0 {
		return rates
	}
	for i, c := range counts {
		rates[i] = float64(c)
	}
	floats.Scale(1/float64(r.Len()), rates)
	return rates
}

// MeanPotential is the per-neuron mean membrane potential over the record.
func (r *Record) MeanPotential() []float64 {
	width := r.Width()
	means := make([]float64, width)
	if r.Len() == 0 {
		return means
	}
	column := make([]float64, r.Len())
	for i := 0; i < width; i++ {
		for t, row := range r.potentials {
			column[t] = row[i]
		}
		means[i] = stat.Mean(column, nil)
	}
	return means
}

type recordJSON struct {
	Potentials [][]float64 `json:"potentials"`
	Spikes     [][]bool    `json:"spikes"`
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{Potentials: r.potentials, Spikes: r.spikes})
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.Potentials) != len(raw.Spikes) {
		return fmt.Errorf("record has %d potential rows and %d spike rows", len(raw.Potentials), len(raw.Spikes))
	}
	r.potentials, r.spikes = raw.Potentials, raw.Spikes
	return nil
}

func spikeFloats(row []bool) []float64 {
	out := make([]float64, len(row))
	for i, s := range row {
		if s {
			out[i] = 1
		}
	}
	return out
}

package network

import (
	"fmt"

	"evospike/internal/model"
	"evospike/internal/neuron"
	"evospike/internal/synapse"
)

// Network is a runnable spiking network. It is not safe for concurrent use;
// independent networks can be stepped in parallel.
type Network struct {
	env  model.Env
	n    int
	nRec int

	neurons   neuron.Model
	recurrent synapse.Synapse
	input     synapse.Synapse
	opts      Options

	spikes  []bool
	current []float64
	record  *Record
	ticks   int
}

// Env returns the port counts of the network.
func (n *Network) Env() model.Env {
	return n.env
}

// Len is the number of neurons, output block included.
func (n *Network) Len() int {
	return n.n
}

// Ticks is the number of steps taken since the last reset.
func (n *Network) Ticks() int {
	return n.ticks
}

// Step advances the network one tick with the given external input spikes
// and returns the new spike vector of every neuron. It panics if len(input)
// differs from Env().Inputs.
func (n *Network) Step(input []bool) []bool {
	if len(input) != n.env.Inputs {
		panic(fmt.Sprintf("network: input has %d entries, want %d", len(input), n.env.Inputs))
	}
	rec := n.recurrent.Step(n.spikes)
	ext := n.input.Step(input)
	for i := range n.current {
		c := rec[i]
		if i < n.nRec {
			c += ext[i]
		}
		n.current[i] = c * CurrentScale
	}
	if r := n.opts.NoiseRange; len(r) == 2 {
		span := r[1] - r[0]
		for i := range n.current {
			n.current[i] += r[0] + span*n.opts.Rand.Float64()
		}
	}

	spikes := n.neurons.Step(n.current)
	if n.opts.BackgroundFiring {
		for i := range spikes {
			if n.opts.Rand.Float64() < n.opts.BackgroundRate {
				spikes[i] = true
			}
		}
	}
	copy(n.spikes, spikes)
	n.ticks++

	if n.record != nil {
		n.record.Append(n.neurons.Potentials(), spikes)
	}
	return spikes
}

// Run steps the network once per row of inputs and returns the record of
// the run. inputs must be steps × Env().Inputs. When recording is off a
// fresh record is still filled for this run.
func (n *Network) Run(steps int, inputs [][]bool) (*Record, error) {
	if steps < 0 {
		return nil, fmt.Errorf("negative step count %d", steps)
	}
	if len(inputs) != steps {
		return nil, fmt.Errorf("input has %d rows for %d steps", len(inputs), steps)
	}
	for t, row := range inputs {
		if len(row) != n.env.Inputs {
			return nil, fmt.Errorf("input row %d has %d entries, want %d", t, len(row), n.env.Inputs)
		}
	}

	prev := n.record
	run := NewRecord()
	n.record = run
	defer func() {
		if prev != nil {
			prev.Extend(run)
		}
		n.record = prev
	}()

	for t := 0; t < steps; t++ {
		n.Step(inputs[t])
	}
	n.opts.Logger.Debug("run complete", "steps", steps, "spikes", run.TotalSpikes())
	return run, nil
}

// Spikes returns a copy of the spike vector of the last tick.
func (n *Network) Spikes() []bool {
	return append([]bool(nil), n.spikes...)
}

// OutputSpikes returns the indices, relative to the output block, of output
// neurons that fired on the last tick.
func (n *Network) OutputSpikes() []int {
	var out []int
	for i := n.nRec; i < n.n; i++ {
		if n.spikes[i] {
			out = append(out, i-n.nRec)
		}
	}
	return out
}

// Potentials returns the membrane potentials after the last tick.
func (n *Network) Potentials() []float64 {
	return n.neurons.Potentials()
}

// SetRecording toggles the network-owned record. Turning recording on keeps
// any samples already collected.
func (n *Network) SetRecording(on bool) {
	switch {
	case on && n.record == nil:
		n.record = NewRecord()
	case !on:
		n.record = nil
	}
}

// Record returns the network-owned record, or nil when recording is off.
func (n *Network) Record() *Record {
	return n.record
}

// Reset returns neuron and synapse state to rest and clears the spike state.
// Any record is kept.
func (n *Network) Reset() {
	n.neurons.Reset()
	n.recurrent.Reset()
	n.input.Reset()
	for i := range n.spikes {
		n.spikes[i] = false
	}
	n.ticks = 0
}

// Package task connects runnable networks to external spike-driven tasks.
package task

import (
	"context"
	"fmt"

	"evospike/internal/model"
)

type Fitness float64

type Trace map[string]any

// Stepper is the part of a runnable network a task drives.
type Stepper interface {
	Env() model.Env
	Step(input []bool) []bool
	OutputSpikes() []int
}

// Task feeds input spikes to a network tick by tick and scores the output
// spikes it gets back.
type Task interface {
	Name() string
	Ports() model.Env
	Input(tick int) []bool
	Consume(tick int, outputs []int)
	Result() (Fitness, Trace)
}

// Drive steps net for the given number of ticks against t. The context is
// checked between ticks; a tick always runs to completion.
func Drive(ctx context.Context, net Stepper, t Task, steps int) (Fitness, Trace, error) {
	if steps < 0 {
		return 0, nil, fmt.Errorf("negative step count %d", steps)
	}
	if got, want := net.Env(), t.Ports(); got != want {
		return 0, nil, fmt.Errorf("task %s needs ports %+v, network has %+v", t.Name(), want, got)
	}
	for tick := 0; tick < steps; tick++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, fmt.Errorf("task %s stopped at tick %d: %w", t.Name(), tick, err)
		}
		net.Step(t.Input(tick))
		t.Consume(tick, net.OutputSpikes())
	}
	fitness, trace := t.Result()
	return fitness, trace, nil
}

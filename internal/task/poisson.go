package task

import (
	"fmt"
	"math/rand"

	"evospike/internal/model"
)

// Poisson drives every input independently with probability rate per tick
// and scores the mean output firing rate.
type Poisson struct {
	env    model.Env
	rate   float64
	rng    *rand.Rand
	ticks  int
	counts []int
}

func NewPoisson(env model.Env, rate float64, rng *rand.Rand) (*Poisson, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("input rate %v outside [0,1]", rate)
	}
	if rng == nil {
		return nil, fmt.Errorf("poisson task requires a random source")
	}
	return &Poisson{env: env, rate: rate, rng: rng, counts: make([]int, env.Outputs)}, nil
}

func (p *Poisson) Name() string {
	return "poisson"
}

func (p *Poisson) Ports() model.Env {
	return p.env
}

func (p *Poisson) Input(_ int) []bool {
	in := make([]bool, p.env.Inputs)
	for i := range in {
		in[i] = p.rng.Float64() < p.rate
	}
	return in
}

func (p *Poisson) Consume(_ int, outputs []int) {
	p.ticks++
	for _, o := range outputs {
		p.counts[o]++
	}
}

// Rates is the per-output firing rate observed so far.
func (p *Poisson) Rates() []float64 {
	rates := make([]float64, len(p.counts))
	if p.ticks == 0 {
		return rates
	}
	for i, c := range p.counts {
		rates[i] = float64(c) / float64(p.ticks)
	}
	return rates
}

func (p *Poisson) Result() (Fitness, Trace) {
	rates := p.Rates()
	mean := 0.0
	total := 0
	for i, r := range rates {
		mean += r
		total += p.counts[i]
	}
	if len(rates) > 0 {
		mean /= float64(len(rates))
	}
	return Fitness(mean), Trace{
		"ticks":         p.ticks,
		"output_spikes": total,
		"output_rates":  rates,
	}
}

// RateTarget drives Poisson input and rewards outputs whose firing rates
// match fixed targets: fitness = 1 / (1 + mean squared rate error).
type RateTarget struct {
	*Poisson
	targets []float64
}

func NewRateTarget(env model.Env, rate float64, targets []float64, rng *rand.Rand) (*RateTarget, error) {
	if len(targets) != env.Outputs {
		return nil, fmt.Errorf("%d target rates for %d outputs", len(targets), env.Outputs)
	}
	p, err := NewPoisson(env, rate, rng)
	if err != nil {
		return nil, err
	}
	return &RateTarget{Poisson: p, targets: append([]float64(nil), targets...)}, nil
}

func (r *RateTarget) Name() string {
	return "rate_target"
}

func (r *RateTarget) Result() (Fitness, Trace) {
	_, trace := r.Poisson.Result()
	rates := r.Rates()
	mse := 0.0
	for i, target := range r.targets {
		d := rates[i] - target
		mse += d * d
	}
	if len(r.targets) > 0 {
		mse /= float64(len(r.targets))
	}
	trace["mse"] = mse
	return Fitness(1 / (1 + mse)), trace
}

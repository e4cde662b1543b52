package synapse

import "fmt"

// Exponential keeps a decaying current per postsynaptic neuron:
// s := s + (-s/tau + W·ns).
type Exponential struct {
	weights Weighting
	types   []float64
	tau     float64
	s       []float64
	drive   []float64
	ns      []float64
}

func NewExponential(w Weighting, tau float64) (*Exponential, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("synapse tau must be positive, got %v", tau)
	}
	post, pre := w.Dims()
	return &Exponential{
		weights: w,
		types:   w.Types(),
		tau:     tau,
		s:       make([]float64, post),
		drive:   make([]float64, post),
		ns:      make([]float64, pre),
	}, nil
}

func (e *Exponential) Dims() (int, int) {
	return e.weights.Dims()
}

func (e *Exponential) Step(spikes []bool) []float64 {
	checkSpikes(spikes, len(e.ns))
	signed(e.ns, spikes, e.types)
	e.weights.Apply(e.ns, e.drive)
	for i, s := range e.s {
		e.s[i] = s + (-s/e.tau + e.drive[i])
	}
	return append([]float64(nil), e.s...)
}

// Current returns a copy of the decaying state without stepping.
func (e *Exponential) Current() []float64 {
	return append([]float64(nil), e.s...)
}

func (e *Exponential) Reset() {
	for i := range e.s {
		e.s[i] = 0
	}
}

// BiExponential filters the drive through a rise stage before the decay
// stage, giving a difference-of-exponentials current profile:
//
//	h := h + (-h/rise + W·ns)
//	s := s + (-s/decay + h/rise)
type BiExponential struct {
	weights     Weighting
	types       []float64
	rise, decay float64
	h, s        []float64
	drive       []float64
	ns          []float64
}

func NewBiExponential(w Weighting, rise, decay float64) (*BiExponential, error) {
	if rise <= 0 || decay <= 0 {
		return nil, fmt.Errorf("synapse time constants must be positive, got rise=%v decay=%v", rise, decay)
	}
	post, pre := w.Dims()
	return &BiExponential{
		weights: w,
		types:   w.Types(),
		rise:    rise,
		decay:   decay,
		h:       make([]float64, post),
		s:       make([]float64, post),
		drive:   make([]float64, post),
		ns:      make([]float64, pre),
	}, nil
}

func (b *BiExponential) Dims() (int, int) {
	return b.weights.Dims()
}

func (b *BiExponential) Step(spikes []bool) []float64 {
	checkSpikes(spikes, len(b.ns))
	signed(b.ns, spikes, b.types)
	b.weights.Apply(b.ns, b.drive)
	for i := range b.s {
		h := b.h[i]
		b.h[i] = h + (-h/b.rise + b.drive[i])
		b.s[i] += -b.s[i]/b.decay + b.h[i]/b.rise
	}
	return append([]float64(nil), b.s...)
}

func (b *BiExponential) Reset() {
	for i := range b.s {
		b.h[i] = 0
		b.s[i] = 0
	}
}

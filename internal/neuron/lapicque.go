package neuron

import "fmt"

// Lapicque is a leaky integrate-and-fire population. Dynamics vectors are
// (tau, resistance, rest, threshold). Integration, clamping and the
// reset-next-tick rule follow the Izhikevich model.
type Lapicque struct {
	tau, r, rest, threshold []float64
	v                       []float64
	spikes                  []bool
}

func NewLapicque(dynamics [][]float64) (*Lapicque, error) {
	cols, err := columns(dynamics, 4)
	if err != nil {
		return nil, err
	}
	for i, tau := range cols[0] {
		if tau <= 0 {
			return nil, fmt.Errorf("%w: neuron %d has non-positive tau %v", ErrParams, i, tau)
		}
	}
	n := len(dynamics)
	m := &Lapicque{
		tau:       cols[0],
		r:         cols[1],
		rest:      cols[2],
		threshold: cols[3],
		v:         make([]float64, n),
		spikes:    make([]bool, n),
	}
	m.Reset()
	return m, nil
}

func (m *Lapicque) Len() int {
	return len(m.v)
}

func (m *Lapicque) Reset() {
	copy(m.v, m.rest)
	for i := range m.spikes {
		m.spikes[i] = false
	}
}

func (m *Lapicque) Step(current []float64) []bool {
	checkCurrent(len(m.v), current)
	for i := range m.v {
		v := m.v[i]
		if v >= m.threshold[i] {
			v = m.rest[i]
		}
		for s := 0; s < subSteps; s++ {
			v += subDt * (-(v - m.rest[i]) + m.r[i]*current[i]) / m.tau[i]
		}
		if v > m.threshold[i] {
			v = m.threshold[i]
		}
		m.v[i] = v
		m.spikes[i] = v >= m.threshold[i]
	}
	return append([]bool(nil), m.spikes...)
}

func (m *Lapicque) Potentials() []float64 {
	return append([]float64(nil), m.v...)
}

package neuron

const (
	// Threshold is the spike cutoff on the membrane potential in mV.
	Threshold = 30.0

	subSteps = 2
	subDt    = 0.5
)

// Izhikevich is the two-variable quadratic model with per-neuron a, b, c, d.
// A neuron that reaches Threshold reports a spike at the end of its tick and
// is reset at the start of the next one.
type Izhikevich struct {
	a, b, c, d []float64
	v, u       []float64
	spikes     []bool
}

// NewIzhikevich takes one (a, b, c, d) vector per neuron; extra trailing
// entries are ignored.
func NewIzhikevich(dynamics [][]float64) (*Izhikevich, error) {
	cols, err := columns(dynamics, 4)
	if err != nil {
		return nil, err
	}
	n := len(dynamics)
	m := &Izhikevich{
		a:      cols[0],
		b:      cols[1],
		c:      cols[2],
		d:      cols[3],
		v:      make([]float64, n),
		u:      make([]float64, n),
		spikes: make([]bool, n),
	}
	m.Reset()
	return m, nil
}

func (m *Izhikevich) Len() int {
	return len(m.v)
}

// Reset returns every neuron to v = c, u = b·c.
func (m *Izhikevich) Reset() {
	for i := range m.v {
		m.v[i] = m.c[i]
		m.u[i] = m.b[i] * m.c[i]
		m.spikes[i] = false
	}
}

func (m *Izhikevich) Step(current []float64) []bool {
	checkCurrent(len(m.v), current)
	for i := range m.v {
		v, u := m.v[i], m.u[i]
		if v >= Threshold {
			v = m.c[i]
			u += m.d[i]
		}
		for s := 0; s < subSteps; s++ {
			v += subDt * (0.04*v*v + 5*v + 140 - u + current[i])
		}
		u = m.a[i] * (m.b[i]*v - u)
		if v > Threshold {
			v = Threshold
		}
		m.v[i], m.u[i] = v, u
		m.spikes[i] = v >= Threshold
	}
	return append([]bool(nil), m.spikes...)
}

// Potentials returns a copy of the clamped membrane potentials.
func (m *Izhikevich) Potentials() []float64 {
	return append([]float64(nil), m.v...)
}

// Recovery returns a copy of the recovery variables.
func (m *Izhikevich) Recovery() []float64 {
	return append([]float64(nil), m.u...)
}

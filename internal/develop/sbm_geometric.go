package develop

import (
	"fmt"
	"math"
	"math/rand"

	"evospike/internal/algebra"
	"evospike/internal/config"
	"evospike/internal/linalg"
	"evospike/internal/model"
	"evospike/internal/params"
)

const SBMGeometricName = "sbm_geometric"

var (
	regularSpiking = []float64{0.02, 0.2, -65, 8}
	fastSpiking    = []float64{0.1, 0.2, -65, 2}
)

// SBMGeometric places neurons at random in a box, draws type-to-type
// connections from a stochastic block model and keeps only pairs within a
// connection radius. The output block is its own excitatory type, so the
// parameter matrices are (k+1)×(k+1) for k configured types.
type SBMGeometric struct {
	neurons     int
	proportions []float64
	inhibitory  map[int]bool
	width       float64
	height      float64
	radius      float64
	inputP      float64
	inputW      float64
}

func NewSBMGeometric(cfg config.ModelConfig) (*SBMGeometric, error) {
	if cfg.Neurons < 0 {
		return nil, fmt.Errorf("negative neuron count %d", cfg.Neurons)
	}
	if len(cfg.Proportions) == 0 {
		return nil, fmt.Errorf("%s needs at least one neuron type", SBMGeometricName)
	}
	if _, err := algebra.Distribute(0, cfg.Proportions); err != nil {
		return nil, err
	}
	inhibitory := make(map[int]bool, len(cfg.Inhibitory))
	for _, g := range cfg.Inhibitory {
		if g < 0 || g >= len(cfg.Proportions) {
			return nil, fmt.Errorf("inhibitory type %d out of range [0,%d)", g, len(cfg.Proportions))
		}
		inhibitory[g] = true
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &SBMGeometric{
		neurons:     cfg.Neurons,
		proportions: append([]float64(nil), cfg.Proportions...),
		inhibitory:  inhibitory,
		width:       width,
		height:      height,
		radius:      cfg.Radius,
		inputP:      cfg.InputProbability,
		inputW:      cfg.InputWeight,
	}, nil
}

func (m *SBMGeometric) Name() string {
	return SBMGeometricName
}

// Types is the number of groups including the output group.
func (m *SBMGeometric) Types() int {
	return len(m.proportions) + 1
}

func (m *SBMGeometric) Schema() params.Set {
	g := m.Types()
	dynamics := linalg.Zeros(g, 4)
	for t := 0; t < g; t++ {
		row := regularSpiking
		if m.inhibitory[t] {
			row = fastSpiking
		}
		copy(dynamics.Row(t), row)
	}
	return params.NewSet(
		params.Matrix("connect_p", constantMatrix(g, g, 0.2)),
		params.Matrix("weights", constantMatrix(g, g, 0.5)),
		params.Matrix("dynamics", dynamics),
		params.Scalar("radius", m.radius),
		params.Scalar("input_p", m.inputP),
		params.Scalar("input_w", m.inputW),
	)
}

func (m *SBMGeometric) Develop(rng *rand.Rand, ps params.Set, env model.Env) (*model.Representation, error) {
	if err := checkEnv(m.neurons, env); err != nil {
		return nil, err
	}
	g := m.Types()
	connectP, err := ps.Matrix("connect_p")
	if err != nil {
		return nil, err
	}
	weights, err := ps.Matrix("weights")
	if err != nil {
		return nil, err
	}
	dynamics, err := ps.Matrix("dynamics")
	if err != nil {
		return nil, err
	}
	if err := expectShape("connect_p", connectP, g, g); err != nil {
		return nil, err
	}
	if err := expectShape("weights", weights, g, g); err != nil {
		return nil, err
	}
	if err := expectShape("dynamics", dynamics, g, 4); err != nil {
		return nil, err
	}
	radius, err := ps.Scalar("radius")
	if err != nil {
		return nil, err
	}
	inputP, err := ps.Scalar("input_p")
	if err != nil {
		return nil, err
	}
	inputW, err := ps.Scalar("input_w")
	if err != nil {
		return nil, err
	}

	n := m.neurons
	nRec := n - env.Outputs
	base, err := algebra.NewLabel(nRec, m.proportions)
	if err != nil {
		return nil, err
	}
	label := base.WithTrailing(env.Outputs, g-1)

	rows := make([][]float64, g)
	for t := range rows {
		flag := 0.0
		if m.inhibitory[t] {
			flag = 1
		}
		rows[t] = append(append([]float64(nil), dynamics.Row(t)...), flag)
	}
	vecs := algebra.Vectors(rng, algebra.NGroup(label, algebra.TableParams(rows)), n)

	coords := algebra.RandomCoordinates(rng, n, m.width, m.height)
	mask := algebra.NoSelf(algebra.Intersection(
		algebra.SBM(label, algebra.Table(connectP)),
		algebra.Disc(math.Abs(radius), algebra.DistanceMetric(coords, coords)),
	))
	values := algebra.GroupValues(label, algebra.Abs(algebra.Table(weights)))

	networkCM := algebra.MaskMatrix(rng, mask, n, n)
	networkW := algebra.ValueMatrix(rng, values, n, n)
	inputCM := algebra.MaskMatrix(rng, algebra.RandomMask(inputP), nRec, env.Inputs)
	inputWM := algebra.ValueMatrix(rng, algebra.Constant(math.Abs(inputW)), nRec, env.Inputs)

	rep, err := model.NewRepresentation(neuronsFromVectors(vecs), networkCM, networkW, inputCM, inputWM, env)
	if err != nil {
		return nil, err
	}
	rep.Model = m.Name()
	return rep, nil
}

func constantMatrix(rows, cols int, v float64) *linalg.Matrix {
	out := linalg.Zeros(rows, cols)
	data := out.RawData()
	for i := range data {
		data[i] = v
	}
	return out
}

func expectShape(name string, m *linalg.Matrix, rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d", linalg.ErrShape, name, r, c, rows, cols)
	}
	return nil
}

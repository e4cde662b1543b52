package develop

import (
	"fmt"
	"math"
	"math/rand"

	"evospike/internal/algebra"
	"evospike/internal/config"
	"evospike/internal/model"
	"evospike/internal/params"
)

const BlockName = "block"

// Block draws a coarse block-to-block connection pattern and expands it so
// every neuron in a block shares the same targets. All neurons are
// excitatory with shared dynamics.
type Block struct {
	neurons   int
	blockSize int
	inputP    float64
	inputW    float64
}

func NewBlock(cfg config.ModelConfig) (*Block, error) {
	if cfg.Neurons < 0 {
		return nil, fmt.Errorf("negative neuron count %d", cfg.Neurons)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("%s needs a positive block size, got %d", BlockName, cfg.BlockSize)
	}
	return &Block{
		neurons:   cfg.Neurons,
		blockSize: cfg.BlockSize,
		inputP:    cfg.InputProbability,
		inputW:    cfg.InputWeight,
	}, nil
}

func (m *Block) Name() string {
	return BlockName
}

// Blocks is the number of coarse blocks; the last one may be partial.
func (m *Block) Blocks() int {
	return (m.neurons + m.blockSize - 1) / m.blockSize
}

func (m *Block) Schema() params.Set {
	return params.NewSet(
		params.Scalar("block_p", 0.3),
		params.Scalar("max_weight", 1),
		params.Vector("dynamics", regularSpiking),
		params.Scalar("input_p", m.inputP),
		params.Scalar("input_w", m.inputW),
	)
}

func (m *Block) Develop(rng *rand.Rand, ps params.Set, env model.Env) (*model.Representation, error) {
	if err := checkEnv(m.neurons, env); err != nil {
		return nil, err
	}
	blockP, err := ps.Scalar("block_p")
	if err != nil {
		return nil, err
	}
	maxWeight, err := ps.Scalar("max_weight")
	if err != nil {
		return nil, err
	}
	dynamics, err := ps.Vector("dynamics")
	if err != nil {
		return nil, err
	}
	if len(dynamics) != 4 {
		return nil, fmt.Errorf("dynamics has %d values, want 4", len(dynamics))
	}
	inputP, err := ps.Scalar("input_p")
	if err != nil {
		return nil, err
	}
	inputW, err := ps.Scalar("input_w")
	if err != nil {
		return nil, err
	}

	n, nRec := m.neurons, m.neurons-env.Outputs
	// Materialize the coarse pattern first so each block is drawn once.
	coarse := algebra.MaskMatrix(rng, algebra.RandomMask(blockP), m.Blocks(), m.Blocks())
	mask := algebra.NoSelf(algebra.BlockExpand(m.blockSize, algebra.P(algebra.Table(coarse))))
	maxWeight = math.Abs(maxWeight)

	vecs := algebra.Vectors(rng, algebra.ConstantParams(append(append([]float64(nil), dynamics...), 0)), n)
	networkCM := algebra.MaskMatrix(rng, mask, n, n)
	networkW := algebra.ValueMatrix(rng, algebra.Masked(mask, algebra.Uniform(0, maxWeight)), n, n)
	inputCM := algebra.MaskMatrix(rng, algebra.RandomMask(inputP), nRec, env.Inputs)
	inputWM := algebra.ValueMatrix(rng, algebra.Constant(math.Abs(inputW)), nRec, env.Inputs)

	rep, err := model.NewRepresentation(neuronsFromVectors(vecs), networkCM, networkW, inputCM, inputWM, env)
	if err != nil {
		return nil, err
	}
	rep.Model = m.Name()
	return rep, nil
}

package model

import (
	"errors"
	"fmt"

	"evospike/internal/linalg"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var (
	ErrShape          = errors.New("representation shape mismatch")
	ErrNegativeWeight = errors.New("negative weight")
	ErrSelfConnection = errors.New("self connection in network mask")
	ErrNotBinary      = errors.New("connectivity mask is not 0/1")
)

// NewRepresentation assembles and validates a representation. The returned
// value owns copies of every matrix.
func NewRepresentation(neurons []Neuron, networkCM, networkW, inputCM, inputW *linalg.Matrix, env Env) (*Representation, error) {
	rep := &Representation{
		VersionedRecord: VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		N:               len(neurons),
		Neurons:         cloneNeurons(neurons),
		NetworkCM:       cloneOrNil(networkCM),
		NetworkW:        cloneOrNil(networkW),
		InputCM:         cloneOrNil(inputCM),
		InputW:          cloneOrNil(inputW),
		Env:             env,
	}
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	return rep, nil
}

// NRec is the number of neurons outside the output block.
func (r *Representation) NRec() int {
	return r.N - r.Env.Outputs
}

// Validate checks every structural invariant of the representation.
func (r *Representation) Validate() error {
	if r.Env.Inputs < 0 || r.Env.Outputs < 0 {
		return fmt.Errorf("%w: negative port counts %+v", ErrShape, r.Env)
	}
	if r.Env.Outputs > r.N {
		return fmt.Errorf("%w: %d outputs exceed %d neurons", ErrShape, r.Env.Outputs, r.N)
	}
	if len(r.Neurons) != r.N {
		return fmt.Errorf("%w: %d neurons for n=%d", ErrShape, len(r.Neurons), r.N)
	}
	if r.NetworkCM == nil || r.NetworkW == nil || r.InputCM == nil || r.InputW == nil {
		return fmt.Errorf("%w: missing matrix", ErrShape)
	}
	if err := expectDims("network_cm", r.NetworkCM, r.N, r.N); err != nil {
		return err
	}
	if !r.NetworkW.SameShape(r.NetworkCM) {
		return fmt.Errorf("%w: network_w does not match network_cm", ErrShape)
	}
	if err := expectDims("input_cm", r.InputCM, r.NRec(), r.Env.Inputs); err != nil {
		return err
	}
	if !r.InputW.SameShape(r.InputCM) {
		return fmt.Errorf("%w: input_w does not match input_cm", ErrShape)
	}
	if r.NetworkW.HasNegative() {
		return fmt.Errorf("%w: network_w", ErrNegativeWeight)
	}
	if r.InputW.HasNegative() {
		return fmt.Errorf("%w: input_w", ErrNegativeWeight)
	}
	if !r.NetworkCM.IsBinary() {
		return fmt.Errorf("%w: network_cm", ErrNotBinary)
	}
	if !r.InputCM.IsBinary() {
		return fmt.Errorf("%w: input_cm", ErrNotBinary)
	}
	for i, v := range r.NetworkCM.Diagonal() {
		if v != 0 {
			return fmt.Errorf("%w: neuron %d", ErrSelfConnection, i)
		}
	}
	return nil
}

// NeuronTypes returns +1/-1 per neuron.
func (r *Representation) NeuronTypes() []float64 {
	out := make([]float64, len(r.Neurons))
	for i, n := range r.Neurons {
		out[i] = n.Type()
	}
	return out
}

// Connections is the number of recurrent edges.
func (r *Representation) Connections() int {
	return r.NetworkCM.Count()
}

// InputConnections is the number of input edges.
func (r *Representation) InputConnections() int {
	return r.InputCM.Count()
}

// Clone returns a deep copy.
func (r *Representation) Clone() *Representation {
	out := *r
	out.Neurons = cloneNeurons(r.Neurons)
	out.NetworkCM = cloneOrNil(r.NetworkCM)
	out.NetworkW = cloneOrNil(r.NetworkW)
	out.InputCM = cloneOrNil(r.InputCM)
	out.InputW = cloneOrNil(r.InputW)
	return &out
}

func expectDims(name string, m *linalg.Matrix, rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrShape, name, r, c, rows, cols)
	}
	return nil
}

func cloneNeurons(in []Neuron) []Neuron {
	out := make([]Neuron, len(in))
	for i, n := range in {
		n.Dynamics = append([]float64(nil), n.Dynamics...)
		out[i] = n
	}
	return out
}

func cloneOrNil(m *linalg.Matrix) *linalg.Matrix {
	if m == nil {
		return nil
	}
	return m.Clone()
}

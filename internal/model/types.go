package model

import "evospike/internal/linalg"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Env holds the port counts a task exposes to a network.
type Env struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
}

// Neuron is one materialized neuron. Dynamics carries the model parameters
// (a, b, c, d for Izhikevich).
type Neuron struct {
	ID         int       `json:"id"`
	Dynamics   []float64 `json:"dynamics"`
	Inhibitory bool      `json:"inhibitory"`
}

// Type is +1 for excitatory and -1 for inhibitory neurons.
func (n Neuron) Type() float64 {
	if n.Inhibitory {
		return -1
	}
	return 1
}

// Representation is a fully materialized network description. The trailing
// Env.Outputs neurons form the output block.
type Representation struct {
	VersionedRecord
	ID        string         `json:"id"`
	Model     string         `json:"model,omitempty"`
	N         int            `json:"n"`
	Neurons   []Neuron       `json:"neurons"`
	NetworkCM *linalg.Matrix `json:"network_cm"`
	NetworkW  *linalg.Matrix `json:"network_w"`
	InputCM   *linalg.Matrix `json:"input_cm"`
	InputW    *linalg.Matrix `json:"input_w"`
	Env       Env            `json:"env"`
}

// RunSummary describes one stored simulation run of a representation.
type RunSummary struct {
	VersionedRecord
	ID               string    `json:"id"`
	RepresentationID string    `json:"representation_id"`
	Seed             int64     `json:"seed"`
	Steps            int       `json:"steps"`
	TotalSpikes      int       `json:"total_spikes"`
	OutputSpikes     []int     `json:"output_spikes"`
	FiringRates      []float64 `json:"firing_rates"`
	CreatedAtUTC     string    `json:"created_at_utc"`
}

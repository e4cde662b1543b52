// Package evospike is the public entry point for developing, simulating and
// inspecting spiking networks.
package evospike

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"evospike/internal/config"
	"evospike/internal/develop"
	"evospike/internal/logging"
	"evospike/internal/model"
	"evospike/internal/network"
	"evospike/internal/storage"
	"evospike/internal/task"
)

const (
	defaultDBPath     = "evospike.db"
	defaultExportsDir = "exports"
	defaultSteps      = 1000
)

var ErrNotFound = errors.New("representation not found")

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string
	Logger     *slog.Logger
}

type Client struct {
	store      storage.Store
	exportsDir string
	logger     *slog.Logger
}

type DevelopRequest struct {
	Model config.ModelConfig
	Seed  int64
	// Params optionally replaces the model's default parameters with a flat
	// vector laid out like the model schema.
	Params []float64
	// RandomRange, a [lo, hi) pair, draws every schema parameter uniformly
	// from the seeded stream instead. It cannot be combined with Params.
	RandomRange []float64
}

type DevelopSummary struct {
	ID               string
	Model            string
	Neurons          int
	Inhibitory       int
	Connections      int
	InputConnections int
	ParamCount       int
}

type SimulateRequest struct {
	RepresentationID string
	Seed             int64
	Steps            int
	NeuronKind       string
	SynapseKind      string
	KernelKind       string
	Tau              float64
	NoiseRange       []float64
	BackgroundFiring bool
	BackgroundRate   float64
	InputRate        float64
	// TargetRates scores the run against one target firing rate per output
	// neuron instead of the plain mean output rate.
	TargetRates []float64
	// ExportArrow writes the per-tick record to ExportsDir/<run id>.arrow.
	ExportArrow bool
}

type SimulateSummary struct {
	RunID        string
	Fitness      float64
	Steps        int
	TotalSpikes  int
	OutputSpikes []int
	FiringRates  []float64
	MeanRate     float64
	ArrowPath    string
}

type RepresentationItem struct {
	ID          string
	Model       string
	Neurons     int
	Inputs      int
	Outputs     int
	Connections int
	Runs        int
}

type InspectSummary struct {
	Representation *model.Representation
	Runs           []model.RunSummary
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		exportsDir: exportsDir,
		logger:     logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Develop builds a representation from the configured model and stores it
// under a fresh id.
func (c *Client) Develop(ctx context.Context, req DevelopRequest) (DevelopSummary, error) {
	if req.Model.Name == "" {
		req.Model = config.Default().Model
	}
	m, err := develop.NewModel(req.Model)
	if err != nil {
		return DevelopSummary{}, err
	}
	rng := rand.New(rand.NewSource(req.Seed))
	ps := m.Schema()
	switch {
	case req.Params != nil && len(req.RandomRange) > 0:
		return DevelopSummary{}, errors.New("params and random range are mutually exclusive")
	case req.Params != nil:
		if ps, err = ps.Assign(req.Params); err != nil {
			return DevelopSummary{}, fmt.Errorf("assign %s parameters: %w", m.Name(), err)
		}
	case len(req.RandomRange) > 0:
		if len(req.RandomRange) != 2 || req.RandomRange[0] > req.RandomRange[1] {
			return DevelopSummary{}, fmt.Errorf("random range needs lo <= hi, got %v", req.RandomRange)
		}
		ps = ps.Random(rng, req.RandomRange[0], req.RandomRange[1])
	}
	env := model.Env{Inputs: req.Model.Inputs, Outputs: req.Model.Outputs}
	rep, err := m.Develop(rng, ps, env)
	if err != nil {
		return DevelopSummary{}, fmt.Errorf("develop %s: %w", m.Name(), err)
	}
	rep.ID = uuid.NewString()
	if err := c.store.SaveRepresentation(ctx, rep); err != nil {
		return DevelopSummary{}, err
	}

	inhibitory := 0
	for _, n := range rep.Neurons {
		if n.Inhibitory {
			inhibitory++
		}
	}
	c.logger.Info("representation developed",
		"id", rep.ID,
		"model", rep.Model,
		"neurons", rep.N,
		"connections", rep.Connections(),
	)
	return DevelopSummary{
		ID:               rep.ID,
		Model:            rep.Model,
		Neurons:          rep.N,
		Inhibitory:       inhibitory,
		Connections:      rep.Connections(),
		InputConnections: rep.InputConnections(),
		ParamCount:       ps.Len(),
	}, nil
}

// Simulate drives a stored representation with Poisson input and stores the
// run summary.
func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (SimulateSummary, error) {
	if req.RepresentationID == "" {
		return SimulateSummary{}, errors.New("simulate requires a representation id")
	}
	if req.Steps <= 0 {
		req.Steps = defaultSteps
	}
	rep, ok, err := c.store.GetRepresentation(ctx, req.RepresentationID)
	if err != nil {
		return SimulateSummary{}, err
	}
	if !ok {
		return SimulateSummary{}, fmt.Errorf("%w: %s", ErrNotFound, req.RepresentationID)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	net, err := network.Build(rep, network.Options{
		NeuronKind:       req.NeuronKind,
		SynapseKind:      req.SynapseKind,
		KernelKind:       req.KernelKind,
		Tau:              req.Tau,
		NoiseRange:       req.NoiseRange,
		BackgroundFiring: req.BackgroundFiring,
		BackgroundRate:   req.BackgroundRate,
		Record:           true,
		Logger:           c.logger,
		Rand:             rng,
	})
	if err != nil {
		return SimulateSummary{}, err
	}
	var t task.Task
	if len(req.TargetRates) > 0 {
		t, err = task.NewRateTarget(rep.Env, req.InputRate, req.TargetRates, rng)
	} else {
		t, err = task.NewPoisson(rep.Env, req.InputRate, rng)
	}
	if err != nil {
		return SimulateSummary{}, err
	}
	fitness, _, err := task.Drive(ctx, net, t, req.Steps)
	if err != nil {
		return SimulateSummary{}, err
	}

	rec := net.Record()
	counts := rec.SpikeCounts()
	run := model.RunSummary{
		VersionedRecord:  model.VersionedRecord{SchemaVersion: storage.CurrentSchemaVersion, CodecVersion: storage.CurrentCodecVersion},
		ID:               uuid.NewString(),
		RepresentationID: rep.ID,
		Seed:             req.Seed,
		Steps:            req.Steps,
		TotalSpikes:      rec.TotalSpikes(),
		OutputSpikes:     append([]int(nil), counts[rep.NRec():]...),
		FiringRates:      rec.FiringRates(),
		CreatedAtUTC:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return SimulateSummary{}, err
	}

	summary := SimulateSummary{
		RunID:        run.ID,
		Fitness:      float64(fitness),
		Steps:        run.Steps,
		TotalSpikes:  run.TotalSpikes,
		OutputSpikes: run.OutputSpikes,
		FiringRates:  run.FiringRates,
	}
	if rep.N > 0 {
		summary.MeanRate = float64(run.TotalSpikes) / float64(rep.N*run.Steps)
	}
	if req.ExportArrow {
		path, err := c.exportArrow(run.ID, rec)
		if err != nil {
			return SimulateSummary{}, err
		}
		summary.ArrowPath = path
	}
	c.logger.Info("simulation complete",
		"task", t.Name(),
		"run_id", run.ID,
		"representation_id", rep.ID,
		"steps", run.Steps,
		"spikes", run.TotalSpikes,
	)
	return summary, nil
}

func (c *Client) exportArrow(runID string, rec *network.Record) (string, error) {
	if err := os.MkdirAll(c.exportsDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.exportsDir, runID+".arrow")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := rec.WriteArrow(f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// Inspect returns a stored representation with its runs, oldest first.
func (c *Client) Inspect(ctx context.Context, id string) (InspectSummary, error) {
	rep, ok, err := c.store.GetRepresentation(ctx, id)
	if err != nil {
		return InspectSummary{}, err
	}
	if !ok {
		return InspectSummary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	runs, err := c.store.ListRuns(ctx, id)
	if err != nil {
		return InspectSummary{}, err
	}
	return InspectSummary{Representation: rep, Runs: runs}, nil
}

func (c *Client) List(ctx context.Context) ([]RepresentationItem, error) {
	ids, err := c.store.ListRepresentations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RepresentationItem, 0, len(ids))
	for _, id := range ids {
		rep, ok, err := c.store.GetRepresentation(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		runs, err := c.store.ListRuns(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, RepresentationItem{
			ID:          rep.ID,
			Model:       rep.Model,
			Neurons:     rep.N,
			Inputs:      rep.Env.Inputs,
			Outputs:     rep.Env.Outputs,
			Connections: rep.Connections(),
			Runs:        len(runs),
		})
	}
	return out, nil
}

// Delete removes a representation and its runs.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.store.DeleteRepresentation(ctx, id)
}

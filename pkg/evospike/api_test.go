package evospike

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"evospike/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{
		StoreKind:  "memory",
		ExportsDir: filepath.Join(t.TempDir(), "exports"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func smallModel() config.ModelConfig {
	cfg := config.Default().Model
	cfg.Neurons = 40
	cfg.Inputs = 4
	cfg.Outputs = 2
	cfg.Radius = 0.6
	return cfg
}

func TestClientDevelopSimulateInspect(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	developed, err := client.Develop(ctx, DevelopRequest{Model: smallModel(), Seed: 3})
	if err != nil {
		t.Fatalf("develop: %v", err)
	}
	if developed.ID == "" || developed.Neurons != 40 || developed.Model != "sbm_geometric" {
		t.Fatalf("unexpected develop summary %+v", developed)
	}
	if developed.Inhibitory == 0 {
		t.Fatal("expected inhibitory neurons from the default proportions")
	}

	sim, err := client.Simulate(ctx, SimulateRequest{
		RepresentationID: developed.ID,
		Seed:             9,
		Steps:            200,
		InputRate:        0.3,
		ExportArrow:      true,
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if sim.RunID == "" || sim.Steps != 200 || len(sim.OutputSpikes) != 2 || len(sim.FiringRates) != 40 {
		t.Fatalf("unexpected simulate summary %+v", sim)
	}
	if info, err := os.Stat(sim.ArrowPath); err != nil || info.Size() == 0 {
		t.Fatalf("arrow export missing: %v", err)
	}

	again, err := client.Simulate(ctx, SimulateRequest{RepresentationID: developed.ID, Seed: 9, Steps: 200, InputRate: 0.3})
	if err != nil {
		t.Fatalf("simulate again: %v", err)
	}
	if again.TotalSpikes != sim.TotalSpikes {
		t.Fatalf("same seed gave %d and %d spikes", sim.TotalSpikes, again.TotalSpikes)
	}

	inspected, err := client.Inspect(ctx, developed.ID)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if inspected.Representation.ID != developed.ID || len(inspected.Runs) != 2 {
		t.Fatalf("unexpected inspect summary: runs=%d", len(inspected.Runs))
	}

	items, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Runs != 2 || items[0].Outputs != 2 {
		t.Fatalf("unexpected list %+v", items)
	}

	if err := client.Delete(ctx, developed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Inspect(ctx, developed.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClientDevelopWithParams(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	cfg := config.ModelConfig{Name: "block", Neurons: 20, Inputs: 2, Outputs: 2, BlockSize: 5, InputProbability: 0.5, InputWeight: 0.5}
	// block_p, max_weight, dynamics(4), input_p, input_w
	params := []float64{1, 0.8, 0.02, 0.2, -65, 8, 0.5, 0.5}
	developed, err := client.Develop(ctx, DevelopRequest{Model: cfg, Seed: 1, Params: params})
	if err != nil {
		t.Fatalf("develop: %v", err)
	}
	if developed.Connections != 20*19 || developed.ParamCount != len(params) {
		t.Fatalf("unexpected summary %+v", developed)
	}

	if _, err := client.Develop(ctx, DevelopRequest{Model: cfg, Params: []float64{1}}); err == nil {
		t.Fatal("expected parameter length error")
	}
	if _, err := client.Develop(ctx, DevelopRequest{Model: config.ModelConfig{Name: "lattice"}}); err == nil {
		t.Fatal("expected unknown model error")
	}
}

func TestClientDevelopRandomParams(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	cfg := config.ModelConfig{Name: "block", Neurons: 20, Inputs: 2, Outputs: 2, BlockSize: 5}
	first, err := client.Develop(ctx, DevelopRequest{Model: cfg, Seed: 4, RandomRange: []float64{0, 1}})
	if err != nil {
		t.Fatalf("develop: %v", err)
	}
	second, err := client.Develop(ctx, DevelopRequest{Model: cfg, Seed: 4, RandomRange: []float64{0, 1}})
	if err != nil {
		t.Fatalf("develop again: %v", err)
	}
	if first.ParamCount != 8 || first.Connections != second.Connections || first.InputConnections != second.InputConnections {
		t.Fatalf("seeded random parameters should repeat: %+v vs %+v", first, second)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct ids")
	}

	bad := []DevelopRequest{
		{Model: cfg, RandomRange: []float64{1}},
		{Model: cfg, RandomRange: []float64{2, 1}},
		{Model: cfg, RandomRange: []float64{0, 1}, Params: []float64{1, 1, 0.02, 0.2, -65, 8, 0.5, 0.5}},
	}
	for i, req := range bad {
		if _, err := client.Develop(ctx, req); err == nil {
			t.Fatalf("case %d: expected random range error", i)
		}
	}
}

func TestClientSimulateRateTarget(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	developed, err := client.Develop(ctx, DevelopRequest{Model: smallModel(), Seed: 3})
	if err != nil {
		t.Fatalf("develop: %v", err)
	}
	sim, err := client.Simulate(ctx, SimulateRequest{
		RepresentationID: developed.ID,
		Seed:             2,
		Steps:            100,
		InputRate:        0.3,
		TargetRates:      []float64{0, 0},
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	// With zero targets the score is 1/(1+mean squared rate).
	mse := 0.0
	for _, c := range sim.OutputSpikes {
		r := float64(c) / float64(sim.Steps)
		mse += r * r
	}
	mse /= float64(len(sim.OutputSpikes))
	if want := 1 / (1 + mse); math.Abs(sim.Fitness-want) > 1e-12 {
		t.Fatalf("rate target fitness: got=%v want=%v", sim.Fitness, want)
	}

	if _, err := client.Simulate(ctx, SimulateRequest{RepresentationID: developed.ID, Steps: 5, TargetRates: []float64{0.1}}); err == nil {
		t.Fatal("expected target length error")
	}
}

func TestClientSimulateErrors(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	if _, err := client.Simulate(ctx, SimulateRequest{}); err == nil {
		t.Fatal("expected missing id error")
	}
	if _, err := client.Simulate(ctx, SimulateRequest{RepresentationID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRejectsUnknownStore(t *testing.T) {
	if _, err := New(Options{StoreKind: "redis"}); err == nil {
		t.Fatal("expected unsupported store error")
	}
}

package synapse

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"evospike/internal/linalg"
)

func TestMatrixSynapseScenario(t *testing.T) {
	weights := linalg.NewMatrix(3, 3, []float64{
		0, 2, 1,
		1, 0, 0,
		0.5, 0.8, 0,
	})
	syn, err := NewMatrix(weights, []float64{1, 1, -1})
	if err != nil {
		t.Fatalf("new matrix synapse: %v", err)
	}
	got := syn.Step([]bool{true, false, true})
	want := []float64{-1.0, 1.0, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func randomNetwork(rng *rand.Rand, post, pre int, density float64) (*linalg.Matrix, []float64) {
	w := linalg.Zeros(post, pre)
	for i := 0; i < post; i++ {
		for j := 0; j < pre; j++ {
			if rng.Float64() < density {
				w.Set(i, j, rng.Float64()*3)
			}
		}
	}
	types := make([]float64, pre)
	for j := range types {
		types[j] = 1
		if rng.Float64() < 0.25 {
			types[j] = -1
		}
	}
	return w, types
}

func randomSpikes(rng *rand.Rand, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = rng.Float64() < 0.4
	}
	return out
}

func TestMatrixAndMapAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 40; trial++ {
		post, pre := rng.Intn(30), rng.Intn(30)
		w, types := randomNetwork(rng, post, pre, 0.3)
		dense, err := NewMatrix(w, types)
		if err != nil {
			t.Fatalf("dense: %v", err)
		}
		sparse, err := NewMap(w, types)
		if err != nil {
			t.Fatalf("sparse: %v", err)
		}
		if sparse.Edges() != w.Count() {
			t.Fatalf("map stored %d edges, want %d", sparse.Edges(), w.Count())
		}
		for tick := 0; tick < 10; tick++ {
			spikes := randomSpikes(rng, pre)
			a := dense.Step(spikes)
			b := sparse.Step(spikes)
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("trial %d tick %d: dense %v != map %v at %d", trial, tick, a[i], b[i], i)
				}
			}
		}
	}
}

func TestExponentialKernelsAgreeAcrossRepresentations(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	w, types := randomNetwork(rng, 12, 12, 0.5)
	dw, _ := NewMatrix(w, types)
	mw, _ := NewMap(w, types)
	dense, err := NewExponential(dw, DefaultTau)
	if err != nil {
		t.Fatalf("dense kernel: %v", err)
	}
	sparse, err := NewExponential(mw, DefaultTau)
	if err != nil {
		t.Fatalf("sparse kernel: %v", err)
	}
	for tick := 0; tick < 50; tick++ {
		spikes := randomSpikes(rng, 12)
		a, b := dense.Step(spikes), sparse.Step(spikes)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("tick %d: %v != %v", tick, a, b)
			}
		}
	}
}

func TestExponentialDecayAndReset(t *testing.T) {
	w, _ := NewMatrix(linalg.NewMatrix(1, 1, []float64{2}), []float64{1})
	syn, err := NewExponential(w, 10)
	if err != nil {
		t.Fatalf("new exponential: %v", err)
	}
	if got := syn.Step([]bool{true})[0]; got != 2 {
		t.Fatalf("first step current: got=%v want=2", got)
	}
	got := syn.Step([]bool{false})[0]
	if want := 2 + (-2.0 / 10); math.Abs(got-want) > 1e-12 {
		t.Fatalf("decayed current: got=%v want=%v", got, want)
	}
	if cur := syn.Current()[0]; cur != got {
		t.Fatalf("current snapshot mismatch: %v vs %v", cur, got)
	}
	syn.Reset()
	if got := syn.Step([]bool{false})[0]; got != 0 {
		t.Fatalf("expected zero after reset, got %v", got)
	}
}

func TestBiExponentialRisesThenDecays(t *testing.T) {
	w, _ := NewMatrix(linalg.NewMatrix(1, 1, []float64{1}), []float64{1})
	syn, err := NewBiExponential(w, DefaultRiseTau, DefaultTau)
	if err != nil {
		t.Fatalf("new bi-exponential: %v", err)
	}
	trace := []float64{syn.Step([]bool{true})[0]}
	for i := 0; i < 40; i++ {
		trace = append(trace, syn.Step([]bool{false})[0])
	}
	peak := 0
	for i, v := range trace {
		if v > trace[peak] {
			peak = i
		}
	}
	if peak == 0 {
		t.Fatalf("expected delayed peak, trace=%v", trace[:5])
	}
	if trace[len(trace)-1] >= trace[peak] {
		t.Fatal("expected decay after the peak")
	}
	syn.Reset()
	if got := syn.Step([]bool{false})[0]; got != 0 {
		t.Fatalf("expected zero after reset, got %v", got)
	}
}

func TestInputSynapseRectangular(t *testing.T) {
	// Two inputs projecting to three neurons.
	w := linalg.NewMatrix(3, 2, []float64{
		1, 0,
		0, 0.5,
		0.25, 0.25,
	})
	syn, err := NewMatrix(w, []float64{1, 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if post, pre := syn.Dims(); post != 3 || pre != 2 {
		t.Fatalf("unexpected dims %dx%d", post, pre)
	}
	got := syn.Step([]bool{true, true})
	want := []float64{1, 0.5, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSynapseValidation(t *testing.T) {
	w := linalg.Zeros(2, 2)
	if _, err := NewMatrix(w, []float64{1}); !errors.Is(err, ErrTypes) {
		t.Fatalf("expected types length error, got %v", err)
	}
	if _, err := NewMap(w, []float64{1, 0.5}); !errors.Is(err, ErrTypes) {
		t.Fatalf("expected type value error, got %v", err)
	}
	if _, err := NewMapFromEdges(2, 2, map[int][]Edge{0: {{To: 5, Weight: 1}}}, []float64{1, 1}); err == nil {
		t.Fatal("expected out of range edge error")
	}

	syn, _ := NewMatrix(w, []float64{1, 1})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on spike length mismatch")
		}
	}()
	syn.Step([]bool{true})
}

func TestFactories(t *testing.T) {
	w := linalg.NewMatrix(2, 2, []float64{0, 1, 1, 0})
	types := []float64{1, -1}
	for _, kind := range []string{KindMatrix, KindMap, ""} {
		weighting, err := NewWeighting(kind, w, types)
		if err != nil {
			t.Fatalf("weighting %q: %v", kind, err)
		}
		for _, kernel := range []string{KernelExponential, KernelBiExponential, KernelNone} {
			syn, err := NewKernel(kernel, weighting, DefaultTau, DefaultRiseTau)
			if err != nil {
				t.Fatalf("kernel %q: %v", kernel, err)
			}
			if post, pre := syn.Dims(); post != 2 || pre != 2 {
				t.Fatalf("unexpected dims %dx%d", post, pre)
			}
		}
	}
	if _, err := NewWeighting("csr", w, types); err == nil {
		t.Fatal("expected unsupported representation error")
	}
	weighting, _ := NewWeighting(KindMatrix, w, types)
	if _, err := NewKernel("alpha", weighting, DefaultTau, DefaultRiseTau); err == nil {
		t.Fatal("expected unsupported kernel error")
	}
	if _, err := NewExponential(weighting, 0); err == nil {
		t.Fatal("expected tau error")
	}
}

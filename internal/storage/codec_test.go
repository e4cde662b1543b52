package storage

import (
	"encoding/json"
	"errors"
	"testing"

	"evospike/internal/model"
)

func TestRepresentationCodecRoundTrip(t *testing.T) {
	rep := testRepresentation(t, "rep-1")
	data, err := EncodeRepresentation(rep)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeRepresentation(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.ID != rep.ID || !back.NetworkCM.Equal(rep.NetworkCM) || !back.InputW.Equal(rep.InputW) {
		t.Fatalf("round trip changed representation: %+v", back)
	}
	if _, err := EncodeRepresentation(nil); err == nil {
		t.Fatal("expected nil representation error")
	}
}

func TestDecodeRepresentationRejectsVersion(t *testing.T) {
	rep := testRepresentation(t, "rep-1")
	rep.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRepresentation(rep)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRepresentation(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestDecodeRepresentationRevalidates(t *testing.T) {
	rep := testRepresentation(t, "rep-1")
	data, err := EncodeRepresentation(rep)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw["network_cm"] = map[string]any{"rows": 3, "cols": 3, "data": []float64{1, 1, 0, 1, 0, 1, 1, 1, 0}}
	tampered, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeRepresentation(tampered); !errors.Is(err, model.ErrSelfConnection) {
		t.Fatalf("expected ErrSelfConnection, got %v", err)
	}
	if _, err := DecodeRepresentation([]byte(`{`)); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestRunCodec(t *testing.T) {
	run := testRun("run-1", "rep-1", "2026-01-01T00:00:00Z")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.ID != run.ID || back.Seed != run.Seed || back.FiringRates[1] != run.FiringRates[1] {
		t.Fatalf("unexpected run %+v", back)
	}
	run.CodecVersion = 0
	data, _ = EncodeRun(run)
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

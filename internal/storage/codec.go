package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"evospike/internal/model"
)

const (
	CurrentSchemaVersion = model.CurrentSchemaVersion
	CurrentCodecVersion  = model.CurrentCodecVersion
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRepresentation(rep *model.Representation) ([]byte, error) {
	if rep == nil {
		return nil, errors.New("representation is nil")
	}
	return json.Marshal(rep)
}

// DecodeRepresentation rejects payloads from other schema versions and
// payloads that break representation invariants.
func DecodeRepresentation(data []byte) (*model.Representation, error) {
	var rep model.Representation
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	if err := checkVersion(rep.VersionedRecord); err != nil {
		return nil, err
	}
	if err := rep.Validate(); err != nil {
		return nil, fmt.Errorf("decoded representation %s: %w", rep.ID, err)
	}
	return &rep, nil
}

func EncodeRun(run model.RunSummary) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunSummary, error) {
	var run model.RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return run, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// Package storage persists developed representations and run summaries.
package storage

import (
	"context"
	"errors"

	"evospike/internal/model"
)

var ErrMissingID = errors.New("record id is required")

// Store defines persistence for representations and the runs simulated from
// them. Get methods report absence through the bool result, not an error.
type Store interface {
	Init(ctx context.Context) error
	SaveRepresentation(ctx context.Context, rep *model.Representation) error
	GetRepresentation(ctx context.Context, id string) (*model.Representation, bool, error)
	ListRepresentations(ctx context.Context) ([]string, error)
	DeleteRepresentation(ctx context.Context, id string) error
	SaveRun(ctx context.Context, run model.RunSummary) error
	GetRun(ctx context.Context, id string) (model.RunSummary, bool, error)
	ListRuns(ctx context.Context, representationID string) ([]model.RunSummary, error)
}

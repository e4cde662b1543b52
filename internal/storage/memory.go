package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"evospike/internal/model"
)

type MemoryStore struct {
	mu              sync.RWMutex
	initialized     bool
	representations map[string]*model.Representation
	runs            map[string]model.RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.representations = make(map[string]*model.Representation)
	s.runs = make(map[string]model.RunSummary)
	return nil
}

func (s *MemoryStore) SaveRepresentation(_ context.Context, rep *model.Representation) error {
	if rep == nil || rep.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}

	s.representations[rep.ID] = rep.Clone()
	return nil
}

func (s *MemoryStore) GetRepresentation(_ context.Context, id string) (*model.Representation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.representations[id]
	if !ok {
		return nil, false, nil
	}
	return rep.Clone(), true, nil
}

func (s *MemoryStore) ListRepresentations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.representations))
	for id := range s.representations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteRepresentation removes the representation and every run of it.
func (s *MemoryStore) DeleteRepresentation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.representations, id)
	for runID, run := range s.runs {
		if run.RepresentationID == id {
			delete(s.runs, runID)
		}
	}
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunSummary) error {
	if run.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}

	s.runs[run.ID] = cloneRun(run)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.RunSummary{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, representationID string) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.RunSummary
	for _, run := range s.runs {
		if representationID == "" || run.RepresentationID == representationID {
			out = append(out, cloneRun(run))
		}
	}
	sortRuns(out)
	return out, nil
}

var errNotInitialized = errors.New("store is not initialized")

func cloneRun(run model.RunSummary) model.RunSummary {
	run.OutputSpikes = append([]int(nil), run.OutputSpikes...)
	run.FiringRates = append([]float64(nil), run.FiringRates...)
	return run
}

func sortRuns(runs []model.RunSummary) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC != runs[j].CreatedAtUTC {
			return runs[i].CreatedAtUTC < runs[j].CreatedAtUTC
		}
		return runs[i].ID < runs[j].ID
	})
}

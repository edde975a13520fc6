package memory

import (
	"context"
	"sort"
	"sync"

	"ocev/domain/core"
	"ocev/ports"
)

// RunRepository is an in-memory run store. It is the default persistence
// collaborator when no database is configured; results live for the
// process lifetime and are evicted only by restart.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*ports.RunResult
}

// NewRunRepository creates an empty in-memory repository.
func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[core.RunID]*ports.RunResult)}
}

// Save stores a completed run result.
func (r *RunRepository) Save(ctx context.Context, result *ports.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[result.RunID] = result
	return nil
}

// Get retrieves a run result by ID.
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*ports.RunResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.runs[id]
	if !ok {
		return nil, core.NewNotFoundError("run", id.String())
	}
	return result, nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*ports.RunResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ports.RunResult, 0, len(r.runs))
	for _, result := range r.runs {
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

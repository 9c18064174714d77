package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Repository errors.
var (
	ErrRunNotFound = errors.New("run not found")
)

// Repository defines the interface for run persistence.
type Repository interface {
	// Save stores a finished run.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID, including its result.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns run summaries (without results), newest first.
	List(ctx context.Context) ([]*Run, error)
}

// InMemoryRepository is an in-memory implementation of Repository, used
// when no database is configured and in tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewInMemoryRepository creates a new in-memory run repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		runs: make(map[string]*Run),
	}
}

// Save stores a finished run.
func (r *InMemoryRepository) Save(_ context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.ID] = copyRun(run)
	return nil
}

// Get retrieves a run by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return copyRun(run), nil
}

// List returns run summaries, newest first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Run, 0, len(r.runs))
	for _, run := range r.runs {
		summary := copyRun(run)
		summary.Result = nil
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// copyRun creates a deep copy of a run.
func copyRun(run *Run) *Run {
	if run == nil {
		return nil
	}
	runCopy := *run
	if run.Result != nil {
		runCopy.Result = append([]byte(nil), run.Result...)
	}
	return &runCopy
}

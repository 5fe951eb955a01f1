package timezones

import (
	"context"
	"sync"

	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// InMemoryRepository is the in-process fallback and test repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemory creates an empty in-memory timezone repository.
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Record, error) {
	if userID == "" {
		return nil, rosterr.InvalidArgument("user ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[userID]
	if !ok {
		return nil, rosterr.NotFoundf("no saved timezone for user '%s'", userID).
			WithMeta("user_id", userID)
	}

	c := *rec
	return &c, nil
}

func (r *InMemoryRepository) Set(_ context.Context, rec *Record) error {
	if rec == nil {
		return rosterr.InvalidArgument("record cannot be nil")
	}
	if rec.UserID == "" {
		return rosterr.InvalidArgument("user ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := *rec
	r.records[rec.UserID] = &c
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	if userID == "" {
		return rosterr.InvalidArgument("user ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, userID)
	return nil
}

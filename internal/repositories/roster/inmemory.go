package roster

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// InMemoryRepository is the in-process fallback and test repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]*character.RosterEntry // characterID -> item -> entry
}

// NewInMemory creates an empty in-memory roster repository.
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]map[string]*character.RosterEntry)}
}

func (r *InMemoryRepository) Put(_ context.Context, entry *character.RosterEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byItem, ok := r.entries[entry.CharacterID]
	if !ok {
		byItem = make(map[string]*character.RosterEntry)
		r.entries[entry.CharacterID] = byItem
	}

	e := *entry
	e.UpdatedAt = time.Now().UTC()
	byItem[entry.Item] = &e

	return nil
}

func (r *InMemoryRepository) GetByCharacter(_ context.Context, characterID string) ([]*character.RosterEntry, error) {
	if characterID == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	byItem := r.entries[characterID]
	result := make([]*character.RosterEntry, 0, len(byItem))
	for _, entry := range byItem {
		e := *entry
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Item < result[j].Item })

	return result, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, characterID, item string) error {
	if characterID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if item == "" {
		return rosterr.InvalidArgument("item is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if byItem, ok := r.entries[characterID]; ok {
		delete(byItem, item)
	}
	return nil
}

func (r *InMemoryRepository) DeleteByCharacter(_ context.Context, characterID string) error {
	if characterID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, characterID)
	return nil
}

package characters

import (
	"context"
	"sync"
	"time"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// InMemoryRepository is the in-process fallback used when no Redis is
// configured, and the repository used by tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	chars map[string]*character.Character
}

// NewInMemory creates an empty in-memory character repository.
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{chars: make(map[string]*character.Character)}
}

func (r *InMemoryRepository) Create(_ context.Context, char *character.Character) error {
	if err := validateRecord(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chars[char.ID]; exists {
		return rosterr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := time.Now().UTC()
	char.CreatedAt = now
	char.UpdatedAt = now

	c := *char
	r.chars[char.ID] = &c

	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	char, exists := r.chars[id]
	if !exists {
		return nil, rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	c := *char
	return &c, nil
}

func (r *InMemoryRepository) GetByOwner(_ context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, rosterr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*character.Character
	for _, char := range r.chars {
		if char.OwnerID == ownerID {
			c := *char
			result = append(result, &c)
		}
	}
	character.SortForDisplay(result)

	return result, nil
}

func (r *InMemoryRepository) GetMain(ctx context.Context, ownerID string) (*character.Character, error) {
	chars, err := r.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range chars {
		if c.Type == character.TypeMain {
			return c, nil
		}
	}
	return nil, rosterr.NotFoundf("no main character for owner '%s'", ownerID).
		WithMeta("owner_id", ownerID)
}

func (r *InMemoryRepository) GetSubclasses(_ context.Context, parentID string) ([]*character.Character, error) {
	if parentID == "" {
		return nil, rosterr.InvalidArgument("parent ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*character.Character
	for _, char := range r.chars {
		if char.ParentID == parentID {
			c := *char
			result = append(result, &c)
		}
	}
	character.SortForDisplay(result)

	return result, nil
}

func (r *InMemoryRepository) GetAlts(ctx context.Context, ownerID string) ([]*character.Character, error) {
	chars, err := r.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var alts []*character.Character
	for _, c := range chars {
		if c.Type == character.TypeAlt {
			alts = append(alts, c)
		}
	}
	return alts, nil
}

func (r *InMemoryRepository) CountSubclasses(ctx context.Context, parentID string) (int, error) {
	subs, err := r.GetSubclasses(ctx, parentID)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (r *InMemoryRepository) Update(_ context.Context, char *character.Character) error {
	if err := validateRecord(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.chars[char.ID]
	if !exists {
		return rosterr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = time.Now().UTC()

	c := *char
	r.chars[char.ID] = &c

	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chars[id]; !exists {
		return rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.chars, id)
	return nil
}

func (r *InMemoryRepository) DeleteByOwner(_ context.Context, ownerID string) ([]string, error) {
	if ownerID == "" {
		return nil, rosterr.InvalidArgument("owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, char := range r.chars {
		if char.OwnerID == ownerID {
			ids = append(ids, id)
			delete(r.chars, id)
		}
	}
	return ids, nil
}

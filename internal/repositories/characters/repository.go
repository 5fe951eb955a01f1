package characters

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/character"
)

// Repository defines persistence for character records.
type Repository interface {
	// Create stores a new character. The ID must be set by the caller.
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID.
	Get(ctx context.Context, id string) (*character.Character, error)

	// GetByOwner returns all of a user's characters in display order:
	// main, then main subclasses, then the rest, each by creation time.
	GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)

	// GetMain returns the owner's main character.
	GetMain(ctx context.Context, ownerID string) (*character.Character, error)

	// GetSubclasses returns the subclass rows under a parent character.
	GetSubclasses(ctx context.Context, parentID string) ([]*character.Character, error)

	// GetAlts returns the owner's alt characters.
	GetAlts(ctx context.Context, ownerID string) ([]*character.Character, error)

	// CountSubclasses returns how many subclass rows a parent has.
	CountSubclasses(ctx context.Context, parentID string) (int, error)

	// Update replaces an existing character's fields.
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByOwner removes every character belonging to a user and
	// returns the IDs that were removed so callers can cascade.
	DeleteByOwner(ctx context.Context, ownerID string) ([]string, error)
}

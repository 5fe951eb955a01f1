package roster

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/character"
)

// Repository defines persistence for battle-roster entries.
type Repository interface {
	// Put records a character's tier for an item, overwriting any
	// previous tier for the same item.
	Put(ctx context.Context, entry *character.RosterEntry) error

	// GetByCharacter returns a character's roster entries.
	GetByCharacter(ctx context.Context, characterID string) ([]*character.RosterEntry, error)

	// Delete removes a single item entry for a character.
	Delete(ctx context.Context, characterID, item string) error

	// DeleteByCharacter removes every entry for a character.
	DeleteByCharacter(ctx context.Context, characterID string) error
}

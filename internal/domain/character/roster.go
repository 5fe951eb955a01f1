package character

import "time"

// RosterEntry records that a character holds a battle-roster item at a tier.
// The (CharacterID, Item) pair is unique; writing the same pair again
// overwrites the tier.
type RosterEntry struct {
	CharacterID string
	Item        string
	Tier        string
	UpdatedAt   time.Time
}

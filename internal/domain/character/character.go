package character

import (
	"sort"
	"time"
)

// Type distinguishes a user's primary character, its subclass variants, and
// secondary (alt) characters with their own subclasses.
type Type string

const (
	TypeMain         Type = "main"
	TypeMainSubclass Type = "main_subclass"
	TypeAlt          Type = "alt"
	TypeAltSubclass  Type = "alt_subclass"
)

// GuildNone is the neutral guild value for unaffiliated characters.
const GuildNone = "None"

// IsSubclass reports whether the type is a subclass variant.
func (t Type) IsSubclass() bool {
	return t == TypeMainSubclass || t == TypeAltSubclass
}

// SubclassOf returns the subclass type nested under a parent of type t.
func (t Type) SubclassOf() Type {
	if t == TypeAlt {
		return TypeAltSubclass
	}
	return TypeMainSubclass
}

// Character is a registered in-game character owned by a Discord user.
// Subclass rows reference their parent through ParentID and share the
// parent's Name, GameUID and Guild.
type Character struct {
	ID           string
	OwnerID      string
	Name         string // in-game name (IGN)
	GameUID      string // digits-only external game UID
	Class        string
	Subclass     string
	ScoreBracket string
	Guild        string
	Type         Type
	ParentID     string // set on subclass rows only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caps bounds how many characters of each kind a user may register.
type Caps struct {
	MainSubclasses   int
	Alts             int
	SubclassesPerAlt int
}

// DefaultCaps returns the standard roster limits: one main (implicit),
// three main subclasses, three alts, three subclasses under each alt.
func DefaultCaps() Caps {
	return Caps{MainSubclasses: 3, Alts: 3, SubclassesPerAlt: 3}
}

// SortForDisplay orders characters for profile rendering: main first, then
// main subclasses, then everything else, each group by creation time.
func SortForDisplay(chars []*Character) {
	rank := func(t Type) int {
		switch t {
		case TypeMain:
			return 0
		case TypeMainSubclass:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(chars, func(i, j int) bool {
		ri, rj := rank(chars[i].Type), rank(chars[j].Type)
		if ri != rj {
			return ri < rj
		}
		return chars[i].CreatedAt.Before(chars[j].CreatedAt)
	})
}

// ValidGameUID reports whether uid is non-empty and digits only.
func ValidGameUID(uid string) bool {
	if uid == "" {
		return false
	}
	for _, r := range uid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClassesInUse returns the distinct classes across a character list.
func ClassesInUse(chars []*Character) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, c := range chars {
		if c.Class != "" && !seen[c.Class] {
			seen[c.Class] = true
			classes = append(classes, c.Class)
		}
	}
	return classes
}

// Package application models a character's request to join a gated guild,
// resolved by peer vote or administrator override.
package application

import "time"

// Status is the application lifecycle state. Once terminal it never changes.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Side is a vote direction.
type Side string

const (
	SideAccept Side = "accept"
	SideDeny   Side = "deny"
)

// Opposite returns the other vote side.
func (s Side) Opposite() Side {
	if s == SideAccept {
		return SideDeny
	}
	return SideAccept
}

// Application is a pending or resolved guild application. A voter appears in
// at most one of the two vote sets at any time.
type Application struct {
	ID           string
	UserID       string
	CharacterID  string
	Guild        string
	Status       Status
	AcceptVoters []string
	DenyVoters   []string
	ChannelID    string // channel the ballot message was posted to
	MessageID    string // ballot message, edited as tallies change
	ResolvedBy   string // admin user ID when resolved by override
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the application has been resolved.
func (a *Application) Terminal() bool {
	return a.Status != StatusPending
}

// VotedSide returns the side userID has voted on, if any.
func (a *Application) VotedSide(userID string) (Side, bool) {
	for _, v := range a.AcceptVoters {
		if v == userID {
			return SideAccept, true
		}
	}
	for _, v := range a.DenyVoters {
		if v == userID {
			return SideDeny, true
		}
	}
	return "", false
}

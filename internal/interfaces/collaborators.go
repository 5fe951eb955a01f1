// Package interfaces declares the external collaborators the services call
// out to. Implementations live in the Discord layer and the sync client;
// tests substitute generated mocks.
package interfaces

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/application"
	"github.com/frostveil/rosterbot/internal/domain/character"
)

//go:generate mockgen -destination=mock/mock_collaborators.go -package=mockinterfaces -source=collaborators.go

// RoleGrants manages role-equivalent membership markers for users.
type RoleGrants interface {
	// AddClassRole grants the role matching a class.
	AddClassRole(ctx context.Context, userID, class string) error

	// RemoveClassRole revokes the role matching a class.
	RemoveClassRole(ctx context.Context, userID, class string) error

	// GrantGuildRole grants guild membership markers.
	GrantGuildRole(ctx context.Context, userID, guild string) error

	// RevokeGuildRole revokes guild membership markers.
	RevokeGuildRole(ctx context.Context, userID, guild string) error
}

// DisplayNames mirrors a player's in-game name into their platform
// display name.
type DisplayNames interface {
	UpdateDisplayName(ctx context.Context, userID, name string) error
}

// RosterSync pushes a user's character list to the external roster sheet.
type RosterSync interface {
	SyncUser(ctx context.Context, ownerID string, chars []*character.Character) error
}

// ActivityEvent is a moderator-facing audit entry.
type ActivityEvent struct {
	Kind      string // e.g. "character_registered", "application_approved"
	UserID    string
	Character string
	Detail    string
}

// ActivityLog delivers audit entries to the moderator log channel.
// Delivery failures are logged by implementations, never surfaced.
type ActivityLog interface {
	Record(ctx context.Context, event ActivityEvent)
}

// BallotNotifier renders and delivers guild-application ballots.
type BallotNotifier interface {
	// PostBallot posts a fresh interactive ballot and returns where it
	// landed.
	PostBallot(ctx context.Context, app *application.Application) (channelID, messageID string, err error)

	// UpdateBallot re-renders the ballot's tallies in place.
	UpdateBallot(ctx context.Context, app *application.Application) error

	// CloseBallot replaces the ballot with a static terminal outcome.
	CloseBallot(ctx context.Context, app *application.Application) error

	// DeleteBallot removes a ballot message. Missing messages are not an
	// error.
	DeleteBallot(ctx context.Context, channelID, messageID string) error
}

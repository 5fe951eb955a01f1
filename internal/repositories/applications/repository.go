package applications

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/application"
)

// Repository defines persistence for guild applications.
//
// CastVote and UpdateStatus are the two operations with concurrency
// guarantees: CastVote applies the retract-from-other-side and record-vote
// as one atomic store operation, and UpdateStatus only moves a pending
// application, so a terminal status is never overwritten.
type Repository interface {
	// Create stores a new pending application. The (user, character)
	// pair is unique among live applications.
	Create(ctx context.Context, app *application.Application) error

	// Get retrieves an application by ID.
	Get(ctx context.Context, id string) (*application.Application, error)

	// GetByMessage retrieves the application whose ballot message has the
	// given ID.
	GetByMessage(ctx context.Context, messageID string) (*application.Application, error)

	// GetByUserAndCharacter retrieves the live application for a
	// user/character pair.
	GetByUserAndCharacter(ctx context.Context, userID, characterID string) (*application.Application, error)

	// ListPending returns every pending application.
	ListPending(ctx context.Context) ([]*application.Application, error)

	// CastVote records a vote, first retracting any prior vote by the
	// same voter on either side, and returns the resulting tallies.
	// Fails with a failed precondition error when the application is not
	// pending.
	CastVote(ctx context.Context, id, voterID string, side application.Side) (accept, deny int, err error)

	// RemoveVote retracts a voter's vote from whichever side holds it.
	RemoveVote(ctx context.Context, id, voterID string) error

	// UpdateStatus moves a pending application to a terminal status,
	// recording the resolving admin when set. Fails with a failed
	// precondition error when the application is already terminal.
	UpdateStatus(ctx context.Context, id string, status application.Status, resolvedBy string) error

	// SetMessage records the posted ballot message for later editing.
	SetMessage(ctx context.Context, id, channelID, messageID string) error

	// Delete removes an application and its indexes.
	Delete(ctx context.Context, id string) error
}

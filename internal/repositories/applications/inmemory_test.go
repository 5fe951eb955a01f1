package applications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostveil/rosterbot/internal/domain/application"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

func newPendingApp(t *testing.T, repo *InMemoryRepository, id, userID, charID string) *application.Application {
	t.Helper()
	app := &application.Application{
		ID:          id,
		UserID:      userID,
		CharacterID: charID,
		Guild:       "Frostveil",
	}
	require.NoError(t, repo.Create(context.Background(), app))
	return app
}

func TestInMemory_CreateRejectsDuplicatePair(t *testing.T) {
	repo := NewInMemory()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	err := repo.Create(context.Background(), &application.Application{
		ID:          "app-2",
		UserID:      "user-1",
		CharacterID: "char-1",
		Guild:       "Frostveil",
	})
	assert.True(t, rosterr.Is(err, rosterr.CodeAlreadyExists))
}

func TestInMemory_CastVoteMovesVoterAcrossSides(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	accept, deny, err := repo.CastVote(ctx, "app-1", "mod-1", application.SideAccept)
	require.NoError(t, err)
	assert.Equal(t, 1, accept)
	assert.Equal(t, 0, deny)

	// Same voter switching sides leaves exactly one vote.
	accept, deny, err = repo.CastVote(ctx, "app-1", "mod-1", application.SideDeny)
	require.NoError(t, err)
	assert.Equal(t, 0, accept)
	assert.Equal(t, 1, deny)

	// Repeating the same side is a no-op on the tallies.
	accept, deny, err = repo.CastVote(ctx, "app-1", "mod-1", application.SideDeny)
	require.NoError(t, err)
	assert.Equal(t, 0, accept)
	assert.Equal(t, 1, deny)

	app, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	side, voted := app.VotedSide("mod-1")
	require.True(t, voted)
	assert.Equal(t, application.SideDeny, side)
}

func TestInMemory_CastVoteOnResolvedFails(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	require.NoError(t, repo.UpdateStatus(ctx, "app-1", application.StatusApproved, ""))

	_, _, err := repo.CastVote(ctx, "app-1", "mod-1", application.SideAccept)
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestInMemory_UpdateStatusIsMonotonic(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	require.NoError(t, repo.UpdateStatus(ctx, "app-1", application.StatusDenied, "admin-1"))

	err := repo.UpdateStatus(ctx, "app-1", application.StatusApproved, "admin-2")
	assert.True(t, rosterr.IsFailedPrecondition(err))

	app, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusDenied, app.Status)
	assert.Equal(t, "admin-1", app.ResolvedBy)
}

func TestInMemory_RemoveVote(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	_, _, err := repo.CastVote(ctx, "app-1", "mod-1", application.SideAccept)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveVote(ctx, "app-1", "mod-1"))

	app, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, app.AcceptVoters)
	assert.Empty(t, app.DenyVoters)

	// Removing an absent vote is not an error.
	assert.NoError(t, repo.RemoveVote(ctx, "app-1", "mod-2"))
}

func TestInMemory_ListPendingExcludesResolved(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")
	newPendingApp(t, repo, "app-2", "user-2", "char-2")

	require.NoError(t, repo.UpdateStatus(ctx, "app-1", application.StatusApproved, ""))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "app-2", pending[0].ID)
}

func TestInMemory_GetByMessage(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	require.NoError(t, repo.SetMessage(ctx, "app-1", "chan-1", "msg-1"))

	app, err := repo.GetByMessage(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)
	assert.Equal(t, "chan-1", app.ChannelID)

	_, err = repo.GetByMessage(ctx, "msg-unknown")
	assert.True(t, rosterr.IsNotFound(err))
}

func TestInMemory_DeleteFreesPair(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	newPendingApp(t, repo, "app-1", "user-1", "char-1")

	require.NoError(t, repo.Delete(ctx, "app-1"))

	_, err := repo.GetByUserAndCharacter(ctx, "user-1", "char-1")
	assert.True(t, rosterr.IsNotFound(err))

	// The pair can be reused after deletion.
	newPendingApp(t, repo, "app-2", "user-1", "char-1")
}

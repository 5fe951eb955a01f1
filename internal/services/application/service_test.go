package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/frostveil/rosterbot/internal/domain/application"
	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	mockinterfaces "github.com/frostveil/rosterbot/internal/interfaces/mock"
	"github.com/frostveil/rosterbot/internal/repositories/applications"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
)

type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("app-%d", g.n)
}

type stubAdmins struct{ admins map[string]bool }

func (a *stubAdmins) IsAdmin(_ context.Context, userID string) (bool, error) {
	return a.admins[userID], nil
}

type fixture struct {
	svc    Service
	apps   *applications.InMemoryRepository
	chars  *characters.InMemoryRepository
	grants *mockinterfaces.MockRoleGrants
	admins *stubAdmins
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		apps:   applications.NewInMemory(),
		chars:  characters.NewInMemory(),
		grants: mockinterfaces.NewMockRoleGrants(ctrl),
		admins: &stubAdmins{admins: map[string]bool{"admin-1": true}},
	}

	// Ballots land on sequential message IDs so vote tests can address them.
	posted := 0
	notifier := mockinterfaces.NewMockBallotNotifier(ctrl)
	notifier.EXPECT().PostBallot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *application.Application) (string, string, error) {
			posted++
			return "ballots", fmt.Sprintf("msg-%d", posted), nil
		}).AnyTimes()
	notifier.EXPECT().UpdateBallot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	notifier.EXPECT().CloseBallot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	notifier.EXPECT().DeleteBallot(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	syncMock := mockinterfaces.NewMockRosterSync(ctrl)
	syncMock.EXPECT().SyncUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	activityMock := mockinterfaces.NewMockActivityLog(ctrl)
	activityMock.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	f.svc = NewService(&Config{
		Applications:  f.apps,
		Characters:    f.chars,
		Notifier:      notifier,
		Grants:        f.grants,
		Activity:      activityMock,
		Sync:          syncMock,
		Admins:        f.admins,
		UUIDGenerator: &seqIDs{},
		Threshold:     2,
		Logger:        zerolog.Nop(),
	})
	return f
}

func seedApplicant(t *testing.T, f *fixture, guild string) *character.Character {
	t.Helper()
	char := &character.Character{
		ID: "char-1", OwnerID: "user-1", Name: "Nyx", GameUID: "123456",
		Class: "Frost Mage", Guild: guild, Type: character.TypeMain,
	}
	require.NoError(t, f.chars.Create(context.Background(), char))
	return char
}

// openApplication opens an application and returns its ballot message ID.
func openApplication(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))
	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	require.NotEmpty(t, app.MessageID)
	return app.MessageID
}

func TestOpen_PostsBallotAndRecordsMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")

	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))

	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusPending, app.Status)
	assert.Equal(t, "ballots", app.ChannelID)
	assert.Equal(t, "msg-1", app.MessageID)
}

func TestOpen_SupersedesExistingPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")

	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))
	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))

	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	assert.Equal(t, "app-2", app.ID)

	pending, err := f.apps.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestOpen_ClearsResolvedApplicationForThePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")

	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))
	require.NoError(t, f.apps.UpdateStatus(ctx, "app-1", application.StatusDenied, ""))

	// A denied application does not block re-applying.
	require.NoError(t, f.svc.Open(ctx, "user-1", "char-1", "Frostveil"))

	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	assert.Equal(t, "app-2", app.ID)
	assert.Equal(t, application.StatusPending, app.Status)
}

func TestVote_SelfVoteRejected(t *testing.T) {
	f := newFixture(t)
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	_, err := f.svc.Vote(context.Background(), "user-1", msgID, application.SideAccept)
	assert.True(t, rosterr.IsPermissionDenied(err))
}

func TestVote_UnknownSideRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Vote(context.Background(), "mod-1", "msg-1", application.Side("maybe"))
	assert.True(t, rosterr.Is(err, rosterr.CodeInvalidArgument))
}

func TestVote_SecondAcceptApproves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	outcome, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideAccept)
	require.NoError(t, err)
	assert.False(t, outcome.Resolved)
	assert.Equal(t, 1, outcome.Accept)

	f.grants.EXPECT().GrantGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)

	outcome, err = f.svc.Vote(ctx, "mod-2", msgID, application.SideAccept)
	require.NoError(t, err)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, 2, outcome.Accept)
	assert.Equal(t, application.StatusApproved, outcome.Application.Status)

	// Approval keeps the character's guild choice.
	char, err := f.chars.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Frostveil", char.Guild)
}

func TestVote_SecondDenyResetsGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	_, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideDeny)
	require.NoError(t, err)

	f.grants.EXPECT().RevokeGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)

	outcome, err := f.svc.Vote(ctx, "mod-2", msgID, application.SideDeny)
	require.NoError(t, err)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, application.StatusDenied, outcome.Application.Status)

	char, err := f.chars.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, character.GuildNone, char.Guild)
}

func TestVote_SwitchingSidesKeepsOneVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	_, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideAccept)
	require.NoError(t, err)

	outcome, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideDeny)
	require.NoError(t, err)
	assert.False(t, outcome.Resolved)
	assert.Equal(t, 0, outcome.Accept)
	assert.Equal(t, 1, outcome.Deny)
}

func TestVote_OnResolvedBallotFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	f.grants.EXPECT().GrantGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)

	_, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideAccept)
	require.NoError(t, err)
	_, err = f.svc.Vote(ctx, "mod-2", msgID, application.SideAccept)
	require.NoError(t, err)

	_, err = f.svc.Vote(ctx, "mod-3", msgID, application.SideAccept)
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestRetract_WithdrawsVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	_, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideAccept)
	require.NoError(t, err)

	outcome, err := f.svc.Retract(ctx, "mod-1", msgID)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Accept)
	assert.Equal(t, 0, outcome.Deny)

	// A retract frees the voter to push the ballot over the line later.
	_, err = f.svc.Vote(ctx, "mod-2", msgID, application.SideAccept)
	require.NoError(t, err)

	f.grants.EXPECT().GrantGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)

	resolved, err := f.svc.Vote(ctx, "mod-1", msgID, application.SideAccept)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
}

func TestRetract_OnResolvedBallotFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	f.grants.EXPECT().RevokeGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)
	require.NoError(t, f.svc.Override(ctx, "admin-1", msgID, false))

	_, err := f.svc.Retract(ctx, "mod-1", msgID)
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestOverride_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	err := f.svc.Override(ctx, "mod-1", msgID, true)
	assert.True(t, rosterr.IsPermissionDenied(err))

	// The ballot is untouched by the rejected override.
	app, err := f.apps.GetByMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusPending, app.Status)
}

func TestOverride_ApprovesImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	f.grants.EXPECT().GrantGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)

	require.NoError(t, f.svc.Override(ctx, "admin-1", msgID, true))

	app, err := f.apps.GetByMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusApproved, app.Status)
	assert.Equal(t, "admin-1", app.ResolvedBy)
}

func TestOverride_DenyResetsGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	f.grants.EXPECT().RevokeGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)
	require.NoError(t, f.svc.Override(ctx, "admin-1", msgID, false))

	char, err := f.chars.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, character.GuildNone, char.Guild)
}

func TestSupersede_AbsentApplicationIsNoOp(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.Supersede(context.Background(), "user-1", "char-1"))
}

func TestSupersede_LeavesResolvedApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	f.grants.EXPECT().GrantGuildRole(gomock.Any(), "user-1", "Frostveil").Return(nil)
	require.NoError(t, f.svc.Override(ctx, "admin-1", msgID, true))

	require.NoError(t, f.svc.Supersede(ctx, "user-1", "char-1"))

	// The resolved record stays as history.
	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusApproved, app.Status)
}

func TestRestore_RepostsMissingBallots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// One pending application never got its ballot posted.
	require.NoError(t, f.apps.Create(ctx, &application.Application{
		ID: "app-lost", UserID: "user-1", CharacterID: "char-1", Guild: "Frostveil",
	}))

	require.NoError(t, f.svc.Restore(ctx))

	app, err := f.apps.Get(ctx, "app-lost")
	require.NoError(t, err)
	assert.NotEmpty(t, app.MessageID)
	assert.Equal(t, "ballots", app.ChannelID)
}

func TestRestore_ReplacesStaleBallots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedApplicant(t, f, "Frostveil")
	msgID := openApplication(t, f)

	require.NoError(t, f.svc.Restore(ctx))

	// The old message is gone and the pointer follows the fresh post.
	app, err := f.apps.GetByUserAndCharacter(ctx, "user-1", "char-1")
	require.NoError(t, err)
	assert.NotEqual(t, msgID, app.MessageID)
	assert.NotEmpty(t, app.MessageID)
}

package character

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
)

func TestRemove_OneCharacterCascadesSubclasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")
	seedSubclass(t, f, "sub-1")

	require.NoError(t, f.roster.Put(ctx, &character.RosterEntry{
		CharacterID: "main-1", Item: "Frost Sigil", Tier: "T3",
	}))

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)

	p, err := f.svc.ChooseRemovalTarget(ctx, "user-1", "main-1")
	require.NoError(t, err)
	assert.Equal(t, RemoveStepConfirm, p.Step)
	require.NotNil(t, p.Target)
	assert.Equal(t, 1, p.CascadeCount)

	// Nothing else owns either class, so both roles go.
	f.grants.EXPECT().RemoveClassRole(gomock.Any(), "user-1", "Frost Mage").Return(nil)
	f.grants.EXPECT().RemoveClassRole(gomock.Any(), "user-1", "Storm Caller").Return(nil)

	outcome, err := f.svc.ConfirmRemoval(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, outcome.RemovedAll)
	assert.ElementsMatch(t, []string{"main-1", "sub-1"}, outcome.RemovedIDs)

	_, err = f.chars.Get(ctx, "main-1")
	assert.True(t, rosterr.IsNotFound(err))
	_, err = f.chars.Get(ctx, "sub-1")
	assert.True(t, rosterr.IsNotFound(err))

	entries, err := f.roster.GetByCharacter(ctx, "main-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove_SubclassAloneLeavesParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")
	seedSubclass(t, f, "sub-1")

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)
	p, err := f.svc.ChooseRemovalTarget(ctx, "user-1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.CascadeCount)

	f.grants.EXPECT().RemoveClassRole(gomock.Any(), "user-1", "Storm Caller").Return(nil)

	outcome, err := f.svc.ConfirmRemoval(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1"}, outcome.RemovedIDs)

	_, err = f.chars.Get(ctx, "main-1")
	assert.NoError(t, err)
}

func TestRemove_ClassRoleKeptWhileAnotherCharacterUsesIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "alt-1", OwnerID: "user-1", Class: "Frost Mage", Type: character.TypeAlt,
	}))

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)
	_, err = f.svc.ChooseRemovalTarget(ctx, "user-1", "alt-1")
	require.NoError(t, err)

	// The main still plays Frost Mage; no role call expected.
	_, err = f.svc.ConfirmRemoval(ctx, "user-1")
	require.NoError(t, err)
}

func TestRemove_AllWipesRosterAndTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")
	seedSubclass(t, f, "sub-1")

	require.NoError(t, f.tzs.Set(ctx, &timezones.Record{
		UserID: "user-1", Region: "Europe", Country: "Germany", Timezone: "Europe/Berlin",
	}))

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)
	p, err := f.svc.ChooseRemovalTarget(ctx, "user-1", RemoveTargetAll)
	require.NoError(t, err)
	assert.True(t, p.TargetAll)

	f.grants.EXPECT().RemoveClassRole(gomock.Any(), "user-1", "Frost Mage").Return(nil)
	f.grants.EXPECT().RemoveClassRole(gomock.Any(), "user-1", "Storm Caller").Return(nil)

	outcome, err := f.svc.ConfirmRemoval(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, outcome.RemovedAll)
	assert.ElementsMatch(t, []string{"main-1", "sub-1"}, outcome.RemovedIDs)

	chars, err := f.chars.GetByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, chars)

	_, err = f.tzs.Get(ctx, "user-1")
	assert.True(t, rosterr.IsNotFound(err))
}

func TestRemove_TargetMustBeOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "foreign", OwnerID: "user-2", Type: character.TypeMain,
	}))

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)
	_, err = f.svc.ChooseRemovalTarget(ctx, "user-1", "foreign")
	assert.True(t, rosterr.IsPermissionDenied(err))
}

func TestRemove_ConfirmWithoutTargetFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.ConfirmRemoval(ctx, "user-1")
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestRemove_CancelClearsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedMain(t, f, "None")

	_, err := f.svc.StartRemoval(ctx, "user-1")
	require.NoError(t, err)

	f.svc.CancelRemoval("user-1")

	_, err = f.svc.ConfirmRemoval(ctx, "user-1")
	assert.True(t, rosterr.IsNotFound(err))
}

package character

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/gamedata"
	mockinterfaces "github.com/frostveil/rosterbot/internal/interfaces/mock"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
	"github.com/frostveil/rosterbot/internal/repositories/roster"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
	"github.com/frostveil/rosterbot/internal/session"
)

type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type stubGate struct {
	opened     []string
	superseded []string
}

func (g *stubGate) Open(_ context.Context, _, characterID, _ string) error {
	g.opened = append(g.opened, characterID)
	return nil
}

func (g *stubGate) Supersede(_ context.Context, _, characterID string) error {
	g.superseded = append(g.superseded, characterID)
	return nil
}

type fixture struct {
	svc    Service
	chars  *characters.InMemoryRepository
	roster *roster.InMemoryRepository
	tzs    *timezones.InMemoryRepository
	grants *mockinterfaces.MockRoleGrants
	names  *mockinterfaces.MockDisplayNames
	gate   *stubGate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		chars:  characters.NewInMemory(),
		roster: roster.NewInMemory(),
		tzs:    timezones.NewInMemory(),
		grants: mockinterfaces.NewMockRoleGrants(ctrl),
		names:  mockinterfaces.NewMockDisplayNames(ctrl),
		gate:   &stubGate{},
	}

	// Sync and activity are side channels the flows never read back.
	syncMock := mockinterfaces.NewMockRosterSync(ctrl)
	syncMock.EXPECT().SyncUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	activityMock := mockinterfaces.NewMockActivityLog(ctrl)
	activityMock.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	newStore := func() *session.Config {
		return &session.Config{TTL: 30 * time.Minute, SweepInterval: time.Hour}
	}
	registrations := session.NewStore[State](newStore())
	edits := session.NewStore[EditState](newStore())
	removals := session.NewStore[RemoveState](newStore())
	t.Cleanup(registrations.Stop)
	t.Cleanup(edits.Stop)
	t.Cleanup(removals.Stop)

	f.svc = NewService(&Config{
		Characters:    f.chars,
		Roster:        f.roster,
		Timezones:     f.tzs,
		Registrations: registrations,
		Edits:         edits,
		Removals:      removals,
		Grants:        f.grants,
		Names:         f.names,
		Sync:          syncMock,
		Activity:      activityMock,
		Gate:          f.gate,
		UUIDGenerator: &seqIDs{},
		GatedGuild:    "Frostveil",
		Logger:        zerolog.Nop(),
	})
	return f
}

// driveToIdentity answers every prompt of a main or alt flow up to the
// identity modal, picking T3 for the first roster item and skipping the
// rest.
func driveToIdentity(t *testing.T, f *fixture, userID, guild string) {
	t.Helper()
	ctx := context.Background()

	choose := func(value string) *Prompt {
		p, err := f.svc.Choose(ctx, userID, value)
		require.NoError(t, err)
		return p
	}

	choose("Europe")
	choose("Germany")
	p := choose("Europe/Berlin")
	require.Equal(t, StepClass, p.Step)

	choose("Frost Mage")
	choose("Icicle")
	p = choose("12-14k")
	require.Equal(t, StepRoster, p.Step)
	require.Equal(t, gamedata.RosterItems[0], p.RosterItem)

	choose("T3")
	for i := 1; i < len(gamedata.RosterItems); i++ {
		_, err := f.svc.SkipRosterItem(ctx, userID)
		require.NoError(t, err)
	}

	p = choose(guild)
	require.Equal(t, StepIdentity, p.Step)
	require.True(t, p.NeedsModal)
}

func TestWizard_MainFlowRegistersCharacter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)
	assert.Equal(t, StepRegion, p.Step)
	assert.Equal(t, gamedata.RegionNames(), p.Options)

	driveToIdentity(t, f, "user-1", "None")

	f.grants.EXPECT().AddClassRole(gomock.Any(), "user-1", "Frost Mage").Return(nil)
	f.names.EXPECT().UpdateDisplayName(gomock.Any(), "user-1", "Nyx").Return(nil)

	char, err := f.svc.Commit(ctx, "user-1", "Nyx", "123456")
	require.NoError(t, err)
	assert.Equal(t, character.TypeMain, char.Type)
	assert.Equal(t, "Frost Mage", char.Class)
	assert.Equal(t, "Icicle", char.Subclass)
	assert.Equal(t, "12-14k", char.ScoreBracket)
	assert.Equal(t, character.GuildNone, char.Guild)

	// Commit persisted the character and its single roster pick.
	saved, err := f.chars.Get(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, "123456", saved.GameUID)

	entries, err := f.roster.GetByCharacter(ctx, char.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, gamedata.RosterItems[0], entries[0].Item)
	assert.Equal(t, "T3", entries[0].Tier)

	// The timezone answer is remembered for later alt registrations.
	tz, err := f.tzs.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz.Timezone)

	// Session is gone; the flow cannot be committed twice.
	_, err = f.svc.Commit(ctx, "user-1", "Nyx", "123456")
	assert.True(t, rosterr.IsNotFound(err))

	// A non-gated guild never opens an application.
	assert.Empty(t, f.gate.opened)
}

func TestWizard_MainGatedGuildOpensApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)
	driveToIdentity(t, f, "user-1", "Frostveil")

	f.grants.EXPECT().AddClassRole(gomock.Any(), "user-1", "Frost Mage").Return(nil)
	f.names.EXPECT().UpdateDisplayName(gomock.Any(), "user-1", "Nyx").Return(nil)

	char, err := f.svc.Commit(ctx, "user-1", "Nyx", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Frostveil", char.Guild)
	assert.Equal(t, []string{char.ID}, f.gate.opened)
}

func TestWizard_SecondMainRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "main-1", OwnerID: "user-1", Type: character.TypeMain,
	}))

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestWizard_AltSkipsSavedTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tzs.Set(ctx, &timezones.Record{
		UserID: "user-1", Region: "Europe", Country: "Germany", Timezone: "Europe/Berlin",
	}))

	p, err := f.svc.StartRegistration(ctx, "user-1", KindAlt, "")
	require.NoError(t, err)
	assert.Equal(t, StepClass, p.Step)
}

func TestWizard_AltCapEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < character.DefaultCaps().Alts; i++ {
		require.NoError(t, f.chars.Create(ctx, &character.Character{
			ID: fmt.Sprintf("alt-%d", i), OwnerID: "user-1", Type: character.TypeAlt,
		}))
	}

	_, err := f.svc.StartRegistration(ctx, "user-1", KindAlt, "")
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestWizard_SubclassInheritsParentIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "main-1", OwnerID: "user-1", Name: "Nyx", GameUID: "123456",
		Guild: "Frostveil", Type: character.TypeMain, Class: "Frost Mage",
	}))

	p, err := f.svc.StartRegistration(ctx, "user-1", KindSubclass, "main-1")
	require.NoError(t, err)
	assert.Equal(t, StepClass, p.Step)

	_, err = f.svc.Choose(ctx, "user-1", "Storm Caller")
	require.NoError(t, err)
	_, err = f.svc.Choose(ctx, "user-1", "Tempest")
	require.NoError(t, err)

	f.grants.EXPECT().AddClassRole(gomock.Any(), "user-1", "Storm Caller").Return(nil)

	// The bracket answer is the last step; the subclass commits without an
	// identity modal.
	p, err = f.svc.Choose(ctx, "user-1", "16-18k")
	require.NoError(t, err)
	require.Equal(t, StepDone, p.Step)
	require.NotNil(t, p.Character)

	sub := p.Character
	assert.Equal(t, character.TypeMainSubclass, sub.Type)
	assert.Equal(t, "main-1", sub.ParentID)
	assert.Equal(t, "Nyx", sub.Name)
	assert.Equal(t, "123456", sub.GameUID)
	assert.Equal(t, "Frostveil", sub.Guild)
	assert.Equal(t, "Storm Caller", sub.Class)

	// Committing a subclass never opens a guild application.
	assert.Empty(t, f.gate.opened)
}

func TestWizard_SubclassOfSubclassRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "sub-1", OwnerID: "user-1", Type: character.TypeMainSubclass, ParentID: "main-1",
	}))

	_, err := f.svc.StartRegistration(ctx, "user-1", KindSubclass, "sub-1")
	assert.True(t, rosterr.Is(err, rosterr.CodeInvalidArgument))
}

func TestWizard_SubclassOfForeignCharacterRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "main-9", OwnerID: "someone-else", Type: character.TypeMain,
	}))

	_, err := f.svc.StartRegistration(ctx, "user-1", KindSubclass, "main-9")
	assert.True(t, rosterr.IsPermissionDenied(err))
}

func TestWizard_SubclassCapEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.chars.Create(ctx, &character.Character{
		ID: "main-1", OwnerID: "user-1", Type: character.TypeMain,
	}))
	for i := 0; i < character.DefaultCaps().MainSubclasses; i++ {
		require.NoError(t, f.chars.Create(ctx, &character.Character{
			ID: fmt.Sprintf("sub-%d", i), OwnerID: "user-1",
			Type: character.TypeMainSubclass, ParentID: "main-1",
		}))
	}

	_, err := f.svc.StartRegistration(ctx, "user-1", KindSubclass, "main-1")
	assert.True(t, rosterr.IsFailedPrecondition(err))
}

func TestWizard_InvalidChoiceDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)

	_, err = f.svc.Choose(ctx, "user-1", "Atlantis")
	assert.True(t, rosterr.IsValidation(err))

	// The rejected answer left the session on the same prompt.
	p, err := f.svc.CurrentPrompt(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepRegion, p.Step)
}

func TestWizard_BackWithinRosterDropsPick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)

	for _, v := range []string{"Europe", "Germany", "Europe/Berlin", "Frost Mage", "Icicle", "12-14k"} {
		_, err = f.svc.Choose(ctx, "user-1", v)
		require.NoError(t, err)
	}

	p, err := f.svc.Choose(ctx, "user-1", "T2")
	require.NoError(t, err)
	require.Equal(t, gamedata.RosterItems[1], p.RosterItem)

	// Backing up re-asks the first item from scratch.
	p, err = f.svc.Back(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepRoster, p.Step)
	assert.Equal(t, gamedata.RosterItems[0], p.RosterItem)

	p, err = f.svc.Choose(ctx, "user-1", "T5")
	require.NoError(t, err)
	assert.Equal(t, gamedata.RosterItems[1], p.RosterItem)
}

func TestWizard_BackFromGuildReturnsToLastRosterItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)

	for _, v := range []string{"Europe", "Germany", "Europe/Berlin", "Frost Mage", "Icicle", "12-14k"} {
		_, err = f.svc.Choose(ctx, "user-1", v)
		require.NoError(t, err)
	}
	for range gamedata.RosterItems {
		_, err = f.svc.SkipRosterItem(ctx, "user-1")
		require.NoError(t, err)
	}

	p, err := f.svc.CurrentPrompt(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, StepGuild, p.Step)

	p, err = f.svc.Back(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepRoster, p.Step)
	assert.Equal(t, gamedata.RosterItems[len(gamedata.RosterItems)-1], p.RosterItem)
}

func TestWizard_BackAtFirstStepStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)

	p, err := f.svc.Back(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepRegion, p.Step)
}

func TestWizard_CommitValidatesIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)
	driveToIdentity(t, f, "user-1", "None")

	_, err = f.svc.Commit(ctx, "user-1", "", "123456")
	assert.True(t, rosterr.IsValidation(err))

	_, err = f.svc.Commit(ctx, "user-1", "Nyx", "12ab56")
	assert.True(t, rosterr.IsValidation(err))

	// Rejected identities leave the session alive for a resubmit.
	p, err := f.svc.CurrentPrompt(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepIdentity, p.Step)
}

func TestWizard_ChooseWithoutSessionFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Choose(context.Background(), "user-1", "Europe")
	assert.True(t, rosterr.IsNotFound(err))
}

func TestWizard_CancelClearsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)

	f.svc.CancelRegistration("user-1")

	_, err = f.svc.CurrentPrompt(ctx, "user-1")
	assert.True(t, rosterr.IsNotFound(err))
}

func TestWizard_StartReplacesInFlightSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)
	_, err = f.svc.Choose(ctx, "user-1", "Europe")
	require.NoError(t, err)

	p, err := f.svc.StartRegistration(ctx, "user-1", KindMain, "")
	require.NoError(t, err)
	assert.Equal(t, StepRegion, p.Step)
}

package character

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/domain/character"
	"github.com/frostveil/rosterbot/internal/interfaces"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
	"github.com/frostveil/rosterbot/internal/repositories/roster"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
	"github.com/frostveil/rosterbot/internal/session"
	"github.com/frostveil/rosterbot/internal/uuid"
)

// GuildGate is the slice of the application workflow the wizard needs:
// opening an application when a main character picks the gated guild, and
// superseding a pending one when the choice changes again.
type GuildGate interface {
	Open(ctx context.Context, userID, characterID, guild string) error
	Supersede(ctx context.Context, userID, characterID string) error
}

// Service drives the registration wizard and the edit and removal flows.
type Service interface {
	// Registration wizard.
	StartRegistration(ctx context.Context, userID string, kind Kind, parentID string) (*Prompt, error)
	Choose(ctx context.Context, userID, value string) (*Prompt, error)
	SkipRosterItem(ctx context.Context, userID string) (*Prompt, error)
	Back(ctx context.Context, userID string) (*Prompt, error)
	CurrentPrompt(ctx context.Context, userID string) (*Prompt, error)
	Commit(ctx context.Context, userID, name, gameUID string) (*character.Character, error)
	CancelRegistration(userID string)

	// Profile.
	Profile(ctx context.Context, userID string) (*ProfileView, error)

	// Field-by-field edit flow.
	StartEdit(ctx context.Context, userID string) (*EditPrompt, error)
	ChooseEditTarget(ctx context.Context, userID, characterID string) (*EditPrompt, error)
	ChooseEditField(ctx context.Context, userID string, field Field) (*EditPrompt, error)
	ApplyEdit(ctx context.Context, userID, value string) (*EditOutcome, error)
	CurrentEditPrompt(ctx context.Context, userID string) (*EditPrompt, error)
	ApplyIdentityEdit(ctx context.Context, userID string, field Field, value string) (*EditOutcome, error)
	CancelEdit(userID string)

	// Removal flow.
	StartRemoval(ctx context.Context, userID string) (*RemovePrompt, error)
	ChooseRemovalTarget(ctx context.Context, userID, target string) (*RemovePrompt, error)
	ConfirmRemoval(ctx context.Context, userID string) (*RemoveOutcome, error)
	CancelRemoval(userID string)
}

// ProfileView is a user's full roster for rendering.
type ProfileView struct {
	Characters []*character.Character
	Rosters    map[string][]*character.RosterEntry // by character ID
}

// Config holds the service's dependencies.
type Config struct {
	Characters characters.Repository
	Roster     roster.Repository
	Timezones  timezones.Repository

	Registrations *session.Store[State]
	Edits         *session.Store[EditState]
	Removals      *session.Store[RemoveState]

	Grants   interfaces.RoleGrants
	Names    interfaces.DisplayNames
	Sync     interfaces.RosterSync
	Activity interfaces.ActivityLog
	Gate     GuildGate

	UUIDGenerator uuid.Generator
	Caps          character.Caps
	GatedGuild    string
	Logger        zerolog.Logger
}

type service struct {
	chars     characters.Repository
	roster    roster.Repository
	timezones timezones.Repository

	registrations *session.Store[State]
	edits         *session.Store[EditState]
	removals      *session.Store[RemoveState]

	grants   interfaces.RoleGrants
	names    interfaces.DisplayNames
	sync     interfaces.RosterSync
	activity interfaces.ActivityLog
	gate     GuildGate

	uuid       uuid.Generator
	caps       character.Caps
	gatedGuild string
	log        zerolog.Logger
}

// NewService creates the character service.
func NewService(cfg *Config) Service {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Characters == nil {
		panic("character repository is required")
	}
	if cfg.Roster == nil {
		panic("roster repository is required")
	}
	if cfg.Timezones == nil {
		panic("timezone repository is required")
	}
	if cfg.Registrations == nil || cfg.Edits == nil || cfg.Removals == nil {
		panic("session stores are required")
	}

	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	caps := cfg.Caps
	if caps == (character.Caps{}) {
		caps = character.DefaultCaps()
	}

	return &service{
		chars:         cfg.Characters,
		roster:        cfg.Roster,
		timezones:     cfg.Timezones,
		registrations: cfg.Registrations,
		edits:         cfg.Edits,
		removals:      cfg.Removals,
		grants:        cfg.Grants,
		names:         cfg.Names,
		sync:          cfg.Sync,
		activity:      cfg.Activity,
		gate:          cfg.Gate,
		uuid:          gen,
		caps:          caps,
		gatedGuild:    cfg.GatedGuild,
		log:           cfg.Logger,
	}
}

func (s *service) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Characters: chars,
		Rosters:    make(map[string][]*character.RosterEntry),
	}
	for _, c := range chars {
		entries, err := s.roster.GetByCharacter(ctx, c.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("character_id", c.ID).Msg("failed to load roster entries")
			continue
		}
		if len(entries) > 0 {
			view.Rosters[c.ID] = entries
		}
	}
	return view, nil
}

// syncRoster pushes the owner's characters to the external sheet. Sync
// failures never fail the flow that triggered them.
func (s *service) syncRoster(ctx context.Context, userID string) {
	if s.sync == nil {
		return
	}
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("roster sync: failed to load characters")
		return
	}
	if err := s.sync.SyncUser(ctx, userID, chars); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("roster sync failed")
	}
}

func (s *service) record(ctx context.Context, event interfaces.ActivityEvent) {
	if s.activity != nil {
		s.activity.Record(ctx, event)
	}
}

// removeClassRoleIfUnused revokes the class role unless another of the
// user's characters still uses the class.
func (s *service) removeClassRoleIfUnused(ctx context.Context, userID, class string) {
	if s.grants == nil || class == "" {
		return
	}
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("grant reconcile: failed to load characters")
		return
	}
	for _, c := range chars {
		if c.Class == class {
			return
		}
	}
	if err := s.grants.RemoveClassRole(ctx, userID, class); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("class", class).Msg("failed to remove class role")
	}
}

func (s *service) addClassRole(ctx context.Context, userID, class string) {
	if s.grants == nil || class == "" {
		return
	}
	if err := s.grants.AddClassRole(ctx, userID, class); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("class", class).Msg("failed to add class role")
	}
}

// Package application implements the guild-application workflow: an
// application opens when a main character picks the gated guild, collects
// moderator votes on an interactive ballot, and resolves at a vote
// threshold or by administrator override.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/domain/application"
	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/interfaces"
	"github.com/frostveil/rosterbot/internal/repositories/applications"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
	"github.com/frostveil/rosterbot/internal/uuid"
)

// DefaultThreshold is the number of same-side votes that resolves an
// application.
const DefaultThreshold = 2

// AdminChecker answers whether a user may override ballots.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// VoteOutcome reports the state of a ballot after a vote.
type VoteOutcome struct {
	Application *application.Application
	Accept      int
	Deny        int
	Resolved    bool
}

// Service drives the application lifecycle.
type Service interface {
	// Open creates a pending application for the character and posts its
	// ballot. An existing live application for the same character is
	// superseded first.
	Open(ctx context.Context, userID, characterID, guild string) error

	// Supersede withdraws the live application for a user/character pair,
	// removing its ballot. Absence is not an error.
	Supersede(ctx context.Context, userID, characterID string) error

	// Vote records a moderator's vote on the ballot message. A repeat
	// vote on the other side moves the voter across; the ballot resolves
	// when either side reaches the threshold.
	Vote(ctx context.Context, voterID, messageID string, side application.Side) (*VoteOutcome, error)

	// Retract withdraws the voter's vote from whichever side holds it.
	Retract(ctx context.Context, voterID, messageID string) (*VoteOutcome, error)

	// Override resolves a pending ballot immediately. Only admins may
	// override.
	Override(ctx context.Context, adminID, messageID string, approve bool) error

	// Restore reconciles ballots with pending applications after a
	// restart: stale ballot messages are deleted and fresh ones posted.
	Restore(ctx context.Context) error
}

// Config holds the service's dependencies.
type Config struct {
	Applications applications.Repository
	Characters   characters.Repository

	Notifier interfaces.BallotNotifier
	Grants   interfaces.RoleGrants
	Activity interfaces.ActivityLog
	Sync     interfaces.RosterSync
	Admins   AdminChecker

	UUIDGenerator uuid.Generator
	Threshold     int
	Logger        zerolog.Logger
}

type service struct {
	apps  applications.Repository
	chars characters.Repository

	notifier interfaces.BallotNotifier
	grants   interfaces.RoleGrants
	activity interfaces.ActivityLog
	sync     interfaces.RosterSync
	admins   AdminChecker

	uuid      uuid.Generator
	threshold int
	log       zerolog.Logger
}

// NewService creates the application service.
func NewService(cfg *Config) Service {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Applications == nil {
		panic("application repository is required")
	}
	if cfg.Characters == nil {
		panic("character repository is required")
	}

	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &service{
		apps:      cfg.Applications,
		chars:     cfg.Characters,
		notifier:  cfg.Notifier,
		grants:    cfg.Grants,
		activity:  cfg.Activity,
		sync:      cfg.Sync,
		admins:    cfg.Admins,
		uuid:      gen,
		threshold: threshold,
		log:       cfg.Logger,
	}
}

func (s *service) Open(ctx context.Context, userID, characterID, guild string) error {
	if userID == "" || characterID == "" {
		return rosterr.InvalidArgument("user ID and character ID are required")
	}

	if err := s.Supersede(ctx, userID, characterID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to supersede before opening")
	}

	// A resolved application for the same pair is history, not a block on
	// re-applying; drop it so the pair index is free.
	if old, err := s.apps.GetByUserAndCharacter(ctx, userID, characterID); err == nil && old.Terminal() {
		if err := s.apps.Delete(ctx, old.ID); err != nil {
			s.log.Warn().Err(err).Str("application_id", old.ID).Msg("failed to clear resolved application")
		}
	}

	app := &application.Application{
		ID:          s.uuid.New(),
		UserID:      userID,
		CharacterID: characterID,
		Guild:       guild,
		Status:      application.StatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return rosterr.Wrap(err, "failed to create application")
	}

	// A missing ballot channel downgrades to a log line; Restore posts
	// the ballot once the channel exists.
	if s.notifier != nil {
		channelID, messageID, err := s.notifier.PostBallot(ctx, app)
		if err != nil {
			s.log.Error().Err(err).Str("application_id", app.ID).Msg("failed to post ballot")
		} else if err := s.apps.SetMessage(ctx, app.ID, channelID, messageID); err != nil {
			s.log.Error().Err(err).Str("application_id", app.ID).Msg("failed to record ballot message")
		}
	}

	s.record(ctx, interfaces.ActivityEvent{
		Kind:   "application_opened",
		UserID: userID,
		Detail: guild,
	})

	s.log.Info().Str("application_id", app.ID).Str("user_id", userID).Str("guild", guild).Msg("application opened")
	return nil
}

func (s *service) Supersede(ctx context.Context, userID, characterID string) error {
	app, err := s.apps.GetByUserAndCharacter(ctx, userID, characterID)
	if rosterr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if app.Terminal() {
		return nil
	}

	if s.notifier != nil && app.MessageID != "" {
		if err := s.notifier.DeleteBallot(ctx, app.ChannelID, app.MessageID); err != nil {
			s.log.Warn().Err(err).Str("application_id", app.ID).Msg("failed to delete superseded ballot")
		}
	}
	if err := s.apps.Delete(ctx, app.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete superseded application")
	}

	s.log.Info().Str("application_id", app.ID).Str("user_id", userID).Msg("application superseded")
	return nil
}

func (s *service) Vote(ctx context.Context, voterID, messageID string, side application.Side) (*VoteOutcome, error) {
	if side != application.SideAccept && side != application.SideDeny {
		return nil, rosterr.InvalidArgumentf("unknown vote side '%s'", side)
	}

	app, err := s.apps.GetByMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if voterID == app.UserID {
		return nil, rosterr.PermissionDenied("you cannot vote on your own application")
	}

	accept, deny, err := s.apps.CastVote(ctx, app.ID, voterID, side)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("application_id", app.ID).
		Str("voter_id", voterID).
		Str("side", string(side)).
		Int("accept", accept).
		Int("deny", deny).
		Msg("vote cast")

	if accept >= s.threshold {
		return s.resolveOutcome(ctx, app.ID, application.StatusApproved, "")
	}
	if deny >= s.threshold {
		return s.resolveOutcome(ctx, app.ID, application.StatusDenied, "")
	}

	fresh, err := s.apps.Get(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	s.updateBallot(ctx, fresh)

	return &VoteOutcome{Application: fresh, Accept: accept, Deny: deny}, nil
}

func (s *service) Retract(ctx context.Context, voterID, messageID string) (*VoteOutcome, error) {
	app, err := s.apps.GetByMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if app.Terminal() {
		return nil, rosterr.FailedPrecondition("that application has already been resolved")
	}

	if err := s.apps.RemoveVote(ctx, app.ID, voterID); err != nil {
		return nil, err
	}

	fresh, err := s.apps.Get(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	s.updateBallot(ctx, fresh)

	return &VoteOutcome{
		Application: fresh,
		Accept:      len(fresh.AcceptVoters),
		Deny:        len(fresh.DenyVoters),
	}, nil
}

func (s *service) Override(ctx context.Context, adminID, messageID string, approve bool) error {
	if s.admins != nil {
		ok, err := s.admins.IsAdmin(ctx, adminID)
		if err != nil {
			return rosterr.Wrap(err, "failed to check admin role")
		}
		if !ok {
			return rosterr.PermissionDenied("only admins can override a ballot")
		}
	}

	app, err := s.apps.GetByMessage(ctx, messageID)
	if err != nil {
		return err
	}

	status := application.StatusDenied
	if approve {
		status = application.StatusApproved
	}
	_, err = s.resolveOutcome(ctx, app.ID, status, adminID)
	return err
}

// resolveOutcome moves the application to a terminal status and applies the
// outcome's side effects. The status update is the linearization point: a
// concurrent resolution loses with a failed precondition and applies
// nothing.
func (s *service) resolveOutcome(ctx context.Context, appID string, status application.Status, resolvedBy string) (*VoteOutcome, error) {
	if err := s.apps.UpdateStatus(ctx, appID, status, resolvedBy); err != nil {
		return nil, err
	}

	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, err
	}

	char, err := s.chars.Get(ctx, app.CharacterID)
	if err != nil {
		s.log.Warn().Err(err).Str("application_id", app.ID).Msg("resolved application for a missing character")
		char = nil
	}

	switch status {
	case application.StatusApproved:
		if s.grants != nil {
			if err := s.grants.GrantGuildRole(ctx, app.UserID, app.Guild); err != nil {
				s.log.Warn().Err(err).Str("user_id", app.UserID).Msg("failed to grant guild role")
			}
		}
	case application.StatusDenied:
		if s.grants != nil {
			if err := s.grants.RevokeGuildRole(ctx, app.UserID, app.Guild); err != nil {
				s.log.Warn().Err(err).Str("user_id", app.UserID).Msg("failed to revoke guild role")
			}
		}
		// A denial also resets the character's guild choice.
		if char != nil {
			char.Guild = character.GuildNone
			if err := s.chars.Update(ctx, char); err != nil {
				s.log.Error().Err(err).Str("character_id", char.ID).Msg("failed to reset guild after denial")
			}
			s.syncOwner(ctx, app.UserID)
		}
	}

	if s.notifier != nil && app.MessageID != "" {
		if err := s.notifier.CloseBallot(ctx, app); err != nil {
			s.log.Warn().Err(err).Str("application_id", app.ID).Msg("failed to close ballot")
		}
	}

	charName := ""
	if char != nil {
		charName = char.Name
	}
	kind := "application_denied"
	if status == application.StatusApproved {
		kind = "application_approved"
	}
	detail := "by vote"
	if resolvedBy != "" {
		detail = "by override"
	}
	s.record(ctx, interfaces.ActivityEvent{
		Kind:      kind,
		UserID:    app.UserID,
		Character: charName,
		Detail:    detail,
	})

	s.log.Info().
		Str("application_id", app.ID).
		Str("status", string(status)).
		Str("resolved_by", resolvedBy).
		Msg("application resolved")

	return &VoteOutcome{
		Application: app,
		Accept:      len(app.AcceptVoters),
		Deny:        len(app.DenyVoters),
		Resolved:    true,
	}, nil
}

func (s *service) Restore(ctx context.Context) error {
	pending, err := s.apps.ListPending(ctx)
	if err != nil {
		return rosterr.Wrap(err, "failed to list pending applications")
	}
	if s.notifier == nil {
		return nil
	}

	// Stale ballots carry dead component state, so each pending
	// application gets a fresh message and the pointer moves with it.
	for _, app := range pending {
		if app.MessageID != "" {
			if err := s.notifier.DeleteBallot(ctx, app.ChannelID, app.MessageID); err != nil {
				s.log.Warn().Err(err).Str("application_id", app.ID).Msg("restore: failed to delete stale ballot")
			}
		}
		channelID, messageID, err := s.notifier.PostBallot(ctx, app)
		if err != nil {
			s.log.Warn().Err(err).Str("application_id", app.ID).Msg("restore: failed to post ballot")
			continue
		}
		if err := s.apps.SetMessage(ctx, app.ID, channelID, messageID); err != nil {
			s.log.Warn().Err(err).Str("application_id", app.ID).Msg("restore: failed to record ballot message")
		}
	}

	s.log.Info().Int("pending", len(pending)).Msg("pending ballots restored")
	return nil
}

func (s *service) updateBallot(ctx context.Context, app *application.Application) {
	if s.notifier == nil || app.MessageID == "" {
		return
	}
	if err := s.notifier.UpdateBallot(ctx, app); err != nil {
		s.log.Warn().Err(err).Str("application_id", app.ID).Msg("failed to update ballot")
	}
}

func (s *service) syncOwner(ctx context.Context, userID string) {
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

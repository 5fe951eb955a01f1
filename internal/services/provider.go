package services

import (
	"github.com/rs/zerolog"

	domainchar "github.com/frostveil/rosterbot/internal/domain/character"
	"github.com/frostveil/rosterbot/internal/interfaces"
	"github.com/frostveil/rosterbot/internal/repositories/applications"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
	"github.com/frostveil/rosterbot/internal/repositories/roster"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
	applicationService "github.com/frostveil/rosterbot/internal/services/application"
	characterService "github.com/frostveil/rosterbot/internal/services/character"
	"github.com/frostveil/rosterbot/internal/session"
)

// Provider holds all service instances
type Provider struct {
	CharacterService   characterService.Service
	ApplicationService applicationService.Service

	// Stores are exposed so the bot can stop their sweepers on shutdown.
	Registrations *session.Store[characterService.State]
	Edits         *session.Store[characterService.EditState]
	Removals      *session.Store[characterService.RemoveState]
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository   characters.Repository
	RosterRepository      roster.Repository
	TimezoneRepository    timezones.Repository
	ApplicationRepository applications.Repository

	Grants   interfaces.RoleGrants
	Names    interfaces.DisplayNames
	Sync     interfaces.RosterSync
	Activity interfaces.ActivityLog
	Notifier interfaces.BallotNotifier
	Admins   applicationService.AdminChecker

	Caps          domainchar.Caps
	GatedGuild    string
	VoteThreshold int
	Sessions      *session.Config
	Logger        zerolog.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemory()
	}
	rosterRepo := cfg.RosterRepository
	if rosterRepo == nil {
		rosterRepo = roster.NewInMemory()
	}
	tzRepo := cfg.TimezoneRepository
	if tzRepo == nil {
		tzRepo = timezones.NewInMemory()
	}
	appRepo := cfg.ApplicationRepository
	if appRepo == nil {
		appRepo = applications.NewInMemory()
	}

	registrations := session.NewStore[characterService.State](cfg.Sessions)
	edits := session.NewStore[characterService.EditState](cfg.Sessions)
	removals := session.NewStore[characterService.RemoveState](cfg.Sessions)

	appService := applicationService.NewService(&applicationService.Config{
		Applications: appRepo,
		Characters:   charRepo,
		Notifier:     cfg.Notifier,
		Grants:       cfg.Grants,
		Activity:     cfg.Activity,
		Sync:         cfg.Sync,
		Admins:       cfg.Admins,
		Threshold:    cfg.VoteThreshold,
		Logger:       cfg.Logger.With().Str("service", "application").Logger(),
	})

	charService := characterService.NewService(&characterService.Config{
		Characters:    charRepo,
		Roster:        rosterRepo,
		Timezones:     tzRepo,
		Registrations: registrations,
		Edits:         edits,
		Removals:      removals,
		Grants:        cfg.Grants,
		Names:         cfg.Names,
		Sync:          cfg.Sync,
		Activity:      cfg.Activity,
		Gate:          appService,
		Caps:          cfg.Caps,
		GatedGuild:    cfg.GatedGuild,
		Logger:        cfg.Logger.With().Str("service", "character").Logger(),
	})

	return &Provider{
		CharacterService:   charService,
		ApplicationService: appService,
		Registrations:      registrations,
		Edits:              edits,
		Removals:           removals,
	}
}

// Stop shuts down the session sweepers.
func (p *Provider) Stop() {
	p.Registrations.Stop()
	p.Edits.Stop()
	p.Removals.Stop()
}

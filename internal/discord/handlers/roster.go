// Package handlers wires Discord interactions to the roster services.
package handlers

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/discord/core"
	"github.com/frostveil/rosterbot/internal/domain/character"
	appsvc "github.com/frostveil/rosterbot/internal/services/application"
	charsvc "github.com/frostveil/rosterbot/internal/services/character"
)

// RosterDomain is the custom ID domain for roster interactions.
const RosterDomain = "roster"

// RosterHandler serves the /roster command and its component flows.
type RosterHandler struct {
	characters   charsvc.Service
	applications appsvc.Service
	ids          *core.CustomIDBuilder
	log          zerolog.Logger
}

// RosterHandlerConfig holds the handler's dependencies.
type RosterHandlerConfig struct {
	CharacterService   charsvc.Service
	ApplicationService appsvc.Service
	Logger             zerolog.Logger
}

// NewRosterHandler creates the roster handler.
func NewRosterHandler(cfg *RosterHandlerConfig) *RosterHandler {
	if cfg == nil || cfg.CharacterService == nil {
		panic("character service is required")
	}
	return &RosterHandler{
		characters:   cfg.CharacterService,
		applications: cfg.ApplicationService,
		ids:          core.NewCustomIDBuilder(RosterDomain),
		log:          cfg.Logger,
	}
}

// RegisterRoutes attaches the roster routes to the pipeline.
func (h *RosterHandler) RegisterRoutes(pipeline *core.Pipeline) {
	router := core.NewRouter(RosterDomain, pipeline)

	router.SubcommandFunc(RosterDomain, "register", h.handleRegister)
	router.SubcommandFunc(RosterDomain, "profile", h.handleProfile)
	router.SubcommandFunc(RosterDomain, "edit", h.handleEditStart)
	router.SubcommandFunc(RosterDomain, "remove", h.handleRemoveStart)

	router.ComponentFunc(actionChoose, h.handleWizardChoose)
	router.ComponentFunc(actionSkip, h.handleWizardSkip)
	router.ComponentFunc(actionBack, h.handleWizardBack)
	router.ComponentFunc(actionCancel, h.handleWizardCancel)
	router.ComponentFunc(actionIdentity, h.handleIdentityButton)
	router.ComponentFunc(actionAddSub, h.handleAddSubclass)
	router.ModalFunc(actionIdentity, h.handleIdentityModal)

	router.ComponentFunc(actionEditTarget, h.handleEditTarget)
	router.ComponentFunc(actionEditField, h.handleEditField)
	router.ComponentFunc(actionEditValue, h.handleEditValue)
	router.ComponentFunc(actionEditCancel, h.handleEditCancel)
	router.ModalFunc(actionEditIdentity, h.handleEditIdentityModal)

	router.ComponentFunc(actionRemoveTarget, h.handleRemoveTarget)
	router.ComponentFunc(actionRemoveConfirm, h.handleRemoveConfirm)
	router.ComponentFunc(actionRemoveCancel, h.handleRemoveCancel)

	router.Register()
}

// handleRegister starts a main or alt registration wizard.
func (h *RosterHandler) handleRegister(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	kind := charsvc.Kind(ctx.GetStringOption("kind"))
	if kind == "" {
		kind = charsvc.KindMain
	}

	prompt, err := h.characters.StartRegistration(ctx.Context, ctx.UserID, kind, "")
	if err != nil {
		return nil, err
	}
	return h.renderPrompt(prompt, false)
}

// handleProfile renders the user's characters with their roster entries.
func (h *RosterHandler) handleProfile(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	view, err := h.characters.Profile(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(view.Characters) == 0 {
		return &core.HandlerResult{
			Response: core.NewEphemeralResponse("You have no characters yet. Use `/roster register` to add one."),
		}, nil
	}

	eb := builders.NewEmbed().
		Title("Your roster").
		Color(builders.ColorInfo)

	for _, c := range view.Characters {
		name := fmt.Sprintf("%s (%s)", c.Name, typeLabel(c.Type))
		lines := []string{
			fmt.Sprintf("%s / %s — %s", c.Class, c.Subclass, c.ScoreBracket),
			fmt.Sprintf("Guild: %s", c.Guild),
		}
		if entries := view.Rosters[c.ID]; len(entries) > 0 {
			parts := make([]string, 0, len(entries))
			for _, e := range entries {
				parts = append(parts, fmt.Sprintf("%s %s", e.Item, e.Tier))
			}
			lines = append(lines, "Roster: "+strings.Join(parts, ", "))
		}
		eb.Field(name, strings.Join(lines, "\n"), false)
	}

	// Subclass slots attach to non-subclass characters only.
	var parents []builders.SelectOption
	for _, c := range view.Characters {
		if c.Type.IsSubclass() {
			continue
		}
		parents = append(parents, builders.SelectOption{
			Label: fmt.Sprintf("%s (%s)", c.Name, typeLabel(c.Type)),
			Value: c.ID,
		})
	}

	response := core.NewEmbedResponse(eb.Build()).AsEphemeral()
	if len(parents) > 0 {
		components := builders.NewComponentBuilder(h.ids).
			SelectMenu("Add a subclass to...", actionAddSub, parents).
			Build()
		response.WithComponents(components...)
	}
	return &core.HandlerResult{Response: response}, nil
}

func typeLabel(t character.Type) string {
	switch t {
	case character.TypeMain:
		return "main"
	case character.TypeMainSubclass:
		return "main subclass"
	case character.TypeAlt:
		return "alt"
	case character.TypeAltSubclass:
		return "alt subclass"
	}
	return string(t)
}

package handlers

import (
	"fmt"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/discord/core"
	charsvc "github.com/frostveil/rosterbot/internal/services/character"
)

// Custom ID actions under the roster domain.
const (
	actionChoose   = "choose"
	actionSkip     = "skip"
	actionBack     = "back"
	actionCancel   = "cancel"
	actionIdentity = "identity"
	actionAddSub   = "addsub"

	actionEditTarget   = "edit_target"
	actionEditField    = "edit_field"
	actionEditValue    = "edit_value"
	actionEditIdentity = "edit_identity"
	actionEditCancel   = "edit_cancel"

	actionRemoveTarget  = "remove_target"
	actionRemoveConfirm = "remove_confirm"
	actionRemoveCancel  = "remove_cancel"
)

// Modal input IDs.
const (
	inputName = "ign"
	inputUID  = "game_uid"
)

var stepTitles = map[charsvc.Step]string{
	charsvc.StepRegion:   "Where do you play from?",
	charsvc.StepCountry:  "Which country?",
	charsvc.StepTimezone: "Which timezone?",
	charsvc.StepClass:    "Pick a class",
	charsvc.StepSubclass: "Pick a subclass",
	charsvc.StepBracket:  "What's your score bracket?",
	charsvc.StepGuild:    "Which guild are you joining?",
}

// handleWizardChoose consumes a select-menu choice and renders the next
// step in place.
func (h *RosterHandler) handleWizardChoose(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	value := ctx.SelectedValue()
	prompt, err := h.characters.Choose(ctx.Context, ctx.UserID, value)
	if err != nil {
		return nil, err
	}
	return h.renderPrompt(prompt, true)
}

func (h *RosterHandler) handleWizardSkip(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.SkipRosterItem(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return h.renderPrompt(prompt, true)
}

func (h *RosterHandler) handleWizardBack(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.Back(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return h.renderPrompt(prompt, true)
}

func (h *RosterHandler) handleWizardCancel(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	h.characters.CancelRegistration(ctx.UserID)
	return &core.HandlerResult{
		Response: core.NewResponse("Registration cancelled.").AsUpdate(),
	}, nil
}

// handleIdentityModal consumes the final name/UID modal and commits the
// character.
func (h *RosterHandler) handleIdentityModal(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	name := ctx.ModalInput(inputName)
	gameUID := ctx.ModalInput(inputUID)

	char, err := h.characters.Commit(ctx.Context, ctx.UserID, name, gameUID)
	if err != nil {
		return nil, err
	}

	embed := builders.NewEmbed().
		Title("Character registered!").
		Color(builders.ColorSuccess).
		Description(fmt.Sprintf("**%s** — %s / %s", char.Name, char.Class, char.Subclass)).
		Field("Score bracket", char.ScoreBracket, true).
		Field("Guild", char.Guild, true).
		Build()

	return &core.HandlerResult{
		Response: core.NewEmbedResponse(embed).AsEphemeral(),
	}, nil
}

// handleAddSubclass starts a subclass wizard for the selected parent.
func (h *RosterHandler) handleAddSubclass(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	parentID := ctx.SelectedValue()
	prompt, err := h.characters.StartRegistration(ctx.Context, ctx.UserID, charsvc.KindSubclass, parentID)
	if err != nil {
		return nil, err
	}
	return h.renderPrompt(prompt, true)
}

// renderPrompt turns a wizard prompt into a Discord response. Component
// interactions update the wizard message in place; the initial command
// response posts a fresh ephemeral message.
func (h *RosterHandler) renderPrompt(prompt *charsvc.Prompt, update bool) (*core.HandlerResult, error) {
	if prompt.Step == charsvc.StepDone {
		response := core.NewResponse(doneMessage(prompt))
		if update {
			response.AsUpdate()
		} else {
			response.AsEphemeral()
		}
		return &core.HandlerResult{Response: response}, nil
	}

	if prompt.NeedsModal {
		if update {
			return &core.HandlerResult{Response: h.identityModal()}, nil
		}
		// A resumed session can land directly on the identity step; a
		// modal cannot open from a command response, so show a button.
		components := builders.NewComponentBuilder(h.ids).
			PrimaryButton("Enter name and UID", actionIdentity, "open").
			DangerButton("Cancel", actionCancel, "x").
			Build()
		return &core.HandlerResult{
			Response: core.NewEphemeralResponse("One last step: your in-game identity.").
				WithComponents(components...),
		}, nil
	}

	title := stepTitles[prompt.Step]
	if prompt.Step == charsvc.StepRoster {
		title = fmt.Sprintf("Battle roster: %s", prompt.RosterItem)
	}

	options := make([]builders.SelectOption, 0, len(prompt.Options))
	for _, opt := range prompt.Options {
		options = append(options, builders.SelectOption{Label: opt, Value: opt})
	}

	cb := builders.NewComponentBuilder(h.ids).
		SelectMenu(title, actionChoose, options)
	if prompt.Skippable {
		cb.SecondaryButton("Skip", actionSkip, "x")
	}
	cb.SecondaryButton("Back", actionBack, "x").
		DangerButton("Cancel", actionCancel, "x")

	embed := builders.NewEmbed().
		Title(title).
		Color(builders.ColorInfo).
		Footer(fmt.Sprintf("Registering a %s character", prompt.Kind)).
		Build()

	response := core.NewEmbedResponse(embed).WithComponents(cb.Build()...)
	if update {
		response.AsUpdate()
	} else {
		response.AsEphemeral()
	}
	return &core.HandlerResult{Response: response}, nil
}

// handleIdentityButton opens the identity modal from the fallback button.
func (h *RosterHandler) handleIdentityButton(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return &core.HandlerResult{Response: h.identityModal()}, nil
}

func (h *RosterHandler) identityModal() *core.Response {
	return core.NewModalResponse(
		h.ids.Modal(actionIdentity, "submit"),
		"Your in-game identity",
		builders.TextInputRow(inputName, "In-game name", "As shown in game", true, 32),
		builders.TextInputRow(inputUID, "Game UID", "Digits only", true, 20),
	)
}

func doneMessage(prompt *charsvc.Prompt) string {
	if prompt.Character == nil {
		return "All done!"
	}
	return fmt.Sprintf("Registered **%s** as %s / %s.",
		prompt.Character.Name, prompt.Character.Class, prompt.Character.Subclass)
}

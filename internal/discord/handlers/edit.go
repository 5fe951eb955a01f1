package handlers

import (
	"fmt"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/discord/core"
	charsvc "github.com/frostveil/rosterbot/internal/services/character"
)

func (h *RosterHandler) handleEditStart(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.StartEdit(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return h.renderEditPrompt(prompt, false)
}

func (h *RosterHandler) handleEditTarget(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.ChooseEditTarget(ctx.Context, ctx.UserID, ctx.SelectedValue())
	if err != nil {
		return nil, err
	}
	return h.renderEditPrompt(prompt, true)
}

func (h *RosterHandler) handleEditField(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	field := charsvc.Field(ctx.SelectedValue())
	prompt, err := h.characters.ChooseEditField(ctx.Context, ctx.UserID, field)
	if err != nil {
		return nil, err
	}

	if prompt.NeedsModal {
		return &core.HandlerResult{Response: h.editModal(field)}, nil
	}
	return h.renderEditPrompt(prompt, true)
}

func (h *RosterHandler) handleEditValue(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	outcome, err := h.characters.ApplyEdit(ctx.Context, ctx.UserID, ctx.SelectedValue())
	if err != nil {
		return nil, err
	}

	// A class or roster-item choice needs one more selection before the
	// edit commits.
	if outcome.Character == nil {
		prompt, err := h.characters.CurrentEditPrompt(ctx.Context, ctx.UserID)
		if err != nil {
			return nil, err
		}
		return h.renderEditPrompt(prompt, true)
	}

	return &core.HandlerResult{
		Response: core.NewResponse(fmt.Sprintf("Updated **%s**.", outcome.Character.Name)).AsUpdate(),
	}, nil
}

func (h *RosterHandler) handleEditIdentityModal(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, core.NewInternalError(err)
	}
	field := charsvc.Field(id.Target)

	value := ctx.ModalInput(inputName)
	if field == charsvc.FieldUID {
		value = ctx.ModalInput(inputUID)
	}

	outcome, err := h.characters.ApplyIdentityEdit(ctx.Context, ctx.UserID, field, value)
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse(fmt.Sprintf("Updated **%s**.", outcome.Character.Name)),
	}, nil
}

func (h *RosterHandler) handleEditCancel(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	h.characters.CancelEdit(ctx.UserID)
	return &core.HandlerResult{
		Response: core.NewResponse("Edit cancelled.").AsUpdate(),
	}, nil
}

func (h *RosterHandler) renderEditPrompt(prompt *charsvc.EditPrompt, update bool) (*core.HandlerResult, error) {
	cb := builders.NewComponentBuilder(h.ids)

	var title string
	switch prompt.Step {
	case charsvc.EditStepTarget:
		title = "Which character do you want to edit?"
		options := make([]builders.SelectOption, 0, len(prompt.Characters))
		for _, c := range prompt.Characters {
			options = append(options, builders.SelectOption{
				Label:       fmt.Sprintf("%s (%s)", c.Name, typeLabel(c.Type)),
				Description: fmt.Sprintf("%s / %s", c.Class, c.Subclass),
				Value:       c.ID,
			})
		}
		cb.SelectMenu(title, actionEditTarget, options)

	case charsvc.EditStepField:
		title = "Which field?"
		cb.SelectMenu(title, actionEditField, stringOptions(prompt.Options))

	case charsvc.EditStepValue:
		title = fmt.Sprintf("New value for %s", prompt.Field)
		cb.SelectMenu(title, actionEditValue, stringOptions(prompt.Options))

	case charsvc.EditStepSubclass:
		title = "Pick the new subclass"
		cb.SelectMenu(title, actionEditValue, stringOptions(prompt.Options))

	case charsvc.EditStepTier:
		title = "Pick the tier"
		cb.SelectMenu(title, actionEditValue, stringOptions(prompt.Options))

	default:
		return &core.HandlerResult{
			Response: core.NewEphemeralResponse("Nothing left to edit."),
		}, nil
	}

	cb.DangerButton("Cancel", actionEditCancel, "x")

	embed := builders.NewEmbed().Title(title).Color(builders.ColorInfo).Build()
	response := core.NewEmbedResponse(embed).WithComponents(cb.Build()...)
	if update {
		response.AsUpdate()
	} else {
		response.AsEphemeral()
	}
	return &core.HandlerResult{Response: response}, nil
}

func (h *RosterHandler) editModal(field charsvc.Field) *core.Response {
	if field == charsvc.FieldUID {
		return core.NewModalResponse(
			h.ids.Modal(actionEditIdentity, string(field)),
			"New game UID",
			builders.TextInputRow(inputUID, "Game UID", "Digits only", true, 20),
		)
	}
	return core.NewModalResponse(
		h.ids.Modal(actionEditIdentity, string(field)),
		"New in-game name",
		builders.TextInputRow(inputName, "In-game name", "As shown in game", true, 32),
	)
}

func stringOptions(values []string) []builders.SelectOption {
	options := make([]builders.SelectOption, 0, len(values))
	for _, v := range values {
		options = append(options, builders.SelectOption{Label: v, Value: v})
	}
	return options
}

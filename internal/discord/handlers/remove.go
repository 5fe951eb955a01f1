package handlers

import (
	"fmt"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/discord/core"
	charsvc "github.com/frostveil/rosterbot/internal/services/character"
)

func (h *RosterHandler) handleRemoveStart(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.StartRemoval(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return h.renderRemovePrompt(prompt, false)
}

func (h *RosterHandler) handleRemoveTarget(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	prompt, err := h.characters.ChooseRemovalTarget(ctx.Context, ctx.UserID, ctx.SelectedValue())
	if err != nil {
		return nil, err
	}
	return h.renderRemovePrompt(prompt, true)
}

func (h *RosterHandler) handleRemoveConfirm(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	outcome, err := h.characters.ConfirmRemoval(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Removed %d character(s).", len(outcome.RemovedIDs))
	if outcome.RemovedAll {
		msg = "Your entire roster has been removed."
	}
	return &core.HandlerResult{Response: core.NewResponse(msg).AsUpdate()}, nil
}

func (h *RosterHandler) handleRemoveCancel(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	h.characters.CancelRemoval(ctx.UserID)
	return &core.HandlerResult{
		Response: core.NewResponse("Removal cancelled.").AsUpdate(),
	}, nil
}

func (h *RosterHandler) renderRemovePrompt(prompt *charsvc.RemovePrompt, update bool) (*core.HandlerResult, error) {
	var response *core.Response

	switch prompt.Step {
	case charsvc.RemoveStepTarget:
		options := make([]builders.SelectOption, 0, len(prompt.Characters)+1)
		for _, c := range prompt.Characters {
			options = append(options, builders.SelectOption{
				Label:       fmt.Sprintf("%s (%s)", c.Name, typeLabel(c.Type)),
				Description: fmt.Sprintf("%s / %s", c.Class, c.Subclass),
				Value:       c.ID,
			})
		}
		options = append(options, builders.SelectOption{
			Label:       "Everything",
			Description: "Remove your entire roster",
			Value:       charsvc.RemoveTargetAll,
		})

		components := builders.NewComponentBuilder(h.ids).
			SelectMenu("What do you want to remove?", actionRemoveTarget, options).
			Build()
		response = core.NewResponse("What do you want to remove?").WithComponents(components...)

	case charsvc.RemoveStepConfirm:
		var warning string
		if prompt.TargetAll {
			warning = "This removes **all** of your characters, subclasses and roster entries."
		} else if prompt.CascadeCount > 0 {
			warning = fmt.Sprintf("Removing **%s** also removes its %d subclass(es).",
				prompt.Target.Name, prompt.CascadeCount)
		} else {
			warning = fmt.Sprintf("Remove **%s**?", prompt.Target.Name)
		}

		components := builders.NewComponentBuilder(h.ids).
			ConfirmationButtons(actionRemoveConfirm, actionRemoveCancel, "x").
			Build()
		embed := builders.NewEmbed().
			Title("Are you sure?").
			Description(warning).
			Color(builders.ColorWarning).
			Build()
		response = core.NewEmbedResponse(embed).WithComponents(components...)
	}

	if update {
		response.AsUpdate()
	} else {
		response.AsEphemeral()
	}
	return &core.HandlerResult{Response: response}, nil
}

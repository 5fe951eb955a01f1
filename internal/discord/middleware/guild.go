package middleware

import (
	"github.com/frostveil/rosterbot/internal/discord/core"
)

// RequireGuild rejects interactions from outside the configured guild,
// including DMs. An empty guild ID disables the check.
func RequireGuild(guildID string) core.Middleware {
	return func(next core.Handler) core.Handler {
		return &guildHandler{next: next, guildID: guildID}
	}
}

type guildHandler struct {
	next    core.Handler
	guildID string
}

func (h *guildHandler) CanHandle(ctx *core.InteractionContext) bool {
	return h.next.CanHandle(ctx)
}

func (h *guildHandler) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	if h.guildID != "" && ctx.GuildID != h.guildID {
		return nil, core.NewForbiddenError("This bot only works inside its home server.")
	}
	return h.next.Handle(ctx)
}

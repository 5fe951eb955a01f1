// Package middleware holds cross-cutting handler wrappers for the
// interaction pipeline.
package middleware

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/core"
)

// Logging logs every handled interaction with its outcome and duration.
func Logging(log zerolog.Logger) core.Middleware {
	return func(next core.Handler) core.Handler {
		return &loggingHandler{next: next, log: log}
	}
}

type loggingHandler struct {
	next core.Handler
	log  zerolog.Logger
}

func (h *loggingHandler) CanHandle(ctx *core.InteractionContext) bool {
	return h.next.CanHandle(ctx)
}

func (h *loggingHandler) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	start := time.Now()
	result, err := h.next.Handle(ctx)

	event := h.log.Info()
	if err != nil {
		event = h.log.Warn().Err(err)
	}
	event.
		Str("user_id", ctx.UserID).
		Str("command", ctx.GetCommandName()).
		Str("custom_id", ctx.GetCustomID()).
		Dur("duration", time.Since(start)).
		Msg("interaction handled")

	return result, err
}

package middleware

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/core"
)

// Recovery converts handler panics into internal errors so one bad
// interaction cannot take the gateway handler down.
func Recovery(log zerolog.Logger) core.Middleware {
	return func(next core.Handler) core.Handler {
		return &recoveryHandler{next: next, log: log}
	}
}

type recoveryHandler struct {
	next core.Handler
	log  zerolog.Logger
}

func (h *recoveryHandler) CanHandle(ctx *core.InteractionContext) bool {
	return h.next.CanHandle(ctx)
}

func (h *recoveryHandler) Handle(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().
				Interface("panic", r).
				Str("user_id", ctx.UserID).
				Str("custom_id", ctx.GetCustomID()).
				Msg("handler panicked")
			result = nil
			err = core.NewInternalError(fmt.Errorf("panic: %v", r))
		}
	}()
	return h.next.Handle(ctx)
}

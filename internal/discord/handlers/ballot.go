package handlers

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/core"
	"github.com/frostveil/rosterbot/internal/domain/application"
	appsvc "github.com/frostveil/rosterbot/internal/services/application"
)

// BallotDomain is the custom ID domain for ballot interactions.
const BallotDomain = "ballot"

// Ballot component actions. Vote targets name the side; override targets
// name the outcome.
const (
	actionVote     = "vote"
	actionRetract  = "retract"
	actionOverride = "override"

	overrideApprove = "approve"
	overrideDeny    = "deny"
)

// BallotHandler serves the vote and override buttons on application
// ballots.
type BallotHandler struct {
	applications appsvc.Service
	ids          *core.CustomIDBuilder
	log          zerolog.Logger
}

// BallotHandlerConfig holds the handler's dependencies.
type BallotHandlerConfig struct {
	ApplicationService appsvc.Service
	Logger             zerolog.Logger
}

// NewBallotHandler creates the ballot handler.
func NewBallotHandler(cfg *BallotHandlerConfig) *BallotHandler {
	if cfg == nil || cfg.ApplicationService == nil {
		panic("application service is required")
	}
	return &BallotHandler{
		applications: cfg.ApplicationService,
		ids:          core.NewCustomIDBuilder(BallotDomain),
		log:          cfg.Logger,
	}
}

// RegisterRoutes attaches the ballot routes to the pipeline.
func (h *BallotHandler) RegisterRoutes(pipeline *core.Pipeline) {
	router := core.NewRouter(BallotDomain, pipeline)
	router.ComponentFunc(actionVote, h.handleVote)
	router.ComponentFunc(actionRetract, h.handleRetract)
	router.ComponentFunc(actionOverride, h.handleOverride)
	router.Register()
}

func (h *BallotHandler) handleVote(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, core.NewInternalError(err)
	}
	side := application.Side(id.Target)

	outcome, err := h.applications.Vote(ctx.Context, ctx.UserID, ctx.MessageID(), side)
	if err != nil {
		return nil, err
	}

	if outcome.Resolved {
		return &core.HandlerResult{
			Response: core.NewEphemeralResponse(resolvedMessage(outcome.Application)),
		}, nil
	}
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse(
			fmt.Sprintf("Vote recorded: %d accept / %d deny.", outcome.Accept, outcome.Deny)),
	}, nil
}

func (h *BallotHandler) handleRetract(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	outcome, err := h.applications.Retract(ctx.Context, ctx.UserID, ctx.MessageID())
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse(
			fmt.Sprintf("Vote withdrawn: %d accept / %d deny.", outcome.Accept, outcome.Deny)),
	}, nil
}

func (h *BallotHandler) handleOverride(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, core.NewInternalError(err)
	}
	approve := id.Target == overrideApprove

	if err := h.applications.Override(ctx.Context, ctx.UserID, ctx.MessageID(), approve); err != nil {
		return nil, err
	}

	verdict := "denied"
	if approve {
		verdict = "approved"
	}
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse(fmt.Sprintf("Application %s by override.", verdict)),
	}, nil
}

func resolvedMessage(app *application.Application) string {
	if app.Status == application.StatusApproved {
		return "That vote settled it: application approved."
	}
	return "That vote settled it: application denied."
}

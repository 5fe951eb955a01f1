package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Pipeline manages handler registration and execution
type Pipeline struct {
	handlers   []Handler
	middleware []Middleware

	// Error handler for uncaught errors
	errorHandler ErrorHandler

	// Whether to stop on first handler that can handle
	stopOnFirst bool

	log zerolog.Logger

	mu sync.RWMutex
}

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ErrorHandler handles errors that occur during pipeline execution
type ErrorHandler func(ctx *InteractionContext, err error) *HandlerResult

// NewPipeline creates a new handler pipeline
func NewPipeline(log zerolog.Logger) *Pipeline {
	return &Pipeline{
		handlers:     make([]Handler, 0),
		middleware:   make([]Middleware, 0),
		errorHandler: defaultErrorHandler,
		stopOnFirst:  true,
		log:          log,
	}
}

// Register adds handlers to the pipeline
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, wrapped)
	}
}

// Use adds middleware to the pipeline
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware...)
}

// SetErrorHandler sets a custom error handler
func (p *Pipeline) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorHandler = handler
}

// Execute runs the pipeline for an interaction
func (p *Pipeline) Execute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	interactionCtx := NewInteractionContext(ctx, s, i)

	responder := NewDiscordResponder(s, i)
	interactionCtx.WithValue(responderKey{}, responder)

	p.mu.RLock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	stopOnFirst := p.stopOnFirst
	errorHandler := p.errorHandler
	p.mu.RUnlock()

	handled := false
	for _, handler := range handlers {
		if !handler.CanHandle(interactionCtx) {
			continue
		}

		result, err := handler.Handle(interactionCtx)
		if err != nil {
			p.log.Warn().
				Err(err).
				Str("user_id", interactionCtx.UserID).
				Str("custom_id", interactionCtx.GetCustomID()).
				Str("command", interactionCtx.GetCommandName()).
				Msg("handler returned error")
			result = errorHandler(interactionCtx, err)
		}

		if result != nil && result.Response != nil {
			if err := p.sendResponse(responder, result); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}

		handled = true
		if stopOnFirst || (result != nil && result.StopPropagation) {
			break
		}
	}

	if !handled && !responder.HasResponded() {
		p.log.Debug().
			Str("custom_id", interactionCtx.GetCustomID()).
			Str("command", interactionCtx.GetCommandName()).
			Msg("no handler matched interaction")
		result := &HandlerResult{
			Response: NewEphemeralResponse("I don't know how to handle that."),
		}
		return p.sendResponse(responder, result)
	}

	return nil
}

func (p *Pipeline) sendResponse(responder *DiscordResponder, result *HandlerResult) error {
	if result.Deferred || responder.IsDeferred() {
		return responder.Edit(result.Response)
	}
	return responder.Respond(result.Response)
}

// HandlerCount returns the number of registered handlers
func (p *Pipeline) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

type responderKey struct{}

// ResponderFrom retrieves the responder stored in the interaction context.
func ResponderFrom(ctx *InteractionContext) InteractionResponder {
	if r, ok := ctx.Value(responderKey{}).(InteractionResponder); ok {
		return r
	}
	return nil
}

func defaultErrorHandler(ctx *InteractionContext, err error) *HandlerResult {
	handlerErr := WrapServiceError(err)
	if handlerErr.ShowToUser {
		return &HandlerResult{
			Response: NewEphemeralResponse(handlerErr.UserMessage),
		}
	}
	return &HandlerResult{
		Response: NewEphemeralResponse("An error occurred while processing your request."),
	}
}

// MiddlewareChain creates a single middleware from multiple middleware
func MiddlewareChain(middleware ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middleware) - 1; i >= 0; i-- {
			next = middleware[i](next)
		}
		return next
	}
}

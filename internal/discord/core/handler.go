package core

import (
	"github.com/bwmarrin/discordgo"
)

// Handler defines the interface for all interaction handlers
type Handler interface {
	// CanHandle determines if this handler should process the interaction
	CanHandle(ctx *InteractionContext) bool

	// Handle processes the interaction and returns a result
	Handle(ctx *InteractionContext) (*HandlerResult, error)
}

// HandlerFunc allows functions to implement the Handler interface
type HandlerFunc func(ctx *InteractionContext) (*HandlerResult, error)

// CanHandle for HandlerFunc always returns true
func (f HandlerFunc) CanHandle(ctx *InteractionContext) bool {
	return true
}

// Handle calls the function
func (f HandlerFunc) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return f(ctx)
}

// HandlerResult contains the response and metadata from a handler
type HandlerResult struct {
	// Response to send to Discord
	Response *Response

	// Whether the response was already deferred
	Deferred bool

	// Whether to stop processing further handlers
	StopPropagation bool
}

// Response represents a Discord-agnostic response
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// Ephemeral responses are visible only to the interacting user.
	Ephemeral bool

	// Update edits the message the component sits on instead of sending a
	// new one. Wizard steps use this to stay in a single message.
	Update bool

	// Modal presents a modal instead of a message.
	Modal *discordgo.InteractionResponseData
}

// NewResponse creates a new response with the given content
func NewResponse(content string) *Response {
	return &Response{Content: content}
}

// NewEphemeralResponse creates a new ephemeral response
func NewEphemeralResponse(content string) *Response {
	return &Response{Content: content, Ephemeral: true}
}

// NewEmbedResponse creates a response with an embed
func NewEmbedResponse(embed *discordgo.MessageEmbed) *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{embed}}
}

// NewModalResponse creates a response that opens a modal
func NewModalResponse(customID, title string, components ...discordgo.MessageComponent) *Response {
	return &Response{Modal: &discordgo.InteractionResponseData{
		CustomID:   customID,
		Title:      title,
		Components: components,
	}}
}

// WithComponents adds components to the response
func (r *Response) WithComponents(components ...discordgo.MessageComponent) *Response {
	r.Components = components
	return r
}

// WithEmbeds adds embeds to the response
func (r *Response) WithEmbeds(embeds ...*discordgo.MessageEmbed) *Response {
	r.Embeds = embeds
	return r
}

// AsEphemeral sets the response to be ephemeral
func (r *Response) AsEphemeral() *Response {
	r.Ephemeral = true
	return r
}

// AsUpdate sets the response to update the original message
func (r *Response) AsUpdate() *Response {
	r.Update = true
	return r
}

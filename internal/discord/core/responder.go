package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// InteractionResponder provides an abstraction over Discord's interaction
// response API.
type InteractionResponder interface {
	// Defer sends a deferred response, optionally ephemeral
	Defer(ephemeral bool) error

	// Respond sends an immediate response
	Respond(response *Response) error

	// Edit updates a previous response (after defer or respond)
	Edit(response *Response) error
}

// DiscordResponder implements InteractionResponder using Discord's API
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
	responded   bool
	deferred    bool
}

// NewDiscordResponder creates a new Discord responder
func NewDiscordResponder(s *discordgo.Session, i *discordgo.InteractionCreate) *DiscordResponder {
	return &DiscordResponder{session: s, interaction: i}
}

// Defer sends a deferred response
func (r *DiscordResponder) Defer(ephemeral bool) error {
	if r.responded {
		return fmt.Errorf("interaction already responded to")
	}

	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
	if err == nil {
		r.deferred = true
		r.responded = true
	}
	return err
}

// Respond sends an immediate response. An already-responded interaction
// falls back to an edit.
func (r *DiscordResponder) Respond(response *Response) error {
	if r.responded {
		return r.Edit(response)
	}

	responseType := discordgo.InteractionResponseChannelMessageWithSource
	var data *discordgo.InteractionResponseData

	switch {
	case response.Modal != nil:
		responseType = discordgo.InteractionResponseModal
		data = response.Modal
	case response.Update:
		responseType = discordgo.InteractionResponseUpdateMessage
		data = r.buildResponseData(response)
	default:
		data = r.buildResponseData(response)
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: data,
	})
	if err == nil {
		r.responded = true
	}
	return err
}

// Edit updates a previous response
func (r *DiscordResponder) Edit(response *Response) error {
	if !r.responded {
		return fmt.Errorf("cannot edit before responding")
	}

	webhook := &discordgo.WebhookEdit{
		Content:    &response.Content,
		Embeds:     &response.Embeds,
		Components: &response.Components,
	}
	_, err := r.session.InteractionResponseEdit(r.interaction.Interaction, webhook)
	return err
}

// HasResponded returns whether this responder has already sent a response
func (r *DiscordResponder) HasResponded() bool {
	return r.responded
}

// IsDeferred returns whether this responder has sent a deferred response
func (r *DiscordResponder) IsDeferred() bool {
	return r.deferred
}

func (r *DiscordResponder) buildResponseData(response *Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: response.Components,
	}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

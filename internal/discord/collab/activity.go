package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/interfaces"
)

// ActivityLog posts moderator-facing audit entries to the configured log
// channel. A missing channel disables it silently; delivery failures are
// logged and dropped.
type ActivityLog struct {
	session   *discordgo.Session
	channelID string
	log       zerolog.Logger
}

// NewActivityLog creates a Discord-backed activity log.
func NewActivityLog(session *discordgo.Session, channelID string, log zerolog.Logger) *ActivityLog {
	if session == nil {
		panic("discord session is required")
	}
	return &ActivityLog{session: session, channelID: channelID, log: log}
}

func (a *ActivityLog) Record(_ context.Context, event interfaces.ActivityEvent) {
	if a.channelID == "" {
		return
	}

	eb := builders.NewEmbed().
		Title(titleFor(event.Kind)).
		Color(colorFor(event.Kind)).
		Description(fmt.Sprintf("<@%s>", event.UserID)).
		Timestamp(time.Now())
	if event.Character != "" {
		eb.Field("Character", event.Character, true)
	}
	if event.Detail != "" {
		eb.Field("Detail", event.Detail, true)
	}

	if _, err := a.session.ChannelMessageSendEmbed(a.channelID, eb.Build()); err != nil {
		a.log.Warn().Err(err).Str("kind", event.Kind).Msg("failed to post activity entry")
	}
}

func titleFor(kind string) string {
	switch kind {
	case "character_registered":
		return "Character registered"
	case "subclass_registered":
		return "Subclass registered"
	case "character_edited":
		return "Character edited"
	case "character_removed":
		return "Character removed"
	case "characters_removed":
		return "Roster removed"
	case "application_opened":
		return "Guild application opened"
	case "application_approved":
		return "Guild application approved"
	case "application_denied":
		return "Guild application denied"
	}
	return kind
}

func colorFor(kind string) int {
	switch kind {
	case "application_approved":
		return builders.ColorSuccess
	case "application_denied", "character_removed", "characters_removed":
		return builders.ColorError
	default:
		return builders.ColorInfo
	}
}

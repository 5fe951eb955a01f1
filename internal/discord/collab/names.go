package collab

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DisplayNames mirrors a member's in-game name into their server nickname.
// The server owner's nickname cannot be changed by bots; that error is up
// to the caller to tolerate.
type DisplayNames struct {
	session *discordgo.Session
	guildID string
}

// NewDisplayNames creates a Discord-backed nickname updater.
func NewDisplayNames(session *discordgo.Session, guildID string) *DisplayNames {
	if session == nil {
		panic("discord session is required")
	}
	return &DisplayNames{session: session, guildID: guildID}
}

func (n *DisplayNames) UpdateDisplayName(_ context.Context, userID, name string) error {
	if err := n.session.GuildMemberNickname(n.guildID, userID, name); err != nil {
		return fmt.Errorf("failed to set nickname: %w", err)
	}
	return nil
}

package collab

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// AdminChecker reports whether a member carries the admin role.
type AdminChecker struct {
	session     *discordgo.Session
	guildID     string
	adminRoleID string
}

// NewAdminChecker creates a Discord-backed admin check. An empty admin
// role ID means nobody passes, which disables overrides.
func NewAdminChecker(session *discordgo.Session, guildID, adminRoleID string) *AdminChecker {
	if session == nil {
		panic("discord session is required")
	}
	return &AdminChecker{session: session, guildID: guildID, adminRoleID: adminRoleID}
}

func (a *AdminChecker) IsAdmin(_ context.Context, userID string) (bool, error) {
	if a.adminRoleID == "" {
		return false, nil
	}

	member, err := a.session.GuildMember(a.guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member: %w", err)
	}
	for _, roleID := range member.Roles {
		if roleID == a.adminRoleID {
			return true, nil
		}
	}
	return false, nil
}

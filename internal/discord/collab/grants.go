// Package collab implements the service collaborator interfaces on top of
// the Discord session: role grants, nickname mirroring, the moderator
// activity log, ballots and the admin check.
package collab

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// RoleGrants maps classes and guilds to Discord roles and grants them to
// members. Unmapped names are skipped, not failed: the server may not
// carry a role for every class.
type RoleGrants struct {
	session *discordgo.Session
	guildID string

	classRoles []RoleMapping
	guildRoles []RoleMapping

	log zerolog.Logger
}

// RoleMapping binds a game name to a Discord role ID.
type RoleMapping struct {
	Name   string
	RoleID string
}

// RoleGrantsConfig holds the grant manager's dependencies.
type RoleGrantsConfig struct {
	Session    *discordgo.Session
	GuildID    string
	ClassRoles []RoleMapping
	GuildRoles []RoleMapping
	Logger     zerolog.Logger
}

// NewRoleGrants creates a Discord-backed role grant manager.
func NewRoleGrants(cfg *RoleGrantsConfig) *RoleGrants {
	if cfg == nil || cfg.Session == nil {
		panic("discord session is required")
	}
	return &RoleGrants{
		session:    cfg.Session,
		guildID:    cfg.GuildID,
		classRoles: cfg.ClassRoles,
		guildRoles: cfg.GuildRoles,
		log:        cfg.Logger,
	}
}

func (g *RoleGrants) AddClassRole(_ context.Context, userID, class string) error {
	return g.add(userID, class, g.classRoles)
}

func (g *RoleGrants) RemoveClassRole(_ context.Context, userID, class string) error {
	return g.remove(userID, class, g.classRoles)
}

func (g *RoleGrants) GrantGuildRole(_ context.Context, userID, guild string) error {
	return g.add(userID, guild, g.guildRoles)
}

func (g *RoleGrants) RevokeGuildRole(_ context.Context, userID, guild string) error {
	return g.remove(userID, guild, g.guildRoles)
}

func (g *RoleGrants) add(userID, name string, mappings []RoleMapping) error {
	roleID := lookupRole(name, mappings)
	if roleID == "" {
		g.log.Debug().Str("name", name).Msg("no role mapped, skipping grant")
		return nil
	}
	if err := g.session.GuildMemberRoleAdd(g.guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to add role %s: %w", roleID, err)
	}
	return nil
}

func (g *RoleGrants) remove(userID, name string, mappings []RoleMapping) error {
	roleID := lookupRole(name, mappings)
	if roleID == "" {
		return nil
	}
	if err := g.session.GuildMemberRoleRemove(g.guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove role %s: %w", roleID, err)
	}
	return nil
}

func lookupRole(name string, mappings []RoleMapping) string {
	for _, m := range mappings {
		if m.Name == name {
			return m.RoleID
		}
	}
	return ""
}

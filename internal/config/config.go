// Package config loads the bot's configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Roster  RosterConfig
	Vote    VoteConfig
	Session SessionConfig
	Sync    SyncConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN,required"`
	AppID   string `env:"DISCORD_APP_ID,required"`
	GuildID string `env:"DISCORD_GUILD_ID"`

	// BallotChannelID receives application ballots; empty disables them.
	BallotChannelID string `env:"DISCORD_BALLOT_CHANNEL_ID"`

	// ActivityChannelID receives the moderator activity log.
	ActivityChannelID string `env:"DISCORD_ACTIVITY_CHANNEL_ID"`

	// AdminRoleID marks members allowed to override ballots.
	AdminRoleID string `env:"DISCORD_ADMIN_ROLE_ID"`

	// ClassRoles and GuildRoles map game names to role IDs as
	// comma-separated "Name:roleID" pairs.
	ClassRoles map[string]string `env:"DISCORD_CLASS_ROLES"`
	GuildRoles map[string]string `env:"DISCORD_GUILD_ROLES"`
}

// RedisConfig holds Redis-specific configuration. An empty URL falls back
// to in-memory repositories.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// RosterConfig holds roster rules.
type RosterConfig struct {
	GatedGuild       string `env:"ROSTER_GATED_GUILD" envDefault:"Frostveil"`
	MaxAlts          int    `env:"ROSTER_MAX_ALTS" envDefault:"3"`
	MaxSubclasses    int    `env:"ROSTER_MAX_SUBCLASSES" envDefault:"3"`
	SubclassesPerAlt int    `env:"ROSTER_SUBCLASSES_PER_ALT" envDefault:"3"`
}

// VoteConfig holds application-ballot rules.
type VoteConfig struct {
	Threshold int `env:"VOTE_THRESHOLD" envDefault:"2"`
}

// SessionConfig holds wizard session TTLs.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// SyncConfig holds the external roster sheet endpoint.
type SyncConfig struct {
	URL string `env:"ROSTER_SYNC_URL"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Discord.Token) == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Vote.Threshold < 1 {
		return nil, fmt.Errorf("VOTE_THRESHOLD must be at least 1")
	}
	return cfg, nil
}

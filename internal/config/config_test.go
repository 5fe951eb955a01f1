package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_APP_ID", "12345")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Discord.Token)
	assert.Equal(t, "Frostveil", cfg.Roster.GatedGuild)
	assert.Equal(t, 3, cfg.Roster.MaxAlts)
	assert.Equal(t, 3, cfg.Roster.MaxSubclasses)
	assert.Equal(t, 2, cfg.Vote.Threshold)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Sync.URL)
}

func TestLoad_MissingTokenFails(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_APP_ID", "12345")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RoleMaps(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_CLASS_ROLES", "Frost Mage:111,Flame Warden:222")
	t.Setenv("DISCORD_GUILD_ROLES", "Frostveil:333")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "111", cfg.Discord.ClassRoles["Frost Mage"])
	assert.Equal(t, "222", cfg.Discord.ClassRoles["Flame Warden"])
	assert.Equal(t, "333", cfg.Discord.GuildRoles["Frostveil"])
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ROSTER_GATED_GUILD", "Emberfall")
	t.Setenv("VOTE_THRESHOLD", "3")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Emberfall", cfg.Roster.GatedGuild)
	assert.Equal(t, 3, cfg.Vote.Threshold)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_ThresholdMustBePositive(t *testing.T) {
	setRequired(t)
	t.Setenv("VOTE_THRESHOLD", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "VOTE_THRESHOLD")
}

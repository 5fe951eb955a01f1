package rostersync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostveil/rosterbot/internal/domain/character"
)

func TestSyncUser_PostsFullRoster(t *testing.T) {
	var got syncPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(&Config{BaseURL: srv.URL, Logger: zerolog.Nop()})

	chars := []*character.Character{
		{Name: "Nyx", GameUID: "123456", Class: "Frost Mage", Subclass: "Icicle",
			ScoreBracket: "12-14k", Guild: "Frostveil", Type: character.TypeMain},
		{Name: "Nyx", GameUID: "123456", Class: "Storm Caller", Subclass: "Tempest",
			Guild: "Frostveil", Type: character.TypeMainSubclass},
	}
	require.NoError(t, c.SyncUser(context.Background(), "user-1", chars))

	assert.Equal(t, "user-1", got.UserID)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Frost Mage", got.Rows[0].Class)
	assert.Equal(t, "main_subclass", got.Rows[1].Type)
}

func TestSyncUser_EmptyRosterStillPosts(t *testing.T) {
	var got syncPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(&Config{BaseURL: srv.URL, Logger: zerolog.Nop()})

	// Removing the last character must clear the sheet, so zero rows is a
	// valid payload, not a skipped call.
	require.NoError(t, c.SyncUser(context.Background(), "user-1", nil))
	assert.Equal(t, "user-1", got.UserID)
	assert.Empty(t, got.Rows)
}

func TestSyncUser_NonSuccessStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(&Config{BaseURL: srv.URL, Logger: zerolog.Nop()})

	err := c.SyncUser(context.Background(), "user-1", nil)
	assert.ErrorContains(t, err, "502")
}

func TestSyncUser_DisabledWithoutURL(t *testing.T) {
	c := New(&Config{Logger: zerolog.Nop()})

	assert.NoError(t, c.SyncUser(context.Background(), "user-1", nil))
}

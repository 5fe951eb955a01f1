// Package rostersync pushes roster changes to the community's external
// spreadsheet through its webhook endpoint.
package rostersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/domain/character"
)

// Client pushes a user's characters to the sync endpoint.
type Client interface {
	SyncUser(ctx context.Context, ownerID string, chars []*character.Character) error
}

// Config holds the client's settings.
type Config struct {
	// BaseURL is the sync webhook endpoint. Empty disables syncing.
	BaseURL string

	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a roster sync client.
func New(cfg *Config) Client {
	if cfg == nil {
		panic("config cannot be nil")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		log:     cfg.Logger,
	}
}

// syncPayload is the wire format the sheet endpoint consumes: one row per
// character, the user's full roster replacing whatever the sheet held.
type syncPayload struct {
	UserID string    `json:"user_id"`
	Rows   []syncRow `json:"rows"`
}

type syncRow struct {
	Name         string `json:"name"`
	GameUID      string `json:"game_uid"`
	Class        string `json:"class"`
	Subclass     string `json:"subclass"`
	ScoreBracket string `json:"score_bracket"`
	Guild        string `json:"guild"`
	Type         string `json:"type"`
}

func (c *client) SyncUser(ctx context.Context, ownerID string, chars []*character.Character) error {
	if c.baseURL == "" {
		return nil
	}

	payload := syncPayload{UserID: ownerID, Rows: make([]syncRow, 0, len(chars))}
	for _, ch := range chars {
		payload.Rows = append(payload.Rows, syncRow{
			Name:         ch.Name,
			GameUID:      ch.GameUID,
			Class:        ch.Class,
			Subclass:     ch.Subclass,
			ScoreBracket: ch.ScoreBracket,
			Guild:        ch.Guild,
			Type:         string(ch.Type),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync endpoint returned status %d", resp.StatusCode)
	}

	c.log.Debug().Str("user_id", ownerID).Int("rows", len(payload.Rows)).Msg("roster synced")
	return nil
}

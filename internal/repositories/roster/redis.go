package roster

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// redisRepo stores each character's roster as a hash of item -> tier, so the
// (character, item) uniqueness and upsert semantics come from HSET itself.
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed roster repository.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(characterID string) string {
	return fmt.Sprintf("character:%s:roster", characterID)
}

func (r *redisRepo) Put(ctx context.Context, entry *character.RosterEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := r.client.HSet(ctx, r.key(entry.CharacterID), entry.Item, entry.Tier).Err(); err != nil {
		return fmt.Errorf("failed to put roster entry: %w", err)
	}
	return nil
}

func (r *redisRepo) GetByCharacter(ctx context.Context, characterID string) ([]*character.RosterEntry, error) {
	if characterID == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	pairs, err := r.client.HGetAll(ctx, r.key(characterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get roster entries: %w", err)
	}

	entries := make([]*character.RosterEntry, 0, len(pairs))
	for item, tier := range pairs {
		entries = append(entries, &character.RosterEntry{
			CharacterID: characterID,
			Item:        item,
			Tier:        tier,
			UpdatedAt:   time.Time{},
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Item < entries[j].Item })

	return entries, nil
}

func (r *redisRepo) Delete(ctx context.Context, characterID, item string) error {
	if characterID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if item == "" {
		return rosterr.InvalidArgument("item is required")
	}

	if err := r.client.HDel(ctx, r.key(characterID), item).Err(); err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}
	return nil
}

func (r *redisRepo) DeleteByCharacter(ctx context.Context, characterID string) error {
	if characterID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}

	if err := r.client.Del(ctx, r.key(characterID)).Err(); err != nil {
		return fmt.Errorf("failed to delete roster entries: %w", err)
	}
	return nil
}

func validateEntry(entry *character.RosterEntry) error {
	if entry == nil {
		return rosterr.InvalidArgument("roster entry cannot be nil")
	}
	if entry.CharacterID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if entry.Item == "" {
		return rosterr.InvalidArgument("item is required")
	}
	if entry.Tier == "" {
		return rosterr.InvalidArgument("tier is required")
	}
	return nil
}

package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// Data is the serialized form of a character in Redis.
type Data struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Name         string         `json:"name"`
	GameUID      string         `json:"game_uid"`
	Class        string         `json:"class"`
	Subclass     string         `json:"subclass"`
	ScoreBracket string         `json:"score_bracket"`
	Guild        string         `json:"guild"`
	Type         character.Type `json:"type"`
	ParentID     string         `json:"parent_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed character repository.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func (r *redisRepo) ownerKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

func (r *redisRepo) parentKey(parentID string) string {
	return fmt.Sprintf("character:%s:subclasses", parentID)
}

func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validateRecord(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return rosterr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := time.Now().UTC()
	char.CreatedAt = now
	char.UpdatedAt = now

	jsonData, err := json.Marshal(toData(char))
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), jsonData, 0)
	pipe.SAdd(ctx, r.ownerKey(char.OwnerID), char.ID)
	if char.ParentID != "" {
		pipe.SAdd(ctx, r.parentKey(char.ParentID), char.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}

	return fromData(&data), nil
}

func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, rosterr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	chars := make([]*character.Character, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if err != nil {
				// Index entries pointing at missing rows are skipped; a
				// periodic external cleanup handles orphans.
				if rosterr.IsNotFound(err) {
					return nil
				}
				return err
			}
			mu.Lock()
			chars[i] = char
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Character, 0, len(chars))
	for _, c := range chars {
		if c != nil {
			result = append(result, c)
		}
	}
	character.SortForDisplay(result)

	return result, nil
}

func (r *redisRepo) GetMain(ctx context.Context, ownerID string) (*character.Character, error) {
	chars, err := r.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range chars {
		if c.Type == character.TypeMain {
			return c, nil
		}
	}
	return nil, rosterr.NotFoundf("no main character for owner '%s'", ownerID).
		WithMeta("owner_id", ownerID)
}

func (r *redisRepo) GetSubclasses(ctx context.Context, parentID string) ([]*character.Character, error) {
	if parentID == "" {
		return nil, rosterr.InvalidArgument("parent ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.parentKey(parentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subclass IDs: %w", err)
	}

	subs := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		sub, err := r.Get(ctx, id)
		if err != nil {
			if rosterr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	character.SortForDisplay(subs)

	return subs, nil
}

func (r *redisRepo) GetAlts(ctx context.Context, ownerID string) ([]*character.Character, error) {
	chars, err := r.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	alts := make([]*character.Character, 0, len(chars))
	for _, c := range chars {
		if c.Type == character.TypeAlt {
			alts = append(alts, c)
		}
	}
	return alts, nil
}

func (r *redisRepo) CountSubclasses(ctx context.Context, parentID string) (int, error) {
	if parentID == "" {
		return 0, rosterr.InvalidArgument("parent ID is required")
	}
	n, err := r.client.SCard(ctx, r.parentKey(parentID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count subclasses: %w", err)
	}
	return int(n), nil
}

func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validateRecord(char); err != nil {
		return err
	}

	existingData, err := r.client.Get(ctx, r.key(char.ID)).Result()
	if err == redis.Nil {
		return rosterr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get existing character: %w", err)
	}

	var existing Data
	if err := json.Unmarshal([]byte(existingData), &existing); err != nil {
		return fmt.Errorf("failed to unmarshal existing character: %w", err)
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(toData(char))
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	if err := r.client.Set(ctx, r.key(char.ID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.parentKey(id))
	pipe.SRem(ctx, r.ownerKey(char.OwnerID), id)
	if char.ParentID != "" {
		pipe.SRem(ctx, r.parentKey(char.ParentID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

func (r *redisRepo) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	if ownerID == "" {
		return nil, rosterr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, r.key(id))
		pipe.Del(ctx, r.parentKey(id))
	}
	pipe.Del(ctx, r.ownerKey(ownerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete characters: %w", err)
	}

	return ids, nil
}

func validateRecord(char *character.Character) error {
	if char == nil {
		return rosterr.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return rosterr.InvalidArgument("character owner ID is required")
	}
	return nil
}

func toData(char *character.Character) *Data {
	return &Data{
		ID:           char.ID,
		OwnerID:      char.OwnerID,
		Name:         char.Name,
		GameUID:      char.GameUID,
		Class:        char.Class,
		Subclass:     char.Subclass,
		ScoreBracket: char.ScoreBracket,
		Guild:        char.Guild,
		Type:         char.Type,
		ParentID:     char.ParentID,
		CreatedAt:    char.CreatedAt,
		UpdatedAt:    char.UpdatedAt,
	}
}

func fromData(data *Data) *character.Character {
	return &character.Character{
		ID:           data.ID,
		OwnerID:      data.OwnerID,
		Name:         data.Name,
		GameUID:      data.GameUID,
		Class:        data.Class,
		Subclass:     data.Subclass,
		ScoreBracket: data.ScoreBracket,
		Guild:        data.Guild,
		Type:         data.Type,
		ParentID:     data.ParentID,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frostveil/rosterbot/internal/domain/application"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// Data is the serialized metadata of an application. Status and the two
// vote sets live in their own Redis keys so vote mutation and resolution
// can run as single server-side operations.
type Data struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CharacterID string    `json:"character_id"`
	Guild       string    `json:"guild"`
	ChannelID   string    `json:"channel_id,omitempty"`
	MessageID   string    `json:"message_id,omitempty"`
	ResolvedBy  string    `json:"resolved_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// castVoteScript retracts any prior vote by the voter on either side and
// records the new vote, all server-side, then returns both tallies. KEYS:
// status, accept set, deny set. ARGV: voter ID, side.
const castVoteScript = `
if redis.call('GET', KEYS[1]) ~= 'pending' then
  return redis.error_reply('not_pending')
end
redis.call('SREM', KEYS[2], ARGV[1])
redis.call('SREM', KEYS[3], ARGV[1])
if ARGV[2] == 'accept' then
  redis.call('SADD', KEYS[2], ARGV[1])
else
  redis.call('SADD', KEYS[3], ARGV[1])
end
return {redis.call('SCARD', KEYS[2]), redis.call('SCARD', KEYS[3])}
`

// resolveScript moves a pending application to a terminal status and drops
// it from the pending index. KEYS: status, pending index. ARGV: new status,
// application ID.
const resolveScript = `
if redis.call('GET', KEYS[1]) ~= 'pending' then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SREM', KEYS[2], ARGV[2])
return 1
`

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed application repository.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("application:%s", id)
}

func (r *redisRepo) statusKey(id string) string {
	return fmt.Sprintf("application:%s:status", id)
}

func (r *redisRepo) votesKey(id string, side application.Side) string {
	return fmt.Sprintf("application:%s:votes:%s", id, side)
}

func (r *redisRepo) messageKey(messageID string) string {
	return fmt.Sprintf("application:msg:%s", messageID)
}

func (r *redisRepo) pairKey(userID, characterID string) string {
	return fmt.Sprintf("application:pair:%s:%s", userID, characterID)
}

const pendingIndexKey = "applications:pending"

func (r *redisRepo) Create(ctx context.Context, app *application.Application) error {
	if err := validateApp(app); err != nil {
		return err
	}

	existing, err := r.client.Exists(ctx, r.pairKey(app.UserID, app.CharacterID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check application existence: %w", err)
	}
	if existing > 0 {
		return rosterr.AlreadyExistsf("application for user '%s' and character '%s' already exists", app.UserID, app.CharacterID).
			WithMeta("user_id", app.UserID).
			WithMeta("character_id", app.CharacterID)
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	app.Status = application.StatusPending

	jsonData, err := json.Marshal(toData(app))
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(app.ID), jsonData, 0)
	pipe.Set(ctx, r.statusKey(app.ID), string(application.StatusPending), 0)
	pipe.Set(ctx, r.pairKey(app.UserID, app.CharacterID), app.ID, 0)
	pipe.SAdd(ctx, pendingIndexKey, app.ID)
	if app.MessageID != "" {
		pipe.Set(ctx, r.messageKey(app.MessageID), app.ID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*application.Application, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("application ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application: %w", err)
	}

	status, err := r.client.Get(ctx, r.statusKey(id)).Result()
	if err == redis.Nil {
		status = string(application.StatusPending)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get application status: %w", err)
	}

	accept, err := r.client.SMembers(ctx, r.votesKey(id, application.SideAccept)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get accept voters: %w", err)
	}
	deny, err := r.client.SMembers(ctx, r.votesKey(id, application.SideDeny)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get deny voters: %w", err)
	}

	app := fromData(&data)
	app.Status = application.Status(status)
	app.AcceptVoters = accept
	app.DenyVoters = deny

	return app, nil
}

func (r *redisRepo) GetByMessage(ctx context.Context, messageID string) (*application.Application, error) {
	if messageID == "" {
		return nil, rosterr.InvalidArgument("message ID is required")
	}

	id, err := r.client.Get(ctx, r.messageKey(messageID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no application for message '%s'", messageID).
			WithMeta("message_id", messageID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve message index: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *redisRepo) GetByUserAndCharacter(ctx context.Context, userID, characterID string) (*application.Application, error) {
	if userID == "" || characterID == "" {
		return nil, rosterr.InvalidArgument("user ID and character ID are required")
	}

	id, err := r.client.Get(ctx, r.pairKey(userID, characterID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no application for user '%s' and character '%s'", userID, characterID).
			WithMeta("user_id", userID).
			WithMeta("character_id", characterID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pair index: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *redisRepo) ListPending(ctx context.Context) ([]*application.Application, error) {
	ids, err := r.client.SMembers(ctx, pendingIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}

	apps := make([]*application.Application, 0, len(ids))
	for _, id := range ids {
		app, err := r.Get(ctx, id)
		if err != nil {
			if rosterr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (r *redisRepo) CastVote(ctx context.Context, id, voterID string, side application.Side) (int, int, error) {
	if id == "" {
		return 0, 0, rosterr.InvalidArgument("application ID is required")
	}
	if voterID == "" {
		return 0, 0, rosterr.InvalidArgument("voter ID is required")
	}
	if side != application.SideAccept && side != application.SideDeny {
		return 0, 0, rosterr.InvalidArgumentf("unknown vote side '%s'", side)
	}

	keys := []string{
		r.statusKey(id),
		r.votesKey(id, application.SideAccept),
		r.votesKey(id, application.SideDeny),
	}
	result, err := r.client.Eval(ctx, castVoteScript, keys, voterID, string(side)).Result()
	if err != nil {
		if strings.Contains(err.Error(), "not_pending") {
			return 0, 0, rosterr.FailedPreconditionf("application '%s' is not pending", id).
				WithMeta("application_id", id)
		}
		return 0, 0, fmt.Errorf("failed to cast vote: %w", err)
	}

	counts, ok := result.([]interface{})
	if !ok || len(counts) != 2 {
		return 0, 0, fmt.Errorf("unexpected cast vote result: %v", result)
	}
	accept, _ := counts[0].(int64)
	deny, _ := counts[1].(int64)

	return int(accept), int(deny), nil
}

func (r *redisRepo) RemoveVote(ctx context.Context, id, voterID string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}
	if voterID == "" {
		return rosterr.InvalidArgument("voter ID is required")
	}

	pipe := r.client.Pipeline()
	pipe.SRem(ctx, r.votesKey(id, application.SideAccept), voterID)
	pipe.SRem(ctx, r.votesKey(id, application.SideDeny), voterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}
	return nil
}

func (r *redisRepo) UpdateStatus(ctx context.Context, id string, status application.Status, resolvedBy string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}
	if status != application.StatusApproved && status != application.StatusDenied {
		return rosterr.InvalidArgumentf("cannot update status to '%s'", status)
	}

	keys := []string{r.statusKey(id), pendingIndexKey}
	moved, err := r.client.Eval(ctx, resolveScript, keys, string(status), id).Int()
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if moved == 0 {
		return rosterr.FailedPreconditionf("application '%s' is not pending", id).
			WithMeta("application_id", id)
	}

	if resolvedBy != "" {
		if err := r.patch(ctx, id, func(d *Data) { d.ResolvedBy = resolvedBy }); err != nil {
			return err
		}
	}
	return nil
}

func (r *redisRepo) SetMessage(ctx context.Context, id, channelID, messageID string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}

	data, err := r.getData(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	if data.MessageID != "" {
		pipe.Del(ctx, r.messageKey(data.MessageID))
	}
	data.ChannelID = channelID
	data.MessageID = messageID
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}
	pipe.Set(ctx, r.key(id), jsonData, 0)
	if messageID != "" {
		pipe.Set(ctx, r.messageKey(messageID), id, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set ballot message: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	data, err := r.getData(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.statusKey(id))
	pipe.Del(ctx, r.votesKey(id, application.SideAccept))
	pipe.Del(ctx, r.votesKey(id, application.SideDeny))
	pipe.Del(ctx, r.pairKey(data.UserID, data.CharacterID))
	pipe.SRem(ctx, pendingIndexKey, id)
	if data.MessageID != "" {
		pipe.Del(ctx, r.messageKey(data.MessageID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

func (r *redisRepo) getData(ctx context.Context, id string) (*Data, error) {
	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application: %w", err)
	}
	return &data, nil
}

func (r *redisRepo) patch(ctx context.Context, id string, apply func(*Data)) error {
	data, err := r.getData(ctx, id)
	if err != nil {
		return err
	}

	apply(data)
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}
	if err := r.client.Set(ctx, r.key(id), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to patch application: %w", err)
	}
	return nil
}

func validateApp(app *application.Application) error {
	if app == nil {
		return rosterr.InvalidArgument("application cannot be nil")
	}
	if app.ID == "" {
		return rosterr.InvalidArgument("application ID is required")
	}
	if app.UserID == "" {
		return rosterr.InvalidArgument("application user ID is required")
	}
	if app.CharacterID == "" {
		return rosterr.InvalidArgument("application character ID is required")
	}
	if app.Guild == "" {
		return rosterr.InvalidArgument("application guild is required")
	}
	return nil
}

func toData(app *application.Application) *Data {
	return &Data{
		ID:          app.ID,
		UserID:      app.UserID,
		CharacterID: app.CharacterID,
		Guild:       app.Guild,
		ChannelID:   app.ChannelID,
		MessageID:   app.MessageID,
		ResolvedBy:  app.ResolvedBy,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}

func fromData(data *Data) *application.Application {
	return &application.Application{
		ID:          data.ID,
		UserID:      data.UserID,
		CharacterID: data.CharacterID,
		Guild:       data.Guild,
		ChannelID:   data.ChannelID,
		MessageID:   data.MessageID,
		ResolvedBy:  data.ResolvedBy,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

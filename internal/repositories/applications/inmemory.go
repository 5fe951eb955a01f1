package applications

import (
	"context"
	"sync"
	"time"

	"github.com/frostveil/rosterbot/internal/domain/application"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// InMemoryRepository is the in-process fallback and test repository. A
// single mutex around each operation gives the same atomicity the Redis
// implementation gets from its Lua scripts.
type InMemoryRepository struct {
	mu   sync.Mutex
	apps map[string]*record
}

type record struct {
	app    application.Application
	accept map[string]bool
	deny   map[string]bool
}

// NewInMemory creates an empty in-memory application repository.
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{apps: make(map[string]*record)}
}

func (r *InMemoryRepository) Create(_ context.Context, app *application.Application) error {
	if err := validateApp(app); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.apps {
		if rec.app.UserID == app.UserID && rec.app.CharacterID == app.CharacterID {
			return rosterr.AlreadyExistsf("application for user '%s' and character '%s' already exists", app.UserID, app.CharacterID).
				WithMeta("user_id", app.UserID).
				WithMeta("character_id", app.CharacterID)
		}
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	app.Status = application.StatusPending

	r.apps[app.ID] = &record{
		app:    *app,
		accept: make(map[string]bool),
		deny:   make(map[string]bool),
	}
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*application.Application, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("application ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.apps[id]
	if !ok {
		return nil, rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	return rec.snapshot(), nil
}

func (r *InMemoryRepository) GetByMessage(_ context.Context, messageID string) (*application.Application, error) {
	if messageID == "" {
		return nil, rosterr.InvalidArgument("message ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.apps {
		if rec.app.MessageID == messageID {
			return rec.snapshot(), nil
		}
	}
	return nil, rosterr.NotFoundf("no application for message '%s'", messageID).
		WithMeta("message_id", messageID)
}

func (r *InMemoryRepository) GetByUserAndCharacter(_ context.Context, userID, characterID string) (*application.Application, error) {
	if userID == "" || characterID == "" {
		return nil, rosterr.InvalidArgument("user ID and character ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.apps {
		if rec.app.UserID == userID && rec.app.CharacterID == characterID {
			return rec.snapshot(), nil
		}
	}
	return nil, rosterr.NotFoundf("no application for user '%s' and character '%s'", userID, characterID).
		WithMeta("user_id", userID).
		WithMeta("character_id", characterID)
}

func (r *InMemoryRepository) ListPending(_ context.Context) ([]*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*application.Application
	for _, rec := range r.apps {
		if rec.app.Status == application.StatusPending {
			pending = append(pending, rec.snapshot())
		}
	}
	return pending, nil
}

func (r *InMemoryRepository) CastVote(_ context.Context, id, voterID string, side application.Side) (int, int, error) {
	if id == "" {
		return 0, 0, rosterr.InvalidArgument("application ID is required")
	}
	if voterID == "" {
		return 0, 0, rosterr.InvalidArgument("voter ID is required")
	}
	if side != application.SideAccept && side != application.SideDeny {
		return 0, 0, rosterr.InvalidArgumentf("unknown vote side '%s'", side)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.apps[id]
	if !ok {
		return 0, 0, rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	if rec.app.Status != application.StatusPending {
		return 0, 0, rosterr.FailedPreconditionf("application '%s' is not pending", id).
			WithMeta("application_id", id)
	}

	delete(rec.accept, voterID)
	delete(rec.deny, voterID)
	if side == application.SideAccept {
		rec.accept[voterID] = true
	} else {
		rec.deny[voterID] = true
	}
	rec.app.UpdatedAt = time.Now().UTC()

	return len(rec.accept), len(rec.deny), nil
}

func (r *InMemoryRepository) RemoveVote(_ context.Context, id, voterID string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}
	if voterID == "" {
		return rosterr.InvalidArgument("voter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.apps[id]; ok {
		delete(rec.accept, voterID)
		delete(rec.deny, voterID)
	}
	return nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status application.Status, resolvedBy string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}
	if status != application.StatusApproved && status != application.StatusDenied {
		return rosterr.InvalidArgumentf("cannot update status to '%s'", status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.apps[id]
	if !ok {
		return rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	if rec.app.Status != application.StatusPending {
		return rosterr.FailedPreconditionf("application '%s' is not pending", id).
			WithMeta("application_id", id)
	}

	rec.app.Status = status
	rec.app.ResolvedBy = resolvedBy
	rec.app.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) SetMessage(_ context.Context, id, channelID, messageID string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.apps[id]
	if !ok {
		return rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}

	rec.app.ChannelID = channelID
	rec.app.MessageID = messageID
	rec.app.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("application ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[id]; !ok {
		return rosterr.NotFoundf("application with ID '%s' not found", id).
			WithMeta("application_id", id)
	}
	delete(r.apps, id)
	return nil
}

func (rec *record) snapshot() *application.Application {
	app := rec.app
	app.AcceptVoters = keys(rec.accept)
	app.DenyVoters = keys(rec.deny)
	return &app
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

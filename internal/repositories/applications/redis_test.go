package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostveil/rosterbot/internal/domain/application"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

func TestRedis_CastVoteReturnsTallies(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedis(db)

	keys := []string{
		"application:app-1:status",
		"application:app-1:votes:accept",
		"application:app-1:votes:deny",
	}
	mock.ExpectEval(castVoteScript, keys, "mod-1", "accept").
		SetVal([]interface{}{int64(2), int64(1)})

	accept, deny, err := repo.CastVote(context.Background(), "app-1", "mod-1", application.SideAccept)
	require.NoError(t, err)
	assert.Equal(t, 2, accept)
	assert.Equal(t, 1, deny)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_CastVoteOnResolvedFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedis(db)

	keys := []string{
		"application:app-1:status",
		"application:app-1:votes:accept",
		"application:app-1:votes:deny",
	}
	mock.ExpectEval(castVoteScript, keys, "mod-1", "deny").
		SetErr(errors.New("not_pending"))

	_, _, err := repo.CastVote(context.Background(), "app-1", "mod-1", application.SideDeny)
	assert.True(t, rosterr.IsFailedPrecondition(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_UpdateStatusResolvesPending(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedis(db)

	keys := []string{"application:app-1:status", "applications:pending"}
	mock.ExpectEval(resolveScript, keys, "approved", "app-1").SetVal(int64(1))

	err := repo.UpdateStatus(context.Background(), "app-1", application.StatusApproved, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_UpdateStatusOnResolvedFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedis(db)

	keys := []string{"application:app-1:status", "applications:pending"}
	mock.ExpectEval(resolveScript, keys, "denied", "app-1").SetVal(int64(0))

	err := repo.UpdateStatus(context.Background(), "app-1", application.StatusDenied, "")
	assert.True(t, rosterr.IsFailedPrecondition(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetNotFound(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedis(db)

	mock.ExpectGet("application:missing").RedisNil()

	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, rosterr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

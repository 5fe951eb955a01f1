package characters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

func seedCharacter(t *testing.T, repo *InMemoryRepository, id, ownerID string, typ character.Type, parentID string) *character.Character {
	t.Helper()
	char := &character.Character{
		ID:       id,
		OwnerID:  ownerID,
		Name:     "Nyx",
		GameUID:  "123456",
		Class:    "Warden",
		Type:     typ,
		ParentID: parentID,
		Guild:    character.GuildNone,
	}
	require.NoError(t, repo.Create(context.Background(), char))
	return char
}

func TestInMemory_CreateRejectsDuplicateID(t *testing.T) {
	repo := NewInMemory()
	seedCharacter(t, repo, "char-1", "user-1", character.TypeMain, "")

	err := repo.Create(context.Background(), &character.Character{
		ID:      "char-1",
		OwnerID: "user-1",
	})
	assert.True(t, rosterr.Is(err, rosterr.CodeAlreadyExists))
}

func TestInMemory_CreateValidatesRecord(t *testing.T) {
	repo := NewInMemory()

	err := repo.Create(context.Background(), &character.Character{ID: "char-1"})
	assert.True(t, rosterr.Is(err, rosterr.CodeInvalidArgument))

	err = repo.Create(context.Background(), &character.Character{OwnerID: "user-1"})
	assert.True(t, rosterr.Is(err, rosterr.CodeInvalidArgument))
}

func TestInMemory_GetReturnsCopy(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "char-1", "user-1", character.TypeMain, "")

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Nyx", again.Name)
}

func TestInMemory_GetByOwnerSortsMainFirst(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "alt-1", "user-1", character.TypeAlt, "")
	seedCharacter(t, repo, "sub-1", "user-1", character.TypeMainSubclass, "main-1")
	seedCharacter(t, repo, "main-1", "user-1", character.TypeMain, "")
	seedCharacter(t, repo, "other", "user-2", character.TypeMain, "")

	chars, err := repo.GetByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, chars, 3)
	assert.Equal(t, "main-1", chars[0].ID)
	assert.Equal(t, "sub-1", chars[1].ID)
	assert.Equal(t, "alt-1", chars[2].ID)
}

func TestInMemory_GetMain(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "alt-1", "user-1", character.TypeAlt, "")

	_, err := repo.GetMain(ctx, "user-1")
	assert.True(t, rosterr.IsNotFound(err))

	seedCharacter(t, repo, "main-1", "user-1", character.TypeMain, "")

	main, err := repo.GetMain(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "main-1", main.ID)
}

func TestInMemory_GetSubclassesAndCount(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "main-1", "user-1", character.TypeMain, "")
	seedCharacter(t, repo, "sub-1", "user-1", character.TypeMainSubclass, "main-1")
	seedCharacter(t, repo, "sub-2", "user-1", character.TypeMainSubclass, "main-1")
	seedCharacter(t, repo, "alt-1", "user-1", character.TypeAlt, "")

	subs, err := repo.GetSubclasses(ctx, "main-1")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	count, err := repo.CountSubclasses(ctx, "main-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountSubclasses(ctx, "alt-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInMemory_UpdatePreservesCreatedAt(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "char-1", "user-1", character.TypeMain, "")

	orig, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)

	orig.ScoreBracket = "2000-2199"
	require.NoError(t, repo.Update(ctx, orig))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "2000-2199", got.ScoreBracket)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
}

func TestInMemory_UpdateUnknownCharacterFails(t *testing.T) {
	repo := NewInMemory()

	err := repo.Update(context.Background(), &character.Character{ID: "ghost", OwnerID: "user-1"})
	assert.True(t, rosterr.IsNotFound(err))
}

func TestInMemory_DeleteByOwnerReturnsRemovedIDs(t *testing.T) {
	repo := NewInMemory()
	ctx := context.Background()
	seedCharacter(t, repo, "main-1", "user-1", character.TypeMain, "")
	seedCharacter(t, repo, "alt-1", "user-1", character.TypeAlt, "")
	seedCharacter(t, repo, "other", "user-2", character.TypeMain, "")

	ids, err := repo.DeleteByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main-1", "alt-1"}, ids)

	chars, err := repo.GetByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, chars)

	_, err = repo.Get(ctx, "other")
	assert.NoError(t, err)
}

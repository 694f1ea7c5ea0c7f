package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepair/internal/models"
	"codepair/internal/store"
	"codepair/internal/testhelpers"
)

func newGormStore(t *testing.T) *store.GormStore {
	t.Helper()
	return store.NewGormStore(testhelpers.SetupTestDB(t))
}

func createRoom(t *testing.T, s store.RoomStore) *models.Room {
	t.Helper()
	room := &models.Room{ID: uuid.NewString(), Language: "python"}
	require.NoError(t, s.Create(context.Background(), room))
	return room
}

func TestGormStoreCreateAndFetch(t *testing.T) {
	s := newGormStore(t)
	room := createRoom(t, s)

	got, err := s.Fetch(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.Equal(t, "", got.Code)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, 0, got.ActiveUsers)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGormStoreFetchMissing(t *testing.T) {
	s := newGormStore(t)

	_, err := s.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestGormStoreReplaceDocument(t *testing.T) {
	s := newGormStore(t)
	room := createRoom(t, s)

	require.NoError(t, s.ReplaceDocument(context.Background(), room.ID, "x = 1"))

	got, err := s.Fetch(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", got.Code)

	// Last write wins, no merging.
	require.NoError(t, s.ReplaceDocument(context.Background(), room.ID, "y = 2"))
	got, err = s.Fetch(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "y = 2", got.Code)
}

func TestGormStoreReplaceDocumentMissing(t *testing.T) {
	s := newGormStore(t)

	err := s.ReplaceDocument(context.Background(), "nope", "x = 1")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestGormStoreMemberCounter(t *testing.T) {
	s := newGormStore(t)
	room := createRoom(t, s)
	ctx := context.Background()

	n, err := s.IncrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.IncrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DecrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.DecrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Floored at zero.
	n, err = s.DecrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGormStoreCounterMissingRoom(t *testing.T) {
	s := newGormStore(t)

	_, err := s.IncrementMembers(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)

	_, err = s.DecrementMembers(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

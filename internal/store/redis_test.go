package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepair/internal/store"
)

// setupTestRedis creates a miniredis instance and a redis client for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisStoreCreateAndFetch(t *testing.T) {
	_, rdb := setupTestRedis(t)
	s := store.NewRedisStore(rdb)
	room := createRoom(t, s)

	got, err := s.Fetch(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.Equal(t, "", got.Code)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, 0, got.ActiveUsers)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRedisStoreFetchMissing(t *testing.T) {
	_, rdb := setupTestRedis(t)
	s := store.NewRedisStore(rdb)

	_, err := s.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestRedisStoreReplaceDocument(t *testing.T) {
	_, rdb := setupTestRedis(t)
	s := store.NewRedisStore(rdb)
	room := createRoom(t, s)

	require.NoError(t, s.ReplaceDocument(context.Background(), room.ID, "x = 1"))
	got, err := s.Fetch(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", got.Code)

	err = s.ReplaceDocument(context.Background(), "nope", "x = 1")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestRedisStoreMemberCounter(t *testing.T) {
	_, rdb := setupTestRedis(t)
	s := store.NewRedisStore(rdb)
	room := createRoom(t, s)
	ctx := context.Background()

	n, err := s.IncrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.DecrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.DecrementMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = s.IncrementMembers(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	s := store.NewRedisStore(rdb)
	room := createRoom(t, s)

	mr.Close()

	_, err := s.Fetch(context.Background(), room.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrRoomNotFound)
}

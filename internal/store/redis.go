package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codepair/internal/models"
)

// RedisStore keeps each room in a hash under room:<id>.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func roomKey(roomID string) string { return "room:" + roomID }

func (s *RedisStore) Create(ctx context.Context, room *models.Room) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	return s.rdb.HSet(ctx, roomKey(room.ID), map[string]any{
		"id":           room.ID,
		"code":         room.Code,
		"language":     room.Language,
		"active_users": room.ActiveUsers,
		"created_at":   now.Format(time.RFC3339Nano),
		"updated_at":   now.Format(time.RFC3339Nano),
	}).Err()
}

func (s *RedisStore) Fetch(ctx context.Context, roomID string) (*models.Room, error) {
	fields, err := s.rdb.HGetAll(ctx, roomKey(roomID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrRoomNotFound
	}
	room := &models.Room{
		ID:       fields["id"],
		Code:     fields["code"],
		Language: fields["language"],
	}
	room.ActiveUsers, _ = strconv.Atoi(fields["active_users"])
	room.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	room.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return room, nil
}

func (s *RedisStore) ReplaceDocument(ctx context.Context, roomID, code string) error {
	if err := s.exists(ctx, roomID); err != nil {
		return err
	}
	return s.rdb.HSet(ctx, roomKey(roomID),
		"code", code,
		"updated_at", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
}

func (s *RedisStore) IncrementMembers(ctx context.Context, roomID string) (int, error) {
	if err := s.exists(ctx, roomID); err != nil {
		return 0, err
	}
	n, err := s.rdb.HIncrBy(ctx, roomKey(roomID), "active_users", 1).Result()
	return int(n), err
}

func (s *RedisStore) DecrementMembers(ctx context.Context, roomID string) (int, error) {
	if err := s.exists(ctx, roomID); err != nil {
		return 0, err
	}
	n, err := s.rdb.HIncrBy(ctx, roomKey(roomID), "active_users", -1).Result()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		// Decrements are paired with increments, so this only happens if
		// the hash was touched out of band. Clamp back to zero.
		if err := s.rdb.HSet(ctx, roomKey(roomID), "active_users", 0).Err(); err != nil {
			return 0, err
		}
		n = 0
	}
	return int(n), nil
}

func (s *RedisStore) exists(ctx context.Context, roomID string) error {
	n, err := s.rdb.Exists(ctx, roomKey(roomID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

package store

import (
	"context"
	"errors"

	"codepair/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomStore is the persistence contract for rooms. Each operation is
// atomic at the record level; no cross-operation transaction is offered,
// the document follows last-write-wins.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	Fetch(ctx context.Context, roomID string) (*models.Room, error)
	ReplaceDocument(ctx context.Context, roomID, code string) error
	IncrementMembers(ctx context.Context, roomID string) (int, error)
	// DecrementMembers floors the counter at zero.
	DecrementMembers(ctx context.Context, roomID string) (int, error)
}

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codepair/internal/metrics"
	"codepair/internal/models"
	"codepair/internal/store"
)

// CloseRoomNotFound is the application-level close code sent when a
// client attaches to a room that does not exist.
const CloseRoomNotFound = 4004

const cleanupTimeout = 5 * time.Second

// Session drives one connection's lifecycle: attach, initial snapshot,
// inbound event loop, detach.
type Session struct {
	roomID      string
	client      *Client
	registry    *Registry
	broadcaster *Broadcaster
	store       store.RoomStore
	log         *zap.Logger

	attached    bool
	cleanupOnce sync.Once
}

func New(roomID string, client *Client, registry *Registry, broadcaster *Broadcaster, st store.RoomStore, log *zap.Logger) *Session {
	return &Session{
		roomID:      roomID,
		client:      client,
		registry:    registry,
		broadcaster: broadcaster,
		store:       st,
		log:         log,
	}
}

// Run blocks until the connection is closed. Cleanup runs exactly once
// on every exit path, but only performs the leave/decrement/user_left
// sequence if the attach fully succeeded.
func (s *Session) Run(ctx context.Context) {
	room, err := s.store.Fetch(ctx, s.roomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			s.client.CloseWithReason(CloseRoomNotFound, "Room not found")
		} else {
			s.log.Error("room lookup failed", zap.String("room", s.roomID), zap.Error(err))
			s.client.CloseWithReason(websocket.CloseInternalServerErr, "room lookup failed")
		}
		return
	}

	s.registry.Join(s.roomID, s.client)
	if _, err := s.store.IncrementMembers(ctx, s.roomID); err != nil {
		s.log.Error("member increment failed", zap.String("room", s.roomID), zap.Error(err))
		s.registry.Leave(s.roomID, s.client)
		s.client.Close()
		return
	}

	active := s.registry.MemberCount(s.roomID)
	if err := s.client.Send(initEvent(room.Code, room.Language, active)); err != nil {
		// The increment and the init send are one failure unit: roll the
		// counter back so it never diverges from actual membership.
		s.log.Warn("init send failed", zap.String("room", s.roomID), zap.Error(err))
		s.registry.Leave(s.roomID, s.client)
		if _, derr := s.decrementMembers(); derr != nil {
			s.log.Error("rollback decrement failed", zap.String("room", s.roomID), zap.Error(derr))
		}
		s.client.Close()
		return
	}
	s.attached = true
	metrics.ConnectionsActive.Inc()
	defer s.cleanup()

	s.broadcaster.Broadcast(s.roomID, userCountEvent(models.EventUserJoined, active), s.client)

	s.readLoop(ctx)
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		var event models.InboundEvent
		if err := s.client.Read(&event); err != nil {
			return
		}

		switch event.Type {
		// An absent type means an old client sending a bare code update.
		case "", models.EventCodeUpdate:
			if err := s.store.ReplaceDocument(ctx, s.roomID, event.Code); err != nil {
				s.log.Warn("document update skipped",
					zap.String("room", s.roomID), zap.Error(err))
				continue
			}
			s.broadcaster.Broadcast(s.roomID, models.OutboundEvent{
				Type:           models.EventCodeUpdate,
				Code:           &event.Code,
				CursorPosition: event.CursorPosition,
				UserID:         event.UserID,
			}, s.client)

		case models.EventCursorMove:
			s.broadcaster.Broadcast(s.roomID, models.OutboundEvent{
				Type:           models.EventCursorMove,
				CursorPosition: event.CursorPosition,
				UserID:         event.UserID,
			}, s.client)

		case models.EventPing:
			if err := s.client.Send(models.OutboundEvent{Type: models.EventPong}); err != nil {
				s.log.Warn("pong send failed", zap.String("room", s.roomID), zap.Error(err))
			}

		default:
			// Unknown tags are forward-compatible no-ops.
		}
	}
}

// cleanup deregisters the client, decrements the persisted counter and
// announces the departure to the remaining members. The departing handle
// is removed first, so it cannot receive its own user_left.
func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		if !s.attached {
			return
		}
		metrics.ConnectionsActive.Dec()
		s.registry.Leave(s.roomID, s.client)
		if _, err := s.decrementMembers(); err != nil {
			s.log.Error("member decrement failed", zap.String("room", s.roomID), zap.Error(err))
		}
		remaining := s.registry.MemberCount(s.roomID)
		s.broadcaster.Broadcast(s.roomID, userCountEvent(models.EventUserLeft, remaining), nil)
		s.client.Close()
	})
}

// decrementMembers uses its own context: cleanup must still reach the
// store after the request context that carried the connection has died.
func (s *Session) decrementMembers() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	return s.store.DecrementMembers(ctx, s.roomID)
}

func initEvent(code, language string, active int) models.OutboundEvent {
	return models.OutboundEvent{
		Type:        models.EventInit,
		Code:        &code,
		Language:    language,
		ActiveUsers: &active,
	}
}

func userCountEvent(eventType string, active int) models.OutboundEvent {
	return models.OutboundEvent{Type: eventType, ActiveUsers: &active}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codepair/internal/autocomplete"
	"codepair/internal/models"
	"codepair/internal/session"
	"codepair/internal/store"
	"codepair/internal/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handlers struct {
	log          *zap.Logger
	store        store.RoomStore
	autocomplete *autocomplete.Service
	registry     *session.Registry
	broadcaster  *session.Broadcaster
}

func NewHandlers(log *zap.Logger, st store.RoomStore, ac *autocomplete.Service) *Handlers {
	registry := session.NewRegistry()
	return &Handlers{
		log:          log,
		store:        st,
		autocomplete: ac,
		registry:     registry,
		broadcaster:  session.NewBroadcaster(registry, log),
	}
}

func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Pair Programming API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"create_room":  "POST /api/rooms",
			"autocomplete": "POST /api/autocomplete",
			"websocket":    "WS /ws/{room_id}",
		},
	})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.RoomCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_request",
			Message: "Malformed request body",
		})
		return
	}
	if req.Language == "" {
		req.Language = models.DefaultLanguage
	}

	room := &models.Room{
		ID:       uuid.NewString(),
		Code:     "",
		Language: req.Language,
	}
	if err := h.store.Create(r.Context(), room); err != nil {
		h.log.Error("room create failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create room",
		})
		return
	}
	utils.JSON(w, http.StatusCreated, roomResponse(room))
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	room, err := h.store.Fetch(r.Context(), roomID)
	if errors.Is(err, store.ErrRoomNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "room_not_found",
			Message: "Room not found",
		})
		return
	}
	if err != nil {
		h.log.Error("room fetch failed", zap.String("room", roomID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch room",
		})
		return
	}
	utils.JSON(w, http.StatusOK, roomResponse(room))
}

func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var req models.AutocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_request",
			Message: "Malformed request body",
		})
		return
	}
	if req.Language == "" {
		req.Language = models.DefaultLanguage
	}
	utils.JSON(w, http.StatusOK, h.autocomplete.Suggest(req.Code, req.CursorPosition, req.Language))
}

// CollabWS upgrades the connection and hands it to a session, which owns
// the handle for the rest of its life. The session uses its own contexts
// for store calls: the request context dies with the HTTP handshake while
// the upgraded connection lives on.
func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := session.NewClient(conn)
	go client.WritePump()
	defer client.Close()

	sess := session.New(roomID, client, h.registry, h.broadcaster, h.store, h.log)
	sess.Run(context.Background())
}

func roomResponse(room *models.Room) models.RoomResponse {
	resp := models.RoomResponse{
		RoomID:      room.ID,
		Code:        room.Code,
		Language:    room.Language,
		ActiveUsers: room.ActiveUsers,
	}
	if !room.CreatedAt.IsZero() {
		created := room.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

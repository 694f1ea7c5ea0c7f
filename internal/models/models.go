package models

import "time"

// Room is the persisted record for one collaborative session.
type Room struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	ActiveUsers int       `json:"active_users"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const DefaultLanguage = "python"

// Inbound event tags. A frame with no type field is treated as a
// code update for backward compatibility with older clients.
const (
	EventCodeUpdate = "code_update"
	EventCursorMove = "cursor_move"
	EventPing       = "ping"
)

// Outbound event tags.
const (
	EventInit       = "init"
	EventUserJoined = "user_joined"
	EventPong       = "pong"
	EventUserLeft   = "user_left"
)

// InboundEvent is one frame read from a client connection.
type InboundEvent struct {
	Type           string `json:"type"`
	Code           string `json:"code"`
	CursorPosition *int   `json:"cursorPosition"`
	UserID         string `json:"userId"`
}

// OutboundEvent is one frame delivered to a client connection. Optional
// fields are pointers so that zero values ("" for code, 0 for counts)
// still appear on the wire when set.
type OutboundEvent struct {
	Type           string  `json:"type"`
	Code           *string `json:"code,omitempty"`
	Language       string  `json:"language,omitempty"`
	ActiveUsers    *int    `json:"activeUsers,omitempty"`
	CursorPosition *int    `json:"cursorPosition,omitempty"`
	UserID         string  `json:"userId,omitempty"`
}

type RoomCreateRequest struct {
	Language string `json:"language"`
}

type RoomResponse struct {
	RoomID      string     `json:"roomId"`
	Code        string     `json:"code"`
	Language    string     `json:"language"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	ActiveUsers int        `json:"active_users"`
}

type AutocompleteRequest struct {
	Code           string `json:"code"`
	CursorPosition int    `json:"cursorPosition"`
	Language       string `json:"language"`
}

type AutocompleteResponse struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
	Type       string  `json:"type"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

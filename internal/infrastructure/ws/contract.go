package ws

import (
	"encoding/json"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound is the raw client envelope. Data stays unparsed until the operation
// is known.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Request payloads
type CreateRoomRequest struct {
	Nickname string `json:"nickname"`
	Limit    int    `json:"limit"`
}

type JoinRoomRequest struct {
	PIN      string `json:"pin"`
	Nickname string `json:"nickname"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type DeleteRoomRequest struct {
	PIN string `json:"pin"`
}

type CheckActiveRequest struct {
	PIN string `json:"pin"`
}

// Response payloads
type RoomDataPayload struct {
	Users []domain.Member `json:"users"`
	Limit int             `json:"limit"`
}

type RoomDeletedPayload struct {
	PIN string `json:"pin"`
}

type HostInfoPayload struct {
	Address  string `json:"address"`
	Hostname string `json:"hostname,omitempty"`
}

type AckPayload struct {
	Op       string `json:"op"`
	Success  bool   `json:"success"`
	PIN      string `json:"pin,omitempty"`
	Message  string `json:"message,omitempty"`
	Redirect bool   `json:"redirect,omitempty"`
}

type ActiveConnectionPayload struct {
	PIN    string `json:"pin"`
	Active bool   `json:"active"`
}

type ChatMessagePayload struct {
	Message   string `json:"message"`
	Nickname  string `json:"nickname"`
	Timestamp string `json:"timestamp"`
}

func NewRoomsData(rooms []session.RoomSummary) *WSMessage {
	return &WSMessage{
		Type: RoomsData,
		Data: rooms,
	}
}

func NewRoomData(room domain.Room) *WSMessage {
	return &WSMessage{
		Type: RoomData,
		Data: RoomDataPayload{
			Users: room.Members,
			Limit: room.Limit,
		},
	}
}

func NewMessageReceived(message, nickname, timestamp string) *WSMessage {
	return &WSMessage{
		Type: MessageReceived,
		Data: ChatMessagePayload{
			Message:   message,
			Nickname:  nickname,
			Timestamp: timestamp,
		},
	}
}

func NewRoomDeleted(pin string) *WSMessage {
	return &WSMessage{
		Type: RoomDeleted,
		Data: RoomDeletedPayload{PIN: pin},
	}
}

func NewHostInfo(address, hostname string) *WSMessage {
	return &WSMessage{
		Type: HostInfo,
		Data: HostInfoPayload{
			Address:  address,
			Hostname: hostname,
		},
	}
}

func NewAckOK(op, pin string) *WSMessage {
	return &WSMessage{
		Type: Ack,
		Data: AckPayload{
			Op:      op,
			Success: true,
			PIN:     pin,
		},
	}
}

func NewAckError(op, message string) *WSMessage {
	return &WSMessage{
		Type: Ack,
		Data: AckPayload{
			Op:      op,
			Success: false,
			Message: message,
		},
	}
}

// NewAckRedirect tells the client its device already holds a live membership
// and should return to that session instead of opening a second one.
func NewAckRedirect(op, pin, message string) *WSMessage {
	return &WSMessage{
		Type: Ack,
		Data: AckPayload{
			Op:       op,
			Success:  false,
			PIN:      pin,
			Message:  message,
			Redirect: true,
		},
	}
}

func NewActiveConnection(pin string, active bool) *WSMessage {
	return &WSMessage{
		Type: ActiveConnection,
		Data: ActiveConnectionPayload{
			PIN:    pin,
			Active: active,
		},
	}
}

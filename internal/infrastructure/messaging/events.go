package messaging

import "github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"

const (
	RoomsQueue      = "rooms"
	DeadLetterQueue = "dead_letter_queue"
)

// RoomEventData is the payload carried by every room lifecycle event. Fields
// beyond Room only apply to some event types.
type RoomEventData struct {
	Room         domain.Room `json:"room"`
	Reason       string      `json:"reason,omitempty"`
	GraceSeconds float64     `json:"graceSeconds,omitempty"`
	WasOwner     bool        `json:"wasOwner,omitempty"`
}

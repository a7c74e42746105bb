package rooms

import (
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

type createRoomRequest struct {
	Nickname string `json:"nickname" example:"alice"` // Display name of the room owner
	Limit    int    `json:"limit" example:"8"`        // Maximum number of members
}

type createRoomResponse struct {
	PIN       string    `json:"pin" example:"431972"` // Six digit room pin
	Limit     int       `json:"limit" example:"8"`
	CreatedAt time.Time `json:"createdAt"`
}

type roomResponse struct {
	PIN       string          `json:"pin"`
	Users     []domain.Member `json:"users"`
	Limit     int             `json:"limit"`
	CreatedAt time.Time       `json:"createdAt"`
}

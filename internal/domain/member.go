package domain

import (
	"strings"
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/validate"
)

// Member is one device's active participation record inside a room. The
// device id is the identity key; the connection id only names the transport
// connection currently bound to it.
type Member struct {
	Nickname     string    `json:"nickname"`
	DeviceID     string    `json:"deviceId"`
	ConnectionID string    `json:"connectionId,omitempty"`
	JoinedAt     time.Time `json:"joinedAt,omitzero"`
}

// NewMember validates the nickname and builds a member record without a
// JoinedAt timestamp; Room.AddMember stamps it on join.
func NewMember(nickname, connectionID, deviceID string) (Member, error) {
	validateNickname := validate.Compose(
		validate.Required(),
		validate.MinLength(1),
		validate.MaxLength(32),
	)

	if err := validateNickname(nickname); err != nil {
		return Member{}, err
	}
	if strings.TrimSpace(deviceID) == "" {
		return Member{}, ErrInvalidArgument
	}

	return Member{
		Nickname:     strings.TrimSpace(nickname),
		DeviceID:     deviceID,
		ConnectionID: connectionID,
	}, nil
}

package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	// PINLength is the number of digits in a room PIN.
	PINLength = 6

	pinDigits = "0123456789"
)

var (
	digitsLen = big.NewInt(int64(len(pinDigits)))

	ErrInvalidArgument     = errors.New("missing or invalid argument")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateConnection = errors.New("device already connected to this room")
	ErrDeviceElsewhere     = errors.New("device already in another room")
	ErrNotOwner            = errors.New("not the room owner")
	ErrPinSpaceExhausted   = errors.New("pin space exhausted")
)

// Room is one ephemeral, PIN-addressed chat session. It lives only in process
// memory; a restart loses every room.
type Room struct {
	PIN           string    `json:"pin"`
	Limit         int       `json:"limit"`
	OwnerDeviceID string    `json:"ownerDeviceId"`
	OwnerNickname string    `json:"ownerNickname"`
	Members       []Member  `json:"users"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewRoom builds a room with the creator as its sole member. The creator's
// member entry carries no JoinedAt timestamp; only later joiners get one.
func NewRoom(pin, nickname string, limit int, connectionID, deviceID string) (*Room, error) {
	if strings.TrimSpace(nickname) == "" || strings.TrimSpace(deviceID) == "" || limit <= 0 {
		return nil, ErrInvalidArgument
	}

	owner := Member{
		Nickname:     nickname,
		DeviceID:     deviceID,
		ConnectionID: connectionID,
	}

	return &Room{
		PIN:           pin,
		Limit:         limit,
		OwnerDeviceID: deviceID,
		OwnerNickname: nickname,
		Members:       []Member{owner},
		CreatedAt:     time.Now(),
	}, nil
}

func (r *Room) HasDevice(deviceID string) bool {
	for _, m := range r.Members {
		if m.DeviceID == deviceID {
			return true
		}
	}
	return false
}

func (r *Room) IsOwner(deviceID string) bool {
	return deviceID != "" && r.OwnerDeviceID == deviceID
}

func (r *Room) IsFull() bool {
	return len(r.Members) >= r.Limit
}

func (r *Room) Empty() bool {
	return len(r.Members) == 0
}

func (r *Room) HasSpace() bool {
	return len(r.Members) < r.Limit
}

// AddMember appends a joiner. Check order matters: a duplicate device is
// rejected before capacity is even considered.
func (r *Room) AddMember(m Member) error {
	if r.HasDevice(m.DeviceID) {
		return ErrDuplicateConnection
	}
	if r.IsFull() {
		return ErrRoomFull
	}

	m.JoinedAt = time.Now()
	r.Members = append(r.Members, m)
	return nil
}

// RemoveMatching drops every member whose connection id OR device id matches.
// The dual match guarantees a stale entry from an earlier connection cannot
// linger after the device shows up elsewhere. Returns how many were removed.
func (r *Room) RemoveMatching(connectionID, deviceID string) int {
	kept := r.Members[:0]
	for _, m := range r.Members {
		if (connectionID != "" && m.ConnectionID == connectionID) ||
			(deviceID != "" && m.DeviceID == deviceID) {
			continue
		}
		kept = append(kept, m)
	}

	removed := len(r.Members) - len(kept)
	r.Members = kept
	return removed
}

// Snapshot returns a defensive copy safe to hand across goroutines.
func (r *Room) Snapshot() Room {
	cp := *r
	cp.Members = make([]Member, len(r.Members))
	copy(cp.Members, r.Members)
	return cp
}

// GeneratePIN produces one candidate 6-digit PIN. Uniqueness against live
// rooms is the caller's job; the first digit is never zero so the PIN
// round-trips through clients that treat it as a number.
func GeneratePIN() (string, error) {
	var sb strings.Builder
	sb.Grow(PINLength)

	for i := 0; i < PINLength; i++ {
		n, err := rand.Int(rand.Reader, digitsLen)
		if err != nil {
			return "", err
		}
		d := pinDigits[n.Int64()]
		if i == 0 && d == '0' {
			d = '9'
		}
		sb.WriteByte(d)
	}

	return sb.String(), nil
}

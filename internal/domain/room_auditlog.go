package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated  RoomEventType = "room_created"
	EventRoomDeleted  RoomEventType = "room_deleted"
	EventRoomEvicted  RoomEventType = "room_evicted"
	EventMemberJoined RoomEventType = "member_joined"
	EventMemberLeft   RoomEventType = "member_left"
	EventJoinRejected RoomEventType = "join_rejected"
)

type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomPIN   string         `bson:"room_pin" json:"roomPin"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomPIN(ctx context.Context, pin string, limit int) ([]RoomAuditLog, error)
	GetByEventType(ctx context.Context, eventType RoomEventType, from, to time.Time) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func newAuditLog(pin string, event RoomEventType, metadata map[string]any) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomPIN:   pin,
		EventType: event,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

func NewRoomCreatedLog(pin string, limit int, ownerDeviceID string) *RoomAuditLog {
	return newAuditLog(pin, EventRoomCreated, map[string]any{
		"limit":           limit,
		"owner_device_id": ownerDeviceID,
	})
}

func NewRoomDeletedLog(pin string, reason string, memberCount int) *RoomAuditLog {
	return newAuditLog(pin, EventRoomDeleted, map[string]any{
		"reason":       reason,
		"member_count": memberCount,
	})
}

func NewRoomEvictedLog(pin string, graceSeconds float64) *RoomAuditLog {
	return newAuditLog(pin, EventRoomEvicted, map[string]any{
		"grace_seconds": graceSeconds,
	})
}

func NewMemberJoinedLog(pin string, memberCount int) *RoomAuditLog {
	return newAuditLog(pin, EventMemberJoined, map[string]any{
		"member_count": memberCount,
	})
}

func NewMemberLeftLog(pin string, memberCount int, wasOwner bool) *RoomAuditLog {
	return newAuditLog(pin, EventMemberLeft, map[string]any{
		"member_count": memberCount,
		"was_owner":    wasOwner,
	})
}

func NewJoinRejectedLog(pin string, reason string) *RoomAuditLog {
	return newAuditLog(pin, EventJoinRejected, map[string]any{
		"reason": reason,
	})
}

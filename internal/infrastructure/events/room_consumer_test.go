package events

import (
	"testing"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/contracts"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/messaging"
)

func TestAuditEntryForMapsRoutingKeys(t *testing.T) {
	room := domain.Room{
		PIN:           "123456",
		Limit:         4,
		OwnerDeviceID: "dev-1",
		Members:       []domain.Member{{Nickname: "alice", DeviceID: "dev-1"}},
	}

	tests := []struct {
		routingKey string
		payload    messaging.RoomEventData
		wantEvent  domain.RoomEventType
	}{
		{contracts.EventRoomCreated, messaging.RoomEventData{Room: room}, domain.EventRoomCreated},
		{contracts.EventRoomDeleted, messaging.RoomEventData{Room: room, Reason: "owner_deleted"}, domain.EventRoomDeleted},
		{contracts.EventRoomEvicted, messaging.RoomEventData{Room: room, GraceSeconds: 300}, domain.EventRoomEvicted},
		{contracts.EventMemberJoined, messaging.RoomEventData{Room: room}, domain.EventMemberJoined},
		{contracts.EventMemberLeft, messaging.RoomEventData{Room: room, WasOwner: true}, domain.EventMemberLeft},
		{contracts.EventJoinRejected, messaging.RoomEventData{Room: domain.Room{PIN: "123456"}, Reason: "full"}, domain.EventJoinRejected},
	}

	for _, tc := range tests {
		entry := auditEntryFor(tc.routingKey, "123456", tc.payload)
		if entry == nil {
			t.Fatalf("%s: expected an audit entry", tc.routingKey)
		}
		if entry.EventType != tc.wantEvent {
			t.Fatalf("%s: expected event %s, got %s", tc.routingKey, tc.wantEvent, entry.EventType)
		}
		if entry.RoomPIN != "123456" {
			t.Fatalf("%s: wrong pin %s", tc.routingKey, entry.RoomPIN)
		}
	}
}

func TestAuditEntryForIgnoresUnknownKeys(t *testing.T) {
	if entry := auditEntryFor("room.unknown", "123456", messaging.RoomEventData{}); entry != nil {
		t.Fatalf("unknown routing key must map to nil, got %+v", entry)
	}
}

func TestJoinRejectedEntryCarriesReason(t *testing.T) {
	entry := auditEntryFor(contracts.EventJoinRejected, "123456", messaging.RoomEventData{Reason: "duplicate"})
	if entry == nil {
		t.Fatalf("expected an audit entry")
	}
	if entry.Metadata["reason"] != "duplicate" {
		t.Fatalf("expected the rejection reason in metadata, got %v", entry.Metadata)
	}
}

package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

func newTestCore(t *testing.T) *Core {
	t.Helper()

	manager := session.NewManager(session.Config{GracePeriod: time.Minute}, nil, nil, zap.NewNop().Sugar())
	t.Cleanup(manager.Stop)
	return NewCore(manager, NewHub([]string{"*"}), nil, 50, zap.NewNop().Sugar())
}

func TestJoinRejectsMalformedPin(t *testing.T) {
	core := newTestCore(t)
	cl := fakeClient("conn-a", "dev-a")

	for _, pin := range []string{"", "12345", "12ab56"} {
		payload, _ := json.Marshal(JoinRoomRequest{PIN: pin, Nickname: "bob"})
		core.handleJoinRoom(cl, payload)

		msg := drain(t, cl)
		ack := msg.Data.(AckPayload)
		if msg.Type != Ack || ack.Success {
			t.Fatalf("pin %q: expected a failed ack, got %+v", pin, msg)
		}
	}

	if core.manager.RoomCount() != 0 {
		t.Fatalf("malformed pins must never reach the registry")
	}
}

func TestDeleteRejectsMalformedPin(t *testing.T) {
	core := newTestCore(t)
	cl := fakeClient("conn-a", "dev-a")

	payload, _ := json.Marshal(DeleteRoomRequest{PIN: "not-a-pin"})
	core.handleDeleteRoom(cl, payload)

	msg := drain(t, cl)
	if ack := msg.Data.(AckPayload); ack.Success {
		t.Fatalf("expected a failed ack, got %+v", ack)
	}
}

func TestCheckActiveMalformedPinReportsInactive(t *testing.T) {
	core := newTestCore(t)
	cl := fakeClient("conn-a", "dev-a")

	payload, _ := json.Marshal(CheckActiveRequest{PIN: "12ab56"})
	core.handleCheckActive(cl, payload)

	msg := drain(t, cl)
	if msg.Type != ActiveConnection {
		t.Fatalf("expected %s, got %s", ActiveConnection, msg.Type)
	}
	if active := msg.Data.(ActiveConnectionPayload); active.Active {
		t.Fatalf("malformed pin must report inactive, got %+v", active)
	}
}

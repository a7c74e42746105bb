package rooms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

func newTestHandler(t *testing.T) (*Handler, *session.Manager) {
	t.Helper()

	manager := session.NewManager(session.Config{GracePeriod: time.Minute}, nil, nil, zap.NewNop().Sugar())
	t.Cleanup(manager.Stop)
	return NewHandler(manager, nil, nil), manager
}

func getRoomRequest(pin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/rooms/"+pin, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("pin", pin)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetRoomRejectsMalformedPin(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, pin := range []string{"", "12345", "1234567", "12ab56"} {
		rec := httptest.NewRecorder()
		h.GetRoomHandler(rec, getRoomRequest(pin))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("pin %q: expected 400, got %d", pin, rec.Code)
		}
	}
}

func TestGetRoomNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.GetRoomHandler(rec, getRoomRequest("999999"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetRoomReturnsRoster(t *testing.T) {
	h, manager := newTestHandler(t)

	room, err := manager.CreateRoom("", "dev-1", "alice", 4)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.GetRoomHandler(rec, getRoomRequest(room.PIN))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

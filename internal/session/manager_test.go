package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// recorder implements both Notifier and EventSink, thread-safe because
// eviction callbacks arrive from timer goroutines.
type recorder struct {
	mu           sync.Mutex
	rosters      []domain.Room
	deletedPins  []string
	created      int
	evicted      int
	joined       int
	left         int
	leftWasOwner []bool
	rejections   []string
}

func (r *recorder) RosterChanged(room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosters = append(r.rosters, room)
}

func (r *recorder) RoomDeleted(pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedPins = append(r.deletedPins, pin)
}

func (r *recorder) RoomCreated(domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *recorder) RoomEvicted(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted++
}

func (r *recorder) MemberJoined(domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joined++
}

func (r *recorder) MemberLeft(_ domain.Room, wasOwner bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.left++
	r.leftWasOwner = append(r.leftWasOwner, wasOwner)
}

func (r *recorder) JoinRejected(_ string, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, reason)
}

type sinkRecorder struct {
	*recorder
	mu      sync.Mutex
	reasons []string
}

func (s *sinkRecorder) RoomDeleted(_ domain.Room, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasons = append(s.reasons, reason)
}

func newTestManager(t *testing.T, grace time.Duration) (*Manager, *recorder, *sinkRecorder) {
	t.Helper()

	rec := &recorder{}
	sink := &sinkRecorder{recorder: rec}
	m := NewManager(Config{GracePeriod: grace}, rec, sink, zap.NewNop().Sugar())
	t.Cleanup(m.Stop)
	return m, rec, sink
}

func TestCreateRoomBindsOwner(t *testing.T) {
	m, rec, _ := newTestManager(t, time.Minute)

	room, err := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if len(room.PIN) != domain.PINLength {
		t.Fatalf("bad pin: %q", room.PIN)
	}

	binding, ok := m.Binding("conn-1")
	if !ok {
		t.Fatalf("owner connection should be bound")
	}
	if binding.PIN != room.PIN || !binding.IsOwner || binding.DeviceID != "dev-1" {
		t.Fatalf("bad binding: %+v", binding)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.created != 1 || len(rec.rosters) != 1 {
		t.Fatalf("expected one created event and one roster, got %d/%d", rec.created, len(rec.rosters))
	}
}

func TestCreateRoomRefusesDeviceElsewhere(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	if _, err := m.CreateRoom("conn-1", "dev-1", "alice", 4); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	if _, err := m.CreateRoom("conn-2", "dev-1", "alice", 4); !errors.Is(err, domain.ErrDeviceElsewhere) {
		t.Fatalf("expected ErrDeviceElsewhere, got %v", err)
	}
}

func TestConcurrentCreateRoomRefusesSecondRoom(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	// REST creates run on their own goroutines next to the socket loop, so
	// the device-elsewhere refusal has to hold without any outside ordering.
	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.CreateRoom("", "dev-race", "alice", 4); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("device dev-race owns %d rooms after concurrent creates, want 1", succeeded)
	}
	if m.RoomCount() != 1 {
		t.Fatalf("expected 1 room, got %d", m.RoomCount())
	}
}

func TestCreateRoomWithoutConnectionSkipsBinding(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	if _, err := m.CreateRoom("", "dev-1", "alice", 4); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	if _, ok := m.Binding(""); ok {
		t.Fatalf("empty connection id must not be bound")
	}
}

func TestJoinRejectionsReportReasons(t *testing.T) {
	m, rec, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 1) // full with the owner

	if _, err := m.JoinRoom("conn-2", "dev-2", "bob", "999999"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := m.JoinRoom("conn-3", "dev-1", "alice", room.PIN); !errors.Is(err, domain.ErrDuplicateConnection) {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
	if _, err := m.JoinRoom("conn-4", "dev-2", "bob", room.PIN); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := []string{"not_found", "duplicate", "full"}
	if len(rec.rejections) != len(want) {
		t.Fatalf("expected %d rejection events, got %v", len(want), rec.rejections)
	}
	for i, reason := range want {
		if rec.rejections[i] != reason {
			t.Fatalf("rejection %d: expected %q, got %q", i, reason, rec.rejections[i])
		}
	}
}

func TestJoinRoomCancelsPendingEviction(t *testing.T) {
	m, _, _ := newTestManager(t, 50*time.Millisecond)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	m.Leave(room.PIN, "conn-1", "dev-1")

	if !m.EvictionPending(room.PIN) {
		t.Fatalf("empty room should be scheduled for eviction")
	}

	if _, err := m.JoinRoom("conn-2", "dev-2", "bob", room.PIN); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	if m.EvictionPending(room.PIN) {
		t.Fatalf("join must cancel the eviction timer")
	}

	time.Sleep(120 * time.Millisecond)

	if _, ok := m.GetRoom(room.PIN); !ok {
		t.Fatalf("repopulated room must survive past the original grace period")
	}
}

func TestEvictionFiresAfterGrace(t *testing.T) {
	m, rec, _ := newTestManager(t, 30*time.Millisecond)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	m.Leave(room.PIN, "conn-1", "dev-1")

	// The emptied room lingers through the grace period.
	if _, ok := m.GetRoom(room.PIN); !ok {
		t.Fatalf("room should survive until the timer fires")
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := m.GetRoom(room.PIN); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("room was never evicted")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.evicted != 1 {
		t.Fatalf("expected one eviction event, got %d", rec.evicted)
	}
	if len(rec.deletedPins) != 1 || rec.deletedPins[0] != room.PIN {
		t.Fatalf("transport must be told the room is gone, got %v", rec.deletedPins)
	}
}

func TestLeaveIsIdempotentThroughManager(t *testing.T) {
	m, rec, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	m.Leave(room.PIN, "conn-1", "dev-1")
	m.Leave(room.PIN, "conn-1", "dev-1")
	m.Leave("999999", "conn-1", "dev-1")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.left != 1 {
		t.Fatalf("expected exactly one member-left event, got %d", rec.left)
	}
	if !rec.leftWasOwner[0] {
		t.Fatalf("the departing owner must be flagged as owner")
	}
}

func TestDisconnectRunsLeaveFlow(t *testing.T) {
	m, _, _ := newTestManager(t, 50*time.Millisecond)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)

	m.Disconnect("conn-1")

	if _, ok := m.Binding("conn-1"); ok {
		t.Fatalf("binding must be cleared on disconnect")
	}
	if !m.EvictionPending(room.PIN) {
		t.Fatalf("disconnect of the last member must schedule eviction")
	}

	// Unknown connections are a no-op.
	m.Disconnect("conn-unknown")
}

func TestDeleteRoomOwnerOnly(t *testing.T) {
	m, rec, sink := newTestManager(t, 50*time.Millisecond)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)

	if err := m.DeleteRoom("999999", "dev-1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if err := m.DeleteRoom(room.PIN, "dev-2"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := m.DeleteRoom(room.PIN, "dev-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := m.GetRoom(room.PIN); ok {
		t.Fatalf("room should be gone")
	}

	rec.mu.Lock()
	if len(rec.deletedPins) != 1 || rec.deletedPins[0] != room.PIN {
		t.Fatalf("transport must be told the room is gone, got %v", rec.deletedPins)
	}
	rec.mu.Unlock()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.reasons) != 1 || sink.reasons[0] != "owner_deleted" {
		t.Fatalf("expected owner_deleted reason, got %v", sink.reasons)
	}
}

func TestDeleteRoomCancelsPendingEviction(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	m.Leave(room.PIN, "conn-1", "dev-1")

	if !m.EvictionPending(room.PIN) {
		t.Fatalf("eviction should be pending")
	}

	if err := m.DeleteRoom(room.PIN, "dev-1"); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if m.EvictionPending(room.PIN) {
		t.Fatalf("explicit delete must cancel the timer")
	}
}

func TestCheckActiveConnection(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)

	if !m.CheckActiveConnection(room.PIN, "dev-1") {
		t.Fatalf("owner device should be active in its room")
	}
	if m.CheckActiveConnection(room.PIN, "dev-2") {
		t.Fatalf("unknown device should not be active")
	}
	if m.CheckActiveConnection("999999", "dev-1") {
		t.Fatalf("missing room should report false")
	}
}

func TestSweepEmptyCancelsTimers(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	m.Leave(room.PIN, "conn-1", "dev-1")

	if swept := m.SweepEmpty(); swept != 1 {
		t.Fatalf("expected 1 swept room, got %d", swept)
	}
	if m.EvictionPending(room.PIN) {
		t.Fatalf("sweep must drop the pending timer")
	}
	if m.RoomCount() != 0 {
		t.Fatalf("expected no rooms, got %d", m.RoomCount())
	}
}

func TestListRoomsHidesEmptied(t *testing.T) {
	m, _, _ := newTestManager(t, time.Minute)

	room, _ := m.CreateRoom("conn-1", "dev-1", "alice", 4)
	if _, err := m.CreateRoom("conn-2", "dev-2", "bob", 4); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	m.Leave(room.PIN, "conn-1", "dev-1")

	rooms := m.ListRooms()
	if len(rooms) != 1 {
		t.Fatalf("expected one listed room, got %d", len(rooms))
	}
	if m.RoomCount() != 2 {
		t.Fatalf("emptied room still exists during the grace period")
	}
}

package session

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// Notifier receives membership-change fan-out requests from the manager. The
// transport layer implements it to broadcast rosters to bound connections.
type Notifier interface {
	RosterChanged(room domain.Room)
	RoomDeleted(pin string)
}

// EventSink receives room lifecycle events for out-of-process consumers
// (message bus, audit trail). Implementations must not block the caller.
type EventSink interface {
	RoomCreated(room domain.Room)
	RoomDeleted(room domain.Room, reason string)
	RoomEvicted(pin string, grace time.Duration)
	MemberJoined(room domain.Room)
	MemberLeft(room domain.Room, wasOwner bool)
	JoinRejected(pin, reason string)
}

type Config struct {
	// GracePeriod is how long an empty room lingers before eviction.
	GracePeriod time.Duration
}

// Manager coordinates the registry, the eviction scheduler and the session
// binder. It is the only entry point the transport layer talks to; every
// operation is synchronous and leaves the registry fully consistent.
type Manager struct {
	registry *Registry
	evictor  *EvictionScheduler
	binder   *Binder
	notifier Notifier
	sink     EventSink
	grace    time.Duration
	logger   *zap.SugaredLogger
}

func NewManager(cfg Config, notifier Notifier, sink EventSink, logger *zap.SugaredLogger) *Manager {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}

	m := &Manager{
		registry: NewRegistry(),
		binder:   NewBinder(),
		notifier: notifier,
		sink:     sink,
		grace:    cfg.GracePeriod,
		logger:   logger,
	}
	m.evictor = NewEvictionScheduler(cfg.GracePeriod, m.evictIfStillEmpty, logger)
	return m
}

// SetNotifier breaks the construction cycle between the manager and the
// transport hub; call it once during wiring, before any traffic.
func (m *Manager) SetNotifier(n Notifier) { m.notifier = n }

// CreateRoom allocates a room owned by the calling device and binds the
// connection to it. A device that already holds a membership anywhere is
// refused a second room; the registry enforces that under its write lock so
// concurrent creates from different entry points cannot both slip through.
func (m *Manager) CreateRoom(connectionID, deviceID, nickname string, limit int) (domain.Room, error) {
	room, err := m.registry.Create(nickname, limit, connectionID, deviceID)
	if err != nil {
		return domain.Room{}, err
	}

	// Rooms created over REST have no live connection yet; the owner's device
	// still holds the membership, only the binding waits for a socket.
	if connectionID != "" {
		m.binder.Bind(connectionID, Binding{
			PIN:      room.PIN,
			DeviceID: deviceID,
			Nickname: nickname,
			IsOwner:  true,
		})
	}

	m.logger.Infow("room created", "pin", room.PIN, "limit", room.Limit, "owner", deviceID)

	m.notifyRoster(room)
	if m.sink != nil {
		m.sink.RoomCreated(room)
	}
	return room, nil
}

// JoinRoom adds the device to an existing room and binds the connection.
// Failure order is fixed: unknown room, duplicate device, full room.
func (m *Manager) JoinRoom(connectionID, deviceID, nickname, pin string) (domain.Room, error) {
	member, err := domain.NewMember(nickname, connectionID, deviceID)
	if err != nil {
		m.reportJoinRejected(pin, err)
		return domain.Room{}, err
	}

	room, err := m.registry.Join(pin, member)
	if err != nil {
		m.reportJoinRejected(pin, err)
		return domain.Room{}, err
	}

	// A stale timer from an earlier emptiness must not take the room down
	// now that it has a member again.
	m.evictor.Cancel(pin)

	m.binder.Bind(connectionID, Binding{
		PIN:      pin,
		DeviceID: deviceID,
		Nickname: nickname,
	})

	m.logger.Infow("member joined", "pin", pin, "nickname", nickname, "device", deviceID)

	m.notifyRoster(room)
	if m.sink != nil {
		m.sink.MemberJoined(room)
	}
	return room, nil
}

// Leave removes the matching member(s) from a room. Idempotent: leaving a
// room the member already left, or a room that no longer exists, does
// nothing and schedules nothing.
func (m *Manager) Leave(pin, connectionID, deviceID string) {
	res := m.registry.Leave(pin, connectionID, deviceID)
	if !res.Exists || res.Removed == 0 {
		return
	}

	if res.BecameEmpty {
		m.evictor.Schedule(pin)
	} else {
		// Defensive: a pending timer for a room that still has members is a
		// leftover from an earlier emptiness and no longer applies.
		m.evictor.Cancel(pin)
		m.notifyRoster(res.Room)
	}

	m.logger.Infow("member left", "pin", pin, "device", deviceID, "remaining", len(res.Room.Members))

	if m.sink != nil {
		m.sink.MemberLeft(res.Room, res.WasOwner)
	}
}

// Disconnect resolves the connection's binding, if any, and runs the leave
// flow for it. Connections that never joined a room are a no-op.
func (m *Manager) Disconnect(connectionID string) {
	binding, ok := m.binder.Clear(connectionID)
	if !ok {
		return
	}

	m.logger.Infow("connection unbound", "pin", binding.PIN, "device", binding.DeviceID)
	m.Leave(binding.PIN, connectionID, binding.DeviceID)
}

// DeleteRoom removes a room on behalf of its owner, cancelling any pending
// eviction. Returns ErrRoomNotFound or ErrNotOwner so callers can tell the
// two refusals apart.
func (m *Manager) DeleteRoom(pin, requesterDeviceID string) error {
	room, err := m.registry.Delete(pin, requesterDeviceID)
	if err != nil {
		return err
	}

	m.evictor.Cancel(pin)
	m.logger.Infow("room deleted by owner", "pin", pin, "owner", requesterDeviceID)

	if m.notifier != nil {
		m.notifier.RoomDeleted(pin)
	}
	if m.sink != nil {
		m.sink.RoomDeleted(room, "owner_deleted")
	}
	return nil
}

// evictIfStillEmpty is the timer callback. The room may have been refilled or
// explicitly deleted since the timer was armed, so it re-validates against
// the registry instead of trusting captured state.
func (m *Manager) evictIfStillEmpty(pin string) {
	if !m.registry.DeleteIfEmpty(pin) {
		return
	}

	m.logger.Infow("empty room evicted", "pin", pin, "grace", m.grace)

	if m.notifier != nil {
		m.notifier.RoomDeleted(pin)
	}
	if m.sink != nil {
		m.sink.RoomEvicted(pin, m.grace)
	}
}

// GetRoom returns a snapshot of the room, if present.
func (m *Manager) GetRoom(pin string) (domain.Room, bool) {
	return m.registry.Get(pin)
}

// ListRooms snapshots all rooms that currently have members.
func (m *Manager) ListRooms() []RoomSummary {
	return m.registry.ListActive()
}

// CheckActiveConnection reports whether the device already holds a membership
// in that room.
func (m *Manager) CheckActiveConnection(pin, deviceID string) bool {
	return m.registry.IsDeviceInRoom(pin, deviceID)
}

// IsDeviceInAnyRoom reports whether the device is a member anywhere.
func (m *Manager) IsDeviceInAnyRoom(deviceID string) bool {
	return m.registry.IsDeviceInAnyRoom(deviceID)
}

// Binding resolves the current binding of a connection.
func (m *Manager) Binding(connectionID string) (Binding, bool) {
	return m.binder.Resolve(connectionID)
}

// EvictionPending reports whether a deferred deletion is armed for the pin.
func (m *Manager) EvictionPending(pin string) bool {
	return m.evictor.Pending(pin)
}

// SweepEmpty unconditionally deletes every empty room and drops their timers.
func (m *Manager) SweepEmpty() int {
	swept := m.registry.SweepEmpty()
	for _, pin := range swept {
		m.evictor.Cancel(pin)
	}
	if len(swept) > 0 {
		m.logger.Infow("swept empty rooms", "count", len(swept))
	}
	return len(swept)
}

// RoomCount reports how many rooms exist, empty ones included.
func (m *Manager) RoomCount() int {
	return m.registry.Len()
}

// Stop cancels all outstanding eviction timers.
func (m *Manager) Stop() {
	m.evictor.Stop()
}

func (m *Manager) notifyRoster(room domain.Room) {
	if m.notifier != nil {
		m.notifier.RosterChanged(room)
	}
}

// reportJoinRejected classifies a failed join for the sink so refusals show
// up on the bus and in the metrics alongside the successful lifecycle events.
func (m *Manager) reportJoinRejected(pin string, err error) {
	if m.sink == nil {
		return
	}

	reason := "invalid"
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrDuplicateConnection):
		reason = "duplicate"
	case errors.Is(err, domain.ErrRoomFull):
		reason = "full"
	}
	m.sink.JoinRejected(pin, reason)
}

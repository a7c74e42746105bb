// Package session owns the in-memory registry of PIN-addressed rooms and the
// rules that keep it consistent under concurrent connect, disconnect and
// reconnect traffic: device uniqueness, capacity limits and the deferred
// eviction of rooms that sit empty past a grace period.
package session

import (
	"sync"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

const defaultMaxPinAttempts = 128

// Registry is the single owner of the pin → room mapping. Every mutation goes
// through one of its locked methods and either fully applies or fully fails;
// callers only ever see snapshots, never live room pointers.
type Registry struct {
	mu             sync.RWMutex
	rooms          map[string]*domain.Room
	maxPinAttempts int
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:          make(map[string]*domain.Room),
		maxPinAttempts: defaultMaxPinAttempts,
	}
}

// RoomSummary is the listing shape for active rooms.
type RoomSummary struct {
	PIN      string `json:"pin"`
	Count    int    `json:"count"`
	Limit    int    `json:"limit"`
	HasSpace bool   `json:"hasSpace"`
}

// Create allocates a fresh PIN and inserts a room with the creator as its
// sole member. The device-elsewhere scan and the PIN draw both happen under
// the write lock, so two concurrent creates can neither collide on a PIN nor
// hand the same device two rooms.
func (r *Registry) Create(nickname string, limit int, connectionID, deviceID string) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, room := range r.rooms {
		if room.HasDevice(deviceID) {
			return domain.Room{}, domain.ErrDeviceElsewhere
		}
	}

	pin, err := r.nextFreePIN()
	if err != nil {
		return domain.Room{}, err
	}

	room, err := domain.NewRoom(pin, nickname, limit, connectionID, deviceID)
	if err != nil {
		return domain.Room{}, err
	}

	r.rooms[pin] = room
	return room.Snapshot(), nil
}

// nextFreePIN retries on collision. The PIN space (9·10^5) dwarfs any sane
// number of concurrent rooms, so bounded retries only ever give up when the
// space is effectively saturated.
func (r *Registry) nextFreePIN() (string, error) {
	for i := 0; i < r.maxPinAttempts; i++ {
		pin, err := domain.GeneratePIN()
		if err != nil {
			return "", err
		}
		if _, taken := r.rooms[pin]; !taken {
			return pin, nil
		}
	}
	return "", domain.ErrPinSpaceExhausted
}

// Get returns a snapshot of the room, if present.
func (r *Registry) Get(pin string) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[pin]
	if !ok {
		return domain.Room{}, false
	}
	return room.Snapshot(), true
}

// Delete removes a room on behalf of its owner. Unlike the usual boolean
// result this distinguishes a missing room from an unauthorized requester so
// callers can answer each case differently.
func (r *Registry) Delete(pin, requesterDeviceID string) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[pin]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if !room.IsOwner(requesterDeviceID) {
		return domain.Room{}, domain.ErrNotOwner
	}

	delete(r.rooms, pin)
	return room.Snapshot(), nil
}

// DeleteIfEmpty removes the room only when it still exists and still has no
// members. Eviction timers call this at fire time instead of trusting the
// state they captured when they were scheduled.
func (r *Registry) DeleteIfEmpty(pin string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[pin]
	if !ok || !room.Empty() {
		return false
	}

	delete(r.rooms, pin)
	return true
}

// ListActive snapshots every room that currently has members. Rooms awaiting
// eviction still exist but are never listed.
func (r *Registry) ListActive() []RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.Empty() {
			continue
		}
		out = append(out, RoomSummary{
			PIN:      room.PIN,
			Count:    len(room.Members),
			Limit:    room.Limit,
			HasSpace: room.HasSpace(),
		})
	}
	return out
}

// SweepEmpty unconditionally drops every empty room, bypassing any pending
// eviction timers. Administrative escape hatch; returns the swept pins so the
// caller can cancel their timers.
func (r *Registry) SweepEmpty() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept []string
	for pin, room := range r.rooms {
		if room.Empty() {
			delete(r.rooms, pin)
			swept = append(swept, pin)
		}
	}
	return swept
}

// Len reports the number of rooms, empty ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

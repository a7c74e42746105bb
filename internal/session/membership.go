package session

import (
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// LeaveResult reports what a Leave actually did so the caller can decide
// whether to schedule or cancel eviction and what roster to broadcast.
type LeaveResult struct {
	Exists      bool
	Removed     int
	BecameEmpty bool
	WasOwner    bool
	Room        domain.Room
}

// IsDeviceInAnyRoom scans all rooms for an active membership of the device.
// Used to block a device from holding two rooms at once.
func (r *Registry) IsDeviceInAnyRoom(deviceID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.HasDevice(deviceID) {
			return true
		}
	}
	return false
}

// IsDeviceInRoom reports whether the device holds a membership in that room.
func (r *Registry) IsDeviceInRoom(pin, deviceID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[pin]
	return ok && room.HasDevice(deviceID)
}

// Join adds a member to the room. Checks apply in a fixed order — existence,
// duplicate device, capacity — so a duplicate device is rejected even when
// the room is also full. Returns a snapshot of the room after the join.
func (r *Registry) Join(pin string, member domain.Member) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[pin]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}

	if err := room.AddMember(member); err != nil {
		return domain.Room{}, err
	}
	return room.Snapshot(), nil
}

// Leave removes every member matching the connection id or the device id.
// A no-op when the room is gone or the member already left; calling it twice
// is harmless.
func (r *Registry) Leave(pin, connectionID, deviceID string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[pin]
	if !ok {
		return LeaveResult{}
	}

	wasEmpty := room.Empty()
	removed := room.RemoveMatching(connectionID, deviceID)

	return LeaveResult{
		Exists:      true,
		Removed:     removed,
		BecameEmpty: !wasEmpty && room.Empty(),
		WasOwner:    removed > 0 && room.IsOwner(deviceID),
		Room:        room.Snapshot(),
	}
}

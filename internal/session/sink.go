package session

import (
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// MultiSink fans lifecycle events out to several sinks in order.
type MultiSink []EventSink

func NewMultiSink(sinks ...EventSink) MultiSink {
	return MultiSink(sinks)
}

func (s MultiSink) RoomCreated(room domain.Room) {
	for _, sink := range s {
		sink.RoomCreated(room)
	}
}

func (s MultiSink) RoomDeleted(room domain.Room, reason string) {
	for _, sink := range s {
		sink.RoomDeleted(room, reason)
	}
}

func (s MultiSink) RoomEvicted(pin string, grace time.Duration) {
	for _, sink := range s {
		sink.RoomEvicted(pin, grace)
	}
}

func (s MultiSink) MemberJoined(room domain.Room) {
	for _, sink := range s {
		sink.MemberJoined(room)
	}
}

func (s MultiSink) MemberLeft(room domain.Room, wasOwner bool) {
	for _, sink := range s {
		sink.MemberLeft(room, wasOwner)
	}
}

func (s MultiSink) JoinRejected(pin, reason string) {
	for _, sink := range s {
		sink.JoinRejected(pin, reason)
	}
}

package metrics

import (
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// Recorder translates room lifecycle events into metric updates. It
// implements session.EventSink so it can sit next to the message bus
// publisher in a multi-sink.
type Recorder struct {
	m *Metrics
}

func NewRecorder(m *Metrics) *Recorder {
	return &Recorder{m: m}
}

func (r *Recorder) RoomCreated(domain.Room) {
	r.m.RoomsCreated.Inc()
	r.m.ActiveRooms.Inc()
}

func (r *Recorder) RoomDeleted(_ domain.Room, reason string) {
	r.m.RoomsDeleted.WithLabelValues(reason).Inc()
	r.m.ActiveRooms.Dec()
}

func (r *Recorder) RoomEvicted(string, time.Duration) {
	r.m.RoomsDeleted.WithLabelValues("evicted").Inc()
	r.m.ActiveRooms.Dec()
}

func (r *Recorder) MemberJoined(domain.Room) {
	r.m.MembersJoined.Inc()
}

func (r *Recorder) MemberLeft(domain.Room, bool) {
	r.m.MembersLeft.Inc()
}

func (r *Recorder) JoinRejected(_ string, reason string) {
	r.m.JoinRejections.WithLabelValues(reason).Inc()
}

package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultGracePeriod is how long an empty room survives before eviction.
const DefaultGracePeriod = 300 * time.Second

// EvictionScheduler tracks at most one pending deferred deletion per room.
// A pin moves NONE → PENDING when its room empties, and leaves PENDING either
// by firing (the room is re-checked and deleted if still empty) or by being
// cancelled when the room gains a member again.
type EvictionScheduler struct {
	mu     sync.Mutex
	grace  time.Duration
	timers map[string]*time.Timer
	fire   func(pin string)
	logger *zap.SugaredLogger
}

// NewEvictionScheduler wires the scheduler to a fire callback that must
// re-validate room state on its own; the scheduler only guarantees the timer
// bookkeeping.
func NewEvictionScheduler(grace time.Duration, fire func(pin string), logger *zap.SugaredLogger) *EvictionScheduler {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &EvictionScheduler{
		grace:  grace,
		timers: make(map[string]*time.Timer),
		fire:   fire,
		logger: logger,
	}
}

// Schedule arms the eviction timer for a pin. Only ever called right after a
// room empties; a pin cannot re-enter PENDING without an intervening cancel,
// so an existing timer here is an invariant violation — it is replaced and
// logged rather than trusted.
func (s *EvictionScheduler) Schedule(pin string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[pin]; ok {
		old.Stop()
		s.logger.Warnw("eviction timer already pending, replacing", "pin", pin)
	}

	s.timers[pin] = time.AfterFunc(s.grace, func() {
		s.fired(pin)
	})

	s.logger.Infow("room scheduled for eviction", "pin", pin, "grace", s.grace)
}

func (s *EvictionScheduler) fired(pin string) {
	s.mu.Lock()
	delete(s.timers, pin)
	s.mu.Unlock()

	s.fire(pin)
}

// Cancel discards a pending eviction, if any, and reports whether one was
// pending. Cancelling a pin with no timer is a no-op.
func (s *EvictionScheduler) Cancel(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[pin]
	if !ok {
		return false
	}

	timer.Stop()
	delete(s.timers, pin)
	s.logger.Infow("eviction timer cancelled", "pin", pin)
	return true
}

// Pending reports whether a pin has an outstanding timer.
func (s *EvictionScheduler) Pending(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[pin]
	return ok
}

// Stop cancels every outstanding timer. Used on shutdown.
func (s *EvictionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pin, timer := range s.timers {
		timer.Stop()
		delete(s.timers, pin)
	}
}

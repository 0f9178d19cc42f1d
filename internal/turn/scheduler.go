package turn

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// defaultHistoryCap bounds the transition history ring when no explicit
// capacity is configured.
const defaultHistoryCap = 64

// ErrInvalidListenerEvent is returned by Subscribe for an event kind
// other than PhaseStart or PhaseEnd.
var ErrInvalidListenerEvent = errors.New("invalid phase listener event")

// ListenerEvent selects which edge of a phase a listener observes.
type ListenerEvent int

const (
	// PhaseStart fires after the scheduler has swapped to the phase.
	PhaseStart ListenerEvent = iota
	// PhaseEnd fires before the scheduler leaves the phase.
	PhaseEnd
)

// Transition is one recorded phase change.
type Transition struct {
	Turn int
	From Phase
	To   Phase
}

// Listener observes phase transitions. Listeners run synchronously on the
// advancing goroutine, in registration order.
type Listener func(tr Transition)

type listenerEntry struct {
	handle int
	phase  Phase
	event  ListenerEvent
	fn     Listener
}

// Scheduler owns the authoritative phase and turn counter. The turn
// number increments exactly once per full cycle, on the environment to
// player transition, so every actor sees the same turn value for a whole
// cycle.
type Scheduler struct {
	logger *zap.Logger

	startPhase Phase

	mu         sync.Mutex
	current    Phase
	turn       int
	inProgress bool

	listeners  []listenerEntry
	nextHandle int

	history    []Transition
	historyCap int
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption func(*Scheduler)

// WithStartingPhase sets the initial phase; the default is the player
// phase.
func WithStartingPhase(p Phase) SchedulerOption {
	return func(s *Scheduler) {
		s.startPhase = p
		s.current = p
	}
}

// WithHistoryCap bounds the transition history ring.
func WithHistoryCap(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.historyCap = n
		}
	}
}

// NewScheduler creates a scheduler starting at turn 1 in the player phase.
func NewScheduler(logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		logger:     logger,
		startPhase: PhasePlayer,
		current:    PhasePlayer,
		turn:       1,
		historyCap: defaultHistoryCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active phase.
func (s *Scheduler) Current() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsPhase reports whether the given phase is active.
func (s *Scheduler) IsPhase(p Phase) bool {
	return s.Current() == p
}

// TurnNumber returns the current turn counter.
func (s *Scheduler) TurnNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// InProgress reports whether a pass has the phase pinned.
func (s *Scheduler) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

// MarkInProgress pins the current phase. While pinned, every advance
// request is refused, which lets a long-running phase body (the actor
// dispatch loop) rely on the phase staying stable underneath it.
func (s *Scheduler) MarkInProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = true
}

// MarkComplete releases the pin.
func (s *Scheduler) MarkComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
}

// Subscribe registers a listener for one edge of one phase and returns
// its handle. An unknown event kind is the caller's bug and is reported
// synchronously.
func (s *Scheduler) Subscribe(p Phase, event ListenerEvent, fn Listener) (int, error) {
	if event != PhaseStart && event != PhaseEnd {
		return 0, ErrInvalidListenerEvent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := s.nextHandle
	s.nextHandle++
	s.listeners = append(s.listeners, listenerEntry{handle: handle, phase: p, event: event, fn: fn})
	return handle, nil
}

// Unsubscribe removes a listener by handle, reporting whether it existed.
func (s *Scheduler) Unsubscribe(handle int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.listeners {
		if entry.handle == handle {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// AdvanceToNextPhase moves to the successor phase in the cycle. It
// returns false without changing anything while the phase is pinned.
func (s *Scheduler) AdvanceToNextPhase() bool {
	s.mu.Lock()
	target := s.current.Next()
	return s.advanceLocked(target)
}

// AdvanceTo moves directly to the target phase. It returns false without
// changing anything while the phase is pinned or when the target is
// already current.
func (s *Scheduler) AdvanceTo(target Phase) bool {
	s.mu.Lock()
	if target == s.current {
		s.mu.Unlock()
		return false
	}
	return s.advanceLocked(target)
}

// advanceLocked performs the transition. It is entered holding the mutex
// and releases it before any listener fan-out so listeners may read the
// scheduler.
func (s *Scheduler) advanceLocked(target Phase) bool {
	if s.inProgress {
		from := s.current
		s.mu.Unlock()
		s.logger.Debug("phase advance refused, pass in progress",
			zap.Stringer("current", from),
			zap.Stringer("target", target),
		)
		return false
	}
	from := s.current
	endTr := Transition{Turn: s.turn, From: from, To: target}
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, entry := range listeners {
		if entry.phase == from && entry.event == PhaseEnd {
			s.notify(entry, endTr)
		}
	}

	s.mu.Lock()
	s.current = target
	if from == PhaseEnvironment && target == PhasePlayer {
		s.turn++
	}
	tr := Transition{Turn: s.turn, From: from, To: target}
	s.history = append(s.history, tr)
	if len(s.history) > s.historyCap {
		s.history = s.history[len(s.history)-s.historyCap:]
	}
	listeners = make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Debug("phase transition",
		zap.Int("turn", tr.Turn),
		zap.Stringer("from", tr.From),
		zap.Stringer("to", tr.To),
	)
	for _, entry := range listeners {
		if entry.phase == target && entry.event == PhaseStart {
			s.notify(entry, tr)
		}
	}
	return true
}

// notify invokes a single listener, recovering panics so one broken
// listener cannot stall the turn cycle or the remaining fan-out.
func (s *Scheduler) notify(entry listenerEntry, tr Transition) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("phase listener panicked",
				zap.Int("handle", entry.handle),
				zap.Stringer("from", tr.From),
				zap.Stringer("to", tr.To),
				zap.Any("panic", r),
			)
		}
	}()
	entry.fn(tr)
}

// History returns the last n recorded transitions, oldest first. A
// non-positive n returns everything retained.
func (s *Scheduler) History(n int) []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Transition, n)
	copy(out, s.history[len(s.history)-n:])
	return out
}

// Reset returns the scheduler to turn 1 in its configured starting phase,
// clearing the history but keeping registered listeners.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.startPhase
	s.turn = 1
	s.inProgress = false
	s.history = nil
}

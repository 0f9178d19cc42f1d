package turn

import (
	"time"

	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/mode"
)

// defaultMismatchLogInterval throttles the bridge's mismatch diagnostics.
const defaultMismatchLogInterval = 5 * time.Second

// Bridge reconciles the legacy mode value against the scheduler's phase.
// It is the only component allowed to write both. Either side may be
// absent: with no scheduler the mode store answers phase questions alone,
// and with no store the scheduler does.
type Bridge struct {
	logger   *zap.Logger
	sched    *Scheduler
	store    *mode.Store
	throttle *LogThrottle
}

// BridgeOption configures a Bridge at construction.
type BridgeOption func(*Bridge)

// WithScheduler attaches the phase scheduler.
func WithScheduler(s *Scheduler) BridgeOption {
	return func(b *Bridge) { b.sched = s }
}

// WithModeStore attaches the legacy mode store.
func WithModeStore(st *mode.Store) BridgeOption {
	return func(b *Bridge) { b.store = st }
}

// WithMismatchLogInterval overrides the mismatch diagnostic throttle.
func WithMismatchLogInterval(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		if d > 0 {
			b.throttle = NewLogThrottle(d)
		}
	}
}

// NewBridge creates a bridge over whichever of the scheduler and mode
// store are attached.
func NewBridge(logger *zap.Logger, opts ...BridgeOption) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		logger:   logger,
		throttle: NewLogThrottle(defaultMismatchLogInterval),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsPlayerMode reports whether the game is in the player's segment of the
// cycle, preferring the scheduler when attached.
func (b *Bridge) IsPlayerMode() bool {
	if b.sched != nil {
		return b.sched.IsPhase(PhasePlayer)
	}
	if b.store != nil {
		return b.store.Current() == mode.PlayerTurn
	}
	return false
}

// IsEnemyMode reports whether the game is in the enemy segment.
func (b *Bridge) IsEnemyMode() bool {
	if b.sched != nil {
		return b.sched.IsPhase(PhaseEnemy)
	}
	if b.store != nil {
		return b.store.Current() == mode.EnemyTurn
	}
	return false
}

// IsEnvironmentMode reports whether the game is in the environment
// segment.
func (b *Bridge) IsEnvironmentMode() bool {
	if b.sched != nil {
		return b.sched.IsPhase(PhaseEnvironment)
	}
	if b.store != nil {
		return b.store.Current() == mode.Environment
	}
	return false
}

// IsEnemyPhaseConsistent reports whether the scheduler and the mode store
// agree about being in the enemy segment. With either side missing there
// is nothing to disagree, so the answer is true.
func (b *Bridge) IsEnemyPhaseConsistent() bool {
	if b.sched == nil || b.store == nil {
		return true
	}
	return b.sched.IsPhase(PhaseEnemy) == (b.store.Current() == mode.EnemyTurn)
}

// IsPlayerPhaseConsistent is the player-segment counterpart of
// IsEnemyPhaseConsistent.
func (b *Bridge) IsPlayerPhaseConsistent() bool {
	if b.sched == nil || b.store == nil {
		return true
	}
	return b.sched.IsPhase(PhasePlayer) == (b.store.Current() == mode.PlayerTurn)
}

// SetEnemyMode writes the enemy mode and, if a scheduler is attached,
// moves it to the enemy phase. Calling it while already in the enemy
// phase only rewrites the mode.
func (b *Bridge) SetEnemyMode() {
	if b.store != nil {
		b.store.Set(mode.EnemyTurn)
	}
	if b.sched != nil && !b.sched.IsPhase(PhaseEnemy) {
		b.sched.AdvanceTo(PhaseEnemy)
	}
}

// SetPlayerMode writes the given player-side mode (normally
// mode.PlayerTurn) and, if a scheduler is attached, moves it to the
// player phase. Idempotent like SetEnemyMode.
func (b *Bridge) SetPlayerMode(target mode.Mode) {
	if b.store != nil {
		b.store.Set(target)
	}
	if b.sched != nil && !b.sched.IsPhase(PhasePlayer) {
		b.sched.AdvanceTo(PhasePlayer)
	}
}

// AdvanceToEnemyPhase performs one sequential scheduler advance toward
// the enemy phase. No-op without a scheduler.
func (b *Bridge) AdvanceToEnemyPhase() {
	b.advanceSequential(PhaseEnemy)
}

// AdvanceToEnvironmentPhase performs one sequential scheduler advance
// toward the environment phase. No-op without a scheduler.
func (b *Bridge) AdvanceToEnvironmentPhase() {
	b.advanceSequential(PhaseEnvironment)
}

// AdvanceToPlayerPhase performs one sequential scheduler advance toward
// the player phase. No-op without a scheduler.
func (b *Bridge) AdvanceToPlayerPhase() {
	b.advanceSequential(PhasePlayer)
}

func (b *Bridge) advanceSequential(target Phase) {
	if b.sched == nil {
		return
	}
	if b.sched.Current().Next() == target {
		b.sched.AdvanceToNextPhase()
	}
}

// expectedPhase maps a mode to the phase the scheduler should report.
// Menus, dialogue, and terminal screens all live inside the player's
// segment of the cycle.
func expectedPhase(m mode.Mode) Phase {
	switch m {
	case mode.EnemyTurn:
		return PhaseEnemy
	case mode.Environment:
		return PhaseEnvironment
	default:
		return PhasePlayer
	}
}

// Synchronize reconciles the scheduler to the mode store. The mode value
// is authoritative: on mismatch the scheduler is moved to the phase the
// mode implies, with a rate-limited diagnostic. Called once per frame by
// the core facade.
func (b *Bridge) Synchronize() {
	if b.sched == nil || b.store == nil {
		return
	}
	cur := b.store.Current()
	want := expectedPhase(cur)
	got := b.sched.Current()
	if got == want {
		return
	}
	if b.throttle.Allow() {
		b.logger.Warn("phase out of sync with mode, reconciling",
			zap.Stringer("mode", cur),
			zap.Stringer("phase", got),
			zap.Stringer("expected", want),
		)
	}
	b.sched.AdvanceTo(want)
}

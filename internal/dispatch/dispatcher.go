// Package dispatch drives the enemy phase: exactly-once-per-actor turn
// invocation, effect processing, and the handoff back to the player
// phase.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/ai"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/msglog"
	"github.com/hollowdeep/hollowdeep/internal/turn"
)

// defaultMismatchLogInterval throttles the phase-mismatch diagnostic.
const defaultMismatchLogInterval = 5 * time.Second

// BlockReason says why a pass did no processing.
type BlockReason int

const (
	BlockNone BlockReason = iota
	// BlockReentrant means a pass was already running on this dispatcher.
	BlockReentrant
	// BlockForbiddenMode means the current mode forbids actor processing.
	BlockForbiddenMode
	// BlockPhaseMismatch means the bridge did not report the enemy phase.
	BlockPhaseMismatch
)

var blockReasonNames = map[BlockReason]string{
	BlockNone:          "none",
	BlockReentrant:     "reentrant",
	BlockForbiddenMode: "forbidden_mode",
	BlockPhaseMismatch: "phase_mismatch",
}

func (r BlockReason) String() string {
	if name, ok := blockReasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// PassResult reports what one dispatch call did.
type PassResult struct {
	Blocked    BlockReason
	Processed  int
	PlayerDied bool
	// FinalizerErr carries a player-death finalizer failure. It is the
	// one collaborator whose errors are surfaced instead of absorbed.
	FinalizerErr error
}

// Dispatcher runs one bounded enemy-phase pass per call. It is the only
// writer of the per-pass processed set and never removes actors from the
// registry.
type Dispatcher struct {
	logger *zap.Logger
	tracer trace.Tracer

	sched    *turn.Scheduler
	bridge   *turn.Bridge
	ctrl     *turn.Controller
	store    *mode.Store
	policy   mode.Policy
	registry *actor.Registry

	strategies  *ai.Table
	msgs        *msglog.Log
	passives    PassiveEffects
	environment EnvironmentHooks
	finalizer   DeathFinalizer
	transform   DeathTransform
	events      *Events

	// passMu is held for the duration of one pass. TryLock failing on
	// entry is the re-entrancy guard.
	passMu sync.Mutex

	processed        map[int]struct{}
	transformed      map[string]struct{}
	playerFinalized  bool
	mismatchThrottle *turn.LogThrottle

	visibility any
	level      any
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithStrategies attaches the archetype strategy table.
func WithStrategies(t *ai.Table) Option {
	return func(d *Dispatcher) { d.strategies = t }
}

// WithPassives attaches the time-based passive effects collaborator.
func WithPassives(p PassiveEffects) Option {
	return func(d *Dispatcher) { d.passives = p }
}

// WithEnvironment attaches the environment-object hooks.
func WithEnvironment(e EnvironmentHooks) Option {
	return func(d *Dispatcher) { d.environment = e }
}

// WithDeathFinalizer attaches the player-death finalizer.
func WithDeathFinalizer(f DeathFinalizer) Option {
	return func(d *Dispatcher) { d.finalizer = f }
}

// WithDeathTransform attaches the corpse-and-loot transform.
func WithDeathTransform(t DeathTransform) Option {
	return func(d *Dispatcher) { d.transform = t }
}

// WithEvents attaches the actor-level event bus.
func WithEvents(ev *Events) Option {
	return func(d *Dispatcher) { d.events = ev }
}

// WithTracer attaches a tracer; passes become spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithWorld attaches the opaque visibility and level handles forwarded
// to turn logic.
func WithWorld(visibility, level any) Option {
	return func(d *Dispatcher) {
		d.visibility = visibility
		d.level = level
	}
}

// WithMismatchLogInterval overrides the mismatch diagnostic throttle.
func WithMismatchLogInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.mismatchThrottle = turn.NewLogThrottle(interval)
		}
	}
}

// New wires a dispatcher over the turn machinery and the actor registry.
// Missing collaborators default to no-ops.
func New(
	logger *zap.Logger,
	sched *turn.Scheduler,
	bridge *turn.Bridge,
	ctrl *turn.Controller,
	store *mode.Store,
	policy mode.Policy,
	registry *actor.Registry,
	msgs *msglog.Log,
	opts ...Option,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		logger:           logger,
		tracer:           noop.NewTracerProvider().Tracer("dispatch"),
		sched:            sched,
		bridge:           bridge,
		ctrl:             ctrl,
		store:            store,
		policy:           policy,
		registry:         registry,
		msgs:             msgs,
		passives:         NopPassives{},
		environment:      NopEnvironment{},
		finalizer:        NopFinalizer{},
		transform:        NopTransform{},
		processed:        make(map[int]struct{}),
		transformed:      make(map[string]struct{}),
		mismatchThrottle: turn.NewLogThrottle(defaultMismatchLogInterval),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.events == nil {
		d.events = NewEvents(logger)
	}
	return d
}

// Events exposes the actor-level event bus for subscribers.
func (d *Dispatcher) Events() *Events { return d.events }

// RunPass executes one enemy-phase pass. Guards make it safe to call
// every frame: a blocked call changes nothing and reports why.
func (d *Dispatcher) RunPass(ctx context.Context) PassResult {
	if !d.passMu.TryLock() {
		d.logger.Error("re-entrant dispatch call refused")
		return PassResult{Blocked: BlockReentrant}
	}
	defer d.passMu.Unlock()

	cur := d.store.Current()
	if !d.policy.AllowsAIProcessing(cur) {
		d.processed = make(map[int]struct{})
		d.logger.Debug("dispatch blocked by mode", zap.Stringer("mode", cur))
		return PassResult{Blocked: BlockForbiddenMode}
	}

	if !d.bridge.IsEnemyMode() {
		d.processed = make(map[int]struct{})
		if d.mismatchThrottle.Allow() {
			d.logger.Warn("dispatch called outside enemy phase",
				zap.Stringer("mode", cur),
			)
		}
		return PassResult{Blocked: BlockPhaseMismatch}
	}

	turnNum := d.sched.TurnNumber()
	ctx, span := d.tracer.Start(ctx, "dispatch.pass",
		trace.WithAttributes(attribute.Int("turn", turnNum)),
	)
	defer span.End()

	d.processed = make(map[int]struct{})
	tc := d.turnContext(turnNum)

	d.sched.MarkInProgress()
	result := d.runWorklist(tc)
	d.sched.MarkComplete()

	span.SetAttributes(attribute.Int("processed", result.Processed))

	if result.PlayerDied {
		// Whatever terminal mode the finalizer set stays in force.
		return result
	}

	if nav, ok := playerNavigator(tc.Player); ok && nav.AutoNavigateActive() {
		// A pending continuation consumes the handoff; its next action
		// re-enters the cycle through the controller.
		nav.ResumeAutoNavigate()
		return result
	}

	d.bridge.AdvanceToEnvironmentPhase()
	d.bridge.AdvanceToPlayerPhase()

	startEffects := d.passives.TickPlayerTurnStart(tc.Player, d.sched.TurnNumber())
	d.applyEffects(tc.Player, startEffects, &result)
	if result.PlayerDied || (tc.Player.Actor != nil && !tc.Player.Alive()) {
		d.finalizePlayer(tc.Player, &result)
		return result
	}

	d.ctrl.ResolvePostEnemyMode()
	return result
}

// turnContext builds the per-pass context handed to turn logic.
func (d *Dispatcher) turnContext(turnNum int) actor.TurnContext {
	player, _ := d.registry.Player()
	return actor.TurnContext{
		Player:     player,
		Visibility: d.visibility,
		Level:      d.level,
		Turn:       turnNum,
		Actors:     d.registry.Snapshot(),
	}
}

// runWorklist processes every eligible actor exactly once, in ascending
// stable-ID order.
func (d *Dispatcher) runWorklist(tc actor.TurnContext) PassResult {
	var result PassResult

	worklist := make([]actor.Entry, 0, len(tc.Actors))
	for _, e := range tc.Actors {
		if e.HasTurnLogic() && !e.Player() && e.Alive() {
			worklist = append(worklist, e)
		}
	}

	for _, e := range worklist {
		if _, done := d.processed[e.ID]; done {
			d.logger.Warn("duplicate worklist entry skipped",
				zap.Int("id", e.ID),
				zap.String("name", e.Name()),
			)
			continue
		}
		d.processed[e.ID] = struct{}{}

		// Earlier actors in this pass may have killed it.
		if !e.Alive() {
			continue
		}

		d.events.Publish(Event{Type: ActorTurnStart, Turn: tc.Turn, ActorID: e.ID, ActorUID: e.UID, Name: e.Name()})

		effects := d.invokeTurnLogic(e, tc)
		effects = append(effects, d.passives.TickActor(e, tc.Turn)...)
		effects = append(effects, d.environment.AfterActorAction(e, tc.Turn)...)

		d.applyEffects(e, effects, &result)
		result.Processed++

		if !e.Alive() {
			// Died from its own action (a split gone wrong, a trap).
			d.transformDead(e)
		}

		d.events.Publish(Event{Type: ActorTurnEnd, Turn: tc.Turn, ActorID: e.ID, ActorUID: e.UID, Name: e.Name()})

		if result.PlayerDied {
			break
		}
		if tc.Player.Actor != nil && !tc.Player.Alive() {
			d.finalizePlayer(tc.Player, &result)
			break
		}
	}
	return result
}

// invokeTurnLogic runs the actor's strategy, or its own turn method when
// no strategy covers its archetype. A panic or error means the actor
// does nothing this phase.
func (d *Dispatcher) invokeTurnLogic(e actor.Entry, tc actor.TurnContext) (effects []actor.Effect) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("actor turn logic panicked",
				zap.Int("id", e.ID),
				zap.String("name", e.Name()),
				zap.Any("panic", r),
			)
			effects = nil
		}
	}()

	if d.strategies != nil && e.Archetype() != "" {
		if strat, ok := d.strategies.Lookup(e.Archetype()); ok {
			effects, err := strat.Act(e, tc)
			if err != nil {
				d.logger.Warn("strategy failed, actor passes",
					zap.String("archetype", e.Archetype()),
					zap.String("name", e.Name()),
					zap.Error(err),
				)
				return nil
			}
			return effects
		}
	}

	effects, err := e.TakeTurn(tc)
	if err != nil {
		d.logger.Warn("actor turn failed, actor passes",
			zap.Int("id", e.ID),
			zap.String("name", e.Name()),
			zap.Error(err),
		)
		return nil
	}
	return effects
}

// applyEffects processes one actor's ordered effect list. Mutations land
// immediately, in list order.
func (d *Dispatcher) applyEffects(source actor.Entry, effects []actor.Effect, result *PassResult) {
	turnNum := d.sched.TurnNumber()
	for _, eff := range effects {
		switch eff.Kind {
		case actor.EffectMessage:
			d.msgs.Append(turnNum, eff.Text)

		case actor.EffectSplit:
			if eff.Text != "" {
				d.msgs.Append(turnNum, eff.Text)
			}
			d.registry.SpawnAll(eff.Spawned)

		case actor.EffectEndRally, actor.EffectInterruptChant:
			d.stripGrantedStatus(eff)
			for _, msg := range eff.Messages {
				if msg != "" {
					d.msgs.Append(turnNum, msg)
				}
			}

		case actor.EffectDead:
			dead, ok := d.registry.ByUID(eff.DeadUID)
			if !ok {
				d.logger.Warn("death reported for unknown actor", zap.String("uid", eff.DeadUID))
				continue
			}
			if dead.Player() {
				d.finalizePlayer(dead, result)
				return
			}
			d.transformDead(dead)
		}

		if result.PlayerDied {
			return
		}
	}
}

// stripGrantedStatus removes a source-granted status from every bearer
// and clears the source's back-reference.
func (d *Dispatcher) stripGrantedStatus(eff actor.Effect) {
	for _, e := range d.registry.Snapshot() {
		if sb, ok := e.Actor.(actor.StatusBearer); ok {
			sb.RemoveStatusFrom(eff.SourceUID, eff.Status)
		}
	}
	if src, ok := d.registry.ByUID(eff.SourceUID); ok {
		if ss, ok := src.Actor.(actor.StatusSource); ok {
			ss.ClearGrantedStatus(eff.Status)
		}
	}
}

// finalizePlayer invokes the shared death finalizer at most once per
// death. Its failure is surfaced on the pass result, not swallowed.
func (d *Dispatcher) finalizePlayer(player actor.Entry, result *PassResult) {
	result.PlayerDied = true
	if d.playerFinalized {
		return
	}
	d.playerFinalized = true
	d.events.Publish(Event{Type: ActorDeath, Turn: d.sched.TurnNumber(), ActorID: player.ID, ActorUID: player.UID, Name: player.Name()})
	if err := d.finalizer.FinalizePlayerDeath(player); err != nil {
		d.logger.Error("player death finalizer failed", zap.Error(err))
		result.FinalizerErr = err
	}
}

// transformDead runs the corpse-and-loot transform once per dead actor
// and merges the loot.
func (d *Dispatcher) transformDead(dead actor.Entry) {
	if _, done := d.transformed[dead.UID]; done {
		return
	}
	d.transformed[dead.UID] = struct{}{}
	d.events.Publish(Event{Type: ActorDeath, Turn: d.sched.TurnNumber(), ActorID: dead.ID, ActorUID: dead.UID, Name: dead.Name()})
	loot := d.transform.TransformDead(dead)
	d.registry.SpawnAll(loot)
}

// playerNavigator extracts the auto-navigate capability when present.
func playerNavigator(player actor.Entry) (actor.AutoNavigator, bool) {
	if player.Actor == nil {
		return nil, false
	}
	nav, ok := player.Actor.(actor.AutoNavigator)
	return nav, ok
}

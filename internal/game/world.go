// Package game assembles a playable session: the turn machinery, the
// actor roster, strategies, and the per-frame facade.
package game

import (
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/ai"
	"github.com/hollowdeep/hollowdeep/internal/config"
	"github.com/hollowdeep/hollowdeep/internal/core"
	"github.com/hollowdeep/hollowdeep/internal/dispatch"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/msglog"
	"github.com/hollowdeep/hollowdeep/internal/scripting"
	"github.com/hollowdeep/hollowdeep/internal/turn"
)

// World owns one session's wired components.
type World struct {
	Logger     *zap.Logger
	Store      *mode.Store
	Policy     mode.Policy
	Sched      *turn.Scheduler
	Bridge     *turn.Bridge
	Ctrl       *turn.Controller
	Registry   *actor.Registry
	Msgs       *msglog.Log
	Strategies *ai.Table
	Dispatcher *dispatch.Dispatcher
	Core       *core.GameCore
	Scripts    *scripting.Engine

	rng *rand.Rand
}

// NewWorld wires a session from configuration. The seed drives the
// demo roster's combat rolls; zero means unseeded play.
func NewWorld(cfg *config.Config, logger *zap.Logger, tracer trace.Tracer) (*World, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Autoplay.Seed
	if seed == 0 {
		seed = 1
	}

	w := &World{
		Logger:   logger,
		Store:    mode.NewStore(mode.PlayerTurn, logger),
		Policy:   mode.DefaultPolicy(),
		Registry: actor.NewRegistry(logger),
		Msgs:     msglog.New(0),
		rng:      rand.New(rand.NewSource(seed)),
	}

	w.Sched = turn.NewScheduler(logger, turn.WithHistoryCap(cfg.Turn.HistoryCap))
	w.Bridge = turn.NewBridge(logger,
		turn.WithScheduler(w.Sched),
		turn.WithModeStore(w.Store),
		turn.WithMismatchLogInterval(cfg.Turn.MismatchLogInterval),
	)
	w.Ctrl = turn.NewController(logger, w.Bridge, w.Store, w.Policy)

	w.Strategies = ai.NewTable(logger)
	w.Strategies.Register("villager", ai.Idle("villager"))
	w.Strategies.Register("lurker", ai.Lurker("lurker"))
	w.Strategies.Register("ooze", ai.Splitter("ooze"))

	engine, err := scripting.NewEngine(cfg.Scripts.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("scripting engine: %w", err)
	}
	w.Scripts = engine
	for _, tag := range []string{"cultist", "chanter"} {
		if engine.HasStrategy(tag) {
			w.Strategies.Register(tag, ai.NewLuaStrategy(tag, engine))
		}
	}

	w.Dispatcher = dispatch.New(
		logger, w.Sched, w.Bridge, w.Ctrl, w.Store, w.Policy, w.Registry, w.Msgs,
		dispatch.WithStrategies(w.Strategies),
		dispatch.WithPassives(dispatch.RegenPassives{PerTick: 1}),
		dispatch.WithDeathFinalizer(&finalizer{world: w}),
		dispatch.WithDeathTransform(&corpseTransform{}),
		dispatch.WithTracer(tracer),
		dispatch.WithMismatchLogInterval(cfg.Turn.MismatchLogInterval),
	)

	w.Core = core.New(logger, w.Bridge, w.Ctrl, w.Store, w.Registry, w.Dispatcher, newActions(w))

	w.populate()
	return w, nil
}

// populate spawns the demo roster.
func (w *World) populate() {
	w.Registry.Spawn(actor.NewCreature("Wanderer", 20, actor.AsPlayer()))

	w.Registry.Spawn(actor.NewCreature("cave rat", 4,
		actor.WithArchetype("rat"),
		actor.WithTurnFunc(w.biteTurn(1)),
	))
	w.Registry.Spawn(actor.NewCreature("gray ooze", 8, actor.WithArchetype("ooze")))
	w.Registry.Spawn(actor.NewCreature("lurker", 6, actor.WithArchetype("lurker")))
	w.Registry.Spawn(actor.NewCreature("hollow cultist", 10, actor.WithArchetype("cultist")))

	w.Msgs.Append(w.Sched.TurnNumber(), "You descend into the hollow deep.")
}

// biteTurn is the stock melee turn for small vermin.
func (w *World) biteTurn(damage int) actor.TurnFunc {
	return func(c *actor.Creature, tc actor.TurnContext) ([]actor.Effect, error) {
		player := tc.Player
		if player.Actor == nil || !player.Alive() {
			return nil, nil
		}
		target, ok := player.Actor.(*actor.Creature)
		if !ok {
			return nil, nil
		}
		// Misses half the time, enough bite to matter over a long rest.
		if w.rng.Intn(2) == 0 {
			return []actor.Effect{
				actor.NewMessage(fmt.Sprintf("The %s snaps at you and misses.", c.Name())),
			}, nil
		}
		target.Damage(damage)
		effects := []actor.Effect{
			actor.NewMessage(fmt.Sprintf("The %s bites you for %d.", c.Name(), damage)),
		}
		if !target.Alive() {
			effects = append(effects, actor.NewDead(player.UID))
		}
		return effects, nil
	}
}

// Rand exposes the session's seeded source.
func (w *World) Rand() *rand.Rand { return w.rng }

// Close releases the scripting VM.
func (w *World) Close() {
	if w.Scripts != nil {
		w.Scripts.Close()
	}
}

// finalizer is the shared player-death collaborator. Idempotent: forcing
// the death screen twice is harmless.
type finalizer struct {
	world *World
}

func (f *finalizer) FinalizePlayerDeath(player actor.Entry) error {
	f.world.Msgs.Append(f.world.Sched.TurnNumber(), "You die. The deep keeps what it takes.")
	f.world.Ctrl.ForceTransition(mode.DeathScreen)
	return nil
}

// corpseTransform is the shared non-player death collaborator. The
// corpse is an inert actor merged back into the registry.
type corpseTransform struct{}

func (corpseTransform) TransformDead(e actor.Entry) []actor.Actor {
	remains := actor.NewCreature(fmt.Sprintf("remains of the %s", e.Name()), 1)
	remains.Kill()
	return []actor.Actor{remains}
}

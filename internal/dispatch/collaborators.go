package dispatch

import "github.com/hollowdeep/hollowdeep/internal/actor"

// PassiveEffects applies time-based effects (regeneration, poison,
// hunger) outside any actor's own turn logic.
type PassiveEffects interface {
	// TickActor runs after one actor's turn during the enemy pass.
	TickActor(e actor.Entry, turn int) []actor.Effect
	// TickPlayerTurnStart runs once when the cycle hands back to the
	// player, before the final mode is resolved.
	TickPlayerTurnStart(player actor.Entry, turn int) []actor.Effect
}

// EnvironmentHooks lets level objects (traps, teleporters, collapsing
// floors) react to an actor having acted.
type EnvironmentHooks interface {
	AfterActorAction(e actor.Entry, turn int) []actor.Effect
}

// DeathFinalizer handles the player's death. It must be idempotent: the
// dispatcher guarantees at most one invocation per pass, but a death can
// be detected on a later pass too. Its errors are reported, never
// swallowed.
type DeathFinalizer interface {
	FinalizePlayerDeath(player actor.Entry) error
}

// DeathTransform handles a non-player death, producing corpse drops to
// merge into the registry. It must be idempotent per death.
type DeathTransform interface {
	TransformDead(e actor.Entry) []actor.Actor
}

// NopPassives is the default PassiveEffects.
type NopPassives struct{}

func (NopPassives) TickActor(actor.Entry, int) []actor.Effect           { return nil }
func (NopPassives) TickPlayerTurnStart(actor.Entry, int) []actor.Effect { return nil }

// NopEnvironment is the default EnvironmentHooks.
type NopEnvironment struct{}

func (NopEnvironment) AfterActorAction(actor.Entry, int) []actor.Effect { return nil }

// NopFinalizer is the default DeathFinalizer.
type NopFinalizer struct{}

func (NopFinalizer) FinalizePlayerDeath(actor.Entry) error { return nil }

// NopTransform is the default DeathTransform.
type NopTransform struct{}

func (NopTransform) TransformDead(actor.Entry) []actor.Actor { return nil }

// RegenPassives heals the player a fixed amount at the start of each
// turn. Non-player actors recover through their own turn logic.
type RegenPassives struct {
	PerTick int
}

func (RegenPassives) TickActor(actor.Entry, int) []actor.Effect { return nil }

func (r RegenPassives) TickPlayerTurnStart(player actor.Entry, turn int) []actor.Effect {
	if player.Actor == nil || !player.Alive() {
		return nil
	}
	if h, ok := player.Actor.(actor.Healer); ok && r.PerTick > 0 {
		h.Heal(r.PerTick)
	}
	return nil
}

package game

import (
	"fmt"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/mode"
)

// travelSteps is how many automated steps one travel order queues.
const travelSteps = 5

// Actions turns frame input into world mutations. It reports whether the
// action consumed the player's turn, which is what hands the cycle to
// the enemy phase.
type Actions struct {
	world *World
}

func newActions(w *World) *Actions {
	return &Actions{world: w}
}

// ProcessAction implements core.ActionProcessor.
func (a *Actions) ProcessAction(action, pointerAction string) bool {
	if action == "" {
		action = pointerAction
	}
	w := a.world
	player, ok := w.Registry.Player()
	if !ok || !player.Alive() {
		return false
	}

	switch w.Store.Current() {
	case mode.PlayerTurn, mode.Resting, mode.AutoTravel:
		// Turn-consuming actions only apply in these modes.
	case mode.Inventory, mode.DeathScreen:
		if action == "close" {
			w.Ctrl.ForceTransition(mode.PlayerTurn)
		}
		return false
	default:
		return false
	}

	switch action {
	case "attack":
		return a.attack(player)
	case "wait":
		return true
	case "rest":
		w.Ctrl.ForceTransition(mode.Resting)
		w.Msgs.Append(w.Sched.TurnNumber(), "You settle down to rest.")
		return true
	case "travel":
		if nav, ok := player.Actor.(*actor.Creature); ok {
			nav.SetAutoNavigate(travelSteps)
		}
		w.Ctrl.ForceTransition(mode.AutoTravel)
		w.Msgs.Append(w.Sched.TurnNumber(), "You set off down the passage.")
		return true
	case "inventory":
		w.Ctrl.ForceTransition(mode.Inventory)
		return false
	case "close":
		w.Ctrl.ForceTransition(mode.PlayerTurn)
		return false
	case "step":
		// One step of an auto-travel continuation.
		return true
	}
	return false
}

// attack strikes the first living enemy.
func (a *Actions) attack(player actor.Entry) bool {
	w := a.world
	for _, e := range w.Registry.Snapshot() {
		if e.Player() || !e.Alive() || !e.HasTurnLogic() {
			continue
		}
		target, ok := e.Actor.(*actor.Creature)
		if !ok {
			continue
		}
		damage := 2 + w.rng.Intn(3)
		target.Damage(damage)
		w.Msgs.Append(w.Sched.TurnNumber(), fmt.Sprintf("You strike the %s for %d.", e.Name(), damage))
		if !target.Alive() {
			w.Msgs.Append(w.Sched.TurnNumber(), fmt.Sprintf("The %s collapses.", e.Name()))
		}
		return true
	}
	w.Msgs.Append(w.Sched.TurnNumber(), "You swing at the empty dark.")
	return true
}

// Package turn implements the phase scheduler, the bridge that keeps the
// phase machine and the legacy mode enum consistent, and the controller
// that owns mode transitions around player actions.
package turn

import "fmt"

// Phase is one segment of the fixed turn cycle.
type Phase int

const (
	PhasePlayer Phase = iota
	PhaseEnemy
	PhaseEnvironment
)

var phaseNames = map[Phase]string{
	PhasePlayer:      "player",
	PhaseEnemy:       "enemy",
	PhaseEnvironment: "environment",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Next returns the phase that follows in the cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhasePlayer:
		return PhaseEnemy
	case PhaseEnemy:
		return PhaseEnvironment
	default:
		return PhasePlayer
	}
}

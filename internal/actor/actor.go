// Package actor defines the entities the turn dispatcher drives and the
// registry that owns their stable identities. The coordination layer only
// needs liveness, identity, and a turn-invocation method; everything else
// about an actor (position, stats, items) belongs to the wider game.
package actor

// TurnContext carries the world references turn logic receives. The
// Visibility and Level handles are opaque to the coordination layer and
// forwarded verbatim; only turn logic interprets them.
type TurnContext struct {
	Player     Entry
	Visibility any
	Level      any
	Turn       int
	Actors     []Entry
}

// Actor is a registered game entity. Implementations must be cheap to
// query: the dispatcher calls Alive and HasTurnLogic while building every
// worklist snapshot.
type Actor interface {
	// Name is the display name used in messages and logs.
	Name() string
	// Alive reports whether the actor is still in play.
	Alive() bool
	// Player reports whether this actor is the player character.
	Player() bool
	// HasTurnLogic reports whether the actor acts during the enemy phase.
	HasTurnLogic() bool
	// Archetype is the AI tag used for strategy-table lookup. Empty means
	// the actor only has its own TakeTurn behavior.
	Archetype() string
	// TakeTurn performs one action and returns its effects in order.
	// A returned error means the actor did nothing this phase.
	TakeTurn(tc TurnContext) ([]Effect, error)
}

// StatusBearer is implemented by actors that can carry named status
// effects granted by another actor (rally, chant, curses).
type StatusBearer interface {
	// RemoveStatusFrom strips the named status if it was granted by the
	// given source UID, reporting whether anything was removed.
	RemoveStatusFrom(sourceUID, status string) bool
}

// StatusSource is implemented by actors that keep a back-reference to the
// actors they granted a status to, so the grant can be withdrawn when the
// source dies or is interrupted.
type StatusSource interface {
	ClearGrantedStatus(status string)
}

// AutoNavigator is the player capability for multi-step automated
// movement. While a continuation is pending, the dispatcher resumes it
// after the enemy phase instead of handing the turn back.
type AutoNavigator interface {
	AutoNavigateActive() bool
	// ResumeAutoNavigate performs one step of the pending movement.
	ResumeAutoNavigate()
}

// Splitter is implemented by actors that can divide, producing the new
// actor merged into the registry by a split effect.
type Splitter interface {
	CloneForSplit() Actor
}

// Healer is implemented by actors that take part in time-based passive
// effects such as regeneration.
type Healer interface {
	Heal(amount int)
}

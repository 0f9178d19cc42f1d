package actor

// TurnFunc is the per-creature turn behavior. Creatures built without one
// simply pass.
type TurnFunc func(c *Creature, tc TurnContext) ([]Effect, error)

// Creature is the default Actor implementation. It carries just enough
// state for the coordination layer's needs: liveness, status grants for
// the rally and chant effects, and the player's auto-navigate counter.
type Creature struct {
	name      string
	archetype string
	player    bool

	hp    int
	maxHP int

	turnFunc TurnFunc

	// statuses maps a status name to the UID of the actor that granted it.
	statuses map[string]string
	// granted maps a status name this creature granted to the set of
	// recipient UIDs, used to withdraw the grant on death or interrupt.
	granted map[string]map[string]struct{}

	autoNavSteps int
}

// CreatureOption configures a Creature at construction.
type CreatureOption func(*Creature)

// WithArchetype tags the creature for strategy-table lookup.
func WithArchetype(tag string) CreatureOption {
	return func(c *Creature) { c.archetype = tag }
}

// WithTurnFunc sets the creature's own turn behavior.
func WithTurnFunc(fn TurnFunc) CreatureOption {
	return func(c *Creature) { c.turnFunc = fn }
}

// AsPlayer marks the creature as the player character.
func AsPlayer() CreatureOption {
	return func(c *Creature) { c.player = true }
}

// NewCreature builds a creature with full health.
func NewCreature(name string, maxHP int, opts ...CreatureOption) *Creature {
	c := &Creature{
		name:     name,
		hp:       maxHP,
		maxHP:    maxHP,
		statuses: make(map[string]string),
		granted:  make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Creature) Name() string      { return c.name }
func (c *Creature) Archetype() string { return c.archetype }
func (c *Creature) Player() bool      { return c.player }
func (c *Creature) Alive() bool       { return c.hp > 0 }
func (c *Creature) HP() int           { return c.hp }
func (c *Creature) MaxHP() int        { return c.maxHP }

// HasTurnLogic reports whether the creature acts in the enemy phase,
// either through its own turn function or a strategy archetype.
func (c *Creature) HasTurnLogic() bool {
	return c.turnFunc != nil || c.archetype != ""
}

// TakeTurn runs the creature's own behavior. Without one the creature
// passes with no effects.
func (c *Creature) TakeTurn(tc TurnContext) ([]Effect, error) {
	if c.turnFunc == nil {
		return nil, nil
	}
	return c.turnFunc(c, tc)
}

// Damage reduces health, clamping at zero.
func (c *Creature) Damage(amount int) {
	c.hp -= amount
	if c.hp < 0 {
		c.hp = 0
	}
}

// Heal restores health, clamping at the maximum.
func (c *Creature) Heal(amount int) {
	c.hp += amount
	if c.hp > c.maxHP {
		c.hp = c.maxHP
	}
}

// Kill drops the creature to zero health.
func (c *Creature) Kill() { c.hp = 0 }

// AddStatusFrom records a status granted by the source UID. The source
// creature should record the grant with GrantStatus so it can be
// withdrawn later.
func (c *Creature) AddStatusFrom(sourceUID, status string) {
	c.statuses[status] = sourceUID
}

// HasStatus reports whether the named status is active.
func (c *Creature) HasStatus(status string) bool {
	_, ok := c.statuses[status]
	return ok
}

// RemoveStatusFrom implements StatusBearer.
func (c *Creature) RemoveStatusFrom(sourceUID, status string) bool {
	if c.statuses[status] != sourceUID {
		return false
	}
	delete(c.statuses, status)
	return true
}

// GrantStatus records that this creature granted a status to recipientUID.
func (c *Creature) GrantStatus(status, recipientUID string) {
	set, ok := c.granted[status]
	if !ok {
		set = make(map[string]struct{})
		c.granted[status] = set
	}
	set[recipientUID] = struct{}{}
}

// GrantedTo reports whether this creature has an outstanding grant of the
// named status.
func (c *Creature) GrantedTo(status string) bool {
	return len(c.granted[status]) > 0
}

// ClearGrantedStatus implements StatusSource.
func (c *Creature) ClearGrantedStatus(status string) {
	delete(c.granted, status)
}

// SetAutoNavigate arms a multi-step movement continuation.
func (c *Creature) SetAutoNavigate(steps int) {
	c.autoNavSteps = steps
}

// AutoNavigateActive implements AutoNavigator.
func (c *Creature) AutoNavigateActive() bool {
	return c.autoNavSteps > 0
}

// ResumeAutoNavigate implements AutoNavigator, consuming one pending step.
func (c *Creature) ResumeAutoNavigate() {
	if c.autoNavSteps > 0 {
		c.autoNavSteps--
	}
}

// CloneForSplit implements Splitter. The clone inherits the creature's
// behavior and current health but none of its status bookkeeping.
func (c *Creature) CloneForSplit() Actor {
	clone := NewCreature(c.name, c.maxHP,
		WithArchetype(c.archetype),
		WithTurnFunc(c.turnFunc),
	)
	clone.hp = c.hp
	return clone
}

package turn

import (
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/mode"
)

// Controller gates turn consumption for player actions and carries a
// preserved mode across the enemy phase. Resting or traveling spans many
// cycles; the controller restores such a mode after each enemy phase
// instead of dropping the player back to the standard turn mode.
type Controller struct {
	logger *zap.Logger
	bridge *Bridge
	store  *mode.Store
	policy mode.Policy

	preserved    mode.Mode
	hasPreserved bool
}

// NewController wires the controller over the bridge, mode store, and
// mode policy. All operations tolerate malformed input; an unknown mode
// simply never transitions. The bridge and store references are optional:
// without a store there is no mode to consult or write, so every
// operation degrades to bookkeeping on the preserved slot.
func NewController(logger *zap.Logger, bridge *Bridge, store *mode.Store, policy mode.Policy) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger: logger,
		bridge: bridge,
		store:  store,
		policy: policy,
	}
}

// EndPlayerAction concludes one player action. Nothing happens unless the
// action consumed the turn and the current mode hands off to the enemy
// phase. A mode the policy marks preserved is recorded for restoration
// after the enemy phase.
func (c *Controller) EndPlayerAction(turnConsumed bool) {
	if !turnConsumed || c.store == nil {
		return
	}
	cur := c.store.Current()
	if !c.policy.TransitionsToEnemy(cur) {
		return
	}
	if c.policy.PreservedAcrossEnemyTurn(cur) {
		c.preserved = cur
		c.hasPreserved = true
		c.logger.Debug("preserving mode across enemy turn", zap.Stringer("mode", cur))
	}
	if c.bridge != nil {
		c.bridge.SetEnemyMode()
	}
}

// EndEnemyTurn walks the scheduler through the environment segment back
// to the player phase and resolves the resulting mode.
func (c *Controller) EndEnemyTurn() {
	if c.bridge != nil {
		c.bridge.AdvanceToEnvironmentPhase()
		c.bridge.AdvanceToPlayerPhase()
	}
	c.ResolvePostEnemyMode()
}

// ResolvePostEnemyMode restores the preserved mode if one is recorded,
// clearing it, and otherwise defaults to the standard player turn. The
// dispatcher calls this directly when it needs start-of-turn effects to
// run between the phase handoff and the mode resolution.
func (c *Controller) ResolvePostEnemyMode() {
	if c.hasPreserved {
		restored := c.preserved
		c.preserved = 0
		c.hasPreserved = false
		c.logger.Debug("restoring preserved mode", zap.Stringer("mode", restored))
		if c.store != nil {
			c.store.Set(restored)
		}
		return
	}
	if c.store != nil {
		c.store.Set(mode.PlayerTurn)
	}
}

// ForceTransition sets the mode unconditionally and abandons any
// preserved mode. Death, victory, and menu bypasses use this; a terminal
// screen supersedes whatever narrative state was pending.
func (c *Controller) ForceTransition(m mode.Mode) {
	c.ClearPreserved()
	if c.store != nil {
		c.store.Set(m)
	}
}

// IsPreserved reports whether a mode is recorded for restoration.
func (c *Controller) IsPreserved() bool {
	return c.hasPreserved
}

// Preserved returns the recorded mode, if any.
func (c *Controller) Preserved() (mode.Mode, bool) {
	return c.preserved, c.hasPreserved
}

// ClearPreserved abandons the recorded mode without restoring it.
func (c *Controller) ClearPreserved() {
	if c.hasPreserved {
		c.logger.Debug("abandoning preserved mode", zap.Stringer("mode", c.preserved))
	}
	c.preserved = 0
	c.hasPreserved = false
}

// Package core exposes the per-frame facade the host loop drives. It
// decides whether the world should tick and funnels input to the action
// processor, keeping interactive, automated, and headless callers on the
// same path.
package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/dispatch"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/turn"
)

// InputMode distinguishes a human at the keyboard from a driver issuing
// actions every frame.
type InputMode int

const (
	InputManual InputMode = iota
	InputAutomated
)

// ActionProcessor consumes one frame's input. It reports whether the
// action consumed the player's turn.
type ActionProcessor interface {
	ProcessAction(action, pointerAction string) (turnConsumed bool)
}

// NopProcessor discards input without consuming a turn.
type NopProcessor struct{}

func (NopProcessor) ProcessAction(string, string) bool { return false }

// GameCore is the per-frame entry point over the turn machinery.
type GameCore struct {
	logger     *zap.Logger
	bridge     *turn.Bridge
	ctrl       *turn.Controller
	store      *mode.Store
	registry   *actor.Registry
	dispatcher *dispatch.Dispatcher
	actions    ActionProcessor
}

// New wires the facade. A nil action processor defaults to a no-op.
func New(
	logger *zap.Logger,
	bridge *turn.Bridge,
	ctrl *turn.Controller,
	store *mode.Store,
	registry *actor.Registry,
	dispatcher *dispatch.Dispatcher,
	actions ActionProcessor,
) *GameCore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if actions == nil {
		actions = NopProcessor{}
	}
	return &GameCore{
		logger:     logger,
		bridge:     bridge,
		ctrl:       ctrl,
		store:      store,
		registry:   registry,
		dispatcher: dispatcher,
		actions:    actions,
	}
}

// ProcessInput forwards the frame's input to the action processor when
// there is anything to forward, ends the player action if a turn was
// consumed, and always performs exactly one bridge synchronization.
func (g *GameCore) ProcessInput(action, pointerAction string) {
	if action != "" || pointerAction != "" || g.autoNavActive() {
		consumed := g.actions.ProcessAction(action, pointerAction)
		g.ctrl.EndPlayerAction(consumed)
	}
	g.bridge.Synchronize()
}

// ShouldAdvanceWorld applies the one-input-one-tick rule for manual
// play. Automated input, any non-player-turn mode, and the first frame
// always advance.
func (g *GameCore) ShouldAdvanceWorld(inputMode InputMode, action, pointerAction string, isFirstFrame bool) bool {
	if inputMode == InputAutomated {
		return true
	}
	if g.store.Current() != mode.PlayerTurn {
		return true
	}
	if isFirstFrame {
		return true
	}
	return action != "" || pointerAction != "" || g.autoNavActive()
}

// AdvanceWorld runs one enemy-phase pass when the world is in the enemy
// segment. Harmless in any other state: the dispatcher's guards turn the
// call into a no-op.
func (g *GameCore) AdvanceWorld(ctx context.Context) dispatch.PassResult {
	return g.dispatcher.RunPass(ctx)
}

func (g *GameCore) autoNavActive() bool {
	player, ok := g.registry.Player()
	if !ok {
		return false
	}
	nav, ok := player.Actor.(actor.AutoNavigator)
	return ok && nav.AutoNavigateActive()
}

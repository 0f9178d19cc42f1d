package game

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hollowdeep/hollowdeep/internal/config"
	"github.com/hollowdeep/hollowdeep/internal/core"
	"github.com/hollowdeep/hollowdeep/internal/dispatch"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Scripts.Dir = t.TempDir()
	cfg.Autoplay.Seed = 7
	return cfg
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(testConfig(t), zaptest.NewLogger(t), telemetry.NoopTracer())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func TestWorldAssembly(t *testing.T) {
	w := newTestWorld(t)

	if _, ok := w.Registry.Player(); !ok {
		t.Fatal("world should spawn a player")
	}
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("expected player turn start, got %s", w.Store.Current())
	}
	if w.Sched.TurnNumber() != 1 {
		t.Fatalf("expected turn 1, got %d", w.Sched.TurnNumber())
	}
	if _, ok := w.Strategies.Lookup("ooze"); !ok {
		t.Fatal("builtin strategies should be registered")
	}
}

// driveCycle issues one action and ticks until the cycle hands back.
func driveCycle(t *testing.T, w *World, action string) {
	t.Helper()
	w.Core.ProcessInput(action, "")
	for i := 0; i < 8; i++ {
		result := w.Core.AdvanceWorld(context.Background())
		if result.FinalizerErr != nil {
			t.Fatalf("finalizer: %v", result.FinalizerErr)
		}
		if result.Blocked != dispatch.BlockNone || result.PlayerDied {
			return
		}
		if !w.Bridge.IsEnemyMode() {
			return
		}
	}
}

func TestWorldFullCycle(t *testing.T) {
	w := newTestWorld(t)

	turnBefore := w.Sched.TurnNumber()
	driveCycle(t, w, "wait")

	if w.Sched.TurnNumber() != turnBefore+1 {
		t.Fatalf("expected turn %d, got %d", turnBefore+1, w.Sched.TurnNumber())
	}
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("expected player turn after cycle, got %s", w.Store.Current())
	}
}

func TestWorldRestIsPreserved(t *testing.T) {
	w := newTestWorld(t)

	driveCycle(t, w, "rest")
	if w.Store.Current() != mode.Resting {
		t.Fatalf("resting should survive the enemy phase, got %s", w.Store.Current())
	}

	// Waiting while rested keeps the mode through further cycles.
	driveCycle(t, w, "wait")
	if w.Store.Current() != mode.Resting {
		t.Fatalf("resting should persist, got %s", w.Store.Current())
	}

	w.Core.ProcessInput("close", "")
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("close should end the rest, got %s", w.Store.Current())
	}
}

func TestWorldTravelRunsContinuation(t *testing.T) {
	w := newTestWorld(t)

	driveCycle(t, w, "travel")
	if w.Store.Current() != mode.AutoTravel && w.Store.Current() != mode.EnemyTurn {
		t.Fatalf("travel should be in progress, got %s", w.Store.Current())
	}

	// Idle frames drive the continuation to completion.
	for i := 0; i < 20 && w.Store.Current() != mode.AutoTravel; i++ {
		driveCycle(t, w, "")
	}
	for i := 0; i < 20; i++ {
		driveCycle(t, w, "step")
	}
	if w.Store.Current() == mode.EnemyTurn {
		t.Fatalf("travel should eventually settle, got %s", w.Store.Current())
	}
}

func TestWorldCombatToVictoryOverRoster(t *testing.T) {
	w := newTestWorld(t)

	// Grind attacks; the seeded roster cannot outlast a 20 hp player
	// with regeneration.
	for i := 0; i < 200; i++ {
		if w.Store.Current() == mode.DeathScreen {
			t.Fatal("player should survive the demo roster")
		}
		driveCycle(t, w, "attack")
	}

	if len(w.Msgs.Tail(0)) == 0 {
		t.Fatal("combat should have produced messages")
	}
}

func TestWorldInventoryBlocksProcessing(t *testing.T) {
	w := newTestWorld(t)

	w.Core.ProcessInput("inventory", "")
	if w.Store.Current() != mode.Inventory {
		t.Fatalf("expected inventory, got %s", w.Store.Current())
	}

	result := w.Core.AdvanceWorld(context.Background())
	if result.Blocked != dispatch.BlockForbiddenMode {
		t.Fatalf("inventory should block dispatch, got %s", result.Blocked)
	}

	w.Core.ProcessInput("close", "")
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("close should leave the menu, got %s", w.Store.Current())
	}
}

func TestWorldAutomatedInputAlwaysTicks(t *testing.T) {
	w := newTestWorld(t)

	if !w.Core.ShouldAdvanceWorld(core.InputAutomated, "", "", false) {
		t.Fatal("automated input mode must always advance")
	}
	if w.Core.ShouldAdvanceWorld(core.InputManual, "", "", false) {
		t.Fatal("manual idle frame must not advance")
	}
}

package game

import (
	"testing"

	"github.com/hollowdeep/hollowdeep/internal/mode"
)

// Mode entries from the action processor go through the controller, so
// the store and the preserved slot can never disagree.
func TestActionsEnterModesThroughController(t *testing.T) {
	w := newTestWorld(t)

	w.Core.ProcessInput("inventory", "")
	if w.Store.Current() != mode.Inventory {
		t.Fatalf("expected inventory, got %s", w.Store.Current())
	}
	if w.Ctrl.IsPreserved() {
		t.Fatal("opening a menu must not leave a preserved mode behind")
	}

	w.Core.ProcessInput("close", "")
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("expected player turn, got %s", w.Store.Current())
	}
	if w.Ctrl.IsPreserved() {
		t.Fatal("closing a menu must abandon any preserved mode")
	}
}

func TestMenuCloseAbandonsRest(t *testing.T) {
	w := newTestWorld(t)

	driveCycle(t, w, "rest")
	if w.Store.Current() != mode.Resting {
		t.Fatalf("expected resting, got %s", w.Store.Current())
	}

	w.Core.ProcessInput("inventory", "")
	w.Core.ProcessInput("close", "")
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("close should end the rest, got %s", w.Store.Current())
	}

	// The abandoned rest must not resurrect after the next cycle.
	driveCycle(t, w, "wait")
	if w.Store.Current() != mode.PlayerTurn {
		t.Fatalf("rest resurrected after close, got %s", w.Store.Current())
	}
}

func TestTravelReplacesRest(t *testing.T) {
	w := newTestWorld(t)

	driveCycle(t, w, "rest")
	driveCycle(t, w, "travel")

	// Drive the continuation until it settles; the session must land in
	// auto travel, never back in the replaced rest.
	for i := 0; i < 20; i++ {
		driveCycle(t, w, "step")
	}
	if w.Store.Current() == mode.Resting {
		t.Fatal("travel should supersede the rest, not restore it")
	}
}

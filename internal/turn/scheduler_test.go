package turn

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestSchedulerCycleOrder(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	if s.Current() != PhasePlayer {
		t.Fatalf("expected initial phase player, got %s", s.Current())
	}

	expected := []Phase{PhaseEnemy, PhaseEnvironment, PhasePlayer, PhaseEnemy}
	for i, want := range expected {
		if !s.AdvanceToNextPhase() {
			t.Fatalf("advance %d refused", i)
		}
		if s.Current() != want {
			t.Fatalf("advance %d: expected %s, got %s", i, want, s.Current())
		}
	}
}

func TestSchedulerTurnIncrementsOncePerCycle(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	if s.TurnNumber() != 1 {
		t.Fatalf("expected turn 1, got %d", s.TurnNumber())
	}

	s.AdvanceToNextPhase() // enemy
	if s.TurnNumber() != 1 {
		t.Fatalf("turn changed on player->enemy: %d", s.TurnNumber())
	}
	s.AdvanceToNextPhase() // environment
	if s.TurnNumber() != 1 {
		t.Fatalf("turn changed on enemy->environment: %d", s.TurnNumber())
	}
	s.AdvanceToNextPhase() // player, new turn
	if s.TurnNumber() != 2 {
		t.Fatalf("expected turn 2 after full cycle, got %d", s.TurnNumber())
	}
}

func TestSchedulerExplicitAdvanceSkipsIncrement(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	// Jumping enemy->player directly is not the environment->player edge.
	s.AdvanceTo(PhaseEnemy)
	s.AdvanceTo(PhasePlayer)
	if s.TurnNumber() != 1 {
		t.Fatalf("expected turn 1 after enemy->player jump, got %d", s.TurnNumber())
	}
}

func TestSchedulerAdvanceToCurrentIsNoOp(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	if s.AdvanceTo(PhasePlayer) {
		t.Fatal("advance to current phase should report false")
	}
	if len(s.History(0)) != 0 {
		t.Fatal("no-op advance should not record history")
	}
}

func TestSchedulerInProgressBlocksAdvance(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	s.MarkInProgress()
	if s.AdvanceToNextPhase() {
		t.Fatal("advance should be refused while in progress")
	}
	if s.Current() != PhasePlayer {
		t.Fatalf("phase changed despite refusal: %s", s.Current())
	}

	s.MarkComplete()
	if !s.AdvanceToNextPhase() {
		t.Fatal("advance should succeed after completion")
	}
}

func TestSchedulerListenerEdges(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	var order []string
	if _, err := s.Subscribe(PhasePlayer, PhaseEnd, func(tr Transition) {
		order = append(order, "player_end")
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := s.Subscribe(PhaseEnemy, PhaseStart, func(tr Transition) {
		order = append(order, "enemy_start")
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := s.Subscribe(PhaseEnemy, PhaseEnd, func(tr Transition) {
		order = append(order, "enemy_end")
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	s.AdvanceToNextPhase()
	if len(order) != 2 || order[0] != "player_end" || order[1] != "enemy_start" {
		t.Fatalf("unexpected listener order: %v", order)
	}
}

func TestSchedulerInvalidListenerEvent(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	if _, err := s.Subscribe(PhasePlayer, ListenerEvent(42), func(Transition) {}); err != ErrInvalidListenerEvent {
		t.Fatalf("expected ErrInvalidListenerEvent, got %v", err)
	}
}

func TestSchedulerListenerPanicDoesNotAbort(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	secondRan := false
	s.Subscribe(PhaseEnemy, PhaseStart, func(Transition) {
		panic("listener bug")
	})
	s.Subscribe(PhaseEnemy, PhaseStart, func(Transition) {
		secondRan = true
	})

	if !s.AdvanceToNextPhase() {
		t.Fatal("transition should complete despite listener panic")
	}
	if !secondRan {
		t.Fatal("remaining listeners should still run")
	}
	if s.Current() != PhaseEnemy {
		t.Fatalf("transition aborted: %s", s.Current())
	}
}

func TestSchedulerUnsubscribe(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	calls := 0
	handle, _ := s.Subscribe(PhaseEnemy, PhaseStart, func(Transition) { calls++ })

	s.AdvanceToNextPhase()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	if !s.Unsubscribe(handle) {
		t.Fatal("unsubscribe should report the handle existed")
	}
	if s.Unsubscribe(handle) {
		t.Fatal("second unsubscribe should report false")
	}

	s.Reset()
	s.AdvanceToNextPhase()
	if calls != 1 {
		t.Fatalf("listener ran after unsubscribe: %d calls", calls)
	}
}

func TestSchedulerHistoryCap(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t), WithHistoryCap(3))

	for i := 0; i < 10; i++ {
		s.AdvanceToNextPhase()
	}

	history := s.History(0)
	if len(history) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(history))
	}
	tail := s.History(2)
	if len(tail) != 2 {
		t.Fatalf("expected 2 records, got %d", len(tail))
	}
	if tail[1] != history[2] {
		t.Fatal("tail should end at the newest record")
	}
}

func TestSchedulerResetKeepsListeners(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	calls := 0
	s.Subscribe(PhaseEnemy, PhaseStart, func(Transition) { calls++ })

	s.AdvanceToNextPhase()
	s.Reset()

	if s.Current() != PhasePlayer || s.TurnNumber() != 1 {
		t.Fatalf("reset state wrong: %s turn %d", s.Current(), s.TurnNumber())
	}
	if len(s.History(0)) != 0 {
		t.Fatal("reset should clear history")
	}

	s.AdvanceToNextPhase()
	if calls != 2 {
		t.Fatalf("listener should survive reset, got %d calls", calls)
	}
}

func TestSchedulerStartingPhaseOption(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t), WithStartingPhase(PhaseEnemy))
	if s.Current() != PhaseEnemy {
		t.Fatalf("expected enemy start, got %s", s.Current())
	}
}

func TestSchedulerResetRestoresConfiguredStartingPhase(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t), WithStartingPhase(PhaseEnemy))

	s.AdvanceToNextPhase()
	s.Reset()

	if s.Current() != PhaseEnemy {
		t.Fatalf("reset should restore the configured phase, got %s", s.Current())
	}

	// A reset scheduler retraces a fresh one's trajectory.
	fresh := NewScheduler(zaptest.NewLogger(t), WithStartingPhase(PhaseEnemy))
	for i := 0; i < 4; i++ {
		s.AdvanceToNextPhase()
		fresh.AdvanceToNextPhase()
		if s.Current() != fresh.Current() || s.TurnNumber() != fresh.TurnNumber() {
			t.Fatalf("step %d diverged: reset %s/%d fresh %s/%d",
				i, s.Current(), s.TurnNumber(), fresh.Current(), fresh.TurnNumber())
		}
	}
}

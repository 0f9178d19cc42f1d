package mode

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestModeStringParseRoundTrip(t *testing.T) {
	for _, m := range All() {
		name := m.String()
		parsed, ok := Parse(name)
		if !ok {
			t.Fatalf("Parse(%q) failed", name)
		}
		if parsed != m {
			t.Fatalf("round trip %q: got %s", name, parsed)
		}
	}
}

func TestModeStringUnknown(t *testing.T) {
	if got := Mode(999).String(); got != "MODE_999" {
		t.Fatalf("unexpected unknown-mode string %q", got)
	}
	if _, ok := Parse("no_such_mode"); ok {
		t.Fatal("Parse should reject unknown names")
	}
}

func TestStoreSetAndCurrent(t *testing.T) {
	store := NewStore(PlayerTurn, zaptest.NewLogger(t))

	if store.Current() != PlayerTurn {
		t.Fatalf("expected player turn, got %s", store.Current())
	}
	store.Set(Inventory)
	if store.Current() != Inventory {
		t.Fatalf("expected inventory, got %s", store.Current())
	}
}

func TestDefaultPolicyTraits(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		mode        Mode
		transitions bool
		preserved   bool
		allowsAI    bool
	}{
		{PlayerTurn, true, false, true},
		{EnemyTurn, false, false, true},
		{Environment, false, false, true},
		{Resting, true, true, true},
		{AutoTravel, true, true, true},
		{Inventory, false, false, false},
		{Targeting, false, false, false},
		{Dialogue, false, false, false},
		{DebugMenu, false, false, false},
		{DeathScreen, false, false, false},
		{Victory, false, false, false},
		{Defeat, false, false, false},
	}

	for _, tt := range tests {
		if got := p.TransitionsToEnemy(tt.mode); got != tt.transitions {
			t.Errorf("%s: TransitionsToEnemy = %v, want %v", tt.mode, got, tt.transitions)
		}
		if got := p.PreservedAcrossEnemyTurn(tt.mode); got != tt.preserved {
			t.Errorf("%s: PreservedAcrossEnemyTurn = %v, want %v", tt.mode, got, tt.preserved)
		}
		if got := p.AllowsAIProcessing(tt.mode); got != tt.allowsAI {
			t.Errorf("%s: AllowsAIProcessing = %v, want %v", tt.mode, got, tt.allowsAI)
		}
	}
}

func TestPolicyUnknownModeAnswersNo(t *testing.T) {
	p := DefaultPolicy()
	unknown := Mode(999)

	if p.TransitionsToEnemy(unknown) || p.PreservedAcrossEnemyTurn(unknown) || p.AllowsAIProcessing(unknown) {
		t.Fatal("unknown modes must answer no to everything")
	}
}

func TestParsePolicyRejectsUnknownName(t *testing.T) {
	data := []byte("modes:\n  not_a_mode:\n    allows_ai: true\n")
	if _, err := ParsePolicy(data); err == nil {
		t.Fatal("expected error for unknown mode name")
	}
}

func TestParsePolicyOverrides(t *testing.T) {
	data := []byte("modes:\n  dialogue:\n    allows_ai: true\n")
	p, err := ParsePolicy(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !p.AllowsAIProcessing(Dialogue) {
		t.Fatal("override should apply")
	}
	if p.AllowsAIProcessing(PlayerTurn) {
		t.Fatal("modes absent from the file answer no")
	}
}

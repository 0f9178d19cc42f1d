package actor

import "testing"

func TestCreatureDamageAndHealClamp(t *testing.T) {
	c := NewCreature("rat", 10)

	c.Damage(4)
	if c.HP() != 6 {
		t.Fatalf("expected 6 hp, got %d", c.HP())
	}
	c.Damage(100)
	if c.HP() != 0 || c.Alive() {
		t.Fatalf("expected dead at 0 hp, got %d alive=%v", c.HP(), c.Alive())
	}
	c.Heal(100)
	if c.HP() != 10 {
		t.Fatalf("heal should clamp at max, got %d", c.HP())
	}
}

func TestCreatureHasTurnLogic(t *testing.T) {
	if NewCreature("inert", 1).HasTurnLogic() {
		t.Fatal("creature without behavior has no turn logic")
	}
	if !NewCreature("tagged", 1, WithArchetype("rat")).HasTurnLogic() {
		t.Fatal("archetype implies turn logic")
	}
	withFunc := NewCreature("func", 1, WithTurnFunc(func(*Creature, TurnContext) ([]Effect, error) {
		return nil, nil
	}))
	if !withFunc.HasTurnLogic() {
		t.Fatal("turn func implies turn logic")
	}
}

func TestCreatureStatusGrantAndRemoval(t *testing.T) {
	source := NewCreature("cultist", 10)
	bearer := NewCreature("thrall", 5)

	bearer.AddStatusFrom("cultist-uid", "rallied")
	source.GrantStatus("rallied", "thrall-uid")

	if !bearer.HasStatus("rallied") {
		t.Fatal("status should be active")
	}
	if !source.GrantedTo("rallied") {
		t.Fatal("grant back-reference should be recorded")
	}

	// A different source cannot strip the status.
	if bearer.RemoveStatusFrom("other-uid", "rallied") {
		t.Fatal("wrong source must not remove the status")
	}
	if !bearer.RemoveStatusFrom("cultist-uid", "rallied") {
		t.Fatal("granting source should remove the status")
	}
	if bearer.HasStatus("rallied") {
		t.Fatal("status should be gone")
	}

	source.ClearGrantedStatus("rallied")
	if source.GrantedTo("rallied") {
		t.Fatal("back-reference should be cleared")
	}
}

func TestCreatureAutoNavigate(t *testing.T) {
	c := NewCreature("hero", 10, AsPlayer())

	if c.AutoNavigateActive() {
		t.Fatal("no continuation pending initially")
	}
	c.SetAutoNavigate(2)
	if !c.AutoNavigateActive() {
		t.Fatal("continuation should be pending")
	}
	c.ResumeAutoNavigate()
	c.ResumeAutoNavigate()
	if c.AutoNavigateActive() {
		t.Fatal("continuation should be exhausted")
	}
}

func TestCreatureCloneForSplit(t *testing.T) {
	c := NewCreature("ooze", 8, WithArchetype("ooze"))
	c.Damage(5)
	c.AddStatusFrom("someone", "rallied")

	clone, ok := c.CloneForSplit().(*Creature)
	if !ok {
		t.Fatal("clone should be a creature")
	}
	if clone.HP() != c.HP() || clone.MaxHP() != c.MaxHP() {
		t.Fatalf("clone health mismatch: %d/%d vs %d/%d", clone.HP(), clone.MaxHP(), c.HP(), c.MaxHP())
	}
	if clone.Archetype() != "ooze" {
		t.Fatalf("clone should inherit the archetype, got %q", clone.Archetype())
	}
	if clone.HasStatus("rallied") {
		t.Fatal("clone must not inherit statuses")
	}
}

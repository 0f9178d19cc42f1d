package ai

import (
	"fmt"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/scripting"
)

// healthProber is the subset of creature state forwarded to scripts.
type healthProber interface {
	HP() int
	MaxHP() int
}

// LuaStrategy drives an archetype from a script function hosted by the
// scripting engine. Script failures degrade to the actor doing nothing,
// so a broken script never stalls the turn cycle.
type LuaStrategy struct {
	tag    string
	engine *scripting.Engine
}

// NewLuaStrategy binds an archetype tag to its script function.
func NewLuaStrategy(tag string, engine *scripting.Engine) *LuaStrategy {
	return &LuaStrategy{tag: tag, engine: engine}
}

func (s *LuaStrategy) Name() string { return s.tag }

// Act packs the actor's context, runs the script, and translates the
// returned commands into effects.
func (s *LuaStrategy) Act(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error) {
	ctx := scripting.StrategyContext{
		Name:       e.Name(),
		UID:        e.UID,
		Archetype:  e.Archetype(),
		Turn:       tc.Turn,
		ActorCount: len(tc.Actors),
	}
	if hp, ok := e.Actor.(healthProber); ok {
		ctx.HP = hp.HP()
		ctx.MaxHP = hp.MaxHP()
	}
	if tc.Player.Actor != nil {
		ctx.PlayerName = tc.Player.Name()
		ctx.PlayerAlive = tc.Player.Alive()
	}

	cmds := s.engine.RunStrategy(s.tag, ctx)
	return s.translate(e, cmds), nil
}

func (s *LuaStrategy) translate(e actor.Entry, cmds []scripting.Command) []actor.Effect {
	var effects []actor.Effect
	for _, cmd := range cmds {
		switch cmd.Type {
		case "message":
			effects = append(effects, actor.NewMessage(cmd.Text))
		case "split":
			sp, ok := e.Actor.(actor.Splitter)
			if !ok {
				continue
			}
			count := cmd.Count
			if count < 1 {
				count = 1
			}
			spawned := make([]actor.Actor, 0, count)
			for i := 0; i < count; i++ {
				spawned = append(spawned, sp.CloneForSplit())
			}
			text := cmd.Text
			if text == "" {
				text = fmt.Sprintf("The %s splits apart!", e.Name())
			}
			effects = append(effects, actor.NewSplit(text, spawned...))
		case "dead":
			effects = append(effects, actor.NewDead(e.UID))
		case "end_rally":
			effects = append(effects, actor.NewEndRally(e.UID, cmd.Status, cmd.Text))
		case "interrupt_chant":
			effects = append(effects, actor.NewInterruptChant(e.UID, cmd.Status, cmd.Text))
		case "idle", "":
			// Explicit pass.
		}
	}
	return effects
}

package ai

import (
	"fmt"

	"github.com/hollowdeep/hollowdeep/internal/actor"
)

// Idle returns a strategy whose actors pass every turn. Useful for
// ambient creatures that exist only to be interacted with.
func Idle(tag string) Strategy {
	return StrategyFunc{
		Tag: tag,
		Fn: func(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error) {
			return nil, nil
		},
	}
}

// Lurker returns a strategy whose actors announce themselves once and
// then wait. The announcement keys off the turn an actor first acts on.
func Lurker(tag string) Strategy {
	seen := make(map[string]struct{})
	return StrategyFunc{
		Tag: tag,
		Fn: func(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error) {
			if _, ok := seen[e.UID]; ok {
				return nil, nil
			}
			seen[e.UID] = struct{}{}
			return []actor.Effect{
				actor.NewMessage(fmt.Sprintf("Something stirs in the dark. The %s is watching.", e.Name())),
			}, nil
		},
	}
}

// Splitter returns a strategy for creatures that divide when wounded.
// The split halves the parent's health and the clone inherits the
// halved value, so a lineage bottoms out instead of growing without
// bound.
func Splitter(tag string) Strategy {
	return StrategyFunc{
		Tag: tag,
		Fn: func(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error) {
			c, ok := e.Actor.(*actor.Creature)
			if !ok {
				return nil, nil
			}
			sp, ok := e.Actor.(actor.Splitter)
			if !ok || c.HP() >= c.MaxHP()/2 || c.HP() <= 1 {
				return nil, nil
			}
			c.Damage(c.HP() - c.HP()/2)
			clone := sp.CloneForSplit()
			return []actor.Effect{
				actor.NewSplit(fmt.Sprintf("The %s shudders and splits in two!", e.Name()), clone),
			}, nil
		},
	}
}

// Package ai holds the strategy override table the dispatcher consults
// before falling back to an actor's own turn logic. Strategies are keyed
// by archetype tag, so one strategy drives every actor sharing the tag.
package ai

import (
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/actor"
)

// Strategy is one archetype's turn behavior. An error means the actor
// does nothing this phase.
type Strategy interface {
	Name() string
	Act(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	Tag string
	Fn  func(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error)
}

func (s StrategyFunc) Name() string { return s.Tag }

func (s StrategyFunc) Act(e actor.Entry, tc actor.TurnContext) ([]actor.Effect, error) {
	return s.Fn(e, tc)
}

// Table maps archetype tags to strategies. Registration replaces any
// earlier strategy for the same tag.
type Table struct {
	logger     *zap.Logger
	strategies map[string]Strategy
}

// NewTable creates an empty strategy table.
func NewTable(logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		logger:     logger,
		strategies: make(map[string]Strategy),
	}
}

// Register binds a strategy to an archetype tag.
func (t *Table) Register(tag string, s Strategy) {
	if _, exists := t.strategies[tag]; exists {
		t.logger.Debug("replacing strategy", zap.String("archetype", tag))
	}
	t.strategies[tag] = s
}

// Lookup returns the strategy for a tag, if one is registered.
func (t *Table) Lookup(tag string) (Strategy, bool) {
	s, ok := t.strategies[tag]
	return s, ok
}

// Tags returns the registered archetype tags in no particular order.
func (t *Table) Tags() []string {
	tags := make([]string, 0, len(t.strategies))
	for tag := range t.strategies {
		tags = append(tags, tag)
	}
	return tags
}

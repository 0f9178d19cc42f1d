package mode

import "go.uber.org/zap"

// Store is the single owner of the current Mode value. Everything outside
// the turn bridge and turn controller must treat it as read-only.
type Store struct {
	logger *zap.Logger
	cur    Mode
}

// NewStore creates a store starting in the given mode.
func NewStore(initial Mode, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger, cur: initial}
}

// Current returns the mode the game is in right now.
func (s *Store) Current() Mode {
	return s.cur
}

// Set replaces the current mode. Only the bridge and controller call this.
func (s *Store) Set(m Mode) {
	if m == s.cur {
		return
	}
	s.logger.Debug("mode changed",
		zap.String("from", s.cur.String()),
		zap.String("to", m.String()),
	)
	s.cur = m
}

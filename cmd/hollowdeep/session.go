package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/actor"
	"github.com/hollowdeep/hollowdeep/internal/config"
	"github.com/hollowdeep/hollowdeep/internal/core"
	"github.com/hollowdeep/hollowdeep/internal/dispatch"
	"github.com/hollowdeep/hollowdeep/internal/game"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/scripting"
)

// session couples the assembled world with the terminal frontend.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	world   *game.World
	screen  tcell.Screen
	watcher *scripting.Watcher
}

func newSession(cfg *config.Config, logger *zap.Logger, tracer trace.Tracer) (*session, error) {
	world, err := game.NewWorld(cfg, logger, tracer)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		world.Close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		world.Close()
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	s := &session{cfg: cfg, logger: logger, world: world, screen: screen}

	if cfg.Scripts.HotReload {
		watcher, err := scripting.NewWatcher(cfg.Scripts.Dir)
		if err != nil {
			logger.Warn("script watcher unavailable", zap.Error(err))
		} else {
			s.watcher = watcher
			go s.reloadLoop()
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.screen.Fini()
	s.world.Close()
}

// reloadLoop swaps scripts in when the watcher reports a change.
func (s *session) reloadLoop() {
	for range s.watcher.Events {
		if err := s.world.Scripts.Reload(); err != nil {
			s.logger.Error("script reload failed", zap.Error(err))
		}
	}
}

// Run drives the frame loop: poll one key, process it, tick the world
// while it is the enemy's segment, redraw.
func (s *session) Run(ctx context.Context) error {
	firstFrame := true
	for {
		s.render()

		action := ""
		if !firstFrame {
			ev := s.screen.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.screen.Sync()
				continue
			case *tcell.EventKey:
				var quit bool
				action, quit = keyAction(ev)
				if quit {
					return nil
				}
			default:
				continue
			}
		}

		s.world.Core.ProcessInput(action, "")
		if s.world.Core.ShouldAdvanceWorld(core.InputManual, action, "", firstFrame) {
			// The dispatcher's guards make extra calls harmless; loop
			// until the cycle hands back to the player or a menu.
			for i := 0; i < 8; i++ {
				result := s.world.Core.AdvanceWorld(ctx)
				if result.FinalizerErr != nil {
					return result.FinalizerErr
				}
				if result.Blocked != dispatch.BlockNone || result.PlayerDied {
					break
				}
				if !s.world.Bridge.IsEnemyMode() {
					break
				}
			}
		}
		firstFrame = false
	}
}

// keyAction maps a key event to an action name.
func keyAction(ev *tcell.EventKey) (action string, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "close", false
	case tcell.KeyCtrlC:
		return "", true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return "", true
		case 'a':
			return "attack", false
		case 'w', ' ':
			return "wait", false
		case 'r':
			return "rest", false
		case 't':
			return "travel", false
		case 'i':
			return "inventory", false
		}
	}
	return "", false
}

// render draws the status line, the roster, and the message log tail.
func (s *session) render() {
	s.screen.Clear()
	w := s.world

	row := 0
	player, _ := w.Registry.Player()
	hp := 0
	if c, ok := player.Actor.(*actor.Creature); ok {
		hp = c.HP()
	}
	s.drawLine(0, row, fmt.Sprintf("turn %d  mode %s  hp %d", w.Sched.TurnNumber(), w.Store.Current(), hp))
	row += 2

	for _, e := range w.Registry.Snapshot() {
		if e.Player() || !e.Alive() {
			continue
		}
		status := ""
		if c, ok := e.Actor.(*actor.Creature); ok {
			status = fmt.Sprintf(" (%d/%d)", c.HP(), c.MaxHP())
		}
		s.drawLine(2, row, e.Name()+status)
		row++
	}
	row++

	for _, msg := range w.Msgs.Tail(10) {
		s.drawLine(0, row, msg.Text)
		row++
	}
	row++

	if w.Store.Current() == mode.DeathScreen {
		s.drawLine(0, row, "[q] quit")
	} else {
		s.drawLine(0, row, "[a]ttack [w]ait [r]est [t]ravel [i]nventory [q]uit")
	}
	s.screen.Show()
}

func (s *session) drawLine(x, y int, text string) {
	for i, r := range text {
		s.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

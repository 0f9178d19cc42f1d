// Package scripting wraps a gopher-lua VM that hosts data-driven actor
// strategies. A script defines one global function per archetype, named
// strategy_<archetype>, which receives a context table and returns a
// list of command tables.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const strategyPrefix = "strategy_"

// StrategyContext holds the pre-packed data a Lua strategy receives.
type StrategyContext struct {
	Name      string
	UID       string
	Archetype string
	HP        int
	MaxHP     int
	Turn      int

	PlayerName  string
	PlayerAlive bool
	ActorCount  int
}

// Command is a single action returned by a Lua strategy.
type Command struct {
	Type   string // "message", "split", "dead", "end_rally", "interrupt_chant", "idle"
	Text   string
	Count  int
	Status string
}

// Engine wraps a single gopher-lua VM for strategy execution. Hot reload
// swaps the VM from the watcher goroutine, so access is mutex guarded.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	dir string
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm, err := newVM(scriptsDir, log)
	if err != nil {
		return nil, err
	}
	return &Engine{vm: vm, dir: scriptsDir, log: log}, nil
}

func newVM(dir string, log *zap.Logger) (*lua.LState, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return vm, nil
		}
		vm.Close()
		return nil, fmt.Errorf("read scripts dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		log.Debug("loaded lua script", zap.String("file", path))
	}
	return vm, nil
}

// HasStrategy reports whether a strategy function exists for the tag.
func (e *Engine) HasStrategy(tag string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vm.GetGlobal(strategyPrefix+tag) != lua.LNil
}

// RunStrategy calls the strategy function for the tag and returns its
// command list. A Lua error or malformed return falls back to nil, which
// the caller treats as the actor doing nothing.
func (e *Engine) RunStrategy(tag string, ctx StrategyContext) []Command {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal(strategyPrefix + tag)
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("uid", lua.LString(ctx.UID))
	t.RawSetString("archetype", lua.LString(ctx.Archetype))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("turn", lua.LNumber(ctx.Turn))
	t.RawSetString("player_name", lua.LString(ctx.PlayerName))
	if ctx.PlayerAlive {
		t.RawSetString("player_alive", lua.LTrue)
	} else {
		t.RawSetString("player_alive", lua.LFalse)
	}
	t.RawSetString("actor_count", lua.LNumber(ctx.ActorCount))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua strategy error", zap.String("archetype", tag), zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []Command
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, Command{
				Type:   lStr(row, "type"),
				Text:   lStr(row, "text"),
				Count:  lInt(row, "count"),
				Status: lStr(row, "status"),
			})
		}
	})
	return cmds
}

// Reload rebuilds the VM from the scripts directory and swaps it in. On
// a load error the old VM stays live.
func (e *Engine) Reload() error {
	vm, err := newVM(e.dir, e.log)
	if err != nil {
		return err
	}
	e.mu.Lock()
	old := e.vm
	e.vm = vm
	e.mu.Unlock()
	old.Close()
	e.log.Info("lua scripts reloaded", zap.String("dir", e.dir))
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

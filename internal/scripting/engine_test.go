package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

const testScript = `
function strategy_growler(ctx)
  if ctx.hp < ctx.max_hp then
    return {
      { type = "message", text = ctx.name .. " growls at " .. ctx.player_name },
      { type = "split", count = 2 },
    }
  end
  return { { type = "idle" } }
end
`

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestEngineLoadsAndRuns(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "strategies.lua", testScript)

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	if !e.HasStrategy("growler") {
		t.Fatal("growler strategy should be loaded")
	}
	if e.HasStrategy("missing") {
		t.Fatal("missing strategy should not resolve")
	}

	cmds := e.RunStrategy("growler", StrategyContext{
		Name:       "gnasher",
		HP:         3,
		MaxHP:      10,
		PlayerName: "hero",
	})
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].Type != "message" || cmds[0].Text != "gnasher growls at hero" {
		t.Fatalf("unexpected first command: %+v", cmds[0])
	}
	if cmds[1].Type != "split" || cmds[1].Count != 2 {
		t.Fatalf("unexpected second command: %+v", cmds[1])
	}

	idle := e.RunStrategy("growler", StrategyContext{Name: "gnasher", HP: 10, MaxHP: 10})
	if len(idle) != 1 || idle[0].Type != "idle" {
		t.Fatalf("expected idle, got %+v", idle)
	}
}

func TestEngineMissingDirIsEmpty(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("missing dir should not fail: %v", err)
	}
	defer e.Close()

	if e.HasStrategy("anything") {
		t.Fatal("no strategies should be loaded")
	}
}

func TestEngineBrokenScriptFails(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", "function strategy_x( -- unterminated")

	if _, err := NewEngine(dir, zaptest.NewLogger(t)); err == nil {
		t.Fatal("broken script should fail the load")
	}
}

func TestEngineReloadKeepsOldVMOnError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "strategies.lua", testScript)

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	writeScript(t, dir, "strategies.lua", "function broken( -- nope")
	if err := e.Reload(); err == nil {
		t.Fatal("reload of a broken script should fail")
	}
	if !e.HasStrategy("growler") {
		t.Fatal("old VM should survive a failed reload")
	}

	writeScript(t, dir, "strategies.lua", `
function strategy_other(ctx)
  return { { type = "message", text = "new" } }
end
`)
	if err := e.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if e.HasStrategy("growler") {
		t.Fatal("reload should drop strategies removed from the scripts")
	}
	if !e.HasStrategy("other") {
		t.Fatal("reload should pick up new strategies")
	}
}

func TestEngineLuaRuntimeErrorDegrades(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "strategies.lua", `
function strategy_bad(ctx)
  error("script bug")
end
`)

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	if cmds := e.RunStrategy("bad", StrategyContext{}); cmds != nil {
		t.Fatalf("runtime error should yield nil commands, got %+v", cmds)
	}
}

package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for behaviour scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Missing subdirectories are skipped, so an empty scripts dir
// yields a working engine with no behaviour functions.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerAPI()

	for _, sub := range []string{"core", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerAPI exposes host functions to scripts.
func (e *Engine) registerAPI() {
	e.vm.SetGlobal("log_debug", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Debug("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
}

// DoString runs a chunk of Lua source in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// AIContext holds pre-packed entity state for one entity_ai call.
type AIContext struct {
	EntityID int
	Type     string
	X, Y     float64 // tiles
	VX, VY   float64 // tiles per second
	Elapsed  float64 // seconds since the brain was attached
	Dt       float64 // seconds since the previous decision
}

// AICommand is the steering decision returned by Lua.
type AICommand struct {
	Type   string // "move", "idle"
	DX, DY float64
	Sprint bool
}

// RunEntityAI calls Lua entity_ai(ctx). The boolean is false when no
// script is loaded or the call failed; the caller then falls back to its
// built-in behaviour.
func (e *Engine) RunEntityAI(ctx AIContext) (AICommand, bool) {
	fn := e.vm.GetGlobal("entity_ai")
	if fn == lua.LNil {
		return AICommand{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("entity_id", lua.LNumber(ctx.EntityID))
	t.RawSetString("type", lua.LString(ctx.Type))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("elapsed", lua.LNumber(ctx.Elapsed))
	t.RawSetString("dt", lua.LNumber(ctx.Dt))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua entity_ai error", zap.Error(err), zap.Int("entity", ctx.EntityID))
		return AICommand{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return AICommand{Type: "idle"}, true
	}
	cmd := AICommand{
		Type:   lStr(rt, "type"),
		DX:     lNum(rt, "dx"),
		DY:     lNum(rt, "dy"),
		Sprint: lua.LVAsBool(rt.RawGetString("sprint")),
	}
	if cmd.Type == "" {
		cmd.Type = "idle"
	}
	return cmd, true
}

// lNum reads a number field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

func (e *Engine) Close() {
	e.vm.Close()
}

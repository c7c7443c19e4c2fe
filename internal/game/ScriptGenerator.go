package game

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

const scriptEntryPoint = "cellValue"

// ScriptGenerator asks a Lua script for cell values. The script must define
// cellValue(x, y) returning a non-negative number and may call luck(seed).
//
// Answers are memoized per coordinate so a revisited cell never changes, even
// if the script itself is not pure. A failing call falls back to fallback.
type ScriptGenerator struct {
	luaState *lua.LState
	fallback Generator
	cache    map[Coord]int
}

func LoadScriptGenerator(path string, fallback Generator) (*ScriptGenerator, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator script: %w", err)
	}
	return NewScriptGenerator(string(src), fallback)
}

func NewScriptGenerator(script string, fallback Generator) (*ScriptGenerator, error) {
	luaState := lua.NewState()
	luaState.SetGlobal("luck", luaState.NewFunction(luaLuck))

	if err := luaState.DoString(script); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("could not parse generator script: %w", err)
	}
	if luaState.GetGlobal(scriptEntryPoint).Type() != lua.LTFunction {
		luaState.Close()
		return nil, errors.New("generator script must define " + scriptEntryPoint + "(x, y)")
	}

	return &ScriptGenerator{
		luaState: luaState,
		fallback: fallback,
		cache:    make(map[Coord]int),
	}, nil
}

func (g *ScriptGenerator) Generate(c Coord) int {
	if value, ok := g.cache[c]; ok {
		return value
	}

	value, err := g.callScript(c)
	if err != nil {
		log.Warn("Generator script failed, using fallback", "cell", c.Key(), "error", err)
		value = 0
		if g.fallback != nil {
			value = g.fallback.Generate(c)
		}
	}
	g.cache[c] = value
	return value
}

func (g *ScriptGenerator) callScript(c Coord) (int, error) {
	g.luaState.Push(g.luaState.GetGlobal(scriptEntryPoint))
	g.luaState.Push(lua.LNumber(c.X))
	g.luaState.Push(lua.LNumber(c.Y))
	if err := g.luaState.PCall(2, 1, nil); err != nil {
		return 0, fmt.Errorf("could not execute %s: %w", scriptEntryPoint, err)
	}

	luaReturn := g.luaState.Get(-1)
	g.luaState.Pop(1)

	number, ok := luaReturn.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, expected number", scriptEntryPoint, luaReturn.Type().String())
	}
	value := float64(number)
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return 0, fmt.Errorf("%s returned non-finite value %v", scriptEntryPoint, value)
	case value < 0:
		return 0, fmt.Errorf("%s returned negative value %v", scriptEntryPoint, value)
	case value != math.Trunc(value):
		return 0, fmt.Errorf("%s returned fractional value %v", scriptEntryPoint, value)
	}
	return int(value), nil
}

func (g *ScriptGenerator) Close() {
	g.luaState.Close()
}

func luaLuck(luaState *lua.LState) int {
	seed := luaState.CheckString(1)
	luaState.Push(lua.LNumber(Luck(seed)))
	return 1
}

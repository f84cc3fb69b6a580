package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

const luaEntryPoint = "getNextDirection"

var ErrLuaStrategy = errors.New("game: lua strategy")

// DefaultLuaStrategy chases the nearest target greedily. It is mostly useful as a
// template for user scripts.
const DefaultLuaStrategy = `
function getNextDirection(state)
	local head = state.head
	local best = nil
	local bestDistance = nil
	for _, t in ipairs(state.targets) do
		local d = math.abs(t.x - head.x) + math.abs(t.y - head.y)
		if bestDistance == nil or d < bestDistance then
			best = t
			bestDistance = d
		end
	end
	if best == nil then
		return {Dx=0, Dy=0}
	end
	if best.x > head.x then return {Dx=1, Dy=0} end
	if best.x < head.x then return {Dx=-1, Dy=0} end
	if best.y > head.y then return {Dx=0, Dy=1} end
	return {Dx=0, Dy=-1}
end
`

// LuaStrategy runs a user script exposing getNextDirection(state) which returns a
// table {Dx=..., Dy=...}. The state table carries head, body, targets, width,
// height, direction and moves.
type LuaStrategy struct {
	name      string
	luaState  *lua.LState
	entryFunc lua.LValue
	logger    *log.Logger
}

func NewLuaStrategy(name, definition string, logger *log.Logger) (*LuaStrategy, error) {
	if logger == nil {
		logger = log.Default()
	}
	luaState := lua.NewState()
	if err := luaState.DoString(definition); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("%w: could not parse %s: %v", ErrLuaStrategy, name, err)
	}

	entry := luaState.GetGlobal(luaEntryPoint)
	if entry.Type() != lua.LTFunction {
		luaState.Close()
		return nil, fmt.Errorf("%w: %s does not define %s", ErrLuaStrategy, name, luaEntryPoint)
	}

	return &LuaStrategy{name: name, luaState: luaState, entryFunc: entry, logger: logger}, nil
}

// LoadLuaStrategy reads a script from disk.
func LoadLuaStrategy(path string, logger *log.Logger) (*LuaStrategy, error) {
	definition, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLuaStrategy, err)
	}
	return NewLuaStrategy(strings.TrimSuffix(filepath.Base(path), ".lua"), string(definition), logger)
}

func (s *LuaStrategy) Name() string { return "lua:" + s.name }

func (s *LuaStrategy) Close() {
	s.luaState.Close()
}

func (s *LuaStrategy) getNextBestDirection(session *Session) Direction {
	dir, err := s.call(session)
	if err != nil {
		s.logger.Error("Lua strategy failed", "strategy", s.name, "error", err)
		return None
	}
	return dir
}

func (s *LuaStrategy) call(session *Session) (Direction, error) {
	L := s.luaState
	if err := L.CallByParam(lua.P{Fn: s.entryFunc, NRet: 1, Protect: true}, s.stateTable(session)); err != nil {
		return None, fmt.Errorf("%w: could not execute: %v", ErrLuaStrategy, err)
	}

	luaReturn := L.Get(-1)
	L.Pop(1)
	luaTable, ok := luaReturn.(*lua.LTable)
	if !ok {
		return None, fmt.Errorf("%w: return value was %s, expected table", ErrLuaStrategy, luaReturn.Type().String())
	}
	return convertLuaDirectionTableToGoStruct(luaTable), nil
}

func (s *LuaStrategy) stateTable(session *Session) *lua.LTable {
	L := s.luaState
	cells := session.body.Cells()

	state := L.NewTable()
	L.SetField(state, "head", s.coordinateTable(cells[0]))
	body := L.NewTable()
	for _, c := range cells {
		body.Append(s.coordinateTable(c))
	}
	L.SetField(state, "body", body)
	targets := L.NewTable()
	for _, c := range session.targets.Positions() {
		targets.Append(s.coordinateTable(c))
	}
	L.SetField(state, "targets", targets)
	L.SetField(state, "width", lua.LNumber(session.grid.Width))
	L.SetField(state, "height", lua.LNumber(session.grid.Height))
	L.SetField(state, "moves", lua.LNumber(session.movesSinceLastCapture))

	direction := L.NewTable()
	L.SetField(direction, "Dx", lua.LNumber(session.body.Direction().Dx))
	L.SetField(direction, "Dy", lua.LNumber(session.body.Direction().Dy))
	L.SetField(state, "direction", direction)
	return state
}

func (s *LuaStrategy) coordinateTable(c Coordinate) *lua.LTable {
	t := s.luaState.NewTable()
	s.luaState.SetField(t, "x", lua.LNumber(c.X))
	s.luaState.SetField(t, "y", lua.LNumber(c.Y))
	return t
}

func convertLuaDirectionTableToGoStruct(luaTbl *lua.LTable) Direction {
	result := Direction{}
	luaTbl.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}

		switch lua.LVAsString(key) {
		case "Dy":
			result.Dy = int(lua.LVAsNumber(value))
		case "Dx":
			result.Dx = int(lua.LVAsNumber(value))
		}
	})
	return result
}

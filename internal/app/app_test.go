package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mshel/autosnake/internal/config"
	"github.com/Mshel/autosnake/internal/game"
	"github.com/Mshel/autosnake/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSettings(s config.Settings) SettingsSource {
	return func() config.Settings { return s }
}

func TestNewGameFactory_AppliesSetup(t *testing.T) {
	newGame := NewGameFactory(staticSettings(config.Default()), nil, log.New(io.Discard))

	gm, err := newGame(ui.SetupSubmitMsg{Name: "ana", Speed: "FAST", Size: "SMALL", Fruits: "TWO", Autopilot: true})
	require.NoError(t, err)

	assert.Equal(t, "ana", gm.PlayerName)
	assert.Equal(t, "SMALL/FAST/TWO", gm.BoardName)
	snap := gm.Snapshot()
	assert.Equal(t, 8, snap.Width)
	assert.Equal(t, 8, snap.Height)
	assert.Len(t, snap.Targets, 2)
	assert.Equal(t, "pathfinder", snap.StrategyName)
}

func TestNewGameFactory_Manual(t *testing.T) {
	newGame := NewGameFactory(staticSettings(config.Default()), nil, log.New(io.Discard))

	gm, err := newGame(SetupDefaults(config.Default(), "bo"))
	require.NoError(t, err)
	assert.Empty(t, gm.Snapshot().StrategyName)
	assert.Equal(t, "MEDIUM/NORMAL/ONE", gm.BoardName)
}

func TestNewGameFactory_LuaAutopilot(t *testing.T) {
	script := filepath.Join(t.TempDir(), "greedy.lua")
	require.NoError(t, os.WriteFile(script, []byte(game.DefaultLuaStrategy), 0o644))

	settings := config.Default()
	settings.LuaScript = script
	newGame := NewGameFactory(staticSettings(settings), nil, log.New(io.Discard))

	gm, err := newGame(ui.SetupSubmitMsg{Name: "ana", Speed: "SLOW", Size: "MEDIUM", Fruits: "ONE", Autopilot: true})
	require.NoError(t, err)
	assert.Equal(t, "lua:greedy", gm.Snapshot().StrategyName)
}

func TestNewGameFactory_Errors(t *testing.T) {
	newGame := NewGameFactory(staticSettings(config.Default()), nil, log.New(io.Discard))
	_, err := newGame(ui.SetupSubmitMsg{Name: "ana", Speed: "WARP", Size: "SMALL", Fruits: "ONE"})
	assert.ErrorIs(t, err, config.ErrInvalidSettings)

	settings := config.Default()
	settings.LuaScript = filepath.Join(t.TempDir(), "missing.lua")
	newGame = NewGameFactory(staticSettings(settings), nil, log.New(io.Discard))
	_, err = newGame(ui.SetupSubmitMsg{Name: "ana", Speed: "SLOW", Size: "SMALL", Fruits: "ONE", Autopilot: true})
	assert.ErrorIs(t, err, game.ErrLuaStrategy)
}

// Package app wires settings, persistence and strategies into the games the
// terminal front ends start.
package app

import (
	"fmt"

	"github.com/Mshel/autosnake/internal/config"
	"github.com/Mshel/autosnake/internal/game"
	"github.com/Mshel/autosnake/internal/ui"
	"github.com/charmbracelet/log"
)

// SettingsSource returns the settings new games should use. Servers hand in a
// getter backed by the hot-reloaded settings.
type SettingsSource func() config.Settings

// SetupDefaults pre-fills the setup form from settings.
func SetupDefaults(settings config.Settings, playerName string) ui.SetupSubmitMsg {
	return ui.SetupSubmitMsg{
		Name:      playerName,
		Speed:     settings.Speed,
		Size:      settings.Size,
		Fruits:    settings.Fruits,
		Autopilot: settings.Autopilot,
	}
}

// NewGameFactory builds a session and its GameManager for every submitted setup form.
func NewGameFactory(settings SettingsSource, recorder game.ScoreRecorder, logger *log.Logger) ui.GameFactory {
	if logger == nil {
		logger = log.Default()
	}
	return func(setup ui.SetupSubmitMsg) (*game.GameManager, error) {
		current := settings()
		current.Speed = setup.Speed
		current.Size = setup.Size
		current.Fruits = setup.Fruits
		current.Autopilot = setup.Autopilot
		if err := current.Validate(); err != nil {
			return nil, err
		}

		session, err := game.NewSession(current.Session(), game.WithSessionLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("new session for %s: %w", setup.Name, err)
		}

		gameManager := game.NewGameManager(session, current.TickDuration(), recorder, logger)
		gameManager.PlayerName = setup.Name
		gameManager.BoardName = current.BoardName()

		if current.Autopilot {
			strategy, err := newAutopilot(current, session, logger)
			if err != nil {
				return nil, err
			}
			gameManager.SetAutopilot(strategy)
		}
		return gameManager, nil
	}
}

// newAutopilot prefers the configured Lua script over the built-in planner.
func newAutopilot(settings config.Settings, session *game.Session, logger *log.Logger) (game.Strategy, error) {
	if settings.LuaScript == "" {
		return session.NewAutopilot(), nil
	}
	strategy, err := game.LoadLuaStrategy(settings.LuaScript, logger)
	if err != nil {
		return nil, fmt.Errorf("load lua strategy %s: %w", settings.LuaScript, err)
	}
	return strategy, nil
}

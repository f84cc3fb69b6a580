// Package config loads the runtime settings of the autosnake binaries: game
// presets, autopilot selection, persistence and listener addresses.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings mirrors the YAML settings file. Zero values fall back to the defaults.
type Settings struct {
	Speed        string `yaml:"speed"`
	Size         string `yaml:"size"`
	Fruits       string `yaml:"fruits"`
	StepsPerCell int    `yaml:"steps_per_cell"`
	Seed         int64  `yaml:"seed"`

	Autopilot bool   `yaml:"autopilot"`
	LuaScript string `yaml:"lua_script"`

	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`
	SSHAddress  string `yaml:"ssh_address"`
	HostKeyPath string `yaml:"host_key_path"`
	HTTPAddress string `yaml:"http_address"`
}

func Default() Settings {
	return Settings{
		Speed:        game.DefaultSpeed,
		Size:         game.DefaultSize,
		Fruits:       game.DefaultFruits,
		StepsPerCell: game.DefaultStepsPerCell,
		DBPath:       game.DefaultDBPath,
		LogLevel:     "info",
		SSHAddress:   "0.0.0.0:6996",
		HostKeyPath:  ".ssh/id_ed25519",
		HTTPAddress:  ":38870",
	}
}

// Load reads path over the defaults, then applies AUTOSNAKE_* environment
// overrides. A missing file is not an error.
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Debug("Settings file not found, using defaults", "path", path)
		case err != nil:
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &settings); err != nil {
				return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
			}
		}
	}

	if err := settings.applyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	settings.normalize()
	return settings, settings.Validate()
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"AUTOSNAKE_SPEED":         &s.Speed,
		"AUTOSNAKE_SIZE":          &s.Size,
		"AUTOSNAKE_FRUITS":        &s.Fruits,
		"AUTOSNAKE_LUA_SCRIPT":    &s.LuaScript,
		"AUTOSNAKE_DB_PATH":       &s.DBPath,
		"AUTOSNAKE_LOG_LEVEL":     &s.LogLevel,
		"AUTOSNAKE_SSH_ADDRESS":   &s.SSHAddress,
		"AUTOSNAKE_HOST_KEY_PATH": &s.HostKeyPath,
		"AUTOSNAKE_HTTP_ADDRESS":  &s.HTTPAddress,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	if v, ok := lookup("AUTOSNAKE_AUTOPILOT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: AUTOSNAKE_AUTOPILOT=%q", ErrInvalidSettings, v)
		}
		s.Autopilot = b
	}
	if v, ok := lookup("AUTOSNAKE_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: AUTOSNAKE_SEED=%q", ErrInvalidSettings, v)
		}
		s.Seed = n
	}
	return nil
}

func (s *Settings) normalize() {
	s.Speed = strings.ToUpper(s.Speed)
	s.Size = strings.ToUpper(s.Size)
	s.Fruits = strings.ToUpper(s.Fruits)
	if s.StepsPerCell == 0 {
		s.StepsPerCell = game.DefaultStepsPerCell
	}
}

func (s Settings) Validate() error {
	if _, ok := game.SpeedPresets[s.Speed]; !ok {
		return fmt.Errorf("%w: unknown speed %q", ErrInvalidSettings, s.Speed)
	}
	if _, ok := game.SizePresets[s.Size]; !ok {
		return fmt.Errorf("%w: unknown size %q", ErrInvalidSettings, s.Size)
	}
	if _, ok := game.FruitPresets[s.Fruits]; !ok {
		return fmt.Errorf("%w: unknown fruits %q", ErrInvalidSettings, s.Fruits)
	}
	if s.StepsPerCell < 1 {
		return fmt.Errorf("%w: steps_per_cell %d", ErrInvalidSettings, s.StepsPerCell)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidSettings, s.LogLevel)
	}
	return nil
}

// Session converts the presets into a game configuration.
func (s Settings) Session() game.SessionConfig {
	size := game.SizePresets[s.Size]
	return game.SessionConfig{
		Width:        size[0],
		Height:       size[1],
		Fruits:       game.FruitPresets[s.Fruits],
		StepsPerCell: s.StepsPerCell,
		Seed:         s.Seed,
	}
}

func (s Settings) TickDuration() time.Duration {
	return game.TickDuration(game.SpeedPresets[s.Speed])
}

// BoardName labels scores with the presets they were played on.
func (s Settings) BoardName() string {
	return s.Size + "/" + s.Speed + "/" + s.Fruits
}

// Level returns the configured log level. Settings are validated on load.
func (s Settings) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

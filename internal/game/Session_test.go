package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSession(t *testing.T, cfg SessionConfig, opts ...SessionOption) *Session {
	t.Helper()
	opts = append([]SessionOption{WithSessionLogger(log.New(io.Discard))}, opts...)
	s, err := NewSession(cfg, opts...)
	require.NoError(t, err)
	return s
}

func TestSessionConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		cfg  SessionConfig
	}{
		{"Narrow", SessionConfig{Width: 2, Height: 5, Fruits: 1, StepsPerCell: 1}},
		{"NoFruit", SessionConfig{Width: 5, Height: 5, Fruits: 0, StepsPerCell: 1}},
		{"NoSteps", SessionConfig{Width: 5, Height: 5, Fruits: 1, StepsPerCell: 0}},
		{"NoRoom", SessionConfig{Width: 3, Height: 1, Fruits: 1, StepsPerCell: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSession(tc.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultSessionConfig().Validate())
}

func TestNewSession_Defaults(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Seed = 9
	s := quietSession(t, cfg)

	assert.Equal(t, []Coordinate{{X: 5, Y: 4}, {X: 4, Y: 4}, {X: 3, Y: 4}}, s.Body().Cells())
	assert.Len(t, s.Targets(), 1)
	assert.NotContains(t, s.Body().Cells(), s.Targets()[0])
	assert.Equal(t, StatePlaying, s.State())
	assert.Nil(t, s.Strategy())

	_, err := NewSession(cfg, WithBody([]Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 1, Y: 0}}))
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestSession_CaptureGrowAndDie(t *testing.T) {
	cfg := SessionConfig{Width: 8, Height: 8, Fruits: 1, StepsPerCell: 1, Seed: 1}
	s := quietSession(t, cfg, WithBody([]Coordinate{{X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}))
	s.targets.positions = []Coordinate{{X: 5, Y: 1}}

	require.True(t, s.Steer(Right))
	assert.Equal(t, StatePlaying, s.Tick())
	assert.Equal(t, 1, s.MovesSinceLastCapture())

	s.Tick()
	assert.Equal(t, 1, s.Score())
	assert.Zero(t, s.MovesSinceLastCapture())
	assert.True(t, s.Body().GrowthPending())
	require.Len(t, s.Targets(), 1, "a replacement fruit is spawned")
	assert.NotContains(t, s.Body().Cells(), s.Targets()[0])
	s.targets.positions = []Coordinate{{X: 0, Y: 7}}

	s.Tick()
	assert.Equal(t, 3, s.Body().Len())
	s.Tick()
	assert.Equal(t, 4, s.Body().Len())
	assert.Equal(t, s.Score()+MinBodyLength, s.Body().Len())

	assert.Equal(t, StateDead, s.Tick(), "head left the board")
	assert.Equal(t, StateDead, s.Tick())
	assert.False(t, s.Steer(Down))
}

func TestSession_SelfCollision(t *testing.T) {
	cfg := SessionConfig{Width: 6, Height: 6, Fruits: 1, StepsPerCell: 1, Seed: 1}
	s := quietSession(t, cfg, WithBody([]Coordinate{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}))
	s.targets.positions = []Coordinate{{X: 5, Y: 5}}

	// heading down from (1,1) lands on (1,2) just as the tail segment moves into it
	require.True(t, s.Steer(Down))
	assert.Equal(t, StateDead, s.Tick())
}

func TestSession_WinsWhenBoardIsFull(t *testing.T) {
	cfg := SessionConfig{Width: 3, Height: 2, Fruits: 2, StepsPerCell: 1, Seed: 1}
	s := quietSession(t, cfg, WithBody([]Coordinate{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}}))
	require.ElementsMatch(t, []Coordinate{{X: 0, Y: 0}, {X: 0, Y: 1}}, s.Targets())

	require.True(t, s.Steer(Left))
	require.Equal(t, StatePlaying, s.Tick())
	assert.Equal(t, 1, s.Score())
	assert.ElementsMatch(t, []Coordinate{{X: 0, Y: 1}, {X: 1, Y: 1}}, s.Targets())

	// the second capture finds only the cell reserved for the pending segment
	require.True(t, s.Steer(Down))
	require.Equal(t, StatePlaying, s.Tick())
	assert.Equal(t, 2, s.Score())
	assert.Equal(t, []Coordinate{{X: 1, Y: 1}}, s.Targets())
	assert.Equal(t, 1, s.targets.Wanted())

	require.True(t, s.Steer(Right))
	assert.Equal(t, StateWon, s.Tick())
	assert.Equal(t, 3, s.Score())
	assert.Empty(t, s.Targets())
	assert.Equal(t, 5, s.Body().Len())
}

func TestSession_AutopilotSnapshot(t *testing.T) {
	cfg := SessionConfig{Width: 8, Height: 8, Fruits: 1, StepsPerCell: 4, Seed: 3}
	s := quietSession(t, cfg)
	s.SetStrategy(s.NewAutopilot())

	s.Tick()
	snap := s.Snapshot()
	assert.Equal(t, "pathfinder", snap.StrategyName)
	assert.NotEqual(t, TierNone, snap.LastTier)
	assert.Equal(t, MotionInterpolating, snap.Motion)
	assert.InDelta(t, 0.25, snap.Progress, 1e-9)
	assert.Len(t, snap.Positions, 3)
	assert.Len(t, snap.SegmentDirections, 3)
	assert.Equal(t, 8, snap.Width)
	assert.NotEqual(t, None, snap.Direction)
}

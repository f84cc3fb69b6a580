package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

var ErrInvalidConfig = errors.New("game: invalid session config")

// GameState is the outcome state of a session.
type GameState int

const (
	StatePlaying GameState = iota
	StateDead
	StateWon
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	case StateWon:
		return "won"
	}
	return "unknown"
}

// SessionConfig carries the presets of one game as explicit parameters.
type SessionConfig struct {
	Width        int
	Height       int
	Fruits       int
	StepsPerCell int
	// Seed drives fruit placement and the planner shuffle. Zero means time based.
	Seed int64
}

func DefaultSessionConfig() SessionConfig {
	size := SizePresets[DefaultSize]
	return SessionConfig{
		Width:        size[0],
		Height:       size[1],
		Fruits:       FruitPresets[DefaultFruits],
		StepsPerCell: DefaultStepsPerCell,
	}
}

func (c SessionConfig) Validate() error {
	if c.Width < MinBodyLength || c.Height < 1 {
		return fmt.Errorf("%w: board %dx%d too small", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Fruits < 1 {
		return fmt.Errorf("%w: fruits %d", ErrInvalidConfig, c.Fruits)
	}
	if c.StepsPerCell < 1 {
		return fmt.Errorf("%w: steps per cell %d", ErrInvalidConfig, c.StepsPerCell)
	}
	if c.Width*c.Height <= MinBodyLength {
		return fmt.Errorf("%w: no room for fruit on %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// Session is one game: the body, the fruits and the collision and scoring rules.
// It is not safe for concurrent use; GameManager serializes access.
type Session struct {
	grid     Grid
	body     *Body
	targets  *TargetSet
	strategy Strategy
	rng      *rand.Rand
	logger   *log.Logger

	state                 GameState
	score                 int
	movesSinceLastCapture int
	ticks                 int
}

type SessionOption func(*Session)

func WithStrategy(strategy Strategy) SessionOption {
	return func(s *Session) { s.strategy = strategy }
}

func WithSessionLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBody replaces the default starting body.
func WithBody(cells []Coordinate) SessionOption {
	return func(s *Session) {
		s.body = &Body{cells: cells}
	}
}

func NewSession(cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		grid:   grid,
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	startCells := StartingBody(grid)
	if s.body != nil {
		startCells = s.body.cells
	}
	s.body, err = NewBody(grid, startCells, cfg.StepsPerCell)
	if err != nil {
		return nil, err
	}

	s.targets = NewTargetSet(cfg.Fruits, s.rng)
	s.targets.Fill(grid, s.body.cells)
	return s, nil
}

// StartingBody is three cells facing right, at (5,4) when the board allows it.
func StartingBody(grid Grid) []Coordinate {
	head := Coordinate{X: min(5, grid.Width-1), Y: min(4, grid.Height/2)}
	return []Coordinate{head, {X: head.X - 1, Y: head.Y}, {X: head.X - 2, Y: head.Y}}
}

// NewAutopilot builds the default planner strategy for this session's grid, sharing
// the session's random source.
func (s *Session) NewAutopilot() *PlannerStrategy {
	return NewPlannerStrategy(NewPathPlanner(s.grid, WithRand(s.rng), WithLogger(s.logger)))
}

func (s *Session) SetStrategy(strategy Strategy) { s.strategy = strategy }
func (s *Session) Strategy() Strategy           { return s.strategy }
func (s *Session) Grid() Grid                   { return s.grid }
func (s *Session) Body() *Body                  { return s.body }
func (s *Session) State() GameState             { return s.state }
func (s *Session) Score() int                   { return s.score }
func (s *Session) MovesSinceLastCapture() int   { return s.movesSinceLastCapture }
func (s *Session) Targets() []Coordinate        { return s.targets.Positions() }

// Steer forwards a manual direction request through the alignment gate.
func (s *Session) Steer(d Direction) bool {
	if s.state != StatePlaying {
		return false
	}
	return s.body.Steer(d)
}

// Tick advances the session by one frame. The strategy, if any, is consulted at
// every aligned event before the body starts its next traversal.
func (s *Session) Tick() GameState {
	if s.state != StatePlaying {
		return s.state
	}
	s.ticks++

	if s.strategy != nil && s.body.State() != MotionInterpolating {
		if d := s.strategy.getNextBestDirection(s); d != None {
			s.body.Steer(d)
		}
	}

	if s.body.Tick() {
		s.resolveArrival()
	}
	return s.state
}

// resolveArrival applies collisions and captures once the head sits on a new cell.
func (s *Session) resolveArrival() {
	head := s.body.Head()
	if !s.grid.InBounds(head) || s.body.SelfCollision() {
		s.state = StateDead
		s.logger.Info("Snake died", "head", head, "score", s.score, "ticks", s.ticks)
		return
	}

	index := s.targets.IndexOf(head)
	if index < 0 {
		s.movesSinceLastCapture++
		return
	}

	s.body.Grow()
	s.targets.Remove(index)
	s.score++
	s.movesSinceLastCapture = 0
	s.targets.Respawn(s.grid, s.body.reservedCells())

	if s.targets.Wanted() == 0 {
		s.state = StateWon
		s.logger.Info("Board filled", "score", s.score, "ticks", s.ticks)
	}
}

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	Width                 int
	Height                int
	Cells                 []Coordinate
	Positions             []Position
	SegmentDirections     []Direction
	Direction             Direction
	Motion                MotionState
	Progress              float64
	Targets               []Coordinate
	Score                 int
	MovesSinceLastCapture int
	State                 GameState
	StrategyName          string
	LastTier              Tier
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:                 s.grid.Width,
		Height:                s.grid.Height,
		Cells:                 s.body.Cells(),
		Positions:             s.body.Positions(),
		SegmentDirections:     s.body.SegmentDirections(),
		Direction:             s.body.Direction(),
		Motion:                s.body.State(),
		Progress:              s.body.Progress(),
		Targets:               s.targets.Positions(),
		Score:                 s.score,
		MovesSinceLastCapture: s.movesSinceLastCapture,
		State:                 s.state,
	}
	if s.strategy != nil {
		snap.StrategyName = s.strategy.Name()
	}
	if planner, ok := s.strategy.(*PlannerStrategy); ok {
		snap.LastTier = planner.LastDecision().Tier
	}
	return snap
}

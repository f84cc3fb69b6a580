package game

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// GameTickMsg carries the state after a game tick to the UI.
type GameTickMsg struct {
	Snapshot Snapshot
}

// GameOverMsg is sent once when the session ends, after the score was recorded.
type GameOverMsg struct {
	Snapshot Snapshot
	Player   string
}

// ScoreRecorder persists finished sessions.
type ScoreRecorder interface {
	SavePlayersHighScore(entry Score) error
}

// GameManager drives one Session on a ticker, the way a frame clock would, and
// fans its state out to the UI through UpdateChannel.
type GameManager struct {
	DirectionChannel chan Direction
	UpdateChannel    chan tea.Msg

	PlayerName string
	BoardName  string

	session      *Session
	sessionMutex sync.RWMutex
	tickDuration time.Duration
	recorder     ScoreRecorder
	autopilot    Strategy
	logger       *log.Logger

	runMutex  sync.Mutex
	isRunning bool
}

func NewGameManager(session *Session, tickDuration time.Duration, recorder ScoreRecorder, logger *log.Logger) *GameManager {
	if logger == nil {
		logger = log.Default()
	}
	return &GameManager{
		DirectionChannel: make(chan Direction, 10),
		UpdateChannel:    make(chan tea.Msg, 16),
		session:          session,
		tickDuration:     tickDuration,
		recorder:         recorder,
		logger:           logger,
	}
}

// Snapshot returns the current state under the read lock.
func (gm *GameManager) Snapshot() Snapshot {
	gm.sessionMutex.RLock()
	defer gm.sessionMutex.RUnlock()
	return gm.session.Snapshot()
}

// SetAutopilot attaches (or with nil, detaches) the strategy that steers the snake.
func (gm *GameManager) SetAutopilot(strategy Strategy) {
	gm.sessionMutex.Lock()
	defer gm.sessionMutex.Unlock()
	gm.session.SetStrategy(strategy)
}

// ToggleAutopilot switches between manual control and the session's path planner.
func (gm *GameManager) ToggleAutopilot() bool {
	gm.sessionMutex.Lock()
	defer gm.sessionMutex.Unlock()
	if gm.session.Strategy() != nil {
		gm.autopilot = gm.session.Strategy()
		gm.session.SetStrategy(nil)
		return false
	}
	if gm.autopilot == nil {
		gm.autopilot = gm.session.NewAutopilot()
	}
	gm.session.SetStrategy(gm.autopilot)
	return true
}

func (gm *GameManager) IsRunning() bool {
	gm.runMutex.Lock()
	defer gm.runMutex.Unlock()
	return gm.isRunning
}

// StartGameLoop blocks until the session ends or ctx is cancelled.
func (gm *GameManager) StartGameLoop(ctx context.Context) {
	gm.runMutex.Lock()
	if gm.isRunning {
		gm.runMutex.Unlock()
		return
	}
	gm.isRunning = true
	gm.runMutex.Unlock()

	defer func() {
		gm.releaseStrategies()
		gm.runMutex.Lock()
		gm.isRunning = false
		gm.runMutex.Unlock()
	}()

	gm.logger.Info("Game loop started", "player", gm.PlayerName, "tick", gm.tickDuration)
	ticker := time.NewTicker(gm.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.logger.Info("Game loop stopped", "player", gm.PlayerName)
			return
		case dir := <-gm.DirectionChannel:
			gm.processPlayerInput(dir)
		case <-ticker.C:
			snapshot, over := gm.processGameTick()
			if over {
				gm.finish(ctx, snapshot)
				return
			}
			gm.publish(GameTickMsg{Snapshot: snapshot})
		}
	}
}

func (gm *GameManager) processPlayerInput(dir Direction) {
	gm.sessionMutex.Lock()
	defer gm.sessionMutex.Unlock()
	gm.session.Steer(dir)
}

func (gm *GameManager) processGameTick() (Snapshot, bool) {
	gm.sessionMutex.Lock()
	defer gm.sessionMutex.Unlock()
	state := gm.session.Tick()
	return gm.session.Snapshot(), state != StatePlaying
}

// publish drops tick updates the UI has not caught up with; the next tick carries
// the full state anyway.
func (gm *GameManager) publish(msg tea.Msg) {
	select {
	case gm.UpdateChannel <- msg:
	default:
	}
}

func (gm *GameManager) finish(ctx context.Context, snapshot Snapshot) {
	if gm.recorder != nil {
		err := gm.recorder.SavePlayersHighScore(Score{
			PlayerName: gm.PlayerName,
			Score:      snapshot.Score,
			Length:     len(snapshot.Cells),
			Board:      gm.BoardName,
			Autopilot:  snapshot.StrategyName != "",
			Won:        snapshot.State == StateWon,
		})
		if err != nil {
			gm.logger.Error("High score persist failed", "player", gm.PlayerName, "error", err)
		}
	}

	select {
	case gm.UpdateChannel <- GameOverMsg{Snapshot: snapshot, Player: gm.PlayerName}:
	case <-ctx.Done():
	}
}

// releaseStrategies frees scripted strategies once the loop is over.
func (gm *GameManager) releaseStrategies() {
	gm.sessionMutex.Lock()
	defer gm.sessionMutex.Unlock()
	seen := map[Strategy]bool{}
	for _, strategy := range []Strategy{gm.session.Strategy(), gm.autopilot} {
		if strategy == nil || seen[strategy] {
			continue
		}
		seen[strategy] = true
		if closer, ok := strategy.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

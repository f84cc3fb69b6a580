package ui

import (
	"context"

	"github.com/Mshel/autosnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int // 0 for Play, 1 for Leaderboard
type SetupSubmitMsg struct {
	Name      string
	Speed     string
	Size      string
	Fruits    string
	Autopilot bool
}

type ShowLeaderboardMsg struct{}

// QuitGameMsg sends the controller back to the intro screen.
type QuitGameMsg struct{}

// GameFactory builds a game for the options chosen on the setup screen.
type GameFactory func(setup SetupSubmitMsg) (*game.GameManager, error)

// ScoreBoard is the read side of the high score store.
type ScoreBoard interface {
	GetHighScores(limit, offset int) ([]game.Score, error)
}

type ControllerModel struct {
	CurrentScreen Screen

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	ctx          context.Context
	cancelGame   context.CancelFunc
	newGame      GameFactory
	scores       ScoreBoard
	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(ctx context.Context, newGame GameFactory, scores ScoreBoard, defaults SetupSubmitMsg, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(defaults, screenWidth, screenHeight),

		ctx:          ctx,
		newGame:      newGame,
		scores:       scores,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.CurrentScreen != SetupScreen) {
			m.stopGame()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, _ = m.GameModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		} else if msg == 1 {
			m.CurrentScreen = GameScreen
			m.GameModel = NewLeaderboardModel(m.scores, m.ScreenWidth, m.ScreenHeight)
			return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })
		}

	case SetupSubmitMsg:
		gameManager, err := m.newGame(msg)
		if err != nil {
			log.Error("Could not create game", "player", msg.Name, "error", err)
			return m, tea.Quit
		}
		m.stopGame()
		var gameCtx context.Context
		gameCtx, m.cancelGame = context.WithCancel(m.ctx)
		go gameManager.StartGameLoop(gameCtx)

		m.CurrentScreen = GameScreen
		m.GameModel = NewGameModel(gameManager, m.scores, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()

	case QuitGameMsg:
		m.stopGame()
		m.CurrentScreen = IntroScreen
		m.GameModel = nil
		return m, m.IntroModel.Init()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case SetupScreen:
			m.SetupModel, cmd = m.SetupModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			if m.GameModel != nil {
				m.GameModel, cmd = m.GameModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *ControllerModel) stopGame() {
	if m.cancelGame != nil {
		m.cancelGame()
		m.cancelGame = nil
	}
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/autosnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// --- Internal view states for GameViewModel ---

type ViewState int

const (
	StatePlaying ViewState = iota
	StateGameOver
	StateLeaderboard
)

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	lightTile = lipgloss.Color("234")
	darkTile  = lipgloss.Color("233")

	snakeColor = lipgloss.Color("70")
	headColor  = lipgloss.Color("118")
	fruitColor = lipgloss.Color("196")

	headRunes = map[game.Direction]string{
		game.Up:    "▲",
		game.Down:  "▼",
		game.Left:  "◀",
		game.Right: "▶",
		game.None:  "■",
	}

	fruitRune = "●"
)

const statusPanelWidth = 34

// --- GameViewModel Definition ---

type GameViewModel struct {
	tea.Model
	TickCount    int
	ScreenWidth  int
	ScreenHeight int
	gameManager  *game.GameManager // nil if viewing leaderboard from IntroScreen
	snapshot     game.Snapshot

	gameState     ViewState
	gameOverState GameOverState
}

func NewGameModel(gm *game.GameManager, scores ScoreBoard, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		gameManager:  gm,
		snapshot:     gm.Snapshot(),
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			Scores:         scores,
			ScreenWidth:    screenWidth,
			ScreenHeight:   screenHeight,
			SelectedButton: 0,
		},
	}
}

// NewLeaderboardModel shows only the high score table, without a running game.
func NewLeaderboardModel(scores ScoreBoard, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StateLeaderboard,
		gameOverState: GameOverState{
			Scores:       scores,
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
}

// --- Init/Update/View Methods ---

func (m GameViewModel) Init() tea.Cmd {
	if m.gameManager == nil {
		return nil
	}
	return m.listenForGameUpdates()
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.gameOverState.ScreenWidth, m.gameOverState.ScreenHeight = msg.Width, msg.Height
		return m, nil

	case ShowLeaderboardMsg:
		m.gameState = StateLeaderboard
		return m, nil

	case tea.KeyMsg:
		if m.gameState == StateGameOver || m.gameState == StateLeaderboard {
			return m.updateMenus(msg)
		}

		var engineCommand game.Direction
		switch msg.String() {
		case "w", "up":
			engineCommand = game.Up
		case "s", "down":
			engineCommand = game.Down
		case "a", "left":
			engineCommand = game.Left
		case "d", "right":
			engineCommand = game.Right
		case "p":
			enabled := m.gameManager.ToggleAutopilot()
			log.Debug("Autopilot toggled", "player", m.gameManager.PlayerName, "enabled", enabled)
			return m, nil
		default:
			return m, nil
		}

		// The reversal check happens in the body; a full channel just drops the key.
		select {
		case m.gameManager.DirectionChannel <- engineCommand:
		default:
		}
		return m, nil

	case game.GameTickMsg:
		m.TickCount++
		m.snapshot = msg.Snapshot
		return m, m.listenForGameUpdates()

	case game.GameOverMsg:
		log.Info("Game finished, showing Game Over screen.", "player", msg.Player, "state", msg.Snapshot.State, "score", msg.Snapshot.Score)
		m.snapshot = msg.Snapshot
		m.gameState = StateGameOver
		m.gameOverState.Final = msg.Snapshot
		m.gameOverState.SelectedButton = 0
		return m, nil
	}

	return m, nil
}

func (m GameViewModel) updateMenus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	backFromLeaderboard := func() (tea.Model, tea.Cmd) {
		if m.gameManager != nil {
			m.gameState = StateGameOver
			return m, nil
		}
		return m, func() tea.Msg { return QuitGameMsg{} }
	}

	switch msg.String() {
	case "esc":
		if m.gameState == StateLeaderboard {
			return backFromLeaderboard()
		}
		return m, func() tea.Msg { return QuitGameMsg{} }
	case "left", "h":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
		}
	case "right", "l":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
		}
	case "enter":
		switch m.gameState {
		case StateGameOver:
			// 0: Exit, 1: Leaderboard
			if m.gameOverState.SelectedButton == 0 {
				return m, func() tea.Msg { return QuitGameMsg{} }
			}
			m.gameState = StateLeaderboard
		case StateLeaderboard:
			return backFromLeaderboard()
		}
	}
	return m, nil
}

func (m GameViewModel) View() string {
	switch m.gameState {
	case StateGameOver:
		return m.gameOverState.RenderGameOverScreen()
	case StateLeaderboard:
		return m.gameOverState.RenderLeaderboardScreen()
	}

	mapContent := m.renderMap(m.snapshot)
	statusContent := m.renderStatusPanel(m.snapshot)

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Render(mapContent),
		statusPanelStyle.Width(statusPanelWidth).Render(statusContent),
	)
	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, board)
}

// renderMap draws the board two terminal columns per cell so squares look square.
func (m GameViewModel) renderMap(snap game.Snapshot) string {
	if snap.Width == 0 || snap.Height == 0 {
		return "Waiting for game manager..."
	}

	bodyIndex := make(map[game.Coordinate]int, len(snap.Cells))
	for i, c := range snap.Cells {
		bodyIndex[c] = i
	}
	fruits := make(map[game.Coordinate]bool, len(snap.Targets))
	for _, t := range snap.Targets {
		fruits[t] = true
	}

	var sb strings.Builder
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			c := game.Coordinate{X: x, Y: y}
			background := lightTile
			if (x+y)%2 == 1 {
				background = darkTile
			}
			tileStyle := lipgloss.NewStyle().Background(background)

			if i, ok := bodyIndex[c]; ok {
				if i == 0 {
					sb.WriteString(tileStyle.Foreground(headColor).Bold(true).Render(headRunes[snap.Direction] + " "))
				} else {
					sb.WriteString(tileStyle.Foreground(snakeColor).Render(bodyRunes(snap.Cells, i)))
				}
				continue
			}
			if fruits[c] {
				sb.WriteString(tileStyle.Foreground(fruitColor).Render(fruitRune + " "))
				continue
			}
			sb.WriteString(tileStyle.Render("  "))
		}
		if y < snap.Height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// bodyRunes picks the box-drawing glyph for segment i from its neighbours in the
// body; the second column carries the horizontal connection to the right.
func bodyRunes(cells []game.Coordinate, i int) string {
	hasUp, hasDown, hasLeft, hasRight := false, false, false, false
	mark := func(n game.Coordinate) {
		switch cells[i].Sub(n) {
		case game.Down:
			hasUp = true
		case game.Up:
			hasDown = true
		case game.Right:
			hasLeft = true
		case game.Left:
			hasRight = true
		}
	}
	mark(cells[i-1])
	if i+1 < len(cells) {
		mark(cells[i+1])
	}

	var tailRune string
	switch {
	case (hasUp && hasDown) || (hasUp && !hasLeft && !hasRight && !hasDown) || (hasDown && !hasLeft && !hasRight && !hasUp):
		tailRune = "│"
	case (hasLeft && hasRight) || (hasLeft && !hasUp && !hasDown && !hasRight) || (hasRight && !hasUp && !hasDown && !hasLeft):
		tailRune = "─"
	case hasUp && hasRight:
		tailRune = "└"
	case hasUp && hasLeft:
		tailRune = "┘"
	case hasDown && hasRight:
		tailRune = "┌"
	case hasDown && hasLeft:
		tailRune = "┐"
	default:
		tailRune = "•"
	}

	if hasRight {
		return tailRune + "─"
	}
	return tailRune + " "
}

// renderStatusPanel draws the score, the control mode and the key bindings.
func (m GameViewModel) renderStatusPanel(snap game.Snapshot) string {
	var statusContent strings.Builder

	statusContent.WriteString(lipgloss.NewStyle().Bold(true).Render("--- Player Stats ---") + "\n")
	colorStyle := lipgloss.NewStyle().Foreground(snakeColor)
	statusContent.WriteString(fmt.Sprintf("%s%s\n", colorStyle.Render("● "), m.gameManager.PlayerName))
	statusContent.WriteString(fmt.Sprintf("Board: %s\n", m.gameManager.BoardName))
	statusContent.WriteString(fmt.Sprintf("Score: %d\n", snap.Score))
	statusContent.WriteString(fmt.Sprintf("Length: %d\n", len(snap.Cells)))
	statusContent.WriteString(fmt.Sprintf("Fruits: %d\n", len(snap.Targets)))
	statusContent.WriteString(fmt.Sprintf("Moves since fruit: %d\n", snap.MovesSinceLastCapture))
	statusContent.WriteString(fmt.Sprintf("Direction: %s\n", headRunes[snap.Direction]))

	statusContent.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Control ---") + "\n")
	if snap.StrategyName == "" {
		statusContent.WriteString("Mode: manual\n")
	} else {
		statusContent.WriteString(fmt.Sprintf("Mode: autopilot (%s)\n", snap.StrategyName))
		if snap.LastTier != game.TierNone {
			statusContent.WriteString(fmt.Sprintf("Last decision: %s\n", snap.LastTier))
		}
	}
	statusContent.WriteString(fmt.Sprintf("Motion: %s %3.0f%%\n", snap.Motion, snap.Progress*100))

	statusContent.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Controls ---") + "\n")
	statusContent.WriteString("WASD / Arrows: Move\n")
	statusContent.WriteString("P: Toggle autopilot\n")
	statusContent.WriteString("Q / Ctrl+C: Quit Game\n")

	return statusContent.String()
}

// listenForGameUpdates polls the manager's channel, keeping only the newest tick
// but never skipping the final GameOverMsg.
func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	gm := m.gameManager
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		var latest tea.Msg
		for {
			select {
			case msg := <-gm.UpdateChannel:
				if over, ok := msg.(game.GameOverMsg); ok {
					return over
				}
				latest = msg
			default:
				if latest == nil {
					return game.GameTickMsg{Snapshot: gm.Snapshot()}
				}
				return latest
			}
		}
	})
}

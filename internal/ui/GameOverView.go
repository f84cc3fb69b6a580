package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const leaderboardSize = 10

// GameOverState holds the data and local state for rendering the game over screens.
type GameOverState struct {
	Scores         ScoreBoard
	Final          game.Snapshot
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

// Styles for Game Over/Leaderboard
var (
	GameOverbuttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = GameOverbuttonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// RenderGameOverScreen draws the final message and buttons.
func (g *GameOverState) RenderGameOverScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Padding(2, 5).
		Align(lipgloss.Center)

	title := messageStyle.Render("💀 G A M E   O V E R 💀")
	if g.Final.State == game.StateWon {
		title = messageStyle.Foreground(lipgloss.Color("10")).Render("🏆 B O A R D   C L E A R E D 🏆")
	}

	stats := fmt.Sprintf("\nFinal Stats:\nScore: %d\nLength: %d\n\n", g.Final.Score, len(g.Final.Cells))

	exitButton := GameOverbuttonStyle.Render("EXIT (Enter)")
	leaderboardButton := GameOverbuttonStyle.Render("LEADERBOARD")

	if g.SelectedButton == 0 {
		exitButton = selectedButtonStyle.Render("EXIT (Enter)")
	} else {
		leaderboardButton = selectedButtonStyle.Render("LEADERBOARD")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, exitButton, leaderboardButton)

	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, buttons)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the persisted high score table.
func (g *GameOverState) RenderLeaderboardScreen() string {
	var tableContent strings.Builder

	var scores []game.Score
	if g.Scores != nil {
		var err error
		scores, err = g.Scores.GetHighScores(leaderboardSize, 0)
		if err != nil {
			log.Error("Could not load high scores", "error", err)
		}
	}

	nameWidth := 15
	scoreWidth := 7
	boardWidth := 20
	modeWidth := 6

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Player"),
		leaderboardHeaderStyle.Width(scoreWidth).Render("Score"),
		leaderboardHeaderStyle.Width(boardWidth).Render("Board"),
		leaderboardHeaderStyle.Width(modeWidth).Render("Mode"),
	)
	tableContent.WriteString(leaderboardBorderStyle.Render(header) + "\n")

	if len(scores) == 0 {
		tableContent.WriteString(leaderboardRowStyle.Render("No scores yet.") + "\n")
	}

	for i, score := range scores {
		mode := "hand"
		if score.Autopilot {
			mode = "auto"
		}
		name := score.PlayerName
		if score.Won {
			name += " 🏆"
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(nameWidth).Render(name),
			leaderboardRowStyle.Width(scoreWidth).Align(lipgloss.Right).Render(strconv.Itoa(score.Score)),
			leaderboardRowStyle.Width(boardWidth).Render(score.Board),
			leaderboardRowStyle.Width(modeWidth).Render(mode),
		)
		tableContent.WriteString(row + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("🏆 HIGH SCORES 🏆")
	help := lipgloss.NewStyle().Faint(true).Render("Press ESC/Enter to go back")

	content := lipgloss.JoinVertical(lipgloss.Center, title, tableContent.String(), help)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).Render(content),
	)
}

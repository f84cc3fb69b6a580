package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Mshel/autosnake/internal/app"
	"github.com/Mshel/autosnake/internal/config"
	"github.com/Mshel/autosnake/internal/game"
	"github.com/Mshel/autosnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	settingsPath := flag.String("config", "autosnake.yaml", "settings file")
	playerName := flag.String("name", os.Getenv("USER"), "player name")
	logPath := flag.String("log", "autosnake.log", "log file; the terminal belongs to the game")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{ReportTimestamp: true, Level: settings.Level()})
	log.SetDefault(logger)

	scores, err := game.NewHighScoreService(settings.DBPath, logger)
	if err != nil {
		logger.Fatal("Could not open high scores", "path", settings.DBPath, "error", err)
	}
	defer scores.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newGame := app.NewGameFactory(func() config.Settings { return settings }, scores, logger)
	controller := ui.NewControllerModel(ctx, newGame, scores, app.SetupDefaults(settings, *playerName), 0, 0)

	p := tea.NewProgram(controller, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error %v", err)
		os.Exit(1)
	}
}

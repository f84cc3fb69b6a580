package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshel/autosnake/internal/api"
	"github.com/Mshel/autosnake/internal/config"
	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	settingsPath := flag.String("config", "autosnake.yaml", "settings file")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal("Could not load settings", "path", *settingsPath, "error", err)
	}
	log.SetLevel(settings.Level())
	if settings.Level() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	var scores api.ScoreLister
	highScores, err := game.NewHighScoreService(settings.DBPath, log.Default())
	if err != nil {
		log.Warn("High scores unavailable", "path", settings.DBPath, "error", err)
	} else {
		defer highScores.Close()
		scores = highScores
	}

	httpServer := &http.Server{
		Addr:              settings.HTTPAddress,
		Handler:           api.NewRouter(api.NewHandler(scores, log.Default())),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting planner service", "address", settings.HTTPAddress)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping planner service")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Could not stop server", "error", err)
	}
}

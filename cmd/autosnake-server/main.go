package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Mshel/autosnake/internal/app"
	"github.com/Mshel/autosnake/internal/config"
	"github.com/Mshel/autosnake/internal/game"
	"github.com/Mshel/autosnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const maxConnectionsPerIP = 2

var (
	ipCounter = make(map[string]int)
	ipMutex   sync.Mutex
)

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// acquireIP counts a new connection unless the IP is already at the limit.
func acquireIP(ip string) (int, bool) {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	if ipCounter[ip] >= maxConnectionsPerIP {
		return ipCounter[ip], false
	}
	ipCounter[ip]++
	return ipCounter[ip], true
}

func releaseIP(ip string) int {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	ipCounter[ip]--
	if ipCounter[ip] <= 0 {
		delete(ipCounter, ip)
	}
	return ipCounter[ip]
}

func connectionLimiterMiddleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)

		count, ok := acquireIP(ip)
		if !ok {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", count+1, "current_limit", maxConnectionsPerIP)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", count+1, maxConnectionsPerIP)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		log.Info("Connection accepted", "ip", ip, "current_count", count, "limit", maxConnectionsPerIP)
		next(s)
		log.Info("Connection closed and counter decremented", "ip", ip, "count_after", releaseIP(ip))
	}
}

type server struct {
	settings atomic.Pointer[config.Settings]
	scores   *game.HighScoreService
}

func (srv *server) currentSettings() config.Settings {
	return *srv.settings.Load()
}

func (srv *server) viewHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()
	settings := srv.currentSettings()
	newGame := app.NewGameFactory(srv.currentSettings, srv.scores, log.Default())
	controllerModel := ui.NewControllerModel(sshSession.Context(), newGame, srv.scores,
		app.SetupDefaults(settings, sshSession.User()), pty.Window.Width, pty.Window.Height)

	return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
}

func main() {
	settingsPath := flag.String("config", "autosnake.yaml", "settings file")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal("Could not load settings", "path", *settingsPath, "error", err)
	}
	log.SetLevel(settings.Level())

	scores, err := game.NewHighScoreService(settings.DBPath, log.Default())
	if err != nil {
		log.Fatal("Could not open high scores", "path", settings.DBPath, "error", err)
	}
	defer scores.Close()

	srv := &server{scores: scores}
	srv.settings.Store(&settings)

	ctx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	go func() {
		err := config.Watch(ctx, *settingsPath, func(next config.Settings) {
			log.SetLevel(next.Level())
			srv.settings.Store(&next)
		})
		if err != nil {
			log.Warn("Settings hot reload disabled", "error", err)
		}
	}()

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(settings.SSHAddress),
		wish.WithHostKeyPath(settings.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.viewHandler),
			logging.Middleware(),
			activeterm.Middleware(),
			connectionLimiterMiddleware,
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "address", settings.SSHAddress)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/geocache/internal/game"
	"github.com/Mshel/geocache/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const (
	host string = "0.0.0.0"
	port string = "6996"

	maxConnectionsPerIP = 2
)

// ipLimiter caps how many sessions one remote address may hold at once.
type ipLimiter struct {
	mu     sync.Mutex
	limit  int
	active map[string]int
}

func newIPLimiter(limit int) *ipLimiter {
	return &ipLimiter{limit: limit, active: make(map[string]int)}
}

func remoteIP(s ssh.Session) string {
	if tcpAddr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	return s.RemoteAddr().String()
}

// acquire counts a new connection from ip unless it is already at the limit.
func (l *ipLimiter) acquire(ip string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active[ip] >= l.limit {
		return l.active[ip], false
	}
	l.active[ip]++
	return l.active[ip], true
}

func (l *ipLimiter) release(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active[ip] <= 1 {
		delete(l.active, ip)
		return 0
	}
	l.active[ip]--
	return l.active[ip]
}

func (l *ipLimiter) middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := remoteIP(s)

		count, ok := l.acquire(ip)
		if !ok {
			log.Warn("Connection refused, too many sessions", "ip", ip, "active", count, "limit", l.limit)
			fmt.Fprintf(s, "You already have %d geocaching sessions open from this address. Close one and try again.\r\n", count)
			_ = s.Exit(1)
			return
		}

		log.Info("Connection accepted", "ip", ip, "active", count, "limit", l.limit)
		defer func() {
			log.Info("Connection closed", "ip", ip, "active", l.release(ip))
		}()
		next(s)
	}
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func main() {
	level, err := log.ParseLevel(envOr("GEOCACHE_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	tuning, err := game.ResolveTuning(os.Getenv("GEOCACHE_TUNING"))
	if err != nil {
		log.Fatal("Failed to load tuning", "error", err)
	}

	db, err := game.OpenDatabase(envOr("GEOCACHE_DB_PATH", game.DefaultDBPath))
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}
	defer db.Close()

	gameManager, err := game.NewGameManager(tuning, db)
	if err != nil {
		log.Fatal("Failed to prepare game", "error", err)
	}

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithHostKeyPath(envOr("GEOCACHE_PRIVATE_KEY_PATH", ".ssh/id_ed25519")),
		wish.WithMiddleware(
			bubbletea.Middleware(newViewHandler(gameManager)),
			releaseSessionMiddleware,
			logging.Middleware(),
			activeterm.Middleware(),
			newIPLimiter(maxConnectionsPerIP).middleware,
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

type sessionHolderKey struct{}

// newViewHandler gives every ssh session its own game; only the leaderboard
// and saved worlds are shared through gameManager.
func newViewHandler(gameManager *game.GameManager) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		controllerModel := ui.NewControllerModel(gameManager, nil, pty.Window.Width, pty.Window.Height)
		sshSession.Context().SetValue(sessionHolderKey{}, controllerModel.Sessions)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	}
}

// releaseSessionMiddleware closes the game once the program has stopped,
// including when the client drops the connection without quitting.
func releaseSessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		next(s)
		if holder, ok := s.Context().Value(sessionHolderKey{}).(*ui.SessionHolder); ok {
			holder.Release()
		}
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Mshel/geocache/internal/game"
	"github.com/Mshel/geocache/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	var (
		tuningPath = flag.String("tuning", os.Getenv("GEOCACHE_TUNING"), "path to tuning.yaml (optional)")
		dbPath     = flag.String("db", game.DefaultDBPath, "sqlite database for the leaderboard and saved worlds, empty to play in memory")
		gpsPath    = flag.String("gps", os.Getenv("GEOCACHE_GPS_FEED"), "file or named pipe with one lat,lng fix per line (optional)")
		logPath    = flag.String("log", "geocache.log", "log file, the terminal belongs to the game")
	)
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "geocache:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetLevel(log.DebugLevel)

	tuning, err := game.ResolveTuning(*tuningPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "geocache:", err)
		os.Exit(1)
	}

	gameManager, err := newGameManager(tuning, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "geocache:", err)
		os.Exit(1)
	}

	var geoFeed *game.GeoFeed
	var geoErr error
	if *gpsPath != "" {
		geoFeed, geoErr = game.OpenGeoFeed(*gpsPath, tuning.GeoTimeout())
		if geoErr != nil {
			game.LogGeoError(geoErr)
		} else {
			defer geoFeed.Close()
		}
	}

	controller := ui.NewControllerModel(gameManager, geoFeed, 0, 0)
	controller.GeoErr = geoErr
	defer controller.Sessions.Release()

	p := tea.NewProgram(controller, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "geocache:", err)
		os.Exit(1)
	}
}

func newGameManager(tuning game.Tuning, dbPath string) (*game.GameManager, error) {
	if dbPath == "" {
		return game.NewGameManager(tuning, nil)
	}
	db, err := game.OpenDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return game.NewGameManager(tuning, db)
}

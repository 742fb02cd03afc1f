package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/app"
	"github.com/minhvu/todopad/internal/credential"
	"github.com/minhvu/todopad/internal/ephemeral"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/session"
	"github.com/minhvu/todopad/internal/todo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "todopad:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Msg("starting application...")

	// First run: write the defaults out so users have a file to edit.
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := model.SaveConfig(cfgPath, cfg); err != nil {
			log.Warn().Err(err).Msg("could not write default config")
		}
	}

	storage, err := ephemeral.NewSessionStorage()
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	defer storage.Close()

	store := ephemeral.NewAdapter(storage, log)

	sess := session.New(credential.Ring{}, log)
	sess.Restore()

	client := api.NewClient(
		cfg.Server.BaseURL,
		sess.Token,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
	)

	// A restored token may have expired server-side. Probe once and
	// drop into guest mode on rejection instead of failing every call.
	if sess.Authenticated() {
		if err := client.Ping(context.Background()); api.IsAuthError(err) {
			log.Info().Msg("stored credential rejected, entering guest mode")
			sess.Logout()
		}
	}

	controller := todo.NewController(client, store, sess, log)
	cache := nested.NewCache(client, sess, log)
	cache.MaxUploadBytes = int64(cfg.Server.MaxUploadMB) << 20

	if !sess.Authenticated() {
		controller.EnterGuest()
	}

	m := app.New(client, sess, controller, cache, store, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	log.Info().Msg("exiting")
	return nil
}

// openLogger opens the configured log file. The TUI owns the terminal,
// so logs never go to stdout.
func openLogger(cfg model.LogConfig) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(0o666))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	}).Level(level).With().Timestamp().Caller().Logger()

	return log, func() { logFile.Close() }, nil
}

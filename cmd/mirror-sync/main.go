// Package main is the entry point for the mirror-sync application.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/mirror-sync/internal/config"
	"github.com/joe/mirror-sync/internal/logging"
	"github.com/joe/mirror-sync/internal/summary"
	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return exitCode(err)
	}

	stdoutIsTTY := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := stdoutIsTTY && !cfg.Plain

	logger, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return exitFailure
	}

	defer func() { _ = logger.Sync() }()

	var report *syncengine.Report

	if interactive {
		report, err = tui.Run(cfg.SyncConfig(), logger, tea.WithAltScreen())
	} else {
		report, err = runPlain(cfg.SyncConfig(), logger)
	}

	switch {
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(os.Stderr, "Aborted.")

		return exitFailure
	case report == nil || syncengine.IsStructural(err):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return exitFailure
	}

	summary.Render(os.Stdout, report, summary.Options{Color: stdoutIsTTY})

	if err != nil {
		return exitFailure
	}

	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, config.ErrUsage) {
		return exitUsage
	}

	return exitFailure
}

// newLogger builds the run's logger. The live view owns the terminal, so
// without --log-file it gets no log output at all.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.LogFile == "" {
		return zap.NewNop(), nil
	}

	logger, err := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogFormat == config.LogJSON,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

func runPlain(cfg syncengine.Config, logger *zap.Logger) (*syncengine.Report, error) {
	engine, err := syncengine.NewEngine(cfg, syncengine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return engine.Run()
}

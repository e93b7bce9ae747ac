package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

// ErrAborted is returned when the user quits before the sync finishes.
var ErrAborted = errors.New("sync aborted by user")

// Run executes one sync of cfg while showing the live view. It returns the
// engine's own result, or ErrAborted if the user quit first. programOpts are
// passed to tea.NewProgram.
func Run(cfg syncengine.Config, logger *zap.Logger, programOpts ...tea.ProgramOption) (*syncengine.Report, error) {
	bridge := shared.NewEventBridge()
	defer bridge.Close()

	engine, err := syncengine.NewEngine(cfg,
		syncengine.WithEmitter(bridge),
		syncengine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	program := tea.NewProgram(NewModel(cfg, bridge), programOpts...)

	go func() {
		report, runErr := engine.Run()
		program.Send(shared.SyncFinishedMsg{Report: report, Err: runErr})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}

	if model.Aborted() {
		return nil, ErrAborted
	}

	return model.Result()
}

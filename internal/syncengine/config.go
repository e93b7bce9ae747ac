package syncengine

import (
	"errors"
	"fmt"
)

// Worker bounds.
const (
	// DefaultWorkers is the worker count used when none is configured
	DefaultWorkers = 4
	// MaxWorkers is the largest accepted worker count
	MaxWorkers = 64
	// MinWorkers is the smallest accepted worker count
	MinWorkers = 1
)

// Exported variables.
var (
	ErrFilesFailed        = errors.New("file(s) failed to sync")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrSourceMissing      = errors.New("source directory does not exist")
	ErrSourceNotDirectory = errors.New("source path is not a directory")
	ErrTargetUncreatable  = errors.New("cannot create target directory")
)

// Config describes one synchronization run. It is not modified by the engine.
type Config struct {
	SourceRoot string
	TargetRoot string
	Workers    int
	Verbose    bool
	DryRun     bool
	// Include limits file tasks to paths matching at least one glob.
	Include []string
	// Exclude drops files and whole directories matching any glob.
	Exclude []string
}

// Validate checks the parts of the configuration that do not touch the filesystem.
func (c Config) Validate() error {
	if c.SourceRoot == "" {
		return errors.New("source root is required")
	}

	if c.TargetRoot == "" {
		return errors.New("target root is required")
	}

	if c.Workers < MinWorkers || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d (valid: %d-%d)", ErrInvalidWorkerCount, c.Workers, MinWorkers, MaxWorkers)
	}

	return nil
}

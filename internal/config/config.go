// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/mirror-sync/internal/syncengine"
)

// LogFormat selects the log encoding.
type LogFormat int

const (
	// LogConsole writes human-readable, colored lines
	LogConsole LogFormat = iota
	// LogJSON writes one JSON object per line
	LogJSON
)

// String returns the string representation of LogFormat
func (lf LogFormat) String() string {
	switch lf {
	case LogConsole:
		return "console"
	case LogJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseLogFormat parses a string into a LogFormat
func ParseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(s) {
	case "console", "text":
		return LogConsole, nil
	case "json":
		return LogJSON, nil
	default:
		return LogConsole, fmt.Errorf("invalid log format: %s (valid: console, json)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (lf *LogFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseLogFormat(string(text))
	if err != nil {
		return err
	}

	*lf = parsed

	return nil
}

// ErrUsage marks errors caused by the command line itself rather than the filesystem.
var ErrUsage = errors.New("usage error")

// Config holds the application configuration
type Config struct {
	SourcePath string    `arg:"positional,required" placeholder:"SOURCE" help:"Source directory to mirror"`
	DestPath   string    `arg:"positional,required" placeholder:"DEST" help:"Target directory (created if missing)"`
	Workers    int       `arg:"-t,--workers" default:"4" help:"Number of concurrent copy workers (1-64)"`
	Verbose    bool      `arg:"-v,--verbose" help:"Log every file decision"`
	DryRun     bool      `arg:"-n,--dry-run" help:"Report what would be copied without touching the target"`
	Exclude    []string  `arg:"-x,--exclude,separate" help:"Skip paths matching this glob (repeatable, e.g. '**/.git')"`
	Include    []string  `arg:"-p,--pattern,separate" help:"Only sync files matching this glob (repeatable, e.g. '**/*.jpg')"`
	LogFormat  LogFormat `arg:"--log-format" default:"console" help:"Log encoding: console|json"`
	LogFile    string    `arg:"--log-file" help:"Write logs to this file instead of stderr"`
	Plain      bool      `arg:"--plain" help:"Disable the interactive progress view"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Mirror a directory tree into a target, copying only files that differ, with a pool of concurrent workers"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "mirror-sync 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := defaults()

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// Parse parses args (without the program name) and post-processes the result.
func Parse(args []string) (*Config, error) {
	cfg := defaults()

	parser, err := arg.NewParser(arg.Config{Program: "mirror-sync"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	cfg.SourcePath = cleanRoot(cfg.SourcePath)
	cfg.DestPath = cleanRoot(cfg.DestPath)

	if cfg.Workers < syncengine.MinWorkers || cfg.Workers > syncengine.MaxWorkers {
		return nil, fmt.Errorf("%w: %w: %d (valid: %d-%d)",
			ErrUsage, syncengine.ErrInvalidWorkerCount, cfg.Workers, syncengine.MinWorkers, syncengine.MaxWorkers)
	}

	for _, pattern := range append(append([]string(nil), cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: invalid glob pattern: %q", ErrUsage, pattern)
		}
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SyncConfig converts the CLI configuration into an engine configuration.
func (cfg *Config) SyncConfig() syncengine.Config {
	return syncengine.Config{
		SourceRoot: cfg.SourcePath,
		TargetRoot: cfg.DestPath,
		Workers:    cfg.Workers,
		Verbose:    cfg.Verbose,
		DryRun:     cfg.DryRun,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
	}
}

// ValidatePaths validates that source and destination paths are valid
func (cfg *Config) ValidatePaths() error {
	if cfg.SourcePath == "" {
		return errors.New("source path is required")
	}

	if cfg.DestPath == "" {
		return errors.New("destination path is required")
	}

	sourceInfo, err := os.Stat(cfg.SourcePath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", syncengine.ErrSourceMissing, cfg.SourcePath)
	}

	if err != nil {
		return fmt.Errorf("cannot access source path: %w", err)
	}

	if !sourceInfo.IsDir() {
		return fmt.Errorf("%w: %s", syncengine.ErrSourceNotDirectory, cfg.SourcePath)
	}

	// The destination may not exist yet, but if it does it must be a directory.
	destInfo, err := os.Stat(cfg.DestPath)
	if err == nil && !destInfo.IsDir() {
		return fmt.Errorf("destination path is not a directory: %s", cfg.DestPath)
	}

	if sameTree(cfg.SourcePath, cfg.DestPath) {
		return fmt.Errorf("%w: destination %s must not be the source or inside it", ErrUsage, cfg.DestPath)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Workers:   syncengine.DefaultWorkers,
		LogFormat: LogConsole,
	}
}

// cleanRoot strips trailing separators and redundant elements, keeping "/" intact.
func cleanRoot(path string) string {
	if path == "" {
		return ""
	}

	return filepath.Clean(path)
}

// sameTree reports whether dest is src or lies beneath it.
func sameTree(src, dest string) bool {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return false
	}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absSrc, absDest)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

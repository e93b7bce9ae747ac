//go:build mage

package main

import (
	"context"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "mirror-sync"

// Default target to run when none is specified
var Default = Build

// Build builds the binary
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", binary, "./cmd/mirror-sync")
}

// Test runs all tests
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-v", "-race", "-coverprofile=coverage.out", "./...")
}

// TestIntegration runs the integration tests against the real filesystem
func TestIntegration() error {
	fmt.Println("Running integration tests...")
	return sh.Run("go", "test", "-race", "-tags=integration", "./tests/integration/...")
}

// TestForFail runs the unit tests purely to find out whether any fail
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return run(
		context.Background(),
		"go",
		"test",
		"-timeout=30s",
		"./...",
		"-failfast",
		"-shuffle=on",
		"-race",
	)
}

// Lint lints the codebase
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "-c", ".golangci.yml", "./...")
}

// CheckNils checks for nils
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return run(context.Background(), "nilaway", "./...")
}

// FmtCheck prints a diff for every Go file gofmt would change and fails if there are any
func FmtCheck() error {
	fmt.Println("Checking formatting...")

	var unformatted []string

	err := filepath.WalkDir(".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() && strings.HasPrefix(entry.Name(), "_") {
			return filepath.SkipDir
		}

		if entry.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}

		original, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		formatted, err := format.Source(original)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if string(formatted) != string(original) {
			unformatted = append(unformatted, path)
			fmt.Print(textdiff.Unified(path, path+" (gofmt)", string(original), string(formatted)))
		}

		return nil
	})
	if err != nil {
		return err
	}

	if len(unformatted) > 0 {
		return fmt.Errorf("%d file(s) need gofmt", len(unformatted))
	}

	return nil
}

// CheckForFail runs all checks on the code for determining whether any fail
func CheckForFail() error {
	fmt.Println("Checking for failures...")
	mg.SerialDeps(FmtCheck, Lint, TestForFail, CheckNils)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	os.Remove(binary)
	os.Remove("coverage.out")
	os.Remove("coverage.html")
	return nil
}

// Install installs the binary
func Install() error {
	fmt.Println("Installing...")
	return sh.Run("go", "install", "./cmd/mirror-sync")
}

// Coverage generates an HTML coverage report
func Coverage() error {
	if err := Test(); err != nil {
		return err
	}
	fmt.Println("Generating coverage report...")
	return sh.Run("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Helper function to run commands with context
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

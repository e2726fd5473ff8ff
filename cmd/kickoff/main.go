package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/raphi011/kickoff/internal/ui"
)

// Version information - set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(Execute())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get working directory: %v\n", err)
		return ExitConfig
	}

	root := newRootCmd(&globals{
		workDir:     workDir,
		getenv:      os.Getenv,
		interactive: ui.Interactive,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("kickoff %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}

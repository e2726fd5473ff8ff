package main

import (
	"errors"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/launch"
	"github.com/raphi011/kickoff/internal/launcher"
	"github.com/raphi011/kickoff/internal/prune"
	"github.com/raphi011/kickoff/internal/source"
	"github.com/raphi011/kickoff/internal/worktree"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitConfig covers config and usage errors, and anything unclassified.
	ExitConfig = 1
	ExitSource = 2
	ExitGit    = 3
	ExitScript = 4
)

// exitCode maps an error returned by a command to the process exit code.
// For a batch the first failing item decides.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var batch *launcher.BatchError
	if errors.As(err, &batch) && len(batch.Failures) > 0 {
		return exitCode(batch.Failures[0].Err)
	}

	var (
		scriptErr   *launch.ScriptError
		creationErr *worktree.CreationError
		pruneErr    *prune.Error
		gitErr      *git.Error
		sourceErr   *source.Error
		configErr   *config.Error
	)
	switch {
	case errors.As(err, &scriptErr):
		return ExitScript
	case errors.As(err, &creationErr),
		errors.As(err, &pruneErr),
		errors.Is(err, git.ErrNotRepository),
		errors.Is(err, git.ErrGitNotFound),
		errors.As(err, &gitErr):
		return ExitGit
	case errors.As(err, &sourceErr):
		return ExitSource
	case errors.As(err, &configErr):
		return ExitConfig
	}
	return ExitConfig
}

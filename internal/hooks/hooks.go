package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/raphi011/kickoff/internal/cmd"
	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/vars"
)

// RepoHookPath is the repository-relative location of the post-remove hook.
const RepoHookPath = ".kickoff/hooks/post-remove"

// Event identifies what triggered a hook.
type Event string

const (
	EventLaunch Event = "launch"
	EventPrune  Event = "prune"
)

// HookError is a hook that exited non-zero or could not start. It is
// reported and never aborts the surrounding operation.
type HookError struct {
	Name string
	// Code is the exit code, or -1 when the hook never started.
	Code int
	Err  error
}

func (e *HookError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("hook %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("hook %q exited with code %d", e.Name, e.Code)
}

func (e *HookError) Unwrap() error { return e.Err }

// Match is a configured hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Context is what a hook runs with.
type Context struct {
	// Vars fill the command placeholders.
	Vars vars.Map
	// Dir is the working directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// DryRun prints commands instead of running them.
	DryRun bool

	Stdout io.Writer
	Stderr io.Writer
}

// Select determines which config hooks run for ev. With names given only
// those run, regardless of their "on" list; an unknown name is an error.
// Otherwise every enabled hook whose "on" list has ev or "all" runs.
// Hooks without "on" only run by name. The result is sorted by name.
func Select(cfg config.HooksConfig, names []string, noHook bool, ev Event) ([]Match, error) {
	if noHook {
		return nil, nil
	}

	var matches []Match
	if len(names) > 0 {
		for _, name := range names {
			hook, ok := cfg.Hooks[name]
			if !ok {
				return nil, fmt.Errorf("unknown hook %q", name)
			}
			matches = append(matches, Match{Name: name, Hook: hook})
		}
		return matches, nil
	}

	for name, hook := range cfg.Hooks {
		if hook.IsEnabled() && matchesEvent(hook, ev) {
			matches = append(matches, Match{Name: name, Hook: hook})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func matchesEvent(hook config.Hook, ev Event) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(ev) {
			return true
		}
	}
	return false
}

// RunForEach runs every match for one item and returns the failures. A
// failing hook does not stop the others.
func RunForEach(ctx context.Context, matches []Match, hc Context) []error {
	var errs []error
	for _, m := range matches {
		if err := Run(ctx, m, hc); err != nil {
			log.FromContext(ctx).Printf("Warning: %v\n", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// Run executes one configured hook through sh -c.
func Run(ctx context.Context, m Match, hc Context) error {
	l := log.FromContext(ctx)
	command := Substitute(m.Hook.Command, hc.Vars)

	if hc.DryRun {
		l.Printf("[dry-run] hook %s: %s\n", m.Name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", m.Name)
	if err := run(ctx, m.Name, hc, "sh", "-c", command); err != nil {
		return err
	}
	if m.Hook.Description != "" {
		l.Printf("  ✓ %s\n", m.Hook.Description)
	}
	return nil
}

// RunRepoHook runs <repoRoot>/.kickoff/hooks/post-remove if it exists and
// is executable. ran is false when there is no such hook.
func RunRepoHook(ctx context.Context, repoRoot string, hc Context) (ran bool, err error) {
	path := filepath.Join(repoRoot, RepoHookPath)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &HookError{Name: RepoHookPath, Code: -1, Err: err}
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		log.FromContext(ctx).Printf("Warning: %s is not executable, skipping\n", RepoHookPath)
		return false, nil
	}

	if hc.DryRun {
		log.FromContext(ctx).Printf("[dry-run] hook %s\n", RepoHookPath)
		return false, nil
	}
	if hc.Dir == "" {
		hc.Dir = repoRoot
	}
	return true, run(ctx, RepoHookPath, hc, path)
}

func run(ctx context.Context, name string, hc Context, command string, args ...string) error {
	s := cmd.Stream{Dir: hc.Dir, Env: hc.Env, Stdout: hc.Stdout, Stderr: hc.Stderr}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}

	err := cmd.StreamContext(ctx, s, command, args...)
	if err == nil {
		return nil
	}
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) {
		return &HookError{Name: name, Code: cmdErr.Code, Err: cmdErr.Err}
	}
	return &HookError{Name: name, Code: -1, Err: err}
}

// shellQuote wraps s in single quotes; "it's" becomes 'it'\''s'.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// placeholderRegex matches {key}, {key:raw} and {key:-default}.
var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// Substitute replaces placeholders in a hook command with values from m:
//
//   - {key}: shell-quoted value
//   - {key:raw}: value as-is, for embedding inside existing quotes
//   - {key:-default}: shell-quoted value, or default when key is unset
//
// Unset keys without a default become an empty quoted string.
func Substitute(command string, m vars.Map) string {
	return placeholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		key, raw, def := sub[1], sub[2] == ":raw", sub[3]

		val, ok := m[key]
		if !ok {
			val = def
		}
		if raw {
			return val
		}
		return shellQuote(val)
	})
}

package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/vars"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	m := vars.Map{
		"worktree": "/home/user/worktrees/IOS-1",
		"branch":   "feature/login",
		"title":    "it's broken",
		"empty":    "",
	}

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{
			name:     "single placeholder",
			command:  "code {worktree}",
			expected: "code '/home/user/worktrees/IOS-1'",
		},
		{
			name:     "multiple placeholders",
			command:  "cd {worktree} && echo {branch}",
			expected: "cd '/home/user/worktrees/IOS-1' && echo 'feature/login'",
		},
		{
			name:     "single quotes escaped",
			command:  "echo {title}",
			expected: `echo 'it'\''s broken'`,
		},
		{
			name:     "raw value",
			command:  `echo "on {branch:raw}"`,
			expected: `echo "on feature/login"`,
		},
		{
			name:     "default used when unset",
			command:  "tmux new -s {session:-main}",
			expected: "tmux new -s 'main'",
		},
		{
			name:     "default ignored when set, even if empty",
			command:  "echo {empty:-fallback}",
			expected: "echo ''",
		},
		{
			name:     "unset without default",
			command:  "echo {missing}",
			expected: "echo ''",
		},
		{
			name:     "no placeholders",
			command:  "echo hello",
			expected: "echo hello",
		},
		{
			name:     "repeated placeholder",
			command:  "{branch} and {branch}",
			expected: "'feature/login' and 'feature/login'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Substitute(tt.command, m); got != tt.expected {
				t.Errorf("Substitute(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	disabled := false
	hooksConfig := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"deps": {
				Command:     "npm ci",
				Description: "Install dependencies",
				On:          []string{"launch"},
			},
			"vscode": {
				Command:     "code {worktree}",
				Description: "Open VS Code",
				// no On - only runs via explicit --hook
			},
			"notify": {
				Command: "notify-send {branch}",
				On:      []string{"all"},
			},
			"cleanup": {
				Command: "rm -rf node_modules",
				On:      []string{"prune"},
			},
			"off": {
				Command: "false",
				On:      []string{"all"},
				Enabled: &disabled,
			},
		},
	}

	tests := []struct {
		name        string
		hookNames   []string
		noHook      bool
		event       Event
		expectNames []string
		expectError bool
	}{
		{
			name:        "launch hooks sorted by name",
			event:       EventLaunch,
			expectNames: []string{"deps", "notify"},
		},
		{
			name:        "prune hooks",
			event:       EventPrune,
			expectNames: []string{"cleanup", "notify"},
		},
		{
			name:        "explicit hook runs regardless of on condition",
			hookNames:   []string{"vscode"},
			event:       EventLaunch,
			expectNames: []string{"vscode"},
		},
		{
			name:        "explicit names keep their order",
			hookNames:   []string{"vscode", "cleanup"},
			event:       EventLaunch,
			expectNames: []string{"vscode", "cleanup"},
		},
		{
			name:      "no-hook skips all",
			noHook:    true,
			hookNames: []string{"vscode"},
			event:     EventLaunch,
		},
		{
			name:        "unknown hook errors",
			hookNames:   []string{"nonexistent"},
			event:       EventLaunch,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches, err := Select(hooksConfig, tt.hookNames, tt.noHook, tt.event)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var names []string
			for _, m := range matches {
				names = append(names, m.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.expectNames, ",") {
				t.Errorf("selected %v, want %v", names, tt.expectNames)
			}
		})
	}
}

func TestSelect_EmptyConfig(t *testing.T) {
	t.Parallel()

	matches, err := Select(config.HooksConfig{}, nil, false, EventPrune)
	if err != nil || len(matches) != 0 {
		t.Errorf("Select() = %v, %v; want none", matches, err)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	hc := Context{
		Vars:   vars.Map{"branch": "IOS-1"},
		Dir:    dir,
		Env:    []string{"KICKOFF_TRIGGER=launch"},
		Stdout: &stdout,
		Stderr: &stdout,
	}

	m := Match{Name: "echo", Hook: config.Hook{Command: `echo {branch} $KICKOFF_TRIGGER > out.txt`}}
	if err := Run(context.Background(), m, hc); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "IOS-1 launch\n" {
		t.Errorf("hook wrote %q", data)
	}

	fail := Match{Name: "fail", Hook: config.Hook{Command: "exit 7"}}
	err = Run(context.Background(), fail, hc)
	var hookErr *HookError
	if !errors.As(err, &hookErr) || hookErr.Code != 7 || hookErr.Name != "fail" {
		t.Errorf("Run() error = %v, want HookError code 7", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := Match{Name: "touch", Hook: config.Hook{Command: "touch created"}}
	if err := Run(context.Background(), m, Context{Dir: dir, DryRun: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "created")); !os.IsNotExist(err) {
		t.Error("dry run executed the hook")
	}
}

func TestRunForEach_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var sink bytes.Buffer
	matches := []Match{
		{Name: "a", Hook: config.Hook{Command: "exit 1"}},
		{Name: "b", Hook: config.Hook{Command: "touch b-ran"}},
	}
	errs := RunForEach(context.Background(), matches, Context{Dir: dir, Stdout: &sink, Stderr: &sink})
	if len(errs) != 1 {
		t.Fatalf("RunForEach() errors = %v, want 1", errs)
	}
	if _, err := os.Stat(filepath.Join(dir, "b-ran")); err != nil {
		t.Error("second hook did not run after the first failed")
	}
}

func writeRepoHook(t *testing.T, repo, script string, mode os.FileMode) {
	t.Helper()
	path := filepath.Join(repo, RepoHookPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(script), mode); err != nil {
		t.Fatal(err)
	}
}

// TestRunRepoHook writes executables and runs them, so it stays sequential:
// a concurrent fork can inherit the write descriptor and fail with ETXTBSY.
func TestRunRepoHook(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		ran, err := RunRepoHook(context.Background(), t.TempDir(), Context{})
		if ran || err != nil {
			t.Errorf("RunRepoHook() = %v, %v; want false, nil", ran, err)
		}
	})

	t.Run("not executable", func(t *testing.T) {
		repo := t.TempDir()
		writeRepoHook(t, repo, "#!/bin/sh\ntouch ran\n", 0o644)
		ran, err := RunRepoHook(context.Background(), repo, Context{})
		if ran || err != nil {
			t.Errorf("RunRepoHook() = %v, %v; want skipped", ran, err)
		}
	})

	t.Run("runs in repo with env", func(t *testing.T) {
		repo := t.TempDir()
		writeRepoHook(t, repo, "#!/bin/sh\necho \"$KICKOFF_BRANCH $KICKOFF_WORKTREE_PATH\"\n", 0o755)

		var stdout bytes.Buffer
		ran, err := RunRepoHook(context.Background(), repo, Context{
			Env:    []string{"KICKOFF_BRANCH=feat", "KICKOFF_WORKTREE_PATH=/wt/feat"},
			Stdout: &stdout,
		})
		if !ran || err != nil {
			t.Fatalf("RunRepoHook() = %v, %v", ran, err)
		}
		if stdout.String() != "feat /wt/feat\n" {
			t.Errorf("hook output = %q", stdout.String())
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		repo := t.TempDir()
		writeRepoHook(t, repo, "#!/bin/sh\nexit 2\n", 0o755)
		_, err := RunRepoHook(context.Background(), repo, Context{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		var hookErr *HookError
		if !errors.As(err, &hookErr) || hookErr.Code != 2 || hookErr.Name != RepoHookPath {
			t.Errorf("RunRepoHook() error = %v, want HookError code 2", err)
		}
	})
}

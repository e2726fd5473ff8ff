package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/kickoff/internal/testutil"
)

// result is what one kickoff invocation produced.
type result struct {
	stdout string
	stderr string
	err    error
}

// kickoff runs the root command in dir with env as the only environment
// and stdin as piped input.
func kickoff(t *testing.T, dir string, env map[string]string, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	g := &globals{
		workDir: dir,
		getenv:  func(k string) string { return env[k] },
	}
	cmd := newRootCmd(g)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// setup creates a repository and a config file next to it. The returned env
// points KICKOFF_CONFIG at that file.
func setup(t *testing.T, extraConfig string) (repo string, env map[string]string) {
	t.Helper()
	repo = testutil.NewRepo(t)
	tmp := filepath.Dir(repo)

	cfgPath := filepath.Join(tmp, "config.toml")
	content := "[prompt]\ndir = \"" + filepath.Join(tmp, "prompts") + "\"\n\n" + extraConfig
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return repo, map[string]string{"KICKOFF_CONFIG": cfgPath, "USER": "tester"}
}

// linkedBranches returns the branches of all worktrees except the main one.
func linkedBranches(t *testing.T, repo string) []string {
	t.Helper()
	var branches []string
	for _, line := range strings.Split(testutil.Git(t, repo, "worktree", "list", "--porcelain"), "\n") {
		if b, ok := strings.CutPrefix(line, "branch refs/heads/"); ok && b != "main" {
			branches = append(branches, b)
		}
	}
	return branches
}

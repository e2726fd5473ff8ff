// Package testutil builds throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempDir returns t.TempDir with symlinks resolved, so paths compare equal
// to what git reports on macOS.
func TempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

// Git runs git in dir and fails the test on error. Returns trimmed stdout.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	c.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)
	out, err := c.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// NewRepo creates <tmp>/repo on branch main with one commit and returns its path.
func NewRepo(t *testing.T) string {
	t.Helper()
	repo := filepath.Join(TempDir(t), "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	Git(t, repo, "init", "-b", "main")
	configure(t, repo)
	commit(t, repo)
	return repo
}

// NewRepoWithOrigin creates a bare origin at <tmp>/origin.git and a clone at
// <tmp>/repo with main pushed. Returns (repo, origin).
func NewRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmp := TempDir(t)
	origin := filepath.Join(tmp, "origin.git")
	repo := filepath.Join(tmp, "repo")

	Git(t, tmp, "init", "--bare", "-b", "main", origin)
	Git(t, tmp, "clone", origin, repo)
	configure(t, repo)
	commit(t, repo)
	Git(t, repo, "push", "-u", "origin", "HEAD:main")
	return repo, origin
}

// PushBranch creates branch in a scratch clone of origin and pushes it, so
// the branch exists only on the remote from repo's point of view.
func PushBranch(t *testing.T, origin, branch string) {
	t.Helper()
	scratch := filepath.Join(TempDir(t), "scratch")
	Git(t, filepath.Dir(scratch), "clone", origin, scratch)
	configure(t, scratch)
	Git(t, scratch, "checkout", "-b", branch)
	if err := os.WriteFile(filepath.Join(scratch, "change.txt"), []byte(branch+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	Git(t, scratch, "add", "change.txt")
	Git(t, scratch, "commit", "-m", "work on "+branch)
	Git(t, scratch, "push", "origin", branch)
}

func configure(t *testing.T, repo string) {
	t.Helper()
	Git(t, repo, "config", "user.email", "test@test.com")
	Git(t, repo, "config", "user.name", "Test User")
	Git(t, repo, "config", "commit.gpgsign", "false")
}

func commit(t *testing.T, repo string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	Git(t, repo, "add", "README.md")
	Git(t, repo, "commit", "-m", "Initial commit")
}

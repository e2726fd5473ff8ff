package preserve

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/testutil"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	env := []string{".env", ".env.*", ".envrc"}
	tests := []struct {
		rel     string
		exclude []string
		want    bool
	}{
		{".env", nil, true},
		{".env.local", nil, true},
		{"services/api/.env", nil, true},
		{"main.go", nil, false},
		{"env", nil, false},
		{"node_modules/.env", []string{"node_modules"}, false},
		{"web/node_modules/pkg/.envrc", []string{"node_modules"}, false},
		{".env", []string{"vendor"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			if got := matches(tt.rel, env, tt.exclude); got != tt.want {
				t.Errorf("matches(%q, exclude=%v) = %v, want %v", tt.rel, tt.exclude, got, tt.want)
			}
		})
	}

	if matches(".env", nil, nil) {
		t.Error("no patterns should match nothing")
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src", "bin", "run.sh")
	dst := filepath.Join(dir, "dst", "bin", "run.sh")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("#!/bin/sh\n"), 0o750); err != nil {
		t.Fatal(err)
	}

	ok, err := copyFile(src, dst)
	if err != nil || !ok {
		t.Fatalf("copyFile() = %v, %v, want copied", ok, err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o750 {
		t.Errorf("mode = %o, want 750", info.Mode().Perm())
	}

	if err := os.WriteFile(src, []byte("changed\n"), 0o750); err != nil {
		t.Fatal(err)
	}
	ok, err = copyFile(src, dst)
	if err != nil || ok {
		t.Fatalf("copyFile() onto existing file = %v, %v, want skipped", ok, err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "#!/bin/sh\n" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

// Scenario: a repository with ignored .env files and a new worktree.
// Expected: matching ignored files are copied, excluded and tracked ones are
// not, and a file already in the worktree survives.
func TestCopy(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	write := func(dir, rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write(repo, ".gitignore", ".env*\nnode_modules/\n")
	testutil.Git(t, repo, "add", ".gitignore")
	testutil.Git(t, repo, "commit", "-m", "ignore env")

	write(repo, ".env", "API_KEY=main\n")
	write(repo, "api/.env.local", "PORT=8080\n")
	write(repo, "web/.envrc", "use nix\n")
	write(repo, "node_modules/pkg/.env", "nope\n")
	write(repo, "notes.txt", "untracked but not ignored\n")

	wt := filepath.Join(filepath.Dir(repo), "worktrees", "IOS-1")
	testutil.Git(t, repo, "worktree", "add", "-b", "IOS-1", wt)
	write(wt, "web/.envrc", "use flake\n")

	cfg := config.PreserveConfig{Patterns: []string{".env", ".env.*", ".envrc"}, Exclude: []string{"node_modules"}}
	copied, err := Copy(context.Background(), cfg, repo, wt)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	slices.Sort(copied)
	if want := []string{".env", "api/.env.local"}; !slices.Equal(copied, want) {
		t.Errorf("copied = %v, want %v", copied, want)
	}
	if data, _ := os.ReadFile(filepath.Join(wt, "api", ".env.local")); string(data) != "PORT=8080\n" {
		t.Errorf("api/.env.local = %q", data)
	}
	if data, _ := os.ReadFile(filepath.Join(wt, "web", ".envrc")); string(data) != "use flake\n" {
		t.Errorf("existing web/.envrc overwritten: %q", data)
	}
	for _, rel := range []string{"node_modules/pkg/.env", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(wt, rel)); !os.IsNotExist(err) {
			t.Errorf("%s should not be copied", rel)
		}
	}
}

func TestCopy_NoPatterns(t *testing.T) {
	t.Parallel()

	// No git call happens, so a missing directory is fine.
	copied, err := Copy(context.Background(), config.PreserveConfig{}, "/nonexistent", "/nonexistent2")
	if err != nil || copied != nil {
		t.Errorf("Copy() = %v, %v, want nothing", copied, err)
	}
}

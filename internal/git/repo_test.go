package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/raphi011/kickoff/internal/testutil"
)

func TestCheckGit(t *testing.T) {
	t.Parallel()
	if err := CheckGit(); err != nil {
		t.Fatalf("CheckGit() = %v, want nil (git should be in PATH)", err)
	}
}

func TestRepoRoot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := testutil.NewRepo(t)
	wt := filepath.Join(filepath.Dir(repo), "wt-feature")
	testutil.Git(t, repo, "worktree", "add", "-b", "feature", wt)

	tests := []struct {
		name string
		dir  string
	}{
		{"main checkout", repo},
		{"linked worktree", wt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RepoRoot(ctx, tt.dir)
			if err != nil {
				t.Fatalf("RepoRoot() error = %v", err)
			}
			if got != repo {
				t.Errorf("RepoRoot() = %q, want %q", got, repo)
			}
		})
	}
}

func TestRepoRoot_NotRepository(t *testing.T) {
	t.Parallel()

	_, err := RepoRoot(context.Background(), testutil.TempDir(t))
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("RepoRoot() error = %v, want ErrNotRepository", err)
	}
}

func TestOriginURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with origin", func(t *testing.T) {
		t.Parallel()
		repo, origin := testutil.NewRepoWithOrigin(t)
		got, err := OriginURL(ctx, repo)
		if err != nil {
			t.Fatalf("OriginURL() error = %v", err)
		}
		if got != origin {
			t.Errorf("OriginURL() = %q, want %q", got, origin)
		}
	})

	t.Run("without origin", func(t *testing.T) {
		t.Parallel()
		got, err := OriginURL(ctx, testutil.NewRepo(t))
		if err != nil {
			t.Fatalf("OriginURL() error = %v", err)
		}
		if got != "" {
			t.Errorf("OriginURL() = %q, want empty", got)
		}
	})
}

func TestBranchExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, origin := testutil.NewRepoWithOrigin(t)
	testutil.Git(t, repo, "branch", "local-only")
	testutil.PushBranch(t, origin, "remote-only")

	if BranchExists(ctx, repo, "remote-only") {
		t.Fatal("remote-only visible before fetch")
	}
	if err := FetchBranch(ctx, repo, "remote-only"); err != nil {
		t.Fatalf("FetchBranch() error = %v", err)
	}

	tests := []struct {
		branch string
		want   bool
	}{
		{"main", true},
		{"local-only", true},
		{"remote-only", true},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := BranchExists(ctx, repo, tt.branch); got != tt.want {
			t.Errorf("BranchExists(%q) = %v, want %v", tt.branch, got, tt.want)
		}
	}
}

func TestFetchBranch_Missing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := testutil.NewRepoWithOrigin(t)
	err := FetchBranch(ctx, repo, "does-not-exist")
	var gitErr *Error
	if !errors.As(err, &gitErr) {
		t.Fatalf("FetchBranch() error = %v, want *Error", err)
	}
	if gitErr.Stderr == "" {
		t.Error("expected stderr to be captured")
	}
	if err := Fetch(ctx, repo); err != nil {
		t.Errorf("Fetch() error = %v", err)
	}
}

func TestDeleteBranch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := testutil.NewRepo(t)
	testutil.Git(t, repo, "branch", "doomed")
	if err := DeleteBranch(ctx, repo, "doomed"); err != nil {
		t.Fatalf("DeleteBranch() error = %v", err)
	}
	if BranchExists(ctx, repo, "doomed") {
		t.Error("branch still exists after DeleteBranch")
	}
}

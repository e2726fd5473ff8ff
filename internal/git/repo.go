package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// RepoRoot returns the main working tree of the repository containing dir.
// Called from inside a linked worktree it still returns the main checkout,
// so paths derived from it do not depend on where the command was run.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--git-common-dir")
	if err != nil {
		var gitErr *Error
		if errors.As(err, &gitErr) && strings.Contains(gitErr.Stderr, "not a git repository") {
			return "", ErrNotRepository
		}
		return "", err
	}

	common := strings.TrimSpace(string(out))
	if !filepath.IsAbs(common) {
		base := dir
		if base == "" {
			base = "."
		}
		common = filepath.Join(base, common)
	}
	common, err = filepath.Abs(common)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(common); err == nil {
		common = resolved
	}

	// Bare repositories have no .git directory of their own.
	if filepath.Base(common) == ".git" {
		return filepath.Dir(common), nil
	}
	return common, nil
}

// OriginURL returns the fetch URL of the origin remote, or "" when there is none.
func OriginURL(ctx context.Context, repoPath string) (string, error) {
	out, err := outputGit(ctx, repoPath, "config", "--get", "remote.origin.url")
	if err != nil {
		var gitErr *Error
		// git config exits 1 when the key is unset
		if errors.As(err, &gitErr) && gitErr.Stderr == "" {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// BranchExists reports whether branch exists locally or as origin/<branch>.
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	for _, ref := range []string{"refs/heads/" + branch, "refs/remotes/origin/" + branch} {
		if err := runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref); err == nil {
			return true
		}
	}
	return false
}

// FetchBranch fetches a single branch from origin, updating origin/<branch>.
func FetchBranch(ctx context.Context, repoPath, branch string) error {
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", branch, branch)
	return runGit(ctx, repoPath, "fetch", "origin", refspec)
}

// Fetch runs a plain fetch of origin.
func Fetch(ctx context.Context, repoPath string) error {
	return runGit(ctx, repoPath, "fetch", "origin")
}

// DeleteBranch force-deletes a local branch.
func DeleteBranch(ctx context.Context, repoPath, branch string) error {
	return runGit(ctx, repoPath, "branch", "-D", branch)
}

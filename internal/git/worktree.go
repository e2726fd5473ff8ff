package git

import (
	"context"
	"path/filepath"
	"strings"
)

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string `json:"path"`
	Branch   string `json:"branch,omitempty"`
	Head     string `json:"head"`
	Detached bool   `json:"detached,omitempty"`
	// Main marks the repository's primary working tree (always listed first).
	Main bool `json:"main,omitempty"`
	// Prunable is set when git reports the worktree directory as missing.
	Prunable bool `json:"prunable,omitempty"`
}

// ListWorktrees reads the live worktree list. Nothing is cached: every call
// asks git again.
func ListWorktrees(ctx context.Context, repoPath string) ([]Worktree, error) {
	out, err := outputGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(string(out)), nil
}

func parseWorktreeList(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			worktrees = append(worktrees, Worktree{Path: strings.TrimPrefix(line, "worktree ")})
			current = &worktrees[len(worktrees)-1]
		case current == nil:
			continue
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Main = true
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		}
	}
	if len(worktrees) > 0 {
		worktrees[0].Main = true
	}
	return worktrees
}

// AddWorktree creates path on a new branch started from HEAD.
func AddWorktree(ctx context.Context, repoPath, path, branch string) error {
	return runGit(ctx, repoPath, "worktree", "add", "-b", branch, path)
}

// AttachWorktree creates path checked out on an existing branch. With force,
// git allows the branch to be checked out in more than one worktree.
func AttachWorktree(ctx context.Context, repoPath, path, branch string, force bool) error {
	args := []string{"worktree", "add"}
	if force {
		args = append(args, "--force")
	}
	return runGit(ctx, repoPath, append(args, path, branch)...)
}

// RemoveWorktree removes a linked worktree.
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	return runGit(ctx, repoPath, append(args, path)...)
}

// PruneWorktrees drops metadata of worktrees whose directories are gone.
func PruneWorktrees(ctx context.Context, repoPath string) error {
	return runGit(ctx, repoPath, "worktree", "prune")
}

// SamePath reports whether a and b name the same location, resolving
// symlinks where the paths exist.
func SamePath(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(p string) string {
	p = filepath.Clean(p)
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	// Resolve the deepest existing parent so a missing leaf still compares
	// equal to a path spelled through a symlinked directory.
	dir, base := filepath.Split(p)
	if dir != "" && dir != p {
		if resolved, err := filepath.EvalSymlinks(filepath.Clean(dir)); err == nil {
			return filepath.Join(resolved, base)
		}
	}
	return p
}

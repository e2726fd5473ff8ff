package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/log"
)

// State is how Ensure reached its result.
type State int

const (
	// StateCreated: new branch and worktree from HEAD.
	StateCreated State = iota
	// StateAttached: worktree on an existing branch.
	StateAttached
	// StateAlreadyExists: the target path already was a worktree.
	StateAlreadyExists
	// StateRecovered: stale metadata was pruned before attaching.
	StateRecovered
	// StateForced: the branch is checked out elsewhere too.
	StateForced
	// StatePlanned: dry run, nothing was changed.
	StatePlanned
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAttached:
		return "attached"
	case StateAlreadyExists:
		return "exists"
	case StateRecovered:
		return "recovered"
	case StateForced:
		return "forced"
	case StatePlanned:
		return "planned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Request describes the worktree to provision.
type Request struct {
	Path   string
	Branch string
	// RemoteBranch marks a branch that already exists on the forge (pull
	// requests). It is fetched before use.
	RemoteBranch bool
}

// Result reports what Ensure did.
type Result struct {
	Path   string
	Branch string
	State  State
	// Created is true when a new worktree directory was made.
	Created bool
	// Planned lists the actions a dry run would take.
	Planned []string
}

// CreationError is a worktree that could not be created.
type CreationError struct {
	Branch string
	Path   string
	PR     bool
	Err    error
}

func (e *CreationError) Error() string {
	kind := "branch"
	if e.PR {
		kind = "PR branch"
	}
	return fmt.Sprintf("create worktree for %s %q at %s: %v", kind, e.Branch, e.Path, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Provisioner creates worktrees for one repository.
type Provisioner struct {
	// RepoDir is any directory inside the repository, usually its root.
	RepoDir string
	// DryRun reports planned actions without mutating anything.
	DryRun bool
}

// Ensure makes sure a worktree for req.Branch is checked out at req.Path.
// Calling it again with the same request is a no-op.
func (p *Provisioner) Ensure(ctx context.Context, req Request) (Result, error) {
	l := log.FromContext(ctx)

	if req.Branch == "" || req.Path == "" {
		return Result{}, fmt.Errorf("worktree path and branch are required")
	}
	path, err := filepath.Abs(req.Path)
	if err != nil {
		return Result{}, err
	}
	res := Result{Path: path, Branch: req.Branch}

	existing, err := p.find(ctx, path)
	if err != nil {
		return Result{}, err
	}
	if existing != nil && !existing.Prunable {
		l.Debug("worktree exists", "path", path, "branch", existing.Branch)
		if existing.Branch != "" {
			res.Branch = existing.Branch
		}
		res.State = StateAlreadyExists
		return res, nil
	}

	if p.DryRun {
		return p.plan(ctx, req, res, existing != nil), nil
	}

	if existing != nil {
		// the target is registered but its directory is gone
		l.Debug("pruning stale worktree at target", "path", path)
		if err := git.PruneWorktrees(ctx, p.RepoDir); err != nil {
			return Result{}, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, p.creationError(req, path, fmt.Errorf("create worktree parent: %w", err))
	}

	if req.RemoteBranch {
		p.fetch(ctx, req.Branch)
	}

	if !git.BranchExists(ctx, p.RepoDir, req.Branch) {
		l.Debug("creating branch", "branch", req.Branch, "path", path)
		if err := git.AddWorktree(ctx, p.RepoDir, path, req.Branch); err != nil {
			return Result{}, p.creationError(req, path, err)
		}
		res.State, res.Created = StateCreated, true
		return res, nil
	}

	l.Debug("attaching branch", "branch", req.Branch, "path", path)
	err = git.AttachWorktree(ctx, p.RepoDir, path, req.Branch, false)
	if err == nil {
		res.State, res.Created = StateAttached, true
		return res, nil
	}

	holder, inUse := git.BranchInUse(err)
	if !inUse {
		return Result{}, p.creationError(req, path, err)
	}
	return p.recover(ctx, req, res, holder)
}

// recover handles a branch that git reports as checked out at holder.
func (p *Provisioner) recover(ctx context.Context, req Request, res Result, holder string) (Result, error) {
	l := log.FromContext(ctx)

	if _, err := os.Stat(holder); errors.Is(err, os.ErrNotExist) {
		l.Debug("branch held by missing worktree, pruning", "branch", req.Branch, "holder", holder)
		if err := git.PruneWorktrees(ctx, p.RepoDir); err != nil {
			return Result{}, p.creationError(req, res.Path, err)
		}
		if req.RemoteBranch {
			p.fetch(ctx, req.Branch)
		}
		if err := git.AttachWorktree(ctx, p.RepoDir, res.Path, req.Branch, false); err != nil {
			return Result{}, p.creationError(req, res.Path, err)
		}
		res.State, res.Created = StateRecovered, true
		return res, nil
	}

	l.Printf("Branch %s is already checked out at %s, adding a second worktree\n", req.Branch, holder)
	if err := git.AttachWorktree(ctx, p.RepoDir, res.Path, req.Branch, true); err != nil {
		return Result{}, p.creationError(req, res.Path, err)
	}
	res.State, res.Created = StateForced, true
	return res, nil
}

// fetch updates origin/<branch>, falling back to a plain fetch. Failures are
// only logged: the branch may already be known locally.
func (p *Provisioner) fetch(ctx context.Context, branch string) {
	l := log.FromContext(ctx)
	err := git.FetchBranch(ctx, p.RepoDir, branch)
	if err == nil {
		return
	}
	l.Debug("fetch branch failed", "branch", branch, "err", err)
	if err := git.Fetch(ctx, p.RepoDir); err != nil {
		l.Printf("Warning: fetch failed: %v\n", err)
	}
}

// plan fills in what Ensure would do. Only read-only git queries run.
func (p *Provisioner) plan(ctx context.Context, req Request, res Result, stale bool) Result {
	res.State = StatePlanned
	if stale {
		res.Planned = append(res.Planned, "prune stale worktree at "+res.Path)
	}
	parent := filepath.Dir(res.Path)
	if _, err := os.Stat(parent); errors.Is(err, os.ErrNotExist) {
		res.Planned = append(res.Planned, "mkdir "+parent)
	}
	if req.RemoteBranch {
		res.Planned = append(res.Planned, "fetch origin "+req.Branch)
	}
	if req.RemoteBranch || git.BranchExists(ctx, p.RepoDir, req.Branch) {
		res.Planned = append(res.Planned, fmt.Sprintf("attach existing branch %s at %s", req.Branch, res.Path))
	} else {
		res.Planned = append(res.Planned, fmt.Sprintf("create worktree on new branch %s at %s", req.Branch, res.Path))
	}
	return res
}

// find returns the live worktree registered at path, if any.
func (p *Provisioner) find(ctx context.Context, path string) (*git.Worktree, error) {
	worktrees, err := git.ListWorktrees(ctx, p.RepoDir)
	if err != nil {
		return nil, err
	}
	for i := range worktrees {
		if git.SamePath(worktrees[i].Path, path) {
			return &worktrees[i], nil
		}
	}
	return nil, nil
}

func (p *Provisioner) creationError(req Request, path string, err error) error {
	return &CreationError{Branch: req.Branch, Path: path, PR: req.RemoteBranch, Err: err}
}

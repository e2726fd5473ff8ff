package prune

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/hooks"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/output"
	"github.com/raphi011/kickoff/internal/prompt"
	"github.com/raphi011/kickoff/internal/ui/static"
	"github.com/raphi011/kickoff/internal/vars"
)

// ErrNoSelector is returned when nothing says which worktrees to prune.
var ErrNoSelector = errors.New("nothing selected: pass a pattern, --stdin, --interactive or --dry-run")

// ErrNotConfirmed is returned when removal needs a confirmation nobody can give.
var ErrNotConfirmed = errors.New("refusing to prune without confirmation: use --force")

// Selection says which worktrees to prune. The first non-empty selector
// wins: Pattern, then Stdin, then Interactive.
type Selection struct {
	// Pattern matches a substring of the branch, or of the directory name
	// for detached worktrees.
	Pattern string
	// Stdin holds one branch or path per line.
	Stdin       io.Reader
	Interactive bool
}

// Options are the prune switches from the command line.
type Options struct {
	Force  bool
	DryRun bool
	NoHook bool
	Hooks  []string
}

// PickFunc lets the user choose among candidates. It returns the chosen
// indices; cancelled means the user backed out.
type PickFunc func(ctx context.Context, candidates []git.Worktree) (chosen []int, cancelled bool, err error)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// Pruner removes worktrees of one repository.
type Pruner struct {
	RepoRoot string
	Config   *config.Config

	// Pick and Confirm are nil when no terminal is available.
	Pick    PickFunc
	Confirm ConfirmFunc

	// Streams handed to hooks; nil means the process's own.
	Stdout io.Writer
	Stderr io.Writer
}

// ItemResult is what happened to one worktree.
type ItemResult struct {
	Worktree      git.Worktree
	Removed       bool
	BranchDeleted bool
	// Err is a failed removal or branch deletion.
	Err        error
	HookErrors []error
}

// Report summarizes a prune run.
type Report struct {
	// Available is every candidate worktree, main excluded.
	Available []git.Worktree
	Selected  []git.Worktree
	Items     []ItemResult
	// Cancelled is set when the picker or the confirmation was declined.
	Cancelled bool
	DryRun    bool
}

// Error lists worktrees whose removal failed.
type Error struct {
	Failures []ItemResult
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = fmt.Sprintf("%s: %v", f.Worktree.Path, f.Err)
	}
	return fmt.Sprintf("failed to prune %d worktree(s): %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Run selects, confirms and removes worktrees.
func (p *Pruner) Run(ctx context.Context, sel Selection, opts Options) (Report, error) {
	l := log.FromContext(ctx)
	rep := Report{DryRun: opts.DryRun}

	all, err := git.ListWorktrees(ctx, p.RepoRoot)
	if err != nil {
		return rep, err
	}
	for _, wt := range all {
		if !wt.Main {
			rep.Available = append(rep.Available, wt)
		}
	}

	// Resolve hooks before touching anything so an unknown --hook fails early.
	matches, err := hooks.Select(p.Config.Hooks, opts.Hooks, opts.NoHook, hooks.EventPrune)
	if err != nil {
		return rep, err
	}

	// Worktrees named one by one on stdin or ticked in the picker need no
	// further confirmation.
	explicit := false
	switch {
	case sel.Pattern != "":
		rep.Selected = MatchPattern(rep.Available, sel.Pattern)
	case sel.Stdin != nil:
		var unknown []string
		rep.Selected, unknown, err = MatchList(rep.Available, sel.Stdin)
		if err != nil {
			return rep, err
		}
		for _, u := range unknown {
			l.Printf("Warning: no worktree for %q\n", u)
		}
		explicit = true
	case sel.Interactive:
		if p.Pick == nil {
			return rep, fmt.Errorf("interactive selection needs a terminal")
		}
		if len(rep.Available) == 0 {
			break
		}
		chosen, cancelled, err := p.Pick(ctx, rep.Available)
		if err != nil {
			return rep, fmt.Errorf("interactive selection: %w", err)
		}
		if cancelled {
			rep.Cancelled = true
			l.Println("Cancelled, nothing removed")
			return rep, nil
		}
		for _, i := range chosen {
			rep.Selected = append(rep.Selected, rep.Available[i])
		}
		explicit = true
	case opts.DryRun:
		rep.Selected = rep.Available
	default:
		return rep, ErrNoSelector
	}

	if len(rep.Selected) == 0 {
		p.printAvailable(ctx, sel, rep.Available)
		return rep, nil
	}

	if !opts.Force && !opts.DryRun && !explicit {
		ok, err := p.confirm(ctx, rep.Selected)
		if err != nil {
			return rep, err
		}
		if !ok {
			rep.Cancelled = true
			l.Println("Aborted, nothing removed")
			return rep, nil
		}
	}

	var failed []ItemResult
	for _, wt := range rep.Selected {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res := p.remove(ctx, wt, matches, opts.DryRun)
		rep.Items = append(rep.Items, res)
		if res.Err != nil {
			failed = append(failed, res)
		}
	}

	if !opts.DryRun {
		if err := git.PruneWorktrees(ctx, p.RepoRoot); err != nil {
			l.Printf("Warning: git worktree prune: %v\n", err)
		}
	}

	removed := len(rep.Items) - len(failed)
	if opts.DryRun {
		output.FromContext(ctx).Printf("Would remove %d worktree(s)\n", removed)
	} else {
		output.FromContext(ctx).Printf("Removed %d worktree(s)\n", removed)
	}
	if len(failed) > 0 {
		return rep, &Error{Failures: failed}
	}
	return rep, nil
}

// remove deletes one worktree and its branch, then runs the hooks.
func (p *Pruner) remove(ctx context.Context, wt git.Worktree, matches []hooks.Match, dryRun bool) ItemResult {
	l := log.FromContext(ctx)
	res := ItemResult{Worktree: wt}
	deleteBranch := !wt.Detached && wt.Branch != ""

	if dryRun {
		l.Printf("Would remove worktree: %s (%s)\n", displayBranch(wt), wt.Path)
	} else {
		// A prunable worktree's directory is gone already; prune drops its
		// metadata so the branch can be deleted.
		if wt.Prunable {
			res.Err = git.PruneWorktrees(ctx, p.RepoRoot)
		} else {
			res.Err = git.RemoveWorktree(ctx, p.RepoRoot, wt.Path, true)
		}
		if res.Err != nil {
			l.Printf("Error: remove %s: %v\n", wt.Path, res.Err)
			return res
		}
		res.Removed = true

		if deleteBranch {
			if err := git.DeleteBranch(ctx, p.RepoRoot, wt.Branch); err != nil {
				res.Err = fmt.Errorf("delete branch %s: %w", wt.Branch, err)
				l.Printf("Error: %v\n", res.Err)
			} else {
				res.BranchDeleted = true
			}
		}
		l.Printf("Removed worktree: %s (%s)\n", displayBranch(wt), wt.Path)

		store := prompt.Store{Dir: p.Config.Prompt.Dir}
		if deleteBranch {
			if err := store.Remove(wt.Branch); err != nil {
				l.Printf("Warning: %v\n", err)
			}
		}
	}

	hc := p.hookContext(wt, dryRun)
	if _, err := hooks.RunRepoHook(ctx, p.RepoRoot, hc); err != nil {
		l.Printf("Warning: %v\n", err)
		res.HookErrors = append(res.HookErrors, err)
	}
	res.HookErrors = append(res.HookErrors, hooks.RunForEach(ctx, matches, hc)...)
	return res
}

func (p *Pruner) hookContext(wt git.Worktree, dryRun bool) hooks.Context {
	m := vars.Map{
		"worktree":  wt.Path,
		"branch":    wt.Branch,
		"repo_root": p.RepoRoot,
		"repo_name": filepath.Base(p.RepoRoot),
	}
	return hooks.Context{
		Vars: m,
		Dir:  p.RepoRoot,
		Env: []string{
			"KICKOFF_WORKTREE_PATH=" + wt.Path,
			"KICKOFF_BRANCH=" + wt.Branch,
			"KICKOFF_REPO_ROOT=" + p.RepoRoot,
		},
		DryRun: dryRun,
		Stdout: p.Stdout,
		Stderr: p.Stderr,
	}
}

func (p *Pruner) confirm(ctx context.Context, selected []git.Worktree) (bool, error) {
	if p.Confirm == nil {
		return false, ErrNotConfirmed
	}
	l := log.FromContext(ctx)
	l.Println("Will remove these worktrees and delete their branches:")
	for _, wt := range selected {
		l.Printf("  %s (%s)\n", displayBranch(wt), wt.Path)
	}
	return p.Confirm(ctx, fmt.Sprintf("Remove %d worktree(s)?", len(selected)))
}

func (p *Pruner) printAvailable(ctx context.Context, sel Selection, available []git.Worktree) {
	l := log.FromContext(ctx)
	if sel.Pattern != "" {
		l.Printf("No worktrees match %q\n", sel.Pattern)
	} else {
		l.Println("No worktrees selected")
	}
	if len(available) == 0 {
		l.Println("There are no worktrees besides the main one")
		return
	}

	l.Println("Available worktrees:")
	store := prompt.Store{Dir: p.Config.Prompt.Dir}
	rows := make([]static.Row, len(available))
	for i, wt := range available {
		rows[i] = static.Row{Worktree: wt, HasPrompt: store.Exists(wt.Branch)}
	}
	output.FromContext(ctx).Print(static.Worktrees(rows))
}

// MatchPattern returns the worktrees whose branch contains pattern.
// Detached worktrees match on their directory name.
func MatchPattern(worktrees []git.Worktree, pattern string) []git.Worktree {
	var out []git.Worktree
	for _, wt := range worktrees {
		name := wt.Branch
		if wt.Detached || name == "" {
			name = filepath.Base(wt.Path)
		}
		if strings.Contains(name, pattern) {
			out = append(out, wt)
		}
	}
	return out
}

// MatchList reads one branch or path per line from r and returns the
// matching worktrees in input order, without duplicates. Lines that match
// nothing are returned as unknown. Blank lines are ignored.
func MatchList(worktrees []git.Worktree, r io.Reader) (matched []git.Worktree, unknown []string, err error) {
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		wt, ok := find(worktrees, line)
		if !ok {
			unknown = append(unknown, line)
			continue
		}
		if !seen[wt.Path] {
			seen[wt.Path] = true
			matched = append(matched, wt)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read selection: %w", err)
	}
	return matched, unknown, nil
}

func find(worktrees []git.Worktree, s string) (git.Worktree, bool) {
	for _, wt := range worktrees {
		if wt.Branch != "" && wt.Branch == s {
			return wt, true
		}
	}
	if filepath.IsAbs(s) {
		for _, wt := range worktrees {
			if git.SamePath(wt.Path, s) {
				return wt, true
			}
		}
	}
	return git.Worktree{}, false
}

func displayBranch(wt git.Worktree) string {
	if wt.Detached || wt.Branch == "" {
		return "(detached)"
	}
	return wt.Branch
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/prune"
	"github.com/raphi011/kickoff/internal/ui/picker"
	"github.com/raphi011/kickoff/internal/ui/prompt"
)

func newPruneCmd(g *globals) *cobra.Command {
	var (
		force       bool
		dryRun      bool
		fromStdin   bool
		interactive bool
		noHook      bool
		hookNames   []string
	)

	cmd := &cobra.Command{
		Use:     "prune [pattern]",
		Short:   "Remove worktrees and their branches",
		Aliases: []string{"p"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Remove worktrees and delete their branches.

Select worktrees by a pattern (substring of the branch name), by a list of
branches or paths on stdin, or interactively. Without a selector, --dry-run
previews removal of every worktree. The main worktree is never touched.

A pattern selection asks for confirmation unless --force is given. Worktrees
listed on stdin or picked interactively are removed without asking.
Uncommitted changes
in a selected worktree are discarded.

After each removal the repository's .kickoff/hooks/post-remove script runs
(when executable), followed by config hooks with on=["prune"]. Hooks run in
the repository root and see KICKOFF_WORKTREE_PATH, KICKOFF_BRANCH and
KICKOFF_REPO_ROOT.`,
		Example: `  kickoff prune IOS-              # Remove worktrees whose branch contains IOS-
  kickoff prune IOS- -f           # Without confirmation
  kickoff prune -n                # Preview removing everything
  kickoff prune -i                # Pick interactively
  kickoff list --branches | grep done/ | kickoff prune --stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sel := prune.Selection{Interactive: interactive}
			selectors := 0
			if len(args) == 1 {
				sel.Pattern = args[0]
				selectors++
			}
			if fromStdin {
				sel.Stdin = cmd.InOrStdin()
				selectors++
			}
			if interactive {
				selectors++
			}
			if selectors > 1 {
				return fmt.Errorf("use only one of a pattern, --stdin or --interactive")
			}

			root, cfg, err := g.repo(ctx)
			if err != nil {
				return err
			}

			p := &prune.Pruner{
				RepoRoot: root,
				Config:   cfg,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
			}
			if g.canPrompt() {
				p.Pick = pickWorktrees
				p.Confirm = confirm
			}

			_, err = p.Run(ctx, sel, prune.Options{
				Force:  force,
				DryRun: dryRun,
				NoHook: noHook,
				Hooks:  hookNames,
			})
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove without confirmation")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview without removing")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read branches or paths to remove from stdin")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick worktrees interactively")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip removal hooks")
	cmd.Flags().StringSliceVar(&hookNames, "hook", nil, "Run only the named hook(s)")

	return cmd
}

// pickWorktrees shows the fuzzy picker on the terminal.
func pickWorktrees(ctx context.Context, candidates []git.Worktree) ([]int, bool, error) {
	options := make([]picker.Option, len(candidates))
	for i, wt := range candidates {
		label := wt.Branch
		if wt.Detached || label == "" {
			label = "(detached) " + wt.Head[:min(7, len(wt.Head))]
		}
		options[i] = picker.Option{Label: label, Description: wt.Path}
	}

	res, err := picker.Run(ctx, "Select worktrees to prune", options, os.Stdin, os.Stderr)
	if err != nil {
		return nil, false, err
	}
	return res.Selected, res.Cancelled, nil
}

func confirm(ctx context.Context, question string) (bool, error) {
	answer, err := prompt.Confirm(ctx, prompt.Question{Text: question}, os.Stdin, os.Stderr)
	if err != nil {
		return false, err
	}
	return answer == prompt.Yes, nil
}

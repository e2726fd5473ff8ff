package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/output"
	"github.com/raphi011/kickoff/internal/prompt"
	"github.com/raphi011/kickoff/internal/ui/static"
)

func newListCmd(g *globals) *cobra.Command {
	var (
		jsonOutput bool
		branches   bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the worktrees of the current repository",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the worktrees of the current repository.

The main worktree is hidden unless --all is given. The list is read live
from git on every call. PROMPT tells whether a composed prompt is stored for
the branch.`,
		Example: `  kickoff list                # Table of linked worktrees
  kickoff list --all          # Include the main worktree
  kickoff list --branches     # One branch per line, for scripting
  kickoff list --json         # Output as JSON
  kickoff list --branches | grep IOS- | kickoff prune --stdin -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			root, cfg, err := g.repo(ctx)
			if err != nil {
				return err
			}
			wts, err := git.ListWorktrees(ctx, root)
			if err != nil {
				return err
			}

			var shown []git.Worktree
			for _, wt := range wts {
				if wt.Main && !all {
					continue
				}
				shown = append(shown, wt)
			}

			switch {
			case jsonOutput:
				if shown == nil {
					shown = []git.Worktree{}
				}
				return out.JSON(shown)
			case branches:
				for _, wt := range shown {
					if wt.Branch != "" && !wt.Detached {
						out.Println(wt.Branch)
					}
				}
				return nil
			}

			if len(shown) == 0 {
				l.Println("No worktrees found")
				return nil
			}
			store := prompt.Store{Dir: cfg.Prompt.Dir}
			rows := make([]static.Row, len(shown))
			for i, wt := range shown {
				rows[i] = static.Row{Worktree: wt, HasPrompt: store.Exists(wt.Branch)}
			}
			out.Print(static.Worktrees(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&branches, "branches", false, "Print one branch per line")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include the main worktree")
	cmd.MarkFlagsMutuallyExclusive("json", "branches")

	return cmd
}

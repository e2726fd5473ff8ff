package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/forge"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/launcher"
	"github.com/raphi011/kickoff/internal/source"
	"github.com/raphi011/kickoff/internal/vars"
	"github.com/raphi011/kickoff/internal/workitem"
)

// sourceFlags are the explicit source selectors of launch.
type sourceFlags struct {
	ticket string
	issue  string
	pr     string
	prompt string
}

func newLaunchCmd(g *globals) *cobra.Command {
	var (
		src        sourceFlags
		branch     string
		dryRun     bool
		copyPrompt bool
		noHook     bool
		hookNames  []string
		args       []string
	)

	cmd := &cobra.Command{
		Use:     "launch [input]",
		Short:   "Prepare a worktree for a work item and run the launch script",
		Aliases: []string{"l"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Prepare a worktree for a work item and run the launch script.

The input is classified automatically:
  IOS-1234, https://acme.atlassian.net/browse/IOS-1234   Jira ticket
  https://github.com/acme/app/pull/7, pr:7               pull request
  https://github.com/acme/app/issues/42, #42, gh:42      issue
  anything else                                          free-form prompt

Comma-separated references are launched one after another. Without an
argument the input is read from stdin when it is piped.

The worktree is reused when it already exists, so running the same input
twice is safe.`,
		Example: `  kickoff launch IOS-1234                 # Jira ticket
  kickoff launch https://github.com/acme/app/pull/7
  kickoff launch IOS-1,IOS-2,#42          # Batch
  kickoff launch --prompt "fix flaky test"
  kickoff launch IOS-1234 -n              # Dry-run: show the plan
  kickoff launch IOS-1234 -b hotfix/crash # Override the branch
  kickoff launch IOS-1234 --arg team=ios  # Extra template variable
  echo IOS-1234 | kickoff launch`,
		RunE: func(cmd *cobra.Command, positional []string) error {
			ctx := cmd.Context()

			items, err := launchItems(cmd, positional, src)
			if err != nil {
				return err
			}
			if branch != "" && len(items) > 1 {
				return fmt.Errorf("--branch cannot be used with %d items", len(items))
			}
			argVars, err := vars.Parse(args)
			if err != nil {
				return err
			}

			root, cfg, err := g.repo(ctx)
			if err != nil {
				return err
			}
			origin, err := git.OriginURL(ctx, root)
			if err != nil {
				return err
			}

			l := &launcher.Launcher{
				Config:    cfg,
				RepoRoot:  root,
				OriginURL: origin,
				User:      cfg.UserName(g.getenv),
				Fetcher:   source.NewRouter(cfg.Credentials(g.getenv), cfg.Hosts, forge.ByName(cfg.Forge.Default)),
				Options: launcher.Options{
					Branch: branch,
					DryRun: dryRun,
					Copy:   copyPrompt,
					NoHook: noHook,
					Hooks:  hookNames,
					Args:   argVars,
				},
				Spinner: isTerminal(cmd.ErrOrStderr()) && !g.verbose && !g.quiet,
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			}

			if len(items) == 1 {
				_, err := l.Run(ctx, items[0])
				return err
			}
			_, err = l.RunBatch(ctx, items)
			return err
		},
	}

	cmd.Flags().StringVar(&src.ticket, "ticket", "", "Treat the value as a Jira ticket key")
	cmd.Flags().StringVar(&src.issue, "issue", "", "Treat the value as an issue number or URL")
	cmd.Flags().StringVar(&src.pr, "pr", "", "Treat the value as a pull/merge request number or URL")
	cmd.Flags().StringVar(&src.prompt, "prompt", "", "Treat the value as a free-form prompt")
	cmd.MarkFlagsMutuallyExclusive("ticket", "issue", "pr", "prompt")

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Override the branch name")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the plan without touching anything")
	cmd.Flags().BoolVar(&copyPrompt, "copy", false, "Copy the composed prompt to the clipboard")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip launch hooks")
	cmd.Flags().StringSliceVar(&hookNames, "hook", nil, "Run only the named hook(s)")
	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "Set template variable KEY=VALUE")

	return cmd
}

// launchItems turns the arguments, the source flags or piped stdin into
// work items. An explicit source flag skips classification and batching.
func launchItems(cmd *cobra.Command, positional []string, src sourceFlags) ([]launcher.Item, error) {
	explicit, set, err := src.reference()
	if err != nil {
		return nil, err
	}
	if set {
		if len(positional) > 0 {
			return nil, fmt.Errorf("unexpected argument %q: the input is given by a source flag", positional[0])
		}
		return []launcher.Item{{Input: explicit.String(), Ref: &explicit}}, nil
	}

	var input string
	if len(positional) == 1 {
		input = positional[0]
	} else {
		if input, err = readAll(cmd.InOrStdin()); err != nil {
			return nil, err
		}
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("no input: pass a ticket, issue, PR or prompt, or pipe it to stdin")
	}

	parts := workitem.SplitBatch(input)
	items := make([]launcher.Item, len(parts))
	for i, p := range parts {
		items[i] = launcher.Item{Input: p}
	}
	return items, nil
}

// reference builds the reference named by a source flag. set is false when
// no flag was given.
func (s sourceFlags) reference() (ref workitem.Reference, set bool, err error) {
	switch {
	case s.ticket != "":
		return workitem.Ticket(s.ticket), true, nil
	case s.issue != "":
		ref, err = numbered(s.issue, workitem.KindIssue)
		return ref, true, err
	case s.pr != "":
		ref, err = numbered(s.pr, workitem.KindPullRequest)
		return ref, true, err
	case s.prompt != "":
		return workitem.Raw(s.prompt), true, nil
	}
	return workitem.Reference{}, false, nil
}

// numbered parses a plain number, or any input classifying as kind.
func numbered(value string, kind workitem.Kind) (workitem.Reference, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(strings.TrimPrefix(value, "#")); err == nil && n > 0 {
		if kind == workitem.KindIssue {
			return workitem.Issue(n, workitem.RepoHint{}), nil
		}
		return workitem.PullRequest(n, workitem.RepoHint{}), nil
	}
	if ref := workitem.Classify(value); ref.Kind == kind {
		return ref, nil
	}
	return workitem.Reference{}, fmt.Errorf("invalid --%s value %q", kind, value)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/doctor"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/log"
)

func newDoctorCmd(g *globals) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair setup issues.

Checks:
- Config file exists
- Jira credentials are complete
- A token is configured for the repository's forge
- Templates, launch script and launch hooks only use known placeholders
- Git is available and no worktree directory has gone missing
- The prompt directory exists and is writable`,
		Example: `  kickoff doctor          # Check for issues
  kickoff doctor --fix    # Auto-fix recoverable issues`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, _ := config.Path(g.configPath, g.getenv)
			d := &doctor.Doctor{
				Config:     config.FromContext(ctx),
				ConfigPath: path,
				Getenv:     g.getenv,
			}
			if root, cfg, err := g.repo(ctx); err == nil {
				d.Config, d.RepoRoot = cfg, root
				d.OriginURL, _ = git.OriginURL(ctx, root)
			} else {
				log.FromContext(ctx).Debug("not in a repository, skipping repository checks", "err", err)
			}

			report, err := d.Run(ctx, fix)
			if err != nil {
				return err
			}
			if left := len(report.Issues) - report.Fixed; left > 0 {
				return fmt.Errorf("%d issue(s) found", left)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Auto-fix recoverable issues")

	return cmd
}

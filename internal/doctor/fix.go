package doctor

import (
	"context"
	"os"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/output"
)

// fixAll applies the fix of every fixable issue. A single `git worktree
// prune` resolves all stale worktree entries at once.
func (d *Doctor) fixAll(ctx context.Context, issues []Issue) (fixed, failed int) {
	p := output.FromContext(ctx)
	p.Println()

	var pruned bool
	var pruneErr error
	for _, issue := range issues {
		if ctx.Err() != nil {
			return fixed, failed
		}

		var err error
		switch issue.FixAction {
		case FixInitConfig:
			err = config.Init(d.ConfigPath, false)
		case FixPrune:
			if !pruned {
				pruneErr = git.PruneWorktrees(ctx, d.RepoRoot)
				pruned = true
			}
			err = pruneErr
		case FixPromptDir:
			err = os.MkdirAll(issue.Key, 0o755)
		default:
			continue
		}

		if err != nil {
			p.Printf("  ✗ Failed to fix %s: %v\n", issue.Key, err)
			failed++
			continue
		}
		p.Printf("  ✓ %s: %s\n", fixVerb(issue.FixAction), issue.Key)
		fixed++
	}
	return fixed, failed
}

func fixVerb(action string) string {
	switch action {
	case FixInitConfig:
		return "Wrote default config"
	case FixPrune:
		return "Pruned stale worktree"
	default:
		return "Created prompt directory"
	}
}

// Package static renders non-interactive terminal output, such as the
// worktree table of `kickoff list`.
package static

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/ui/styles"
)

// Row is one line of the worktree table.
type Row struct {
	Worktree git.Worktree
	// HasPrompt reports whether a stored prompt exists for the branch.
	HasPrompt bool
}

var headers = []string{"BRANCH", "PATH", "HEAD", "PROMPT"}

// cells formats a row. Detached worktrees show "(detached)" as branch,
// prunable ones get a "(prunable)" marker after the path.
func (r Row) cells() []string {
	wt := r.Worktree
	branch := wt.Branch
	if wt.Detached || branch == "" {
		branch = "(detached)"
	}

	path := wt.Path
	if wt.Prunable {
		path += " " + styles.WarningStyle.Render("(prunable)")
	}

	head := wt.Head
	if len(head) > 7 {
		head = head[:7]
	}

	prompt := "-"
	if r.HasPrompt {
		prompt = "yes"
	}
	return []string{branch, path, head, prompt}
}

// Worktrees renders rows as a borderless table ending in a newline. The main
// worktree, when listed, is muted. No rows render nothing.
func Worktrees(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Headers(headers...).
		Rows(cells...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell.Bold(true)
			case rows[row].Worktree.Main:
				return cell.Foreground(styles.Muted)
			default:
				return cell
			}
		})
	return t.String() + "\n"
}

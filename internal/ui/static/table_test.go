package static

import (
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/kickoff/internal/git"
)

func TestRow_Cells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  Row
		want []string
	}{
		{
			name: "branch with prompt",
			row:  Row{Worktree: git.Worktree{Path: "/src/worktrees/IOS-1234", Branch: "IOS-1234", Head: "abc1234def5678"}, HasPrompt: true},
			want: []string{"IOS-1234", "/src/worktrees/IOS-1234", "abc1234", "yes"},
		},
		{
			name: "detached",
			row:  Row{Worktree: git.Worktree{Path: "/src/worktrees/review", Head: "0123456789", Detached: true}},
			want: []string{"(detached)", "/src/worktrees/review", "0123456", "-"},
		},
		{
			name: "short head kept",
			row:  Row{Worktree: git.Worktree{Path: "/src/repo", Branch: "main", Head: "abc", Main: true}},
			want: []string{"main", "/src/repo", "abc", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.row.cells(); !slices.Equal(got, tt.want) {
				t.Errorf("cells() = %q, want %q", got, tt.want)
			}
		})
	}

	prunable := Row{Worktree: git.Worktree{Path: "/gone", Branch: "old", Head: "abc1234", Prunable: true}}.cells()
	if !strings.HasPrefix(prunable[1], "/gone ") || !strings.Contains(prunable[1], "(prunable)") {
		t.Errorf("PATH cell = %q, want path followed by prunable marker", prunable[1])
	}
}

func TestWorktrees(t *testing.T) {
	t.Parallel()

	if got := Worktrees(nil); got != "" {
		t.Errorf("Worktrees(nil) = %q, want empty", got)
	}

	out := Worktrees([]Row{
		{Worktree: git.Worktree{Path: "/src/repo", Branch: "main", Head: "1111111", Main: true}},
		{Worktree: git.Worktree{Path: "/src/worktrees/feature_login", Branch: "feature/login", Head: "def5678"}, HasPrompt: true},
	})
	for _, want := range []string{"BRANCH", "PATH", "HEAD", "PROMPT", "feature/login", "/src/worktrees/feature_login", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Worktrees() missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 3 {
		t.Errorf("Worktrees() has %d lines, want header and 2 rows:\n%s", len(lines), out)
	}
}

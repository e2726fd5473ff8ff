package vars

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/kickoff/internal/source"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestBuild(t *testing.T) {
	t.Parallel()

	m, err := Build(Input{
		Context: source.Context{
			ID:     "IOS-1234",
			Title:  "Crash on launch",
			Slug:   "crash-on-launch",
			URL:    "https://acme.atlassian.net/browse/IOS-1234",
			Labels: []string{"ios", "crash"},
		},
		RepoRoot:  "/src/widgets",
		OriginURL: "git@github.com:acme/widgets.git",
		User:      "ada",
		Now:       fixedNow,
		RunID:     "run1",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Map{
		"ticket_id": "IOS-1234",
		"branch":    "IOS-1234",
		"worktree":  "/src/worktrees/IOS-1234",
		"repo_root": "/src/widgets",
		"repo_name": "widgets",
		"repo_slug": "acme/widgets",
		"timestamp": "1773480413",
		"date":      "2026-03-14",
		"run_id":    "run1",
		"user":      "ada",
		"title":     "Crash on launch",
		"slug":      "crash-on-launch",
		"url":       "https://acme.atlassian.net/browse/IOS-1234",
		"labels":    "ios,crash",
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Build() =\n%v\nwant\n%v", m, want)
	}
}

func TestBuild_Branch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       Input
		want     string
		worktree string
	}{
		{
			name:     "template with slug and user",
			in:       Input{Context: source.Context{ID: "IOS-1", Slug: "fix-it"}, BranchTemplate: "{user}/{ticket_id}-{slug}", User: "ada"},
			want:     "ada/IOS-1-fix-it",
			worktree: "/src/worktrees/ada_IOS-1-fix-it",
		},
		{
			name:     "source branch beats template",
			in:       Input{Context: source.Context{ID: "pr-42", SourceBranch: "feature/login"}, BranchTemplate: "{user}/{ticket_id}"},
			want:     "feature/login",
			worktree: "/src/worktrees/feature_login",
		},
		{
			name:     "override beats source branch",
			in:       Input{Context: source.Context{ID: "pr-42", SourceBranch: "feature/login"}, BranchOverride: "hotfix"},
			want:     "hotfix",
			worktree: "/src/worktrees/hotfix",
		},
		{
			name:     "custom vars visible to the template",
			in:       Input{Context: source.Context{ID: "IOS-1"}, BranchTemplate: "{team}/{ticket_id}", Custom: map[string]string{"team": "web"}},
			want:     "web/IOS-1",
			worktree: "/src/worktrees/web_IOS-1",
		},
		{
			name:     "unknown placeholder kept",
			in:       Input{Context: source.Context{ID: "IOS-1"}, BranchTemplate: "{ticket_id}-{slug}"},
			want:     "IOS-1-{slug}",
			worktree: "/src/worktrees/IOS-1-{slug}",
		},
		{
			name:     "backslash and colon sanitized in path",
			in:       Input{Context: source.Context{ID: "x"}, BranchOverride: `a\b:c/d`},
			want:     `a\b:c/d`,
			worktree: "/src/worktrees/a_b_c_d",
		},
		{
			name:     "absolute worktree template",
			in:       Input{Context: source.Context{ID: "IOS-1"}, WorktreeTemplate: "/tmp/wt/{repo_name}/{branch}"},
			want:     "IOS-1",
			worktree: "/tmp/wt/widgets/IOS-1",
		},
		{
			name:     "relative template inside repo",
			in:       Input{Context: source.Context{ID: "IOS-1"}, WorktreeTemplate: "./.worktrees/{branch}"},
			want:     "IOS-1",
			worktree: "/src/widgets/.worktrees/IOS-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.in.RepoRoot = "/src/widgets"
			tt.in.Now = fixedNow
			m, err := Build(tt.in)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if m["branch"] != tt.want {
				t.Errorf("branch = %q, want %q", m["branch"], tt.want)
			}
			if m["worktree"] != tt.worktree {
				t.Errorf("worktree = %q, want %q", m["worktree"], tt.worktree)
			}
		})
	}
}

func TestBuild_CustomVarsWin(t *testing.T) {
	t.Parallel()

	m, err := Build(Input{
		Context:  source.Context{ID: "IOS-1", Title: "computed"},
		RepoRoot: "/src/widgets",
		Custom:   map[string]string{"title": "mine", "editor": "nvim"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m["title"] != "mine" || m["editor"] != "nvim" {
		t.Errorf("custom vars not merged last: title=%q editor=%q", m["title"], m["editor"])
	}
	if len(m["run_id"]) != 12 {
		t.Errorf("run_id = %q, want generated 12 char id", m["run_id"])
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
	}{
		{"no id", Input{RepoRoot: "/src/widgets"}},
		{"no root", Input{Context: source.Context{ID: "x"}}},
		{"empty branch", Input{Context: source.Context{ID: "x"}, RepoRoot: "/r", BranchTemplate: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Build(tt.in); err == nil {
				t.Error("Build() expected error")
			}
		})
	}
}

func TestBuild_HomeTemplate(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	m, err := Build(Input{
		Context:          source.Context{ID: "IOS-1"},
		RepoRoot:         "/src/widgets",
		WorktreeTemplate: "~/worktrees/{repo_name}-{branch}",
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "worktrees", "widgets-IOS-1"); m["worktree"] != want {
		t.Errorf("worktree = %q, want %q", m["worktree"], want)
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	m := Map{"ticket_id": "IOS-1", "title": "Fix {it}", "empty": ""}

	tests := []struct {
		tpl  string
		want string
	}{
		{"{ticket_id}: {title}", "IOS-1: Fix {it}"},
		{"{unknown} stays", "{unknown} stays"},
		{"{empty}|", "|"},
		{"{ticket_id", "{ticket_id"},
		{"{ticket-id}", "{ticket-id}"},
		{"{{ticket_id}}", "{IOS-1}"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.tpl, func(t *testing.T) {
			t.Parallel()
			if got := Interpolate(tt.tpl, m); got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.tpl, got, tt.want)
			}
		})
	}
}

func TestUnresolved(t *testing.T) {
	t.Parallel()

	got := Unresolved("{a} {b} {a} {known} {c}", Map{"known": "x"})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}
}

func TestMap_Env(t *testing.T) {
	t.Parallel()

	env := Map{"ticket_id": "IOS-1", "branch": "feat/x"}.Env("KICKOFF")
	want := []string{"KICKOFF_BRANCH=feat/x", "KICKOFF_TICKET_ID=IOS-1"}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("Env() = %v, want %v", env, want)
	}
	if got := (Map{"a": "1"}).Env(""); !reflect.DeepEqual(got, []string{"A=1"}) {
		t.Errorf("Env(\"\") = %v", got)
	}
}

func TestSanitizeBranch(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"feature/login": "feature_login",
		`win\path`:      "win_path",
		"scope:thing":   "scope_thing",
		"plain":         "plain",
		"a/b\\c:d/e":    "a_b_c_d_e",
	} {
		if got := SanitizeBranch(in); got != want {
			t.Errorf("SanitizeBranch(%q) = %q, want %q", in, got, want)
		}
		if strings.ContainsAny(SanitizeBranch(in), `/\:`) {
			t.Errorf("SanitizeBranch(%q) kept a separator", in)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse([]string{"team=web", "note=a=b", "empty="})
	if err != nil {
		t.Fatal(err)
	}
	want := Map{"team": "web", "note": "a=b", "empty": ""}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Parse() = %v, want %v", m, want)
	}

	for _, bad := range []string{"novalue", "=x", "bad-key=1", "1st=x"} {
		if _, err := Parse([]string{bad}); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raphi011/kickoff/internal/forge"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/hooks"
	"github.com/raphi011/kickoff/internal/source"
	"github.com/raphi011/kickoff/internal/vars"
)

// sampleContext has every field set, so only placeholders no source can
// fill remain unresolved.
var sampleContext = source.Context{
	ID:           "ABC-1",
	Title:        "Sample title",
	Description:  "Sample description",
	Slug:         "sample-title",
	URL:          "https://example.com/ABC-1",
	Author:       "someone",
	Labels:       []string{"bug"},
	SourceBranch: "feature/sample",
}

// checkConfig returns the number of checks run and the issues found.
func (d *Doctor) checkConfig(context.Context) (int, []Issue) {
	var issues []Issue
	cfg := d.Config
	n := 1

	if cfg.Path == "" && d.ConfigPath != "" {
		issues = append(issues, Issue{
			Key:         d.ConfigPath,
			Description: "no config file, using defaults",
			FixAction:   FixInitConfig,
		})
	}

	creds := cfg.Credentials(d.Getenv)
	if issue, ok := checkJira(creds.Jira); ok {
		issues = append(issues, issue)
	}

	if r, ok := forge.ParseRemote(d.OriginURL); ok {
		n++
		kind := forge.Detect(r.Host, cfg.Hosts)
		token, env := creds.GitHub.Token, "GITHUB_TOKEN"
		if kind == forge.GitLab {
			token, env = creds.GitLab.Token, "GITLAB_TOKEN"
		}
		if token == "" {
			issues = append(issues, Issue{
				Key:         string(kind),
				Description: fmt.Sprintf("no token for %s, private issues and pull requests cannot be fetched (set %s)", r.Host, env),
			})
		}
	}

	checked, tmplIssues := d.checkTemplates()
	return n + 1 + checked, append(issues, tmplIssues...)
}

func checkJira(c source.JiraCredentials) (Issue, bool) {
	if c.BaseURL == "" && c.Email == "" && c.Token == "" {
		return Issue{}, false
	}
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "url (JIRA_URL)")
	}
	if c.Token == "" {
		missing = append(missing, "token (JIRA_API_TOKEN)")
	}
	if len(missing) == 0 {
		return Issue{}, false
	}
	return Issue{
		Key:         "jira",
		Description: "incomplete credentials, missing " + strings.Join(missing, " and "),
	}, true
}

// checkTemplates renders a sample launch and lists the placeholders each
// template would leave untouched.
func (d *Doctor) checkTemplates() (int, []Issue) {
	cfg := d.Config
	root := d.RepoRoot
	if root == "" {
		root = string(os.PathSeparator) + "repo"
	}

	m, err := vars.Build(vars.Input{
		Context:          sampleContext,
		RepoRoot:         root,
		OriginURL:        d.OriginURL,
		BranchTemplate:   cfg.Templates.Branch,
		WorktreeTemplate: cfg.Templates.Worktree,
		User:             cfg.UserName(d.Getenv),
		Custom:           cfg.Vars,
	})
	if err != nil {
		return 1, []Issue{{Key: "templates", Description: err.Error()}}
	}
	// set by the launcher after provisioning
	m["prompt_file"] = ""
	m["worktree_created"] = ""
	if _, ok := m["user"]; !ok {
		m["user"] = ""
	}
	if d.OriginURL == "" && d.RepoRoot == "" {
		m["repo_slug"] = ""
	}

	// the branch is rendered before it exists, so it may use custom vars only
	naming := m.With(nil)
	delete(naming, "branch")
	delete(naming, "worktree")

	type template struct {
		key, text string
		vars      vars.Map
	}
	templates := []template{
		{"templates.branch", cfg.Templates.Branch, naming},
		{"templates.worktree", cfg.Templates.Worktree, naming.With(vars.Map{"branch": ""})},
		{"prompt.prefix", cfg.Prompt.Prefix, m},
		{"prompt.body", cfg.Prompt.Body, m},
		{"prompt.suffix", cfg.Prompt.Suffix, m},
		{"launch.script", cfg.Launch.Script, m},
	}
	if matches, err := hooks.Select(cfg.Hooks, nil, false, hooks.EventLaunch); err == nil {
		for _, match := range matches {
			templates = append(templates, template{"hooks." + match.Name, match.Hook.Command, m})
		}
	}

	var n int
	var issues []Issue
	for _, t := range templates {
		if t.text == "" {
			continue
		}
		n++
		if missing := vars.Unresolved(t.text, t.vars); len(missing) > 0 {
			issues = append(issues, Issue{
				Key:         t.key,
				Description: "unknown placeholder(s) {" + strings.Join(missing, "}, {") + "}",
			})
		}
	}
	return n, issues
}

func (d *Doctor) checkGit(ctx context.Context) (int, []Issue) {
	if err := git.CheckGit(); err != nil {
		return 1, []Issue{{Key: "git", Description: err.Error()}}
	}
	if d.RepoRoot == "" {
		return 1, nil
	}

	wts, err := git.ListWorktrees(ctx, d.RepoRoot)
	if err != nil {
		return 2, []Issue{{Key: d.RepoRoot, Description: fmt.Sprintf("list worktrees: %v", err)}}
	}

	n := 2
	var issues []Issue
	for _, wt := range wts {
		if wt.Main {
			continue
		}
		n++
		if wt.Prunable {
			key := wt.Branch
			if key == "" {
				key = wt.Path
			}
			issues = append(issues, Issue{
				Key:         key,
				Description: "worktree directory missing: " + wt.Path,
				FixAction:   FixPrune,
			})
		}
	}
	return n, issues
}

func (d *Doctor) checkPromptDir(context.Context) (int, []Issue) {
	dir := d.Config.Prompt.Dir
	if dir == "" {
		return 1, []Issue{{Key: "prompt.dir", Description: "not set"}}
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return 1, []Issue{{Key: dir, Description: "does not exist", FixAction: FixPromptDir}}
	case err != nil:
		return 1, []Issue{{Key: dir, Description: err.Error()}}
	case !info.IsDir():
		return 1, []Issue{{Key: dir, Description: "not a directory"}}
	}

	f, err := os.CreateTemp(dir, ".kickoff-doctor-*")
	if err != nil {
		return 1, []Issue{{Key: dir, Description: "not writable"}}
	}
	f.Close()
	os.Remove(f.Name())
	return 1, nil
}

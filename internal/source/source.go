package source

import (
	"context"

	"github.com/raphi011/kickoff/internal/workitem"
)

// Context is the normalized description of a work item, independent of
// where it came from. Only ID is always set.
type Context struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Slug        string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Labels      []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	// SourceBranch is set when the forge already has a branch for the
	// item (pull and merge requests). The worktree must attach to it.
	SourceBranch string `json:"source_branch,omitempty" yaml:"source_branch,omitempty"`
}

// Provider fetches context for a reference.
type Provider interface {
	Fetch(ctx context.Context, ref workitem.Reference) (Context, error)
}

// Credentials holds everything the providers need to authenticate.
type Credentials struct {
	Jira   JiraCredentials
	GitHub TokenCredentials
	GitLab TokenCredentials
}

// JiraCredentials uses basic auth (email:token) when Email is set and a
// bearer personal access token otherwise.
type JiraCredentials struct {
	BaseURL string
	Email   string
	Token   string
}

// TokenCredentials is a forge API token. BaseURL is optional and selects a
// self-hosted instance.
type TokenCredentials struct {
	Token   string
	BaseURL string
}

// itemID is the ticket_id used for forge items, which have no key of their own.
func itemID(ref workitem.Reference) string {
	if ref.Kind == workitem.KindPullRequest {
		return "pr-" + itoa(ref.Number)
	}
	return "issue-" + itoa(ref.Number)
}

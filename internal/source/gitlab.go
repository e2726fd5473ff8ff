package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xanzy/go-gitlab"

	"github.com/raphi011/kickoff/internal/workitem"
)

// GitLabProvider fetches issues and merge requests from gitlab.com or a
// self-hosted instance.
type GitLabProvider struct {
	Credentials TokenCredentials
}

// Fetch retrieves the issue or merge request ref points at. ref.Repo.Path is
// the full project path, including subgroups.
func (p *GitLabProvider) Fetch(ctx context.Context, ref workitem.Reference) (Context, error) {
	id := itemID(ref)
	if ref.Kind != workitem.KindIssue && ref.Kind != workitem.KindPullRequest {
		return Context{}, fmt.Errorf("gitlab: cannot fetch %s", ref)
	}
	if p.Credentials.Token == "" {
		return Context{}, &Error{
			Kind:   KindAuthMissing,
			Source: "gitlab",
			Ref:    id,
			Err:    errors.New("set GITLAB_TOKEN or configure [gitlab] token"),
		}
	}
	project := ref.Repo.Path
	if !strings.Contains(project, "/") {
		return Context{}, &Error{Kind: KindNotFound, Source: "gitlab", Ref: id, Err: errNoRepo}
	}

	client, err := p.client(ref.Repo.Host)
	if err != nil {
		return Context{}, &Error{Kind: KindNetwork, Source: "gitlab", Ref: id, Err: err}
	}

	if ref.Kind == workitem.KindPullRequest {
		mr, resp, err := client.MergeRequests.GetMergeRequest(project, ref.Number, nil, gitlab.WithContext(ctx))
		if err != nil {
			return Context{}, gitlabError(id, resp, err)
		}
		c := Context{
			ID:           id,
			Title:        mr.Title,
			Description:  strings.TrimSpace(mr.Description),
			Slug:         Slugify(mr.Title),
			URL:          mr.WebURL,
			Labels:       []string(mr.Labels),
			SourceBranch: mr.SourceBranch,
		}
		if mr.Author != nil {
			c.Author = mr.Author.Username
		}
		return c, nil
	}

	issue, resp, err := client.Issues.GetIssue(project, ref.Number, gitlab.WithContext(ctx))
	if err != nil {
		return Context{}, gitlabError(id, resp, err)
	}
	c := Context{
		ID:          id,
		Title:       issue.Title,
		Description: strings.TrimSpace(issue.Description),
		Slug:        Slugify(issue.Title),
		URL:         issue.WebURL,
		Labels:      []string(issue.Labels),
	}
	if issue.Author != nil {
		c.Author = issue.Author.Username
	}
	return c, nil
}

// client builds a client without go-gitlab's built-in retries. A configured
// URL wins; otherwise any host other than gitlab.com is used as the base.
func (p *GitLabProvider) client(host string) (*gitlab.Client, error) {
	opts := []gitlab.ClientOptionFunc{gitlab.WithoutRetries()}

	base := p.Credentials.BaseURL
	if base == "" && host != "" && host != "gitlab.com" {
		base = "https://" + host
	}
	if base != "" {
		opts = append(opts, gitlab.WithBaseURL(base))
	}
	return gitlab.NewClient(p.Credentials.Token, opts...)
}

func gitlabError(id string, resp *gitlab.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return statusError("gitlab", id, resp.StatusCode, err)
	}
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return statusError("gitlab", id, errResp.Response.StatusCode, err)
	}
	return &Error{Kind: KindNetwork, Source: "gitlab", Ref: id, Err: err}
}

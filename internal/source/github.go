package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/raphi011/kickoff/internal/workitem"
)

// GitHubProvider fetches issues and pull requests from GitHub or GitHub
// Enterprise.
type GitHubProvider struct {
	Credentials TokenCredentials
}

// Fetch retrieves the issue or pull request ref points at. ref.Repo must be
// set; the router fills it from the origin remote when the input had none.
func (p *GitHubProvider) Fetch(ctx context.Context, ref workitem.Reference) (Context, error) {
	id := itemID(ref)
	if ref.Kind != workitem.KindIssue && ref.Kind != workitem.KindPullRequest {
		return Context{}, fmt.Errorf("github: cannot fetch %s", ref)
	}
	if p.Credentials.Token == "" {
		return Context{}, &Error{
			Kind:   KindAuthMissing,
			Source: "github",
			Ref:    id,
			Err:    errors.New("set GITHUB_TOKEN or configure [github] token"),
		}
	}
	owner, name, ok := strings.Cut(ref.Repo.Path, "/")
	if !ok {
		return Context{}, &Error{Kind: KindNotFound, Source: "github", Ref: id, Err: errNoRepo}
	}

	client, err := p.client(ctx, ref.Repo.Host)
	if err != nil {
		return Context{}, &Error{Kind: KindNetwork, Source: "github", Ref: id, Err: err}
	}

	if ref.Kind == workitem.KindPullRequest {
		pr, resp, err := client.PullRequests.Get(ctx, owner, name, ref.Number)
		if err != nil {
			return Context{}, githubError(id, resp, err)
		}
		c := Context{
			ID:           id,
			Title:        pr.GetTitle(),
			Description:  strings.TrimSpace(pr.GetBody()),
			Slug:         Slugify(pr.GetTitle()),
			URL:          pr.GetHTMLURL(),
			Author:       pr.GetUser().GetLogin(),
			Labels:       githubLabels(pr.Labels),
			SourceBranch: pr.GetHead().GetRef(),
		}
		return c, nil
	}

	issue, resp, err := client.Issues.Get(ctx, owner, name, ref.Number)
	if err != nil {
		return Context{}, githubError(id, resp, err)
	}
	return Context{
		ID:          id,
		Title:       issue.GetTitle(),
		Description: strings.TrimSpace(issue.GetBody()),
		Slug:        Slugify(issue.GetTitle()),
		URL:         issue.GetHTMLURL(),
		Author:      issue.GetUser().GetLogin(),
		Labels:      githubLabels(issue.Labels),
	}, nil
}

// client builds an authenticated client. An explicit API URL wins; a
// repository on a host other than github.com is treated as Enterprise.
func (p *GitHubProvider) client(ctx context.Context, host string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.Credentials.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	base := p.Credentials.BaseURL
	if base == "" && host != "" && host != "github.com" {
		base = "https://" + host + "/"
	}
	if base == "" {
		return client, nil
	}
	return client.WithEnterpriseURLs(base, base)
}

func githubError(id string, resp *github.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return statusError("github", id, resp.StatusCode, err)
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return statusError("github", id, errResp.Response.StatusCode, err)
	}
	return &Error{Kind: KindNetwork, Source: "github", Ref: id, Err: err}
}

func githubLabels(labels []*github.Label) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.GetName())
	}
	return out
}

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/kickoff/internal/forge"
	"github.com/raphi011/kickoff/internal/workitem"
)

// Router dispatches a reference to the provider for its kind. Issues and
// pull requests go to GitHub or GitLab depending on the repository host.
type Router struct {
	Jira   Provider
	GitHub Provider
	GitLab Provider
	Raw    Provider
	// Hosts maps hostnames to forge names ("github", "gitlab").
	Hosts map[string]string
	// Default is used when the reference carries no host at all.
	Default forge.Kind
}

// NewRouter wires the built-in providers with creds.
func NewRouter(creds Credentials, hosts map[string]string, def forge.Kind) *Router {
	return &Router{
		Jira:    &JiraProvider{Credentials: creds.Jira},
		GitHub:  &GitHubProvider{Credentials: creds.GitHub},
		GitLab:  &GitLabProvider{Credentials: creds.GitLab},
		Raw:     RawProvider{},
		Hosts:   hosts,
		Default: def,
	}
}

// Fetch implements Provider.
func (r *Router) Fetch(ctx context.Context, ref workitem.Reference) (Context, error) {
	p, name := r.provider(ref)
	if p == nil {
		return Context{}, fmt.Errorf("no %s provider configured for %s", name, ref)
	}
	return p.Fetch(ctx, ref)
}

// Forge returns the forge an issue or pull request reference resolves to.
func (r *Router) Forge(ref workitem.Reference) forge.Kind {
	if ref.Repo.Host == "" {
		if r.Default != "" {
			return r.Default
		}
		return forge.GitHub
	}
	return forge.Detect(ref.Repo.Host, r.Hosts)
}

func (r *Router) provider(ref workitem.Reference) (Provider, string) {
	switch ref.Kind {
	case workitem.KindTicket:
		return r.Jira, "jira"
	case workitem.KindIssue, workitem.KindPullRequest:
		if r.Forge(ref) == forge.GitLab {
			return r.GitLab, "gitlab"
		}
		return r.GitHub, "github"
	default:
		if r.Raw == nil {
			return RawProvider{}, "raw"
		}
		return r.Raw, "raw"
	}
}

// CheckRepo validates an issue or pull request reference against the
// repository's origin remote and returns the reference with its repository
// filled in. It performs no I/O.
//
// A reference parsed from a URL must point at the origin's repository
// (compared case-insensitively); otherwise the worktree would be created in
// the wrong repository. A shorthand reference ("#42", "pr:7") takes the
// origin as its repository. Other kinds pass through unchanged.
func CheckRepo(ref workitem.Reference, originURL string) (workitem.Reference, error) {
	if ref.Kind != workitem.KindIssue && ref.Kind != workitem.KindPullRequest {
		return ref, nil
	}
	remote, ok := forge.ParseRemote(originURL)

	if ref.Repo.IsZero() {
		if ok {
			ref.Repo = workitem.RepoHint{Host: remote.Host, Path: remote.Path}
		}
		return ref, nil
	}

	if !ok {
		return ref, &Error{
			Kind: KindRepoMismatch,
			Ref:  ref.String(),
			Err:  fmt.Errorf("repository has no usable origin remote to compare with %s", ref.Repo.Path),
		}
	}
	if !strings.EqualFold(ref.Repo.Path, remote.Path) {
		return ref, &Error{
			Kind: KindRepoMismatch,
			Ref:  ref.String(),
			Err:  fmt.Errorf("link points at %s but origin is %s", ref.Repo.Path, remote.Path),
		}
	}
	return ref, nil
}

package forge

import (
	"net/url"
	"strings"
)

// Kind names a supported code host.
type Kind string

const (
	GitHub Kind = "github"
	GitLab Kind = "gitlab"
)

// Remote is a parsed git remote: the host and the repository path without
// leading slash or .git suffix ("acme/widgets", "group/sub/project").
type Remote struct {
	Host string
	Path string
}

// Owner returns everything before the last path segment.
func (r Remote) Owner() string {
	if i := strings.LastIndex(r.Path, "/"); i > 0 {
		return r.Path[:i]
	}
	return ""
}

// Name returns the last path segment.
func (r Remote) Name() string {
	return r.Path[strings.LastIndex(r.Path, "/")+1:]
}

// Detect returns the forge for host, which may also be a full remote URL.
// hostMap entries win over pattern matching; anything unknown is GitHub.
func Detect(host string, hostMap map[string]string) Kind {
	if strings.Contains(host, "/") || strings.Contains(host, ":") {
		if r, ok := ParseRemote(host); ok {
			host = r.Host
		}
	}
	host = strings.ToLower(host)

	for h, kind := range hostMap {
		if strings.EqualFold(h, host) {
			return ByName(kind)
		}
	}
	if isGitLab(host) {
		return GitLab
	}
	return GitHub
}

// ByName maps a config value to a Kind, defaulting to GitHub.
func ByName(name string) Kind {
	if strings.EqualFold(name, string(GitLab)) {
		return GitLab
	}
	return GitHub
}

func isGitLab(host string) bool {
	return host == "gitlab.com" || strings.HasPrefix(host, "gitlab.")
}

// ParseRemote parses the remote URL forms git accepts:
//
//	git@github.com:acme/widgets.git
//	https://github.com/acme/widgets(.git)
//	ssh://git@gitlab.corp:2222/group/sub/project.git
//
// Local paths and file:// URLs have no host and are rejected.
func ParseRemote(remoteURL string) (Remote, bool) {
	remoteURL = strings.TrimSpace(remoteURL)

	var host, path string
	switch {
	case strings.Contains(remoteURL, "://"):
		u, err := url.Parse(remoteURL)
		if err != nil || u.Hostname() == "" {
			return Remote{}, false
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(remoteURL, "@"):
		// scp-like syntax: user@host:path
		user, rest, _ := strings.Cut(remoteURL, "@")
		h, p, ok := strings.Cut(rest, ":")
		if !ok || strings.ContainsAny(user, "/:") || strings.Contains(h, "/") {
			return Remote{}, false
		}
		host, path = h, p
	default:
		return Remote{}, false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if host == "" || !strings.Contains(path, "/") {
		return Remote{}, false
	}
	return Remote{Host: strings.ToLower(host), Path: path}, true
}

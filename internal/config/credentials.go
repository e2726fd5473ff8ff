package config

import "github.com/raphi011/kickoff/internal/source"

// Credentials resolves source credentials, preferring the environment over
// the config file. The result is handed to the providers so that they never
// read the process environment themselves.
//
//	JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN
//	GITHUB_TOKEN (or GH_TOKEN), GITHUB_API_URL
//	GITLAB_TOKEN, GITLAB_URL
func (c *Config) Credentials(getenv func(string) string) source.Credentials {
	first := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	return source.Credentials{
		Jira: source.JiraCredentials{
			BaseURL: first(getenv("JIRA_URL"), c.Jira.URL),
			Email:   first(getenv("JIRA_EMAIL"), c.Jira.Email),
			Token:   first(getenv("JIRA_API_TOKEN"), c.Jira.Token),
		},
		GitHub: source.TokenCredentials{
			Token:   first(getenv("GITHUB_TOKEN"), getenv("GH_TOKEN"), c.GitHub.Token),
			BaseURL: first(getenv("GITHUB_API_URL"), c.GitHub.APIURL),
		},
		GitLab: source.TokenCredentials{
			Token:   first(getenv("GITLAB_TOKEN"), c.GitLab.Token),
			BaseURL: first(getenv("GITLAB_URL"), c.GitLab.URL),
		},
	}
}

// UserName returns the configured user, falling back to $USER.
func (c *Config) UserName(getenv func(string) string) string {
	if c.User != "" {
		return c.User
	}
	return getenv("USER")
}

// Redacted returns a copy with secrets masked, for `config show`.
func (c *Config) Redacted() Config {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	out.Jira.Token = mask(out.Jira.Token)
	out.GitHub.Token = mask(out.GitHub.Token)
	out.GitLab.Token = mask(out.GitLab.Token)
	return out
}

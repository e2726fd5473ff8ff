package workitem

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	ticketKeyRe   = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)
	browseRe      = regexp.MustCompile(`/browse/([A-Z][A-Z0-9]*-[0-9]+)(?:[/?#]|$)`)
	githubPullRe  = regexp.MustCompile(`^/([^/]+/[^/]+)/pull/([0-9]+)(?:/|$)`)
	githubIssueRe = regexp.MustCompile(`^/([^/]+/[^/]+)/issues/([0-9]+)(?:/|$)`)
	gitlabMergeRe = regexp.MustCompile(`^/(.+?)/-/merge_requests/([0-9]+)(?:/|$)`)
	gitlabIssueRe = regexp.MustCompile(`^/(.+?)/-/issues/([0-9]+)(?:/|$)`)
	prShorthandRe = regexp.MustCompile(`(?i)^pr:([0-9]+)$`)
	issueShortRe  = regexp.MustCompile(`(?i)^(?:#|gh:)([0-9]+)$`)
)

// Classify maps free-form input to a Reference. It never fails: anything
// unrecognised becomes raw text. Rules are tried in order and the first
// match wins:
//
//  1. tracker URL with /browse/KEY-123
//  2. pull/merge request URL with an owner/repo path
//  3. issue URL with an owner/repo path
//  4. bare ticket key (KEY-123)
//  5. pr:N
//  6. #N or gh:N
//  7. raw text
//
// Numbers too large for an int are not references and fall through to raw
// text.
func Classify(input string) Reference {
	text := strings.TrimSpace(input)

	if u := parseURL(text); u != nil {
		if m := browseRe.FindStringSubmatch(u.Path); m != nil {
			return Ticket(m[1])
		}
		// Jira board links carry the key in the query string.
		if key := u.Query().Get("selectedIssue"); ticketKeyRe.MatchString(key) {
			return Ticket(key)
		}
		hint := func(path string) RepoHint { return RepoHint{Host: strings.ToLower(u.Hostname()), Path: path} }
		for _, re := range []*regexp.Regexp{githubPullRe, gitlabMergeRe} {
			if m := re.FindStringSubmatch(u.Path); m != nil {
				if n, ok := atoi(m[2]); ok {
					return PullRequest(n, hint(m[1]))
				}
			}
		}
		for _, re := range []*regexp.Regexp{githubIssueRe, gitlabIssueRe} {
			if m := re.FindStringSubmatch(u.Path); m != nil {
				if n, ok := atoi(m[2]); ok {
					return Issue(n, hint(m[1]))
				}
			}
		}
	}

	if ticketKeyRe.MatchString(text) {
		return Ticket(text)
	}
	if m := prShorthandRe.FindStringSubmatch(text); m != nil {
		if n, ok := atoi(m[1]); ok {
			return PullRequest(n, RepoHint{})
		}
	}
	if m := issueShortRe.FindStringSubmatch(text); m != nil {
		if n, ok := atoi(m[1]); ok {
			return Issue(n, RepoHint{})
		}
	}
	return Raw(text)
}

func parseURL(s string) *url.URL {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return nil
	}
	if strings.ContainsAny(s, " \t\n") {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

// atoi fails on numbers that overflow int.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// SplitBatch splits comma-separated input into batch items. The input is only
// treated as a batch when every part is a ticket, issue or PR reference, so
// free-form prompts containing commas stay a single item.
func SplitBatch(input string) []string {
	var items []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if Classify(part).Kind == KindRawText {
			return []string{strings.TrimSpace(input)}
		}
		items = append(items, part)
	}
	if len(items) == 0 {
		return []string{strings.TrimSpace(input)}
	}
	return items
}

package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/raphi011/kickoff/internal/workitem"
)

const jiraFields = "summary,description,labels,reporter,status,issuetype"

// JiraProvider fetches tickets from Jira Cloud or Data Center.
type JiraProvider struct {
	Credentials JiraCredentials
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

type jiraIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string          `json:"summary"`
		Description json.RawMessage `json:"description"`
		Labels      []string        `json:"labels"`
		Reporter    *struct {
			DisplayName string `json:"displayName"`
			Name        string `json:"name"`
		} `json:"reporter"`
	} `json:"fields"`
}

// Fetch retrieves a ticket by key.
func (p *JiraProvider) Fetch(ctx context.Context, ref workitem.Reference) (Context, error) {
	if ref.Kind != workitem.KindTicket {
		return Context{}, fmt.Errorf("jira: cannot fetch %s", ref)
	}
	key := ref.TicketID
	creds := p.Credentials
	if creds.BaseURL == "" || creds.Token == "" {
		return Context{}, &Error{
			Kind:   KindAuthMissing,
			Source: "jira",
			Ref:    key,
			Err:    errors.New("set JIRA_URL and JIRA_API_TOKEN or configure [jira]"),
		}
	}
	base := strings.TrimSuffix(creds.BaseURL, "/")

	endpoint := base + "/rest/api/2/issue/" + url.PathEscape(key) + "?fields=" + jiraFields
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Context{}, &Error{Kind: KindNetwork, Source: "jira", Ref: key, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if creds.Email != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(creds.Email + ":" + creds.Token))
		req.Header.Set("Authorization", "Basic "+encoded)
	} else {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Context{}, &Error{Kind: KindNetwork, Source: "jira", Ref: key, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var cause error
		if msg := strings.TrimSpace(string(body)); msg != "" {
			cause = errors.New(msg)
		}
		return Context{}, statusError("jira", key, resp.StatusCode, cause)
	}

	var issue jiraIssue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return Context{}, &Error{Kind: KindNetwork, Source: "jira", Ref: key, Status: resp.StatusCode, Err: fmt.Errorf("decode issue: %w", err)}
	}
	if issue.Key == "" {
		issue.Key = key
	}

	c := Context{
		ID:          issue.Key,
		Title:       issue.Fields.Summary,
		Description: jiraDescription(issue.Fields.Description),
		Slug:        Slugify(issue.Fields.Summary),
		URL:         base + "/browse/" + issue.Key,
		Labels:      issue.Fields.Labels,
	}
	if r := issue.Fields.Reporter; r != nil {
		c.Author = r.DisplayName
		if c.Author == "" {
			c.Author = r.Name
		}
	}
	return c, nil
}

// jiraDescription accepts the v2 plain string form as well as an ADF
// document, which some Cloud instances return even on v2.
func jiraDescription(raw json.RawMessage) string {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return flattenADF(doc)
}

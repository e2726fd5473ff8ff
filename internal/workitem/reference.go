// Package workitem turns launcher input into a typed work item reference.
package workitem

import (
	"fmt"
	"strings"
)

// Kind tags what a Reference points at.
type Kind int

const (
	KindRawText Kind = iota
	KindTicket
	KindIssue
	KindPullRequest
)

func (k Kind) String() string {
	switch k {
	case KindTicket:
		return "ticket"
	case KindIssue:
		return "issue"
	case KindPullRequest:
		return "pr"
	default:
		return "raw"
	}
}

// RepoHint is the repository a URL pointed at.
type RepoHint struct {
	Host string
	// Path is owner/repo on GitHub, or the full group path on GitLab.
	Path string
}

func (h RepoHint) IsZero() bool { return h.Path == "" }

// Reference is a classified work item. Only the fields belonging to Kind are
// set: TicketID for tickets, Number and Repo for issues and pull requests,
// Text for raw text.
type Reference struct {
	Kind     Kind
	TicketID string
	Number   int
	Repo     RepoHint
	Text     string
}

// Ticket builds a ticket reference.
func Ticket(id string) Reference {
	return Reference{Kind: KindTicket, TicketID: strings.TrimSpace(id)}
}

// Issue builds an issue reference with an optional repo hint.
func Issue(number int, repo RepoHint) Reference {
	return Reference{Kind: KindIssue, Number: number, Repo: repo}
}

// PullRequest builds a pull/merge request reference with an optional repo hint.
func PullRequest(number int, repo RepoHint) Reference {
	return Reference{Kind: KindPullRequest, Number: number, Repo: repo}
}

// Raw builds a raw text reference from trimmed text.
func Raw(text string) Reference {
	return Reference{Kind: KindRawText, Text: strings.TrimSpace(text)}
}

// String renders a short label for logs and batch summaries.
func (r Reference) String() string {
	var s string
	switch r.Kind {
	case KindTicket:
		return "ticket " + r.TicketID
	case KindIssue:
		s = fmt.Sprintf("issue #%d", r.Number)
	case KindPullRequest:
		s = fmt.Sprintf("PR #%d", r.Number)
	default:
		text := r.Text
		if runes := []rune(text); len(runes) > 40 {
			text = string(runes[:37]) + "..."
		}
		return fmt.Sprintf("prompt %q", text)
	}
	if !r.Repo.IsZero() {
		s += " (" + r.Repo.Path + ")"
	}
	return s
}

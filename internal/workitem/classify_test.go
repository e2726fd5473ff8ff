package workitem

import (
	"fmt"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	gh := func(path string) RepoHint { return RepoHint{Host: "github.com", Path: path} }
	gl := func(path string) RepoHint { return RepoHint{Host: "gitlab.com", Path: path} }

	tests := []struct {
		name  string
		input string
		want  Reference
	}{
		{"jira browse url", "https://acme.atlassian.net/browse/IOS-1234", Ticket("IOS-1234")},
		{"jira browse url with query", "https://jira.corp/browse/AB2-7?focusedCommentId=1", Ticket("AB2-7")},
		{"jira board link", "https://acme.atlassian.net/jira/software/projects/IOS/boards/3?selectedIssue=IOS-9", Ticket("IOS-9")},
		{"github pr url", "https://github.com/acme/widgets/pull/42", PullRequest(42, gh("acme/widgets"))},
		{"github pr url with tab", "https://github.com/acme/widgets/pull/42/files", PullRequest(42, gh("acme/widgets"))},
		{"github issue url", "https://github.com/acme/widgets/issues/7", Issue(7, gh("acme/widgets"))},
		{"gitlab mr url", "https://gitlab.com/group/sub/app/-/merge_requests/5", PullRequest(5, gl("group/sub/app"))},
		{"gitlab issue url", "https://gitlab.com/group/app/-/issues/11", Issue(11, gl("group/app"))},
		{"ticket key", "IOS-1234", Ticket("IOS-1234")},
		{"ticket key trimmed", "  PROJ-1\n", Ticket("PROJ-1")},
		{"pr shorthand", "pr:12", PullRequest(12, RepoHint{})},
		{"pr shorthand upper", "PR:12", PullRequest(12, RepoHint{})},
		{"hash issue", "#99", Issue(99, RepoHint{})},
		{"gh issue", "gh:3", Issue(3, RepoHint{})},
		{"gh issue upper", "GH:3", Issue(3, RepoHint{})},
		{"lowercase key is raw", "ios-1234", Raw("ios-1234")},
		{"key inside sentence is raw", "fix IOS-1 now", Raw("fix IOS-1 now")},
		{"unrelated url is raw", "https://example.com/docs", Raw("https://example.com/docs")},
		{"pr url without number is raw", "https://github.com/acme/widgets/pull/abc", Raw("https://github.com/acme/widgets/pull/abc")},
		{"overflowing pr shorthand is raw", "pr:99999999999999999999", Raw("pr:99999999999999999999")},
		{"overflowing issue is raw", "#99999999999999999999", Raw("#99999999999999999999")},
		{"overflowing pr url is raw", "https://github.com/acme/widgets/pull/99999999999999999999", Raw("https://github.com/acme/widgets/pull/99999999999999999999")},
		{"free text", "  add dark mode to settings  ", Raw("add dark mode to settings")},
		{"empty", "   ", Raw("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify_TicketKeyShape(t *testing.T) {
	t.Parallel()

	for _, project := range []string{"A", "IOS", "PLATFORM", "ZZZZZZZZ"} {
		for _, n := range []int{0, 1, 42, 123456} {
			key := fmt.Sprintf("%s-%d", project, n)
			got := Classify(key)
			if got.Kind != KindTicket || got.TicketID != key {
				t.Errorf("Classify(%q) = %+v, want ticket %q", key, got, key)
			}
		}
	}
}

func TestClassify_PullNeverIssue(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 7, 42, 9001} {
		for _, repo := range []string{"acme/widgets", "a/b", "org-name/repo.name"} {
			pr := Classify(fmt.Sprintf("https://github.com/%s/pull/%d", repo, n))
			if pr.Kind != KindPullRequest || pr.Number != n || pr.Repo.Path != repo {
				t.Errorf("pull url classified as %+v", pr)
			}
			issue := Classify(fmt.Sprintf("https://github.com/%s/issues/%d", repo, n))
			if issue.Kind != KindIssue || issue.Number != n || issue.Repo.Path != repo {
				t.Errorf("issue url classified as %+v", issue)
			}
		}
	}
}

func TestSplitBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"IOS-1", []string{"IOS-1"}},
		{"IOS-1,IOS-2", []string{"IOS-1", "IOS-2"}},
		{" IOS-1 , #4 ,pr:9,", []string{"IOS-1", "#4", "pr:9"}},
		{"fix login, then logout", []string{"fix login, then logout"}},
		{"IOS-1, refactor auth", []string{"IOS-1, refactor auth"}},
		{",", []string{","}},
	}

	for _, tt := range tests {
		got := SplitBatch(tt.input)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("SplitBatch(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestReference_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  Reference
		want string
	}{
		{Ticket("IOS-1"), "ticket IOS-1"},
		{Issue(3, RepoHint{}), "issue #3"},
		{PullRequest(42, RepoHint{Host: "github.com", Path: "acme/widgets"}), "PR #42 (acme/widgets)"},
		{Raw("short"), `prompt "short"`},
		{Raw("a very long prompt that keeps going and going"), `prompt "a very long prompt that keeps going a..."`},
		{Raw(strings.Repeat("é", 45)), `prompt "` + strings.Repeat("é", 37) + `..."`},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// Package source retrieves descriptive context for a classified work item.
//
// Each provider adapts one external system to the normalized [Context]
// record:
//
//   - [JiraProvider]: tickets via the Jira REST API v2
//   - [GitHubProvider]: issues and pull requests via go-github
//   - [GitLabProvider]: issues and merge requests via go-gitlab
//   - [RawProvider]: free text, no I/O
//
// [Router] picks the provider for a reference. Credentials are resolved by
// the caller and injected; providers never read the environment and never
// send a request without credentials. Requests are made exactly once.
//
// All failures are reported as *[Error], which matches the sentinels
// [ErrAuthMissing], [ErrAuthFailed], [ErrNotFound], [ErrNetwork] and
// [ErrRepoMismatch] through errors.Is.
package source

// Package vars builds the variable map shared by every template kickoff
// renders: branch and worktree names, the prompt, the launch script and
// hook commands.
//
// # Keys
//
// Always present:
//
//	ticket_id   context id (IOS-1234, issue-7, pr-42, raw-1a2b3c4d)
//	branch      resolved branch name
//	worktree    absolute worktree path
//	repo_root   main checkout of the repository
//	repo_name   last path segment of repo_root
//	timestamp   Unix seconds
//	date        YYYY-MM-DD
//	run_id      random id, unique per launched item
//
// Present when known: repo_slug (owner/repo from origin) and the context
// fields title, description, slug, url, author, labels, source_branch.
// After provisioning the launcher adds prompt_file and worktree_created.
//
// Custom variables from [vars] are merged last and win any collision.
//
// # Interpolation
//
// [Interpolate] replaces {name} with the value of name. Placeholders
// without a value are left as they are.
package vars

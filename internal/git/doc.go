// Package git wraps the git CLI operations kickoff needs: repository
// queries, branch existence and fetches, and the worktree primitives used by
// the provisioner and prune.
//
// Failures come back as *Error carrying git's stderr, which is what
// [BranchInUse] inspects to recognise a branch checked out elsewhere.
package git

// Package prune removes finished worktrees together with their branches.
//
// Worktrees are selected by a branch pattern, a list on stdin, an
// interactive picker, or, for a dry run without selector, all of them.
// Every removal is forced: the branch goes too, so uncommitted work in the
// worktree is discarded on purpose. After each removal the repository's
// post-remove hook and the configured prune hooks run in the main
// repository. Hook failures are reported per worktree and never stop the
// batch. A final `git worktree prune` drops leftover metadata.
package prune

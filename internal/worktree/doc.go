// Package worktree provisions the git worktree a launched item runs in.
//
// [Provisioner.Ensure] guarantees that a worktree for a branch is checked
// out at a path, whatever state the repository's worktree metadata is in:
//
//	target already a worktree   -> AlreadyExists, no mutation
//	branch unknown              -> worktree add -b (Created)
//	branch exists               -> worktree add <path> <branch> (Attached)
//	  branch held by a missing  -> worktree prune, retry once (Recovered)
//	  worktree directory
//	  branch held by a live     -> worktree add --force (Forced); the other
//	  worktree                     worktree is left alone
//
// Worktree state is read from git on every step and never cached, since
// other tools may change it between calls. At most one retry happens.
package worktree

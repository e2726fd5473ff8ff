// Package hooks runs user commands around launch and prune.
//
// # Config hooks
//
// Defined as [hooks.NAME] sections:
//
//	[hooks.deps]
//	command = "cd {worktree} && npm ci"
//	description = "Install dependencies"
//	on = ["launch"]
//
//	[hooks.notify]
//	command = "notify-send 'removed {branch:raw}'"
//	on = ["prune"]
//
// "on" takes launch, prune or all. A hook without "on" only runs when named
// with --hook. --no-hook skips all hooks.
//
// Every variable of the launched item is available as a placeholder ({branch},
// {worktree}, {ticket_id}, custom [vars] ...). Values are shell-quoted unless
// written as {key:raw}; {key:-default} supplies a fallback.
//
// Launch hooks run in the worktree after it is provisioned. Prune hooks run
// in the main repository, since the worktree is gone by then.
//
// # Repository hook
//
// An executable at .kickoff/hooks/post-remove in the repository runs after
// each pruned worktree with KICKOFF_WORKTREE_PATH, KICKOFF_BRANCH and
// KICKOFF_REPO_ROOT set.
//
// Hook failures are returned as *[HookError] and reported; they never abort
// the launch or the remaining prune items.
package hooks

// Package doctor checks that kickoff can do its job in the current
// environment and optionally repairs what it safely can.
//
// Checks fall into three categories:
//
//   - [CategoryConfig]: missing config file, incomplete Jira credentials, a
//     missing forge token for the repository's origin, and placeholders in
//     templates or the launch script that no launch would ever fill.
//
//   - [CategoryGit]: git on PATH and worktrees whose directory is gone.
//
//   - [CategoryPrompt]: the prompt directory exists and is writable.
//
// # Usage
//
//	d := &doctor.Doctor{Config: cfg, ConfigPath: path, RepoRoot: root, Getenv: os.Getenv}
//	report, err := d.Run(ctx, false) // check only
//	report, err := d.Run(ctx, true)  // check and fix
//
// Fixable issues carry a FixAction: writing the default config, pruning
// stale worktree entries, or creating the prompt directory. Everything else
// is reported for the user to resolve.
package doctor

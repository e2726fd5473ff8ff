// Package config loads kickoff's TOML configuration.
//
// The file is read from --config, $KICKOFF_CONFIG or
// ~/.config/kickoff/config.toml. A missing default file yields [Default];
// a missing explicitly named file, an unreadable file or invalid content is
// a *[Error].
//
// # Per-repo overrides
//
// A .kickoff.toml at the repository root overrides templates, prompt,
// launch, vars, forge and hooks (see [LoadLocal] and [MergeLocal]).
// Credentials are only read from the global file and the environment.
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.deps]
//	command = "npm install"
//	on = ["launch"]
//
// Hooks without "on" only run when selected with --hook=NAME.
package config

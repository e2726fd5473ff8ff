package config

import "maps"

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global

	merged.Hooks = mergeHooks(global.Hooks, local.Hooks)

	if local.Templates.Branch != "" {
		merged.Templates.Branch = local.Templates.Branch
	}
	if local.Templates.Worktree != "" {
		merged.Templates.Worktree = local.Templates.Worktree
	}

	if local.Prompt.Prefix != "" {
		merged.Prompt.Prefix = local.Prompt.Prefix
	}
	if local.Prompt.Body != "" {
		merged.Prompt.Body = local.Prompt.Body
	}
	if local.Prompt.Suffix != "" {
		merged.Prompt.Suffix = local.Prompt.Suffix
	}
	if local.Prompt.FrontMatter != nil {
		merged.Prompt.FrontMatter = *local.Prompt.FrontMatter
	}

	if local.Launch.Script != "" {
		merged.Launch.Script = local.Launch.Script
	}
	if local.Launch.BatchDelay != nil {
		merged.Launch.BatchDelay = *local.Launch.BatchDelay
	}

	if local.Forge.Default != "" {
		merged.Forge.Default = local.Forge.Default
	}

	// Preserve lists from the repo replace the global ones.
	if len(local.Preserve.Patterns) > 0 {
		merged.Preserve.Patterns = local.Preserve.Patterns
	}
	if len(local.Preserve.Exclude) > 0 {
		merged.Preserve.Exclude = local.Preserve.Exclude
	}

	if len(local.Vars) > 0 {
		merged.Vars = make(map[string]string, len(global.Vars)+len(local.Vars))
		maps.Copy(merged.Vars, global.Vars)
		maps.Copy(merged.Vars, local.Vars)
	}

	return &merged
}

// mergeHooks overlays local hooks by name. A local hook with enabled = false
// removes the global hook of the same name.
func mergeHooks(global, local HooksConfig) HooksConfig {
	merged := HooksConfig{
		Hooks: make(map[string]Hook, len(global.Hooks)),
	}
	maps.Copy(merged.Hooks, global.Hooks)

	for name, hook := range local.Hooks {
		if !hook.IsEnabled() {
			delete(merged.Hooks, name)
			continue
		}
		merged.Hooks[name] = hook
	}

	return merged
}

package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo override file at the repository root.
const LocalConfigFileName = ".kickoff.toml"

// LocalConfig holds per-repo overrides. Zero values and nil pointers mean
// "inherit from global". Credentials and hosts are global-only: the file is
// usually committed.
type LocalConfig struct {
	Hooks     HooksConfig
	Templates Templates
	Prompt    LocalPrompt
	Launch    LocalLaunch
	Vars      map[string]string
	Forge     ForgeConfig
	Preserve  PreserveConfig
}

// LocalPrompt holds prompt overrides.
type LocalPrompt struct {
	Prefix      string `toml:"prefix"`
	Body        string `toml:"body"`
	Suffix      string `toml:"suffix"`
	FrontMatter *bool  `toml:"front_matter"`
}

// LocalLaunch holds launch overrides.
type LocalLaunch struct {
	Script     string    `toml:"script"`
	BatchDelay *Duration `toml:"batch_delay"`
}

type rawLocalConfig struct {
	Hooks     map[string]any    `toml:"hooks"`
	Templates Templates         `toml:"templates"`
	Prompt    LocalPrompt       `toml:"prompt"`
	Launch    LocalLaunch       `toml:"launch"`
	Vars      map[string]string `toml:"vars"`
	Forge     ForgeConfig       `toml:"forge"`
	Preserve  PreserveConfig    `toml:"preserve"`
}

// LoadLocal reads <repoPath>/.kickoff.toml.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &Error{Path: configFile, Err: err}
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Path: configFile, Err: err}
	}

	local := &LocalConfig{
		Hooks:     parseHooksConfig(raw.Hooks),
		Templates: raw.Templates,
		Prompt:    raw.Prompt,
		Launch:    raw.Launch,
		Vars:      raw.Vars,
		Forge:     raw.Forge,
		Preserve:  raw.Preserve,
	}

	if err := validateEnum(local.Forge.Default, "forge.default", ValidForgeTypes); err != nil {
		return nil, &Error{Path: configFile, Err: err}
	}
	if err := validateHooks(local.Hooks, ""); err != nil {
		return nil, &Error{Path: configFile, Err: err}
	}

	return local, nil
}

// ForRepo loads the repo's local overrides and merges them onto global.
func ForRepo(global *Config, repoPath string) (*Config, error) {
	local, err := LoadLocal(repoPath)
	if err != nil {
		return nil, err
	}
	return MergeLocal(global, local), nil
}

// defaultLocalConfig is the template for `kickoff config init --local`
const defaultLocalConfig = `# kickoff local config (per-repo overrides)
# Place this file at the root of your repository as .kickoff.toml.
# Settings here override ~/.config/kickoff/config.toml for this repo only.
# Credentials are never read from this file.

# [templates]
# branch = "feature/{ticket_id}-{slug}"
# worktree = "../{repo_name}-worktrees/{branch}"

# [prompt]
# suffix = "Run make test before you finish."
# front_matter = true

# [launch]
# script = "tmux new-window -c {worktree} 'claude < {prompt_file}'"
# batch_delay = "2s"

# [vars]
# team = "mobile"

# [forge]
# default = "gitlab"

# [preserve]
# patterns = [".env.local"]

# [hooks.setup]
# command = "npm install"
# on = ["launch"]
#
# [hooks.global-hook-name]
# enabled = false  # disable a global hook for this repo
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

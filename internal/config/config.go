package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/kickoff/internal/vars"
)

// Error is a missing, unreadable or invalid configuration.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Hook is a shell command run on launch or prune.
type Hook struct {
	Command     string   `toml:"command" yaml:"command" json:"command"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	On          []string `toml:"on,omitempty" yaml:"on,omitempty" json:"on,omitempty"` // "launch", "prune", "all"; empty = only via --hook
	Enabled     *bool    `toml:"enabled,omitempty" yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the hook is active. Unset means enabled.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hooks parsed from [hooks.NAME] sections.
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"`
}

// JiraConfig configures the ticket tracker.
type JiraConfig struct {
	URL   string `toml:"url" yaml:"url" json:"url"`
	Email string `toml:"email,omitempty" yaml:"email,omitempty" json:"email,omitempty"`
	Token string `toml:"token,omitempty" yaml:"token,omitempty" json:"token,omitempty"`
}

// GitHubConfig configures GitHub access. APIURL is set for GitHub Enterprise.
type GitHubConfig struct {
	Token  string `toml:"token,omitempty" yaml:"token,omitempty" json:"token,omitempty"`
	APIURL string `toml:"api_url,omitempty" yaml:"api_url,omitempty" json:"api_url,omitempty"`
}

// GitLabConfig configures GitLab access.
type GitLabConfig struct {
	Token string `toml:"token,omitempty" yaml:"token,omitempty" json:"token,omitempty"`
	URL   string `toml:"url,omitempty" yaml:"url,omitempty" json:"url,omitempty"`
}

// ForgeConfig picks the forge when a reference carries no host.
type ForgeConfig struct {
	Default string `toml:"default,omitempty" yaml:"default,omitempty" json:"default,omitempty"`
}

// ThemeConfig selects the color palette of interactive prompts and tables.
type ThemeConfig struct {
	Name    string `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Mode    string `toml:"mode,omitempty" yaml:"mode,omitempty" json:"mode,omitempty"`
	Primary string `toml:"primary,omitempty" yaml:"primary,omitempty" json:"primary,omitempty"`
	Accent  string `toml:"accent,omitempty" yaml:"accent,omitempty" json:"accent,omitempty"`
}

// PreserveConfig lists git-ignored files copied from the main worktree into
// newly created worktrees. Patterns match file basenames; a path segment in
// Exclude skips the file.
type PreserveConfig struct {
	Patterns []string `toml:"patterns,omitempty" yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Exclude  []string `toml:"exclude,omitempty" yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// Templates name branches and worktree directories.
type Templates struct {
	Branch   string `toml:"branch" yaml:"branch" json:"branch"`
	Worktree string `toml:"worktree" yaml:"worktree" json:"worktree"`
}

// PromptConfig controls prompt composition and storage.
type PromptConfig struct {
	Dir         string `toml:"dir" yaml:"dir" json:"dir"`
	Prefix      string `toml:"prefix,omitempty" yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Body        string `toml:"body" yaml:"body" json:"body"`
	Suffix      string `toml:"suffix,omitempty" yaml:"suffix,omitempty" json:"suffix,omitempty"`
	FrontMatter bool   `toml:"front_matter" yaml:"front_matter" json:"front_matter"`
}

// LaunchConfig holds the command handed the prepared worktree.
type LaunchConfig struct {
	Script     string   `toml:"script" yaml:"script" json:"script"`
	BatchDelay Duration `toml:"batch_delay" yaml:"batch_delay" json:"batch_delay"`
}

// Duration is a time.Duration written as "1s", "500ms" in config files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

// Config holds the kickoff configuration.
type Config struct {
	User      string            `toml:"user,omitempty" yaml:"user,omitempty" json:"user,omitempty"`
	Jira      JiraConfig        `toml:"jira" yaml:"jira" json:"jira"`
	GitHub    GitHubConfig      `toml:"github" yaml:"github" json:"github"`
	GitLab    GitLabConfig      `toml:"gitlab" yaml:"gitlab" json:"gitlab"`
	Forge     ForgeConfig       `toml:"forge" yaml:"forge" json:"forge"`
	Hosts     map[string]string `toml:"hosts,omitempty" yaml:"hosts,omitempty" json:"hosts,omitempty"`
	Templates Templates         `toml:"templates" yaml:"templates" json:"templates"`
	Prompt    PromptConfig      `toml:"prompt" yaml:"prompt" json:"prompt"`
	Launch    LaunchConfig      `toml:"launch" yaml:"launch" json:"launch"`
	Vars      map[string]string `toml:"vars,omitempty" yaml:"vars,omitempty" json:"vars,omitempty"`
	Preserve  PreserveConfig    `toml:"preserve" yaml:"preserve" json:"preserve"`
	Theme     ThemeConfig       `toml:"theme" yaml:"theme" json:"theme"`
	Hooks     HooksConfig       `toml:"-" yaml:"-" json:"-"`

	// Path is the file the config was loaded from, empty for pure defaults.
	Path string `toml:"-" yaml:"-" json:"-"`
}

const (
	DefaultBranchTemplate   = vars.DefaultBranchTemplate
	DefaultWorktreeTemplate = vars.DefaultWorktreeTemplate
	DefaultPromptBody       = "# {title}\n\n{description}"
	DefaultBatchDelay       = time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Templates: Templates{
			Branch:   DefaultBranchTemplate,
			Worktree: DefaultWorktreeTemplate,
		},
		Prompt: PromptConfig{
			Dir:  defaultPromptDir(),
			Body: DefaultPromptBody,
		},
		Launch: LaunchConfig{
			BatchDelay: Duration{DefaultBatchDelay},
		},
		Hooks: HooksConfig{Hooks: map[string]Hook{}},
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "kickoff")
	}
	return filepath.Join(home, ".config", "kickoff")
}

func defaultPromptDir() string {
	return filepath.Join(configDir(), "prompts")
}

// Path picks the config file: the --config flag, then $KICKOFF_CONFIG, then
// ~/.config/kickoff/config.toml. explicit is true when the user named a file,
// in which case it must exist.
func Path(flag string, getenv func(string) string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := getenv("KICKOFF_CONFIG"); env != "" {
		return env, true
	}
	return filepath.Join(configDir(), "config.toml"), false
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	User      string            `toml:"user"`
	Jira      JiraConfig        `toml:"jira"`
	GitHub    GitHubConfig      `toml:"github"`
	GitLab    GitLabConfig      `toml:"gitlab"`
	Forge     ForgeConfig       `toml:"forge"`
	Hosts     map[string]string `toml:"hosts"`
	Templates Templates         `toml:"templates"`
	Prompt    rawPrompt         `toml:"prompt"`
	Launch    rawLaunch         `toml:"launch"`
	Vars      map[string]string `toml:"vars"`
	Preserve  PreserveConfig    `toml:"preserve"`
	Theme     ThemeConfig       `toml:"theme"`
	Hooks     map[string]any    `toml:"hooks"`
}

type rawPrompt struct {
	Dir         string `toml:"dir"`
	Prefix      string `toml:"prefix"`
	Body        string `toml:"body"`
	Suffix      string `toml:"suffix"`
	FrontMatter bool   `toml:"front_matter"`
}

type rawLaunch struct {
	Script     string    `toml:"script"`
	BatchDelay *Duration `toml:"batch_delay"`
}

// Load reads the config at path. A missing file yields Default() unless
// required is set. Every failure is a *Error.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			cfg := Default()
			return &cfg, nil
		}
		return nil, &Error{Path: path, Err: err}
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg.Path = path
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.User = raw.User
	cfg.Jira = raw.Jira
	cfg.GitHub = raw.GitHub
	cfg.GitLab = raw.GitLab
	cfg.Forge = raw.Forge
	cfg.Hosts = raw.Hosts
	cfg.Vars = raw.Vars
	cfg.Preserve = raw.Preserve
	cfg.Theme = raw.Theme
	cfg.Hooks = parseHooksConfig(raw.Hooks)
	cfg.Prompt.Prefix = raw.Prompt.Prefix
	cfg.Prompt.Suffix = raw.Prompt.Suffix
	cfg.Prompt.FrontMatter = raw.Prompt.FrontMatter
	cfg.Launch.Script = raw.Launch.Script

	if raw.Templates.Branch != "" {
		cfg.Templates.Branch = raw.Templates.Branch
	}
	if raw.Templates.Worktree != "" {
		cfg.Templates.Worktree = raw.Templates.Worktree
	}
	if raw.Prompt.Body != "" {
		cfg.Prompt.Body = raw.Prompt.Body
	}
	if raw.Launch.BatchDelay != nil {
		cfg.Launch.BatchDelay = *raw.Launch.BatchDelay
	}
	if raw.Prompt.Dir != "" {
		if err := ValidatePath(raw.Prompt.Dir, "prompt.dir"); err != nil {
			return nil, err
		}
		dir, err := expandPath(raw.Prompt.Dir)
		if err != nil {
			return nil, fmt.Errorf("expand prompt.dir: %w", err)
		}
		cfg.Prompt.Dir = dir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidatePath checks that the path is absolute or starts with ~
func ValidatePath(path, fieldName string) error {
	if path == "" || path[0] == '~' || filepath.IsAbs(path) {
		return nil
	}
	return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path != "~" && (len(path) < 2 || path[:2] != "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand ~: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// parseHooksConfig extracts hooks from the raw [hooks.NAME] tables.
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{Hooks: make(map[string]Hook)}

	for name, value := range raw {
		table, ok := value.(map[string]any)
		if !ok {
			continue
		}
		var hook Hook
		hook.Command, _ = table["command"].(string)
		hook.Description, _ = table["description"].(string)
		if on, ok := table["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := table["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		hc.Hooks[name] = hook
	}

	return hc
}

// Init writes the commented default config to path.
// Without force an existing file is left alone and reported as an error.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o600)
}

// DefaultTemplate returns the commented default config file content.
func DefaultTemplate() string {
	return defaultConfig
}

type ctxKey struct{}

// WithConfig attaches the loaded config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config attached to ctx, or defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidForgeTypes = []string{"github", "gitlab"}
	ValidHookEvents = []string{"launch", "prune", "all"}
	ValidThemeNames = []string{"none", "default", "dracula", "nord", "gruvbox", "catppuccin"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

func (c *Config) validate() error {
	if err := validateEnum(c.Forge.Default, "forge.default", ValidForgeTypes); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return err
	}
	for host, forgeType := range c.Hosts {
		if err := validateEnum(forgeType, fmt.Sprintf("hosts.%q", host), ValidForgeTypes); err != nil {
			return err
		}
	}
	for _, field := range []struct{ name, value string }{
		{"jira.url", c.Jira.URL},
		{"github.api_url", c.GitHub.APIURL},
		{"gitlab.url", c.GitLab.URL},
	} {
		if err := validateURL(field.value, field.name); err != nil {
			return err
		}
	}
	return validateHooks(c.Hooks, "")
}

func validateHooks(hc HooksConfig, contextInfo string) error {
	for name, hook := range hc.Hooks {
		if hook.IsEnabled() && strings.TrimSpace(hook.Command) == "" {
			return withContext(fmt.Errorf("hooks.%s: command is required", name), contextInfo)
		}
		for _, on := range hook.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookEvents); err != nil {
				return withContext(err, contextInfo)
			}
		}
	}
	return nil
}

func validateURL(value, field string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http(s) URL", field, value)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

func withContext(err error, contextInfo string) error {
	if contextInfo == "" {
		return err
	}
	return fmt.Errorf("%w in %s", err, contextInfo)
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

package styles

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/kickoff/internal/config"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // borders, titles, prompts
	Accent  color.Color // cursor and selected items
	Success color.Color // checkmarks
	Error   color.Color // error messages
	Muted   color.Color // help text, inactive items
	Normal  color.Color // standard text
	Info    color.Color // informational text
	Warning color.Color // prunable worktrees
}

// themeFamily groups light and dark variants of a theme
type themeFamily struct {
	Light *Theme // nil if no light variant
	Dark  *Theme // nil if no dark variant
}

// Preset themes - Dark variants
var (
	// DefaultTheme is the default color scheme (dark only)
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Muted:   lipgloss.Color("240"),
		Normal:  lipgloss.Color("252"),
		Info:    lipgloss.Color("244"),
		Warning: lipgloss.Color("214"),
	}

	DraculaTheme = Theme{
		Primary: lipgloss.Color("#bd93f9"),
		Accent:  lipgloss.Color("#ff79c6"),
		Success: lipgloss.Color("#50fa7b"),
		Error:   lipgloss.Color("#ff5555"),
		Muted:   lipgloss.Color("#6272a4"),
		Normal:  lipgloss.Color("#f8f8f2"),
		Info:    lipgloss.Color("#8be9fd"),
		Warning: lipgloss.Color("#ffb86c"),
	}

	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#4c566a"),
		Normal:  lipgloss.Color("#eceff4"),
		Info:    lipgloss.Color("#81a1c1"),
		Warning: lipgloss.Color("#ebcb8b"),
	}

	GruvboxTheme = Theme{
		Primary: lipgloss.Color("#83a598"),
		Accent:  lipgloss.Color("#d3869b"),
		Success: lipgloss.Color("#b8bb26"),
		Error:   lipgloss.Color("#fb4934"),
		Muted:   lipgloss.Color("#665c54"),
		Normal:  lipgloss.Color("#ebdbb2"),
		Info:    lipgloss.Color("#8ec07c"),
		Warning: lipgloss.Color("#fabd2f"),
	}

	CatppuccinMochaTheme = Theme{
		Primary: lipgloss.Color("#89b4fa"),
		Accent:  lipgloss.Color("#f5c2e7"),
		Success: lipgloss.Color("#a6e3a1"),
		Error:   lipgloss.Color("#f38ba8"),
		Muted:   lipgloss.Color("#6c7086"),
		Normal:  lipgloss.Color("#cdd6f4"),
		Info:    lipgloss.Color("#94e2d5"),
		Warning: lipgloss.Color("#fab387"),
	}

	// NoneTheme renders without any colors (uses terminal defaults)
	// Formatting (bold/italic/underline) is preserved
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

// Preset themes - Light variants
var (
	NordLightTheme = Theme{
		Primary: lipgloss.Color("#5e81ac"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#9a9a9a"),
		Normal:  lipgloss.Color("#2e3440"),
		Info:    lipgloss.Color("#81a1c1"),
		Warning: lipgloss.Color("#d08770"),
	}

	GruvboxLightTheme = Theme{
		Primary: lipgloss.Color("#076678"),
		Accent:  lipgloss.Color("#8f3f71"),
		Success: lipgloss.Color("#79740e"),
		Error:   lipgloss.Color("#9d0006"),
		Muted:   lipgloss.Color("#928374"),
		Normal:  lipgloss.Color("#3c3836"),
		Info:    lipgloss.Color("#427b58"),
		Warning: lipgloss.Color("#b57614"),
	}

	CatppuccinLatteTheme = Theme{
		Primary: lipgloss.Color("#1e66f5"),
		Accent:  lipgloss.Color("#ea76cb"),
		Success: lipgloss.Color("#40a02b"),
		Error:   lipgloss.Color("#d20f39"),
		Muted:   lipgloss.Color("#9ca0b0"),
		Normal:  lipgloss.Color("#4c4f69"),
		Info:    lipgloss.Color("#179299"),
		Warning: lipgloss.Color("#fe640b"),
	}
)

var themeFamilies = map[string]themeFamily{
	"none":       {Light: &NoneTheme, Dark: &NoneTheme},
	"default":    {Dark: &DefaultTheme},
	"dracula":    {Dark: &DraculaTheme},
	"nord":       {Light: &NordLightTheme, Dark: &NordTheme},
	"gruvbox":    {Light: &GruvboxLightTheme, Dark: &GruvboxTheme},
	"catppuccin": {Light: &CatppuccinLatteTheme, Dark: &CatppuccinMochaTheme},
}

var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init applies the configured theme. Call it after loading config and
// before showing any UI. Unknown names were rejected by config validation
// and fall back to the default here.
func Init(cfg config.ThemeConfig) {
	theme := selectTheme(cfg, func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stderr)
	})
	if cfg.Primary != "" {
		theme.Primary = lipgloss.Color(cfg.Primary)
	}
	if cfg.Accent != "" {
		theme.Accent = lipgloss.Color(cfg.Accent)
	}

	currentTheme = theme
	applyTheme(theme)
}

// selectTheme picks the family variant for the mode. isDark is only
// consulted in auto mode.
func selectTheme(cfg config.ThemeConfig, isDark func() bool) Theme {
	family, ok := themeFamilies[cfg.Name]
	if !ok {
		family = themeFamilies["default"]
	}

	var theme *Theme
	switch cfg.Mode {
	case "light":
		theme = family.Light
	case "dark":
		theme = family.Dark
	default:
		if isDark() {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}

	// Fall back if the requested variant doesn't exist
	if theme == nil {
		if family.Dark != nil {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}
	return *theme
}

// applyTheme updates all global style variables to use the given theme
func applyTheme(t Theme) {
	Primary = t.Primary
	Accent = t.Accent
	Success = t.Success
	Error = t.Error
	Muted = t.Muted
	Normal = t.Normal
	Info = t.Info
	Warning = t.Warning

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)

	HighlightStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true)
}

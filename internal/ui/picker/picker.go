// Package picker provides a fuzzy-filtered multi-select list.
//
// Typing filters the options with sahilm/fuzzy, space or tab toggles the
// highlighted option and enter confirms. Enter with nothing toggled picks
// the highlighted option. Esc and ctrl+c cancel, which selects nothing.
package picker

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/kickoff/internal/ui/styles"
)

const maxVisible = 10

// Option is one selectable row.
type Option struct {
	Label       string
	Description string
}

// Result holds the indices of the chosen options in ascending order.
type Result struct {
	Selected  []int
	Cancelled bool
}

// optionSource implements fuzzy.Source for options.
type optionSource []Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }

type model struct {
	title     string
	options   []Option
	input     textinput.Model
	filtered  []fuzzy.Match
	cursor    int
	selected  map[int]bool
	done      bool
	cancelled bool
}

func newModel(title string, options []Option) model {
	ti := textinput.New()
	ti.Prompt = "Filter: "
	ti.Placeholder = "type to filter"
	ti.SetWidth(40)
	ti.Focus()

	m := model{
		title:    title,
		options:  options,
		input:    ti,
		selected: make(map[int]bool),
	}
	m.applyFilter()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "esc", "ctrl+c":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "enter":
		if len(m.selected) == 0 && len(m.filtered) > 0 {
			m.selected[m.filtered[m.cursor].Index] = true
		}
		m.done = true
		return m, tea.Quit
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	case "space", "tab":
		if len(m.filtered) > 0 {
			m.toggle(m.filtered[m.cursor].Index)
		}
		return m, nil
	case "ctrl+a":
		m.toggleAll()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m *model) toggle(idx int) {
	if m.selected[idx] {
		delete(m.selected, idx)
	} else {
		m.selected[idx] = true
	}
}

// toggleAll selects every visible option, or clears them when all are
// already selected.
func (m *model) toggleAll() {
	all := true
	for _, match := range m.filtered {
		if !m.selected[match.Index] {
			all = false
			break
		}
	}
	for _, match := range m.filtered {
		if all {
			delete(m.selected, match.Index)
		} else {
			m.selected[match.Index] = true
		}
	}
}

func (m *model) applyFilter() {
	filter := m.input.Value()
	if filter == "" {
		m.filtered = make([]fuzzy.Match, len(m.options))
		for i, opt := range m.options {
			m.filtered[i] = fuzzy.Match{Str: opt.Label, Index: i}
		}
	} else {
		// Sorted by score, best first
		m.filtered = fuzzy.FindFrom(filter, optionSource(m.options))
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m model) result() Result {
	if m.cancelled {
		return Result{Cancelled: true}
	}
	sel := make([]int, 0, len(m.selected))
	for idx := range m.selected {
		sel = append(sel, idx)
	}
	slices.Sort(sel)
	return Result{Selected: sel}
}

func (m model) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(styles.PrimaryStyle.Bold(true).Render(m.title) + "\n")
	b.WriteString(m.input.View() + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.filtered))

	if start > 0 {
		b.WriteString(styles.MutedStyle.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		match := m.filtered[i]
		opt := m.options[match.Index]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.AccentStyle.Render("> ")
		}
		check := "[ ] "
		if m.selected[match.Index] {
			check = styles.SuccessStyle.Render("[x] ")
		}

		b.WriteString(cursor + check + m.renderLabel(opt.Label, match.MatchedIndexes, i == m.cursor))
		if opt.Description != "" {
			b.WriteString("  " + styles.MutedStyle.Render(opt.Description))
		}
		b.WriteString("\n")
	}
	if end < len(m.filtered) {
		b.WriteString(styles.MutedStyle.Render("  ↓ more below") + "\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching worktrees") + "\n")
	}

	b.WriteString("\n" + styles.MutedStyle.Render("↑/↓ move • space toggle • ctrl+a all • enter confirm • esc cancel"))
	return tea.NewView(b.String())
}

// renderLabel highlights the fuzzy-matched characters of label.
func (m model) renderLabel(label string, matched []int, current bool) string {
	base := styles.NormalStyle
	if current {
		base = styles.AccentStyle
	}
	if len(matched) == 0 {
		return base.Render(label)
	}

	var b strings.Builder
	for i, r := range []rune(label) {
		if slices.Contains(matched, i) {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Run shows the picker on out, reading keys from in. An empty option list
// returns an empty result without rendering anything.
func Run(ctx context.Context, title string, options []Option, in io.Reader, out io.Writer) (Result, error) {
	if len(options) == 0 {
		return Result{}, nil
	}

	p := tea.NewProgram(newModel(title, options),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithColorProfile(colorprofile.Detect(out, os.Environ())),
	)
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	return final.(model).result(), nil
}

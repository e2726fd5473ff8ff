package prompt

import (
	"context"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/kickoff/internal/ui/styles"
)

// Answer is the outcome of a [Confirm] prompt.
type Answer int

const (
	No Answer = iota
	Yes
	// Cancelled means the user pressed esc or ctrl+c.
	Cancelled
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case Cancelled:
		return "cancelled"
	default:
		return "no"
	}
}

// Question is a yes/no prompt. Default is preselected and answered by enter.
type Question struct {
	Text    string
	Default bool
}

type confirmModel struct {
	q Question
	// yes is the highlighted choice
	yes    bool
	answer Answer
	done   bool
}

func newConfirmModel(q Question) confirmModel {
	return confirmModel{q: q, yes: q.Default}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		return m.finish(Yes)
	case "n", "N":
		return m.finish(No)
	case "ctrl+c", "esc":
		return m.finish(Cancelled)
	case "enter":
		if m.yes {
			return m.finish(Yes)
		}
		return m.finish(No)
	case "left", "right", "tab", "h", "l":
		m.yes = !m.yes
	}
	return m, nil
}

func (m confirmModel) finish(a Answer) (tea.Model, tea.Cmd) {
	m.answer = a
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	yes, no := styles.MutedStyle.Render(" yes "), styles.MutedStyle.Render(" no ")
	if m.yes {
		yes = styles.AccentStyle.Render("[yes]")
	} else {
		no = styles.AccentStyle.Render("[no]")
	}
	return tea.NewView(styles.Bold.Render(m.q.Text) + " " + yes + " " + no + " ")
}

// Confirm asks q on out, reading keys from in. Cancelling ctx aborts the
// prompt with an error.
func Confirm(ctx context.Context, q Question, in io.Reader, out io.Writer) (Answer, error) {
	p := tea.NewProgram(newConfirmModel(q),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithColorProfile(colorprofile.Detect(out, os.Environ())),
	)
	final, err := p.Run()
	if err != nil {
		return Cancelled, err
	}
	return final.(confirmModel).answer, nil
}

// Package progress shows a spinner while kickoff waits on the network.
//
// The spinner renders to the writer it is given, normally stderr, and never
// reads input, so a launch script started afterwards owns the terminal.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/kickoff/internal/ui/styles"
)

// showElapsedAfter is how long a wait runs before the spinner shows its age.
const showElapsedAfter = 2 * time.Second

// quitTimeout bounds how long While waits for the program to tear down.
const quitTimeout = 500 * time.Millisecond

type model struct {
	spinner spinner.Model
	message string
	start   time.Time
	now     func() time.Time
}

func newModel(message string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle
	return model{spinner: sp, message: message, start: time.Now(), now: time.Now}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	line := m.spinner.View() + " " + m.message
	if elapsed := m.now().Sub(m.start); elapsed >= showElapsedAfter {
		line += styles.MutedStyle.Render(fmt.Sprintf(" (%s)", elapsed.Truncate(time.Second)))
	}
	return tea.NewView(line)
}

// While runs fn and animates message on w until it returns. The spinner
// line is cleared before While returns fn's result.
func While[T any](ctx context.Context, w io.Writer, message string, fn func(context.Context) (T, error)) (T, error) {
	p := tea.NewProgram(newModel(message),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(w),
		tea.WithColorProfile(colorprofile.Detect(w, os.Environ())),
	)
	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()

	v, err := fn(ctx)

	p.Quit()
	select {
	case <-done:
	case <-time.After(quitTimeout):
	}
	fmt.Fprint(w, "\r\033[K")
	return v, err
}

// Package prompt composes the task text handed to the launch command and
// stores it as a Markdown file, one per branch.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/kickoff/internal/vars"
)

// DefaultBody renders the title as a heading followed by the description.
const DefaultBody = "# {title}\n\n{description}"

// Templates are the three interpolated parts of a prompt.
type Templates struct {
	Prefix string
	Body   string
	Suffix string
}

// Compose interpolates prefix, body and suffix with m, trims each part,
// drops empty ones and joins the rest with a blank line. A missing title or
// description renders as empty rather than as a literal placeholder.
func Compose(tpl Templates, m vars.Map) string {
	body := tpl.Body
	if body == "" {
		body = DefaultBody
	}
	m = vars.Map{"title": "", "description": ""}.With(m)

	var parts []string
	for _, t := range []string{tpl.Prefix, body, tpl.Suffix} {
		if s := strings.TrimSpace(vars.Interpolate(t, m)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Meta is written as YAML front matter when enabled.
type Meta struct {
	TicketID string    `yaml:"ticket_id"`
	Branch   string    `yaml:"branch"`
	Worktree string    `yaml:"worktree"`
	URL      string    `yaml:"url,omitempty"`
	Created  time.Time `yaml:"created"`
}

// MetaFrom picks the front matter fields out of a variable map.
func MetaFrom(m vars.Map, now time.Time) Meta {
	return Meta{
		TicketID: m["ticket_id"],
		Branch:   m["branch"],
		Worktree: m["worktree"],
		URL:      m["url"],
		Created:  now.UTC().Truncate(time.Second),
	}
}

// Store writes prompts below Dir.
type Store struct {
	Dir         string
	FrontMatter bool
}

// Path returns the file a prompt for branch is written to.
func (s Store) Path(branch string) string {
	return filepath.Join(s.Dir, vars.SanitizeBranch(branch)+".md")
}

// Exists reports whether a prompt is stored for branch.
func (s Store) Exists(branch string) bool {
	if s.Dir == "" || branch == "" {
		return false
	}
	_, err := os.Stat(s.Path(branch))
	return err == nil
}

// Write stores text for branch, replacing any earlier prompt, and returns
// the file path. The directory is created if needed.
func (s Store) Write(branch, text string, meta Meta) (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("prompt directory is not configured")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create prompt directory: %w", err)
	}

	var buf bytes.Buffer
	if s.FrontMatter {
		data, err := yaml.Marshal(meta)
		if err != nil {
			return "", fmt.Errorf("encode front matter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
		buf.WriteString("---\n\n")
	}
	buf.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		buf.WriteByte('\n')
	}

	path := s.Path(branch)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	return path, nil
}

// Remove deletes the prompt stored for branch. A missing file is not an
// error.
func (s Store) Remove(branch string) error {
	if s.Dir == "" {
		return nil
	}
	if err := os.Remove(s.Path(branch)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove prompt: %w", err)
	}
	return nil
}

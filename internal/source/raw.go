package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/raphi011/kickoff/internal/workitem"
)

// RawProvider turns free text into a Context without any I/O.
type RawProvider struct{}

// Fetch derives a Context from ref.Text. The ID is a digest of the text, so
// launching the same prompt twice reuses the same branch and worktree.
func (RawProvider) Fetch(_ context.Context, ref workitem.Reference) (Context, error) {
	text := strings.TrimSpace(ref.Text)
	return Context{
		ID:          RawID(text),
		Title:       text,
		Description: text,
		Slug:        Slugify(text),
	}, nil
}

// RawID returns "raw-" followed by the first 8 hex digits of the xxhash64
// of the trimmed text.
func RawID(text string) string {
	sum := xxhash.Sum64String(strings.TrimSpace(text))
	return fmt.Sprintf("raw-%016x", sum)[:12]
}

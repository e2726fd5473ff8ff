// Package output carries kickoff's stdout printer through the context.
//
// Stdout holds data meant for pipes (branch lists, tables, JSON, prompt
// paths). Diagnostics go to stderr via the log package.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type ctxKey struct{}

// Printer writes primary output.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext retrieves the Printer from context, falling back to stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// JSON writes v as indented JSON followed by a newline.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

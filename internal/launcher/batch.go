package launcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raphi011/kickoff/internal/log"
)

// ItemError is one failed batch item.
type ItemError struct {
	Input string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchError lists the items of a batch that failed, in input order.
// errors.As on a BatchError finds the first failure's error.
type BatchError struct {
	Total    int
	Failures []ItemError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d of %d items failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// RunBatch runs items one at a time, pausing launch.batch_delay between
// them. Cancelling ctx stops the batch before the next item.
func (l *Launcher) RunBatch(ctx context.Context, items []Item) ([]Outcome, error) {
	lg := log.FromContext(ctx)
	delay := l.Config.Launch.BatchDelay.Duration

	var outcomes []Outcome
	batchErr := &BatchError{Total: len(items)}
	for i, item := range items {
		if i > 0 && !l.Options.DryRun {
			if err := sleep(ctx, delay); err != nil {
				return outcomes, err
			}
		}
		lg.Printf("==> [%d/%d] %s\n", i+1, len(items), label(item))

		out, err := l.Run(ctx, item)
		outcomes = append(outcomes, out)
		if err != nil {
			if ctx.Err() != nil {
				return outcomes, ctx.Err()
			}
			lg.Printf("Error: %s: %v\n", label(item), err)
			batchErr.Failures = append(batchErr.Failures, ItemError{Input: label(item), Err: err})
		}
	}

	if len(batchErr.Failures) > 0 {
		return outcomes, batchErr
	}
	return outcomes, nil
}

func label(item Item) string {
	if item.Ref != nil {
		return item.Ref.String()
	}
	return item.Input
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package progress

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
)

func TestModel_View(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
		notWant string
	}{
		{name: "fresh", elapsed: 300 * time.Millisecond, want: "Fetching ticket IOS-1", notWant: "("},
		{name: "slow", elapsed: 3500 * time.Millisecond, want: "(3s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := model{
				spinner: spinner.New(),
				message: "Fetching ticket IOS-1",
				start:   start,
				now:     func() time.Time { return start.Add(tt.elapsed) },
			}
			got := m.View().Content
			if !strings.Contains(got, tt.want) {
				t.Errorf("View() = %q, want %q", got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("View() = %q, should not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestModel_Init(t *testing.T) {
	t.Parallel()

	if newModel("Fetching").Init() == nil {
		t.Error("Init() should start ticking")
	}
}

// Scenario: While wraps a call that fails.
// Expected: the call's value and error come back and the line is cleared.
func TestWhile(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	wantErr := errors.New("not found")
	got, err := While(context.Background(), &syncWriter{b: &out}, "Fetching PR #7", func(context.Context) (int, error) {
		return 7, wantErr
	})
	if got != 7 || !errors.Is(err, wantErr) {
		t.Errorf("While() = %d, %v, want 7, %v", got, err, wantErr)
	}
	if !strings.HasSuffix(out.String(), "\r\033[K") {
		t.Errorf("output %q does not end by clearing the line", out.String())
	}
}

// syncWriter serializes writes from the program goroutine and the test.
type syncWriter struct {
	mu sync.Mutex
	b  *strings.Builder
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

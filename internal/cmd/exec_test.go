package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/kickoff/internal/log"
)

func verboseCtx(buf *bytes.Buffer) context.Context {
	return log.WithLogger(context.Background(), log.New(buf, true, false))
}

func TestOutputContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantOut    string
		wantErr    string
		wantCode   int
		wantFailed bool
	}{
		{name: "stdout", args: []string{"-c", "printf hello"}, wantOut: "hello"},
		{name: "stderr becomes message", args: []string{"-c", "echo 'fatal: nope' >&2; exit 3"}, wantErr: "fatal: nope", wantCode: 3, wantFailed: true},
		{name: "no stderr falls back to exit status", args: []string{"-c", "exit 1"}, wantErr: "exit status 1", wantCode: 1, wantFailed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := OutputContext(context.Background(), "", "sh", tt.args...)
			if !tt.wantFailed {
				if err != nil {
					t.Fatalf("OutputContext() error = %v", err)
				}
				if string(out) != tt.wantOut {
					t.Errorf("OutputContext() = %q, want %q", out, tt.wantOut)
				}
				return
			}
			var cmdErr *Error
			if !errors.As(err, &cmdErr) {
				t.Fatalf("OutputContext() error = %v, want *Error", err)
			}
			if cmdErr.Error() != tt.wantErr {
				t.Errorf("Error() = %q, want %q", cmdErr.Error(), tt.wantErr)
			}
			if cmdErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", cmdErr.Code, tt.wantCode)
			}
		})
	}
}

func TestOutputContext_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := OutputContext(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(string(out)))
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestOutputContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := OutputContext(ctx, "", "sleep", "5"); !errors.Is(err, context.Canceled) {
		t.Errorf("OutputContext() error = %v, want context.Canceled", err)
	}
}

func TestRunContext_LogsInVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RunContext(verboseCtx(&buf), "", "true"); err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "$ true (") {
		t.Errorf("log = %q, want command trace", buf.String())
	}
}

func TestStreamContext(t *testing.T) {
	t.Parallel()

	t.Run("passes env and streams", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := StreamContext(context.Background(), Stream{
			Env:    []string{"KICKOFF_BRANCH=IOS-1"},
			Stdin:  strings.NewReader("from stdin"),
			Stdout: &stdout,
			Stderr: &stderr,
		}, "sh", "-c", `echo "$KICKOFF_BRANCH"; cat; echo oops >&2`)
		if err != nil {
			t.Fatalf("StreamContext() error = %v", err)
		}
		if got := stdout.String(); got != "IOS-1\nfrom stdin" {
			t.Errorf("stdout = %q", got)
		}
		if got := stderr.String(); got != "oops\n" {
			t.Errorf("stderr = %q", got)
		}
	})

	t.Run("exit code", func(t *testing.T) {
		t.Parallel()
		err := StreamContext(context.Background(), Stream{Stdout: os.Stdout}, "sh", "-c", "exit 7")
		var cmdErr *Error
		if !errors.As(err, &cmdErr) || cmdErr.Code != 7 {
			t.Errorf("StreamContext() error = %v, want exit code 7", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()
		err := StreamContext(context.Background(), Stream{}, "kickoff-definitely-missing-binary")
		var cmdErr *Error
		if !errors.As(err, &cmdErr) || cmdErr.Code != -1 {
			t.Errorf("StreamContext() error = %v, want start failure", err)
		}
	})
}

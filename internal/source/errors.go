package source

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorKind classifies a source failure.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindAuthMissing
	KindAuthFailed
	KindNotFound
	KindRepoMismatch
)

// Sentinels matched by *Error through errors.Is.
var (
	ErrAuthMissing  = errors.New("missing credentials")
	ErrAuthFailed   = errors.New("authentication failed")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("request failed")
	ErrRepoMismatch = errors.New("repository mismatch")
)

var errNoRepo = errors.New("no repository: add an origin remote or pass a full URL")

func (k ErrorKind) sentinel() error {
	switch k {
	case KindAuthMissing:
		return ErrAuthMissing
	case KindAuthFailed:
		return ErrAuthFailed
	case KindNotFound:
		return ErrNotFound
	case KindRepoMismatch:
		return ErrRepoMismatch
	default:
		return ErrNetwork
	}
}

// Error is returned by every provider.
type Error struct {
	Kind ErrorKind
	// Source names the system that failed: jira, github, gitlab.
	Source string
	// Ref is the identifier that was requested.
	Ref string
	// Status is the HTTP status, zero for transport failures.
	Status int
	Err    error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindAuthMissing:
		msg = "missing credentials"
	case KindAuthFailed:
		msg = fmt.Sprintf("authentication failed fetching %s", e.Ref)
	case KindNotFound:
		msg = fmt.Sprintf("%s not found", e.Ref)
	case KindRepoMismatch:
		msg = fmt.Sprintf("%s is not in this repository", e.Ref)
	default:
		msg = "fetch " + e.Ref
		if e.Status != 0 {
			msg += fmt.Sprintf(" (HTTP %d)", e.Status)
		}
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel belonging to e.Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// statusError maps a non-200 HTTP status to an Error.
func statusError(source, ref string, status int, err error) *Error {
	kind := KindNetwork
	switch status {
	case http.StatusUnauthorized:
		kind = KindAuthFailed
	case http.StatusNotFound:
		kind = KindNotFound
	}
	if kind != KindNetwork {
		// the response body adds nothing to the kind
		err = nil
	}
	return &Error{Kind: kind, Source: source, Ref: ref, Status: status, Err: err}
}

func itoa(n int) string { return strconv.Itoa(n) }

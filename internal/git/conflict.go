package git

import (
	"errors"
	"regexp"
)

// git reports a branch that is checked out elsewhere as
//
//	fatal: 'feature' is already checked out at '/path/to/wt'      (git < 2.42)
//	fatal: 'feature' is already used by worktree at '/path/to/wt' (git >= 2.42)
//
// There is no machine-readable signal for this, so the match stays here.
var branchInUseRe = regexp.MustCompile(`is already (?:checked out|used by worktree) at '([^']+)'`)

// BranchInUse extracts the path of the worktree holding the branch from a
// failed `git worktree add`. ok is false for any other failure.
func BranchInUse(err error) (path string, ok bool) {
	var gitErr *Error
	if !errors.As(err, &gitErr) {
		return "", false
	}
	m := branchInUseRe.FindStringSubmatch(gitErr.Stderr)
	if m == nil {
		return "", false
	}
	return m[1], true
}

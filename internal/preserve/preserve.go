// Package preserve copies git-ignored files such as .env from the main
// checkout into a freshly created worktree, which git itself never does.
package preserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/kickoff/internal/cmd"
	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/log"
)

// Copy copies the git-ignored files of from that match cfg into to and
// returns their paths relative to both. Files already present in to are left
// alone. A file that cannot be copied is logged and skipped.
func Copy(ctx context.Context, cfg config.PreserveConfig, from, to string) ([]string, error) {
	if len(cfg.Patterns) == 0 {
		return nil, nil
	}
	l := log.FromContext(ctx)

	ignored, err := ignoredFiles(ctx, from)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, rel := range ignored {
		if !matches(rel, cfg.Patterns, cfg.Exclude) {
			continue
		}
		ok, err := copyFile(filepath.Join(from, rel), filepath.Join(to, rel))
		if err != nil {
			l.Debug("preserve: copy failed", "file", rel, "err", err)
			continue
		}
		if ok {
			l.Debug("preserve: copied", "file", rel)
			copied = append(copied, rel)
		}
	}
	return copied, nil
}

// ignoredFiles lists untracked ignored files of a working tree, relative to it.
func ignoredFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := cmd.OutputContext(ctx, dir, "git", "ls-files", "--others", "--ignored", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("list ignored files: %w", err)
	}
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, "\n"), nil
}

// matches reports whether rel should be copied. Patterns are matched against
// the basename; any path segment listed in exclude rejects the file.
func matches(rel string, patterns, exclude []string) bool {
	for seg := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
		if slices.Contains(exclude, seg) {
			return false
		}
	}
	base := filepath.Base(rel)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// copyFile copies src to dst with the source's permissions. It returns false
// without error when dst already exists.
func copyFile(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	in, err := os.Open(src)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return false, err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, err
	}
	return true, out.Close()
}

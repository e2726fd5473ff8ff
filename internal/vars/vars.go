package vars

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/raphi011/kickoff/internal/forge"
	"github.com/raphi011/kickoff/internal/source"
)

// Default templates.
const (
	DefaultBranchTemplate   = "{ticket_id}"
	DefaultWorktreeTemplate = "../worktrees/{branch}"
)

// Map is a flat set of template variables.
type Map map[string]string

// Input is everything Build needs. RepoRoot and OriginURL are the only git
// reads and are done by the caller.
type Input struct {
	Context   source.Context
	RepoRoot  string
	OriginURL string

	BranchTemplate   string
	WorktreeTemplate string
	User             string
	Custom           map[string]string

	// BranchOverride comes from --branch and wins over everything else.
	BranchOverride string

	Now   time.Time
	RunID string
}

// Build computes the variable map for one launched item.
//
// The branch is the override, else the context's source branch, else the
// rendered branch template. The worktree path is rendered with a sanitized
// branch and resolved against the repository root.
func Build(in Input) (Map, error) {
	if in.Context.ID == "" {
		return nil, fmt.Errorf("context has no id")
	}
	if in.RepoRoot == "" {
		return nil, fmt.Errorf("repository root is required")
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	if in.RunID == "" {
		id, err := NewRunID()
		if err != nil {
			return nil, err
		}
		in.RunID = id
	}
	if in.BranchTemplate == "" {
		in.BranchTemplate = DefaultBranchTemplate
	}
	if in.WorktreeTemplate == "" {
		in.WorktreeTemplate = DefaultWorktreeTemplate
	}

	m := Map{
		"ticket_id": in.Context.ID,
		"repo_root": in.RepoRoot,
		"repo_name": filepath.Base(in.RepoRoot),
		"timestamp": strconv.FormatInt(in.Now.Unix(), 10),
		"date":      in.Now.Format("2006-01-02"),
		"run_id":    in.RunID,
	}
	if in.User != "" {
		m["user"] = in.User
	}
	if r, ok := forge.ParseRemote(in.OriginURL); ok {
		m["repo_slug"] = r.Path
	}
	m.setContext(in.Context)

	branch := in.BranchOverride
	if branch == "" {
		branch = in.Context.SourceBranch
	}
	if branch == "" {
		// the template sees custom vars too, so {team}/{ticket_id} works
		naming := m.With(in.Custom)
		branch = Interpolate(in.BranchTemplate, naming)
	}
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return nil, fmt.Errorf("branch template %q rendered an empty branch name", in.BranchTemplate)
	}
	m["branch"] = branch

	pathVars := m.With(Map{"branch": SanitizeBranch(branch)}).With(in.Custom)
	path, err := ResolvePath(in.RepoRoot, Interpolate(in.WorktreeTemplate, pathVars))
	if err != nil {
		return nil, err
	}
	m["worktree"] = path

	for k, v := range in.Custom {
		m[k] = v
	}
	return m, nil
}

func (m Map) setContext(c source.Context) {
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set("title", c.Title)
	set("description", c.Description)
	set("slug", c.Slug)
	set("url", c.URL)
	set("author", c.Author)
	set("labels", strings.Join(c.Labels, ","))
	set("source_branch", c.SourceBranch)
}

// With returns a copy of m with other merged on top.
func (m Map) With(other map[string]string) Map {
	out := make(Map, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the variable names in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Env renders the map as PREFIX_KEY=value pairs, sorted by key.
//
//	Map{"ticket_id": "IOS-1"}.Env("KICKOFF") // ["KICKOFF_TICKET_ID=IOS-1"]
func (m Map) Env(prefix string) []string {
	env := make([]string, 0, len(m))
	for _, k := range m.Keys() {
		name := strings.ToUpper(k)
		if prefix != "" {
			name = prefix + "_" + name
		}
		env = append(env, name+"="+m[k])
	}
	return env
}

var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Interpolate replaces every {name} in template with m[name]. Unknown
// placeholders stay verbatim.
func Interpolate(template string, m Map) string {
	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		if v, ok := m[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

// Unresolved lists the placeholders in template that m has no value for,
// in order of first appearance.
func Unresolved(template string, m Map) []string {
	var out []string
	seen := map[string]bool{}
	for _, match := range placeholderRegex.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if _, ok := m[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// SanitizeBranch makes a branch name usable as a single path segment by
// replacing /, \ and : with _.
func SanitizeBranch(branch string) string {
	return branchReplacer.Replace(branch)
}

var branchReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// ResolvePath turns a rendered worktree template into an absolute, clean
// path. Supported forms:
//
//	"../worktrees/{branch}"  sibling of the repository
//	"./{branch}"             inside the repository
//	"~/worktrees/{branch}"   under the home directory
//	"/abs/{branch}"          absolute
func ResolvePath(repoRoot, path string) (string, error) {
	switch {
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	case !filepath.IsAbs(path):
		path = filepath.Join(repoRoot, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve worktree path %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRunID returns a 12 character lowercase id.
func NewRunID() (string, error) {
	id, err := nanoid.Generate(runIDAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id, nil
}

// Parse turns key=value pairs (from --arg) into a Map.
func Parse(pairs []string) (Map, error) {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected KEY=VALUE", p)
		}
		if !keyRegex.MatchString(key) {
			return nil, fmt.Errorf("invalid argument %q: key must match %s", p, keyRegex)
		}
		m[key] = value
	}
	return m, nil
}

var keyRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

package doctor

// Category groups issues by what they concern.
type Category string

const (
	// CategoryConfig covers credentials and templates.
	CategoryConfig Category = "config"
	// CategoryGit covers the git binary and the repository's worktrees.
	CategoryGit Category = "git"
	// CategoryPrompt covers the directory prompts are stored in.
	CategoryPrompt Category = "prompt"
)

// Fix actions applied by --fix. An issue without one needs manual attention.
const (
	FixInitConfig = "init_config"
	FixPrune      = "prune"
	FixPromptDir  = "create_prompt_dir"
)

// Issue is a problem found by a check.
type Issue struct {
	Key         string   // config key, path or branch
	Description string   // human-readable description
	FixAction   string   // what --fix would do, empty when manual
	Category    Category // issue category
}

// Fixable reports whether --fix can resolve the issue.
func (i Issue) Fixable() bool {
	return i.FixAction != ""
}

// Report is the outcome of one doctor run.
type Report struct {
	Checks int     // checks performed
	Issues []Issue // issues found, in category order
	Fixed  int     // issues resolved by --fix
	Failed int     // fixes that did not succeed
}

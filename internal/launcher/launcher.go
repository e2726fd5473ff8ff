package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/hooks"
	"github.com/raphi011/kickoff/internal/launch"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/output"
	"github.com/raphi011/kickoff/internal/preserve"
	"github.com/raphi011/kickoff/internal/prompt"
	"github.com/raphi011/kickoff/internal/source"
	"github.com/raphi011/kickoff/internal/ui/progress"
	"github.com/raphi011/kickoff/internal/vars"
	"github.com/raphi011/kickoff/internal/workitem"
	"github.com/raphi011/kickoff/internal/worktree"
)

// EnvPrefix prefixes every variable exported to launch scripts and hooks.
const EnvPrefix = "KICKOFF"

// Item is one unit of work. Ref, when set, bypasses classification of Input.
type Item struct {
	Input string
	Ref   *workitem.Reference
}

// Options are the per-invocation switches from the command line.
type Options struct {
	// Branch overrides the computed branch name.
	Branch string
	DryRun bool
	// Copy puts the composed prompt on the clipboard.
	Copy   bool
	NoHook bool
	// Hooks restricts launch hooks to these names.
	Hooks []string
	// Args are --arg key=value pairs, merged over the config's [vars].
	Args vars.Map
}

// Launcher runs items against one repository.
type Launcher struct {
	Config    *config.Config
	RepoRoot  string
	OriginURL string
	// User fills {user}.
	User    string
	Fetcher source.Provider
	Options Options

	// Spinner shows progress on Stderr while the context is fetched.
	Spinner bool

	// Streams handed to the launch script and hooks; nil means the
	// process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Now and Clipboard are replaced in tests.
	Now       func() time.Time
	Clipboard func(string) error
}

// Outcome describes what Run did for one item.
type Outcome struct {
	Ref        workitem.Reference
	Context    source.Context
	Vars       vars.Map
	Worktree   worktree.Result
	// Preserved lists the ignored files copied into a new worktree.
	Preserved  []string
	Prompt     string
	PromptFile string
	// Script is the rendered launch script, empty when none is configured.
	Script     string
	HookErrors []error
}

// Run launches a single item.
func (l *Launcher) Run(ctx context.Context, item Item) (Outcome, error) {
	lg := log.FromContext(ctx)

	ref := workitem.Classify(item.Input)
	if item.Ref != nil {
		ref = *item.Ref
	}
	lg.Debug("detected source", "kind", ref.Kind, "ref", ref.String())

	// Resolved up front so an unknown --hook fails before git is touched.
	matches, err := hooks.Select(l.Config.Hooks, l.Options.Hooks, l.Options.NoHook, hooks.EventLaunch)
	if err != nil {
		return Outcome{Ref: ref}, err
	}

	ref, err = source.CheckRepo(ref, l.OriginURL)
	if err != nil {
		return Outcome{Ref: ref}, err
	}
	out := Outcome{Ref: ref}

	sc, err := l.fetch(ctx, ref)
	if err != nil {
		return out, err
	}
	out.Context = sc
	lg.Debug("fetched context", "id", sc.ID, "title", sc.Title)

	m, err := vars.Build(vars.Input{
		Context:          sc,
		RepoRoot:         l.RepoRoot,
		OriginURL:        l.OriginURL,
		BranchTemplate:   l.Config.Templates.Branch,
		WorktreeTemplate: l.Config.Templates.Worktree,
		User:             l.User,
		Custom:           vars.Map(l.Config.Vars).With(l.Options.Args),
		BranchOverride:   l.Options.Branch,
		Now:              l.now(),
	})
	if err != nil {
		return out, fmt.Errorf("build variables: %w", err)
	}
	out.Vars = m
	for _, k := range m.Keys() {
		lg.Debug("var", k, m[k])
	}

	p := &worktree.Provisioner{RepoDir: l.RepoRoot, DryRun: l.Options.DryRun}
	res, err := p.Ensure(ctx, worktree.Request{
		Path:         m["worktree"],
		Branch:       m["branch"],
		RemoteBranch: sc.SourceBranch != "" && sc.SourceBranch == m["branch"],
	})
	if err != nil {
		return out, err
	}
	out.Worktree = res
	if !l.Options.DryRun {
		lg.Printf("%s worktree %s (%s)\n", stateVerb(res.State), res.Path, res.Branch)
	}
	if res.Created && !l.Options.DryRun {
		out.Preserved, err = preserve.Copy(ctx, l.Config.Preserve, l.RepoRoot, res.Path)
		if err != nil {
			lg.Printf("Warning: failed to copy preserved files: %v\n", err)
		} else if len(out.Preserved) > 0 {
			lg.Printf("Copied %d preserved file(s)\n", len(out.Preserved))
		}
	}

	text := prompt.Compose(prompt.Templates{
		Prefix: l.Config.Prompt.Prefix,
		Body:   l.Config.Prompt.Body,
		Suffix: l.Config.Prompt.Suffix,
	}, m)
	store := prompt.Store{Dir: l.Config.Prompt.Dir, FrontMatter: l.Config.Prompt.FrontMatter}
	out.Prompt = text
	out.PromptFile = store.Path(m["branch"])
	if !l.Options.DryRun {
		if out.PromptFile, err = store.Write(m["branch"], text, prompt.MetaFrom(m, l.now())); err != nil {
			return out, err
		}
	}
	m["prompt_file"] = out.PromptFile
	m["worktree_created"] = strconv.FormatBool(res.Created)

	if l.Options.Copy && !l.Options.DryRun {
		if err := l.copy(text); err != nil {
			lg.Printf("Warning: failed to copy prompt to clipboard: %v\n", err)
		} else {
			lg.Println("Prompt copied to clipboard")
		}
	}

	out.HookErrors = l.runHooks(ctx, matches, m)

	if script := l.Config.Launch.Script; script != "" {
		out.Script = vars.Interpolate(script, m)
		if missing := vars.Unresolved(script, m); len(missing) > 0 {
			lg.Printf("Warning: launch script has unresolved placeholders: %s\n", strings.Join(missing, ", "))
		}
	}

	if l.Options.DryRun {
		printPlan(output.FromContext(ctx), out)
		return out, nil
	}
	if out.Script == "" {
		output.FromContext(ctx).Println(out.PromptFile)
		return out, nil
	}

	err = launch.Execute(ctx, launch.Command{
		Script: out.Script,
		Dir:    res.Path,
		Env:    m.Env(EnvPrefix),
		Stdin:  l.Stdin,
		Stdout: l.Stdout,
		Stderr: l.Stderr,
	})
	return out, err
}

func (l *Launcher) fetch(ctx context.Context, ref workitem.Reference) (source.Context, error) {
	if !l.Spinner || ref.Kind == workitem.KindRawText {
		return l.Fetcher.Fetch(ctx, ref)
	}
	w := l.Stderr
	if w == nil {
		w = os.Stderr
	}
	return progress.While(ctx, w, "Fetching "+ref.String(), func(ctx context.Context) (source.Context, error) {
		return l.Fetcher.Fetch(ctx, ref)
	})
}

func (l *Launcher) runHooks(ctx context.Context, matches []hooks.Match, m vars.Map) []error {
	return hooks.RunForEach(ctx, matches, hooks.Context{
		Vars:   m,
		Dir:    m["worktree"],
		Env:    m.Env(EnvPrefix),
		DryRun: l.Options.DryRun,
		Stdout: l.Stdout,
		Stderr: l.Stderr,
	})
}

func (l *Launcher) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Launcher) copy(text string) error {
	if l.Clipboard != nil {
		return l.Clipboard(text)
	}
	return clipboard.WriteAll(text)
}

func stateVerb(s worktree.State) string {
	switch s {
	case worktree.StateCreated:
		return "Created"
	case worktree.StateAlreadyExists:
		return "Reusing"
	case worktree.StateRecovered:
		return "Recovered"
	case worktree.StateForced:
		return "Force-attached"
	default:
		return "Attached"
	}
}

func printPlan(p *output.Printer, o Outcome) {
	p.Printf("[dry-run] %s\n", o.Ref)
	p.Printf("  ticket:   %s\n", o.Vars["ticket_id"])
	p.Printf("  branch:   %s\n", o.Worktree.Branch)
	p.Printf("  worktree: %s (%s)\n", o.Worktree.Path, o.Worktree.State)
	for _, step := range o.Worktree.Planned {
		p.Printf("  would:    %s\n", step)
	}
	p.Printf("  prompt:   %s\n", o.PromptFile)
	if o.Script != "" {
		p.Printf("  script:   %s\n", o.Script)
	}
}

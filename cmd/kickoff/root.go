package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/output"
	"github.com/raphi011/kickoff/internal/ui"
	"github.com/raphi011/kickoff/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

// skipConfig marks commands that must work without a loadable config file.
const skipConfig = "kickoff/skip-config"

// globals is the state shared by every subcommand.
type globals struct {
	configPath string
	verbose    bool
	quiet      bool

	// workDir is where repository discovery starts.
	workDir string
	getenv  func(string) string
	// interactive reports whether pickers and prompts can be shown; nil
	// means never.
	interactive func() bool
}

func newRootCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kickoff",
		Short: "Turn a ticket, issue, PR or prompt into a ready-to-work git worktree",
		Long: `kickoff prepares an isolated git worktree for a unit of work and hands it
to your launch script.

The input is classified (Jira ticket, GitHub/GitLab issue or pull request,
or free-form prompt), its context is fetched, a branch and worktree are
provisioned idempotently and a prompt file is composed from templates.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), g.verbose, g.quiet))
			ctx = output.WithPrinter(ctx, cmd.OutOrStdout())
			cmd.SetContext(ctx)

			if !needsConfig(cmd) {
				return nil
			}

			path, explicit := config.Path(g.configPath, g.getenv)
			cfg, err := config.Load(path, explicit)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Debug("loaded config", "path", path, "explicit", explicit)
			styles.Init(cfg.Theme)
			cmd.SetContext(config.WithConfig(ctx, cfg))
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default $KICKOFF_CONFIG or ~/.config/kickoff/config.toml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log decisions and external commands")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newLaunchCmd(g))
	cmd.AddCommand(newListCmd(g))
	cmd.AddCommand(newPruneCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newDoctorCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// needsConfig reports whether cmd loads the config file. Help, completion
// and commands annotated with skipConfig run without one.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch {
		case c.Annotations[skipConfig] == "true":
			return false
		case c.Name() == "help", c.Name() == "completion", c.Name() == cobra.ShellCompRequestCmd:
			return false
		}
	}
	return true
}

// repo finds the repository containing the working directory and returns
// its root together with the config merged with the repo's .kickoff.toml.
func (g *globals) repo(ctx context.Context) (string, *config.Config, error) {
	if err := git.CheckGit(); err != nil {
		return "", nil, err
	}
	root, err := git.RepoRoot(ctx, g.workDir)
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.ForRepo(config.FromContext(ctx), root)
	if err != nil {
		return "", nil, err
	}
	log.FromContext(ctx).Debug("repository", "root", root)
	return root, cfg, nil
}

func (g *globals) canPrompt() bool {
	return g.interactive != nil && g.interactive()
}

// isTerminal reports whether a command stream is an interactive terminal.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && ui.IsTerminal(f)
}

// readAll reads piped input. A terminal yields nothing so that kickoff never
// blocks waiting for the user to type.
func readAll(in io.Reader) (string, error) {
	if isTerminal(in) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

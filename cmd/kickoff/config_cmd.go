package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/git"
	"github.com/raphi011/kickoff/internal/log"
	"github.com/raphi011/kickoff/internal/output"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage kickoff configuration.

Global config: ~/.config/kickoff/config.toml (or --config, $KICKOFF_CONFIG)
Local config:  .kickoff.toml (in the repository root)`,
		Example: `  kickoff config init          # Create default global config
  kickoff config init --local  # Create local repo config
  kickoff config show          # Show effective config
  kickoff config path          # Print the config file location`,
	}

	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))

	return cmd
}

func newConfigInitCmd(g *globals) *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Long: `Create default config file.

Without flags, creates the global config. With --local, creates the per-repo
.kickoff.toml in the current repository root.`,
		Example: `  kickoff config init           # Create global config
  kickoff config init --local   # Create local repo config
  kickoff config init -f        # Overwrite existing config
  kickoff config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			content := config.DefaultTemplate()
			if local {
				content = config.DefaultLocalConfig()
			}
			if stdout {
				out.Print(content)
				return nil
			}

			if local {
				root, err := git.RepoRoot(ctx, g.workDir)
				if err != nil {
					return err
				}
				path := filepath.Join(root, config.LocalConfigFileName)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
					}
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return err
				}
				out.Printf("Created local config: %s\n", path)
				return nil
			}

			path, _ := config.Path(g.configPath, g.getenv)
			if err := config.Init(path, force); err != nil {
				return err
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .kickoff.toml instead of global config")

	return cmd
}

// shownConfig adds the hooks, which the config struct keeps out of its
// encodings, to `config show` output.
type shownConfig struct {
	config.Config `yaml:",inline"`
	Hooks         map[string]config.Hook `toml:"hooks,omitempty" yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

func newConfigShowCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Inside a repository the repo's .kickoff.toml is merged in. Tokens are masked.`,
		Example: `  kickoff config show                # As TOML
  kickoff config show --format json  # As JSON
  kickoff config show --format yaml  # As YAML`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := config.FromContext(ctx)
			if root, err := git.RepoRoot(ctx, g.workDir); err == nil {
				merged, err := config.ForRepo(cfg, root)
				if err != nil {
					return err
				}
				cfg = merged
			} else {
				log.FromContext(ctx).Debug("not in a repository, showing global config", "err", err)
			}

			shown := shownConfig{Config: cfg.Redacted(), Hooks: cfg.Hooks.Hooks}
			switch format {
			case "json":
				return out.JSON(shown)
			case "yaml":
				enc := yaml.NewEncoder(out.Writer())
				enc.SetIndent(2)
				if err := enc.Encode(shown); err != nil {
					return err
				}
				return enc.Close()
			case "toml":
				if cfg.Path != "" {
					out.Printf("# %s\n", cfg.Path)
				}
				return toml.NewEncoder(out.Writer()).Encode(shown)
			default:
				return fmt.Errorf("invalid --format %q: use toml, yaml or json", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, yaml or json")

	return cmd
}

func newConfigPathCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			path, _ := config.Path(g.configPath, g.getenv)
			output.FromContext(cmd.Context()).Println(path)
		},
	}
}

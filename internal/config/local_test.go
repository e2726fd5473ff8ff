package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLocal(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil || local != nil {
		t.Errorf("LoadLocal() = %+v, %v; want nil, nil", local, err)
	}
}

func TestLoadLocal_AllFields(t *testing.T) {
	t.Parallel()

	dir := writeLocal(t, `
[templates]
branch = "{user}/{ticket_id}"

[prompt]
suffix = "Run make test."
front_matter = true

[launch]
script = "code {worktree}"
batch_delay = "3s"

[vars]
team = "web"

[forge]
default = "gitlab"

[preserve]
patterns = [".env.local"]

[hooks.global]
enabled = false
`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal() error = %v", err)
	}
	if local.Templates.Branch != "{user}/{ticket_id}" || local.Templates.Worktree != "" {
		t.Errorf("templates = %+v", local.Templates)
	}
	if local.Prompt.Suffix != "Run make test." || local.Prompt.FrontMatter == nil || !*local.Prompt.FrontMatter {
		t.Errorf("prompt = %+v", local.Prompt)
	}
	if local.Launch.Script != "code {worktree}" || local.Launch.BatchDelay.Duration != 3*time.Second {
		t.Errorf("launch = %+v", local.Launch)
	}
	if local.Vars["team"] != "web" || local.Forge.Default != "gitlab" {
		t.Errorf("vars = %v forge = %+v", local.Vars, local.Forge)
	}
	if len(local.Preserve.Patterns) != 1 || local.Preserve.Patterns[0] != ".env.local" {
		t.Errorf("preserve = %+v", local.Preserve)
	}
	if local.Hooks.Hooks["global"].IsEnabled() {
		t.Error("global hook should be disabled locally")
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"toml":  "[templates\n",
		"forge": "[forge]\ndefault = \"gitea\"\n",
		"hook":  "[hooks.x]\ncommand = \"true\"\non = [\"merge\"]\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadLocal(writeLocal(t, content))
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Errorf("LoadLocal() error = %v, want *Error", err)
			}
		})
	}
}

func TestForRepo(t *testing.T) {
	t.Parallel()

	global := Default()
	global.Launch.Script = "global"

	dir := writeLocal(t, "[launch]\nscript = \"local\"\n")
	merged, err := ForRepo(&global, dir)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Launch.Script != "local" {
		t.Errorf("script = %q, want local", merged.Launch.Script)
	}

	same, err := ForRepo(&global, t.TempDir())
	if err != nil || same != &global {
		t.Errorf("ForRepo() without local file = %p, %v; want global", same, err)
	}
}

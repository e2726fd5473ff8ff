package doctor

import (
	"context"
	"os"

	"github.com/raphi011/kickoff/internal/config"
	"github.com/raphi011/kickoff/internal/output"
)

// Doctor inspects one configuration, optionally within a repository.
type Doctor struct {
	Config *config.Config
	// ConfigPath is where the config is (or would be) read from.
	ConfigPath string
	// RepoRoot and OriginURL are empty outside a repository; the
	// repository checks are skipped then.
	RepoRoot  string
	OriginURL string
	Getenv    func(string) string
}

// Run performs every check, prints a summary and, when fix is set, applies
// the fixes of fixable issues.
func (d *Doctor) Run(ctx context.Context, fix bool) (Report, error) {
	p := output.FromContext(ctx)
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}

	var report Report
	for _, c := range []struct {
		title string
		cat   Category
		run   func(context.Context) (int, []Issue)
	}{
		{"Checking config...", CategoryConfig, d.checkConfig},
		{"Checking git...", CategoryGit, d.checkGit},
		{"Checking prompt directory...", CategoryPrompt, d.checkPromptDir},
	} {
		p.Println(c.title)
		n, issues := c.run(ctx)
		for i := range issues {
			issues[i].Category = c.cat
		}
		report.Checks += n
		report.Issues = append(report.Issues, issues...)
	}

	printSummary(p, report)
	if len(report.Issues) == 0 {
		p.Println("\n✓ No issues found")
		return report, nil
	}

	p.Printf("\nFound %d issue(s):\n", len(report.Issues))
	printIssuesByCategory(p, report.Issues)

	if fix {
		report.Fixed, report.Failed = d.fixAll(ctx, report.Issues)
		p.Printf("\nFixed %d issue(s)", report.Fixed)
		if report.Failed > 0 {
			p.Printf(", %d failed", report.Failed)
		}
		p.Println()
		return report, ctx.Err()
	}

	for _, issue := range report.Issues {
		if issue.Fixable() {
			p.Println("\nRun 'kickoff doctor --fix' to repair.")
			break
		}
	}
	return report, nil
}

func printSummary(p *output.Printer, r Report) {
	counts := map[Category]int{}
	for _, issue := range r.Issues {
		counts[issue.Category]++
	}

	p.Println()
	p.Printf("  ✓ %d check(s) passed\n", r.Checks-len(r.Issues))
	for _, cat := range categories {
		if n := counts[cat]; n > 0 {
			p.Printf("  ⚠ %d %s issue(s)\n", n, cat)
		}
	}
}

var categories = []Category{CategoryConfig, CategoryGit, CategoryPrompt}

func printIssuesByCategory(p *output.Printer, issues []Issue) {
	names := map[Category]string{
		CategoryConfig: "Config issues",
		CategoryGit:    "Git issues",
		CategoryPrompt: "Prompt directory issues",
	}

	for _, cat := range categories {
		var header bool
		for _, issue := range issues {
			if issue.Category != cat {
				continue
			}
			if !header {
				p.Printf("\n%s:\n", names[cat])
				header = true
			}
			p.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}

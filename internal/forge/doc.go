// Package forge identifies which code host a repository lives on and
// extracts the owner/repo path from its remote URL.
//
// # Platform Detection
//
// [Detect] checks, in order:
//
//  1. Custom host mappings from config (for self-hosted instances)
//  2. Host name patterns (gitlab.com, gitlab.*)
//  3. GitHub as the fallback
//
// Configure custom hosts in config.toml:
//
//	[hosts]
//	"github.mycompany.com" = "github"
//	"code.internal.corp" = "gitlab"
package forge

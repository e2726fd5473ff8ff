package config

const defaultConfig = `# kickoff configuration

# Name available as {user} in templates (defaults to $USER)
# user = "jdoe"

# Ticket tracker. Environment variables win over these values:
#   JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN
# With an email, requests use basic auth (email + API token).
# Without one, the token is sent as a bearer personal access token.
# [jira]
# url = "https://acme.atlassian.net"
# email = "jdoe@acme.com"
# token = ""

# GitHub issues and pull requests (GITHUB_TOKEN / GH_TOKEN, GITHUB_API_URL)
# [github]
# token = ""
# api_url = "https://github.mycompany.com/api/v3/"   # GitHub Enterprise only

# GitLab issues and merge requests (GITLAB_TOKEN, GITLAB_URL)
# [gitlab]
# token = ""
# url = "https://gitlab.internal.corp"

# Forge used for #123 / pr:123 shorthands when the origin host is unknown
# [forge]
# default = "github"

# Host mappings for self-hosted GitHub Enterprise or GitLab instances
# [hosts]
# "github.mycompany.com" = "github"
# "code.internal.corp" = "gitlab"

# Naming templates
#   branch:   rendered with {ticket_id}, {slug}, {user}, {title} and [vars]
#   worktree: relative paths resolve against the repository root;
#             {branch} has "/", "\" and ":" replaced by "_"
[templates]
branch = "{ticket_id}"
worktree = "../worktrees/{branch}"

# Prompt composition: prefix, body and suffix are joined by a blank line.
# Files are written to <dir>/<branch>.md
[prompt]
# dir = "~/.config/kickoff/prompts"
# prefix = "You are working in {worktree}."
body = """
# {title}

{description}"""
# suffix = "Source: {url}"
# front_matter = false   # prepend YAML metadata to the prompt file

# Command run once the worktree and prompt are ready.
# Every variable is also exported as KICKOFF_<NAME>.
# Leave empty to only prepare the worktree and print the prompt path.
[launch]
# script = "tmux new-window -n {branch} -c {worktree} 'claude \"$(cat {prompt_file})\"'"
# batch_delay = "1s"   # pause between items of a comma-separated batch

# Git-ignored files copied from the main checkout into each new worktree,
# matched by file name. Existing files are never overwritten.
# [preserve]
# patterns = [".env", ".env.*", ".envrc"]
# exclude = ["node_modules", "vendor"]

# Colors of interactive prompts and tables
# [theme]
# name = "default"     # none, default, dracula, nord, gruvbox, catppuccin
# mode = "auto"        # auto, light, dark
# primary = "62"
# accent = "212"

# Custom variables, merged last (they override computed values)
# [vars]
# team = "mobile"

# Hooks run shell commands around launch and prune.
# Hooks with "on" run automatically, hooks without only via --hook=name.
# Available "on" values: "launch", "prune", "all"
#
# Placeholders are shell-quoted: {key}, {key:raw} (unquoted), {key:-default}
# Launch hooks run inside the new worktree, prune hooks in the main repo.
#
# [hooks.deps]
# command = "cd {worktree} && npm install"
# description = "Install dependencies"
# on = ["launch"]
#
# [hooks.log]
# command = "echo removed {branch} >> ~/kickoff.log"
# on = ["prune"]
#
# A repository can also ship an executable at .kickoff/hooks/post-remove,
# run after each pruned worktree with KICKOFF_WORKTREE_PATH, KICKOFF_BRANCH
# and KICKOFF_REPO_ROOT set.
`

// Package ui holds kickoff's terminal helpers. The interactive and styled
// components live in subpackages:
//
//   - picker: fuzzy multi-select used by `kickoff prune -i`
//   - prompt: yes/no confirmation before pruning
//   - progress: spinner shown while a ticket, issue or PR is fetched
//   - static: the `kickoff list` table
//   - styles: shared colors and themes
//
// Everything interactive renders to stderr so stdout stays clean for
// piping (`kickoff list --branches | kickoff prune --stdin`).
package ui

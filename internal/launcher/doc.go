// Package launcher turns one input into a running session.
//
// For each item it classifies the input, checks that issue and pull request
// links belong to the current repository, fetches the context, builds the
// variables, provisions the worktree, writes the prompt, runs launch hooks
// and finally hands everything to the launch script.
//
// A comma-separated input is a batch: items run one after another with a
// configurable pause so external terminal windows do not race. One item's
// failure does not stop the rest; the failures come back as a BatchError.
package launcher

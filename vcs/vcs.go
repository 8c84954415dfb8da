// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"
)

type Interface interface {
	// ReadCommitObject returns the raw bytes of a commit object, as
	// printed by `git cat-file commit`.
	ReadCommitObject(ctx context.Context, rev string) ([]byte, error)
	// AmendTimestamps re-authors the current commit in place, changing
	// only its author and committer dates.
	AmendTimestamps(ctx context.Context, opts AmendOpts) error
	// CurrentCommit resolves HEAD to a full hash.
	CurrentCommit(ctx context.Context) (string, error)
}

// AmendOpts carries the replacement dates for re-authoring a commit, each in
// git's raw "<epoch> <timezone>" format.
type AmendOpts struct {
	AuthorDate    string
	CommitterDate string
}

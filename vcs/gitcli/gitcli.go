// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"context"
	"strings"

	"github.com/jeffrom/forceprefix/config"
	"github.com/jeffrom/forceprefix/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

func (g *Git) ReadCommitObject(ctx context.Context, rev string) ([]byte, error) {
	return g.call(ctx, []string{"cat-file", "commit", rev})
}

func (g *Git) CurrentCommit(ctx context.Context) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "HEAD"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// AmendTimestamps rewrites HEAD with new dates. The author date goes through
// --date; the committer date has no flag, so it goes through the
// GIT_COMMITTER_DATE environment variable.
func (g *Git) AmendTimestamps(ctx context.Context, opts vcs.AmendOpts) error {
	args := []string{"commit", "--amend", "--no-edit", "--date=" + opts.AuthorDate}

	if g.cfg.Dryrun {
		g.cfg.Printf("+ GIT_COMMITTER_DATE=%q git %s (dryrun)", opts.CommitterDate, ArgsString(args))
		return nil
	}
	_, err := g.callEnv(ctx, args, []string{"GIT_COMMITTER_DATE=" + opts.CommitterDate})
	return err
}

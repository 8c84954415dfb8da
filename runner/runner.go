// Package runner manages command-line execution
package runner

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/jeffrom/forceprefix/config"
	"github.com/jeffrom/forceprefix/model"
	"github.com/jeffrom/forceprefix/search"
	"github.com/jeffrom/forceprefix/vcs"
)

type Runner struct {
	cfg config.Config
	vcs vcs.Interface
}

func New(cfg config.Config, vcs vcs.Interface) *Runner {
	return &Runner{
		cfg: cfg,
		vcs: vcs,
	}
}

// Run searches HEAD for a commit hash starting with prefix. By default it
// prints the git invocation that applies the found timestamps, leaving the
// repository alone; with Amend set it rewrites HEAD directly and verifies
// the result.
func (r *Runner) Run(ctx context.Context, prefix string) error {
	pattern, err := search.ParsePattern(prefix)
	if err != nil {
		return err
	}

	raw, err := r.vcs.ReadCommitObject(ctx, "HEAD")
	if err != nil {
		return fmt.Errorf("runner: read HEAD (is the current directory a git repo?): %w", err)
	}
	if !utf8.Valid(raw) {
		return fmt.Errorf("runner: commit object is not valid UTF-8")
	}

	cmt, err := model.ParseCommit(string(raw))
	if err != nil {
		return err
	}

	eng, err := search.New(cmt, pattern, search.Options{
		Workers:      r.cfg.Workers,
		MaxDiagonals: r.cfg.MaxDiagonals,
	})
	if err != nil {
		return err
	}

	r.cfg.Debugf("searching for a %d-digit prefix on commit %q", pattern.Len(), strings.SplitN(cmt.Message, "\n", 2)[0])
	res, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	if !r.cfg.Quiet {
		color.New(color.FgGreen).Fprintf(r.cfg.Term.Stderr, "Found %s\n", res.HexDigest())
	}
	r.cfg.Debugf("%d hashes over %d diagonals in %s (%.0f hashes/sec)",
		res.Attempts, res.Diagonals, res.Elapsed, res.Rate())

	forced := cmt.WithTimestamps(
		cmt.AuthorTimestamp+res.AuthorOffset,
		cmt.AuthorTimestamp+res.CommitterOffset,
	)

	if r.cfg.Amend {
		return r.amend(ctx, forced, prefix)
	}
	r.printCommand(forced)
	return nil
}

// printCommand writes the ready-to-run amend invocation to stdout. The
// trailing newline is only added on a terminal, so shell substitution of the
// output stays clean.
func (r *Runner) printCommand(forced *model.Commit) {
	out := r.cfg.Term.Stdout
	if config.IsTerminal(out) {
		fmt.Fprintln(out, AmendCommand(forced))
	} else {
		fmt.Fprint(out, AmendCommand(forced))
	}
}

// AmendCommand renders the shell command that re-authors the current commit
// with forced's timestamps.
func AmendCommand(forced *model.Commit) string {
	return fmt.Sprintf("GIT_COMMITTER_DATE=%q git commit --date=%q --amend --no-edit",
		forced.CommitterDate(), forced.AuthorDate())
}

func (r *Runner) amend(ctx context.Context, forced *model.Commit, prefix string) error {
	opts := vcs.AmendOpts{
		AuthorDate:    forced.AuthorDate(),
		CommitterDate: forced.CommitterDate(),
	}
	if err := r.vcs.AmendTimestamps(ctx, opts); err != nil {
		return err
	}
	if r.cfg.Dryrun {
		return nil
	}

	head, err := r.vcs.CurrentCommit(ctx)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.ToLower(head), strings.ToLower(prefix)) {
		return fmt.Errorf("runner: amended commit %s doesn't start with %q", head, prefix)
	}
	r.cfg.Printf("%s", head)
	return nil
}

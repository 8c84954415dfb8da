package gitcli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/jeffrom/forceprefix/config"
	"github.com/jeffrom/forceprefix/vcs"
)

func newTestRepo(ctx context.Context, t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("-short")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	dir := t.TempDir()
	t.Setenv("GIT_AUTHOR_NAME", "forceprefix-test")
	t.Setenv("GIT_AUTHOR_EMAIL", "forceprefix-test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "forceprefix-test")
	t.Setenv("GIT_COMMITTER_EMAIL", "forceprefix-test@example.com")
	t.Setenv("GIT_AUTHOR_DATE", "1524680608 -0500")
	t.Setenv("GIT_COMMITTER_DATE", "1524680608 -0500")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	call(ctx, t, dir, "init", "-q")
	call(ctx, t, dir, "commit", "--allow-empty", "-m", "initial commit")
	return dir
}

func call(ctx context.Context, t *testing.T, dir string, args ...string) {
	t.Helper()
	t.Logf("+ git %s", ArgsString(args))
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestReadCommitObject(t *testing.T) {
	ctx := context.Background()
	dir := newTestRepo(ctx, t)
	g := New(config.New(nil), dir)

	raw, err := g.ReadCommitObject(ctx, "HEAD")
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, expect := range []string{
		"tree ",
		"author forceprefix-test <forceprefix-test@example.com> 1524680608 -0500\n",
		"committer forceprefix-test <forceprefix-test@example.com> 1524680608 -0500\n",
		"\n\ninitial commit\n",
	} {
		if !strings.Contains(text, expect) {
			t.Errorf("expected commit object to contain %q, got:\n%s", expect, text)
		}
	}
}

func TestReadCommitObjectBadRev(t *testing.T) {
	ctx := context.Background()
	dir := newTestRepo(ctx, t)
	g := New(config.New(nil), dir)

	if _, err := g.ReadCommitObject(ctx, "not-a-rev"); err == nil {
		t.Fatal("expected an error for a bad rev")
	}
}

func TestCurrentCommit(t *testing.T) {
	ctx := context.Background()
	dir := newTestRepo(ctx, t)
	g := New(config.New(nil), dir)

	head, err := g.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(head) != 40 {
		t.Errorf("expected a full 40-char hash, got %q", head)
	}
	if strings.ContainsAny(head, " \n") {
		t.Errorf("expected a trimmed hash, got %q", head)
	}
}

func TestAmendTimestamps(t *testing.T) {
	ctx := context.Background()
	dir := newTestRepo(ctx, t)
	g := New(config.New(nil), dir)

	before, err := g.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}

	err = g.AmendTimestamps(ctx, vcs.AmendOpts{
		AuthorDate:    "1524680609 -0500",
		CommitterDate: "1524680612 -0500",
	})
	if err != nil {
		t.Fatal(err)
	}

	after, err := g.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after == before {
		t.Error("expected the amend to change the commit hash")
	}

	raw, err := g.ReadCommitObject(ctx, "HEAD")
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if !strings.Contains(text, "author forceprefix-test <forceprefix-test@example.com> 1524680609 -0500\n") {
		t.Errorf("expected the new author date, got:\n%s", text)
	}
	if !strings.Contains(text, "committer forceprefix-test <forceprefix-test@example.com> 1524680612 -0500\n") {
		t.Errorf("expected the new committer date, got:\n%s", text)
	}
	if !strings.Contains(text, "initial commit") {
		t.Errorf("expected the message to survive the amend, got:\n%s", text)
	}
}

func TestAmendTimestampsDryrun(t *testing.T) {
	ctx := context.Background()
	dir := newTestRepo(ctx, t)

	out := &bytes.Buffer{}
	cfg := config.NewWithTerminalIO(&config.Config{Dryrun: true}, &config.TerminalIO{Stdout: out, Stderr: os.Stderr})
	g := New(cfg, dir)

	before, err := g.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}

	err = g.AmendTimestamps(ctx, vcs.AmendOpts{
		AuthorDate:    "1524680609 -0500",
		CommitterDate: "1524680612 -0500",
	})
	if err != nil {
		t.Fatal(err)
	}

	after, err := g.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Error("expected dryrun to leave the commit alone")
	}
	if got := out.String(); !strings.Contains(got, "(dryrun)") || !strings.Contains(got, "--amend") {
		t.Errorf("expected the dryrun invocation to be printed, got %q", got)
	}
}

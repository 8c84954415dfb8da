// git-force-prefix is a trimmed alias for forceprefix, installed so it can
// run as `git force-prefix`. It skips config file discovery: flags only.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	forceprefix "github.com/jeffrom/forceprefix"
	"github.com/jeffrom/forceprefix/config"
	"github.com/jeffrom/forceprefix/runner"
	"github.com/jeffrom/forceprefix/vcs/gitcli"
)

func main() {
	cfg := config.New(nil)

	var help bool
	var version bool
	flags := pflag.NewFlagSet("git-force-prefix", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&cfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVar(&cfg.Amend, "amend", false, "amend HEAD in place instead of printing the command")
	flags.IntVarP(&cfg.Workers, "workers", "w", 0, "search with `n` goroutines (0 means one per cpu)")
	flags.Int64Var(&cfg.MaxDiagonals, "max-diagonals", 0, "give up after `n` diagonals (0 means never)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print as little as necessary")

	if err := flags.Parse(os.Args); err != nil {
		fatal(err)
	}
	args := flags.Args()[1:]

	if help {
		cfg.Printf("%s <hex-prefix>\n\nFLAGS\n%s", os.Args[0], flags.FlagUsages())
		return
	}
	if version {
		cfg.Printf("%s", forceprefix.Version)
		return
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if len(args) != 1 {
		fatal(fmt.Errorf("expected exactly one prefix argument"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rnr := runner.New(cfg, gitcli.New(cfg, ""))
	if err := rnr.Run(ctx, args[0]); err != nil {
		stop()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/spf13/pflag"

	forceprefix "github.com/jeffrom/forceprefix"
	"github.com/jeffrom/forceprefix/config"
	"github.com/jeffrom/forceprefix/runner"
	"github.com/jeffrom/forceprefix/search"
	"github.com/jeffrom/forceprefix/vcs/gitcli"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	cfg := config.New(nil)

	var help bool
	var version bool
	var cfgFile string
	var printConfig bool
	flags := pflag.NewFlagSet("forceprefix", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&cfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVar(&cfg.Amend, "amend", false, "amend HEAD in place instead of printing the command")
	flags.IntVarP(&cfg.Workers, "workers", "w", 0, "search with `n` goroutines (0 means one per cpu)")
	flags.Int64Var(&cfg.MaxDiagonals, "max-diagonals", 0, "give up after `n` diagonals (0 means never)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file`")
	flags.BoolVar(&printConfig, "print-config", false, "Print effective configuration and exit")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}
	args := flags.Args()[1:]

	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", forceprefix.Version)
		return nil
	}

	fileCfg, err := readConfigFile(cfgFile)
	if err != nil {
		return err
	}
	if fileCfg != nil {
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return err
		}

		// explicit flags win over forceprefix.yaml
		if flags.Changed("workers") {
			if v, err := flags.GetInt("workers"); err == nil {
				cfg.Workers = v
			}
		}
		if flags.Changed("max-diagonals") {
			if v, err := flags.GetInt64("max-diagonals"); err == nil {
				cfg.MaxDiagonals = v
			}
		}
	}
	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// done setting up config

	if len(args) != 1 {
		usage(cfg, flags)
		return errors.New("expected exactly one prefix argument")
	}
	prefix := args[0]
	if _, err := search.ParsePattern(prefix); err != nil {
		var ierr search.InvalidCharError
		if errors.As(err, &ierr) {
			return fmt.Errorf("in %q, the character %q at position %d is not a hexadecimal digit",
				prefix, ierr.Char, ierr.Pos+1)
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	git := gitcli.New(cfg, "")
	rnr := runner.New(cfg, git)
	return rnr.Run(ctx, prefix)
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s [flags] <hex-prefix>

Searches for nearby author/committer timestamps that give the commit at HEAD
a hash starting with <hex-prefix>, leaving the tree, parents, and message
untouched.

By default the matching git invocation is printed to stdout so it can be
reviewed or eval'd; nothing is rewritten until you run it. With --amend, HEAD
is rewritten directly.

FLAGS
%s
EXAMPLES

# print the command that gives HEAD a hash starting with c0ffee
$ forceprefix c0ffee

# rewrite HEAD in place, searching with 4 goroutines
$ forceprefix --amend -w 4 c0ffee

# give up if no match turns up in the first million diagonals
$ forceprefix --max-diagonals 1000000 c0ffee
`, os.Args[0], flags.FlagUsages())
}

func readConfigFile(p string) (*config.Config, error) {
	if p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	for {
		candPath := filepath.Join(wd, "forceprefix.yaml")
		b, err := os.ReadFile(candPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				parent := filepath.Dir(wd)
				if parent == wd {
					break
				}
				wd = parent
				continue
			}
			return nil, err
		}

		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, nil
}

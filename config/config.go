package config

import (
	"fmt"

	"github.com/imdario/mergo"
)

// Config holds most of the configuration variables for forceprefix. This
// struct is intended for command-line use: it can be populated from flags, a
// forceprefix.yaml file, or both.
type Config struct {
	Verbose      bool       `json:"verbose,omitempty"`
	Dryrun       bool       `json:"dryrun,omitempty"`
	Quiet        bool       `json:"quiet,omitempty"`
	Amend        bool       `json:"amend,omitempty"`
	Workers      int        `json:"workers,omitempty"`
	MaxDiagonals int64      `json:"max_diagonals,omitempty"`
	Term         TerminalIO `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

// GetDefault returns the default configuration: not quiet, not verbose, one
// worker per CPU (Workers 0), and no diagonal cap (MaxDiagonals 0).
func GetDefault() Config {
	return Config{}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers can't be negative (got %d)", c.Workers)
	}
	if c.MaxDiagonals < 0 {
		return fmt.Errorf("config: max-diagonals can't be negative (got %d)", c.MaxDiagonals)
	}
	return nil
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Term.Stdout, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

// Debugf writes to stderr, unlike Printf, so diagnostics never mix into
// stdout, which is reserved for output a shell can substitute.
func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	c.Errorf(msg, args...)
}

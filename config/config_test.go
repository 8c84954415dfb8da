package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	cfg := New(nil)
	if cfg.Quiet || cfg.Verbose || cfg.Dryrun || cfg.Amend {
		t.Error("expected all modes off by default")
	}
	if cfg.Workers != 0 || cfg.MaxDiagonals != 0 {
		t.Errorf("expected auto workers and no diagonal cap, got %d and %d",
			cfg.Workers, cfg.MaxDiagonals)
	}
	if cfg.Term.Stdout == nil || cfg.Term.Stderr == nil {
		t.Error("expected default terminal io")
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg := New(&Config{Quiet: true, Workers: 2, MaxDiagonals: 100})
	if !cfg.Quiet {
		t.Error("expected quiet override to apply")
	}
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
	if cfg.MaxDiagonals != 100 {
		t.Errorf("expected max diagonals 100, got %d", cfg.MaxDiagonals)
	}
}

func TestConfigValidate(t *testing.T) {
	tcs := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", Config{}, true},
		{"workers", Config{Workers: 8}, true},
		{"negative workers", Config{Workers: -1}, false},
		{"negative cap", Config{MaxDiagonals: -1}, false},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected config to validate: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected config to fail validation")
			}
		})
	}
}

func TestConfigOutput(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	termio := &TerminalIO{Stdout: out, Stderr: errOut}

	cfg := NewWithTerminalIO(nil, termio)
	cfg.Printf("to stdout")
	cfg.Errorf("to stderr")
	cfg.Debugf("quiet debug")

	if got := out.String(); got != "to stdout\n" {
		t.Errorf("expected stdout %q, got %q", "to stdout\n", got)
	}
	if got := errOut.String(); got != "to stderr\n" {
		t.Errorf("expected stderr %q, got %q", "to stderr\n", got)
	}

	out.Reset()
	errOut.Reset()
	cfg = NewWithTerminalIO(&Config{Quiet: true, Verbose: true}, termio)
	cfg.Printf("suppressed")
	cfg.Debugf("debug line")
	if out.Len() != 0 {
		t.Errorf("expected quiet to suppress stdout, got %q", out.String())
	}
	if got := errOut.String(); got != "debug line\n" {
		t.Errorf("expected verbose debug on stderr, got %q", got)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("expected a buffer not to be a terminal")
	}
	if IsTerminal(&strings.Builder{}) {
		t.Error("expected a builder not to be a terminal")
	}
}

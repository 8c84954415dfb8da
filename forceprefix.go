// Package forceprefix rewrites the two timestamps of a git commit so its
// hash starts with a chosen hex prefix.
//
// Related packages: config, model, search, runner, vcs, vcs/gitcli
package forceprefix

import "github.com/jeffrom/forceprefix/config"

// Config holds most of the configuration variables for forceprefix. This
// struct is intended for command-line use, so not all of its attributes are
// applicable to every operation.
//
// See "go doc github.com/jeffrom/forceprefix/config Config" for more
// information.
type Config = config.Config

// Version is overridden by go build -X.
var Version = "dev"

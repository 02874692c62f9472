// Package dispatch implements the test-run pipeline: parse --name=value
// arguments, fold them into the harness argument list, validate the flag
// combination and invoke the harness exactly once.
package dispatch

import (
	"strings"

	"vpptest/pkg/config"
	"vpptest/pkg/log"
)

// Flag names recognized by ParseArguments. Everything else is ignored.
const (
	FlagPersist     = "persist"
	FlagDebug       = "debug"
	FlagVerbose     = "verbose"
	FlagUnconfigure = "unconfigure"
	FlagCpus        = "cpus"
	FlagTest        = "test"
)

// BoolValue is the tri-state reading of a boolean flag literal. Anything
// that is not exactly "true" or "false" counts as unset, it never silently
// becomes false.
type BoolValue int

const (
	BoolUnset BoolValue = iota
	BoolFalse
	BoolTrue
)

func ParseBoolValue(s string) BoolValue {
	switch s {
	case "true":
		return BoolTrue
	case "false":
		return BoolFalse
	default:
		return BoolUnset
	}
}

// Assignment is one flag=value pair, in application order.
type Assignment struct {
	Name  string
	Value string
}

// FlagSet is the ordered set of flag assignments for a single invocation.
// Configuration defaults seed it first; command-line arguments then override
// in the order they appear.
type FlagSet struct {
	assignments []Assignment
	logger      log.Logger
}

// NewFlagSet seeds a flag set from configuration defaults. Only values that
// deviate from the inactive defaults produce assignments, so a stock config
// yields an empty set.
func NewFlagSet(cfg config.Config, logger log.Logger) *FlagSet {
	if logger == nil {
		logger = log.NewNop()
	}
	fs := &FlagSet{logger: logger}
	if cfg.Persist {
		fs.set(FlagPersist, "true")
	}
	if cfg.Debug {
		fs.set(FlagDebug, "true")
	}
	if cfg.Verbose {
		fs.set(FlagVerbose, "true")
	}
	if cfg.Unconfigure {
		fs.set(FlagUnconfigure, "true")
	}
	if cfg.Cpus != "" {
		fs.set(FlagCpus, cfg.Cpus)
	}
	if cfg.Test != "" && cfg.Test != "all" {
		fs.set(FlagTest, cfg.Test)
	}
	return fs
}

// ParseArguments applies --name=value tokens from argv in order.
// Unrecognized arguments are ignored, matching the wrapper this replaces;
// the debug line makes typos discoverable without changing behavior.
func (fs *FlagSet) ParseArguments(argv []string) {
	for _, arg := range argv {
		name, value, ok := splitFlag(arg)
		if !ok {
			fs.logger.Debug("ignoring unrecognized argument", "arg", arg)
			continue
		}
		fs.set(name, value)
	}
}

// Assignments returns the assignments in application order.
func (fs *FlagSet) Assignments() []Assignment {
	return fs.assignments
}

// set records an assignment. A repeated flag keeps only the last value, at
// the position it was last given.
func (fs *FlagSet) set(name, value string) {
	for i, a := range fs.assignments {
		if a.Name == name {
			fs.assignments = append(fs.assignments[:i], fs.assignments[i+1:]...)
			break
		}
	}
	fs.assignments = append(fs.assignments, Assignment{Name: name, Value: value})
}

func splitFlag(arg string) (name, value string, ok bool) {
	rest, found := strings.CutPrefix(arg, "--")
	if !found {
		return "", "", false
	}
	name, value, found = strings.Cut(rest, "=")
	if !found {
		return "", "", false
	}
	switch name {
	case FlagPersist, FlagDebug, FlagVerbose, FlagUnconfigure, FlagCpus, FlagTest:
		return name, value, true
	}
	return "", "", false
}

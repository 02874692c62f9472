package dispatch

import "vpptest/pkg/log"

// Plan is the argument accumulator plus the state derived while building it.
// It is not mutated after BuildPlan returns.
type Plan struct {
	// Args are the harness flags in application order.
	Args []string
	// TestFilter is the requested test name in single-test mode, "" otherwise.
	TestFilter string
	// Cpus is the raw -cpus value when one was requested.
	Cpus    string
	CpusSet bool

	PersistSet     bool
	DebugSet       bool
	UnconfigureSet bool
	SingleTest     bool
}

// BuildPlan folds the flag assignments into the harness argument list.
// Boolean flags only act on the literal "true"; "all" as the test name means
// the full suite and contributes no arguments.
func BuildPlan(fs *FlagSet, logger log.Logger) *Plan {
	if logger == nil {
		logger = log.NewNop()
	}
	p := &Plan{}
	for _, a := range fs.Assignments() {
		switch a.Name {
		case FlagPersist:
			if boolTrue(a, logger) {
				p.Args = append(p.Args, "-persist")
				p.PersistSet = true
			}
		case FlagDebug:
			if boolTrue(a, logger) {
				p.Args = append(p.Args, "-debug")
				p.DebugSet = true
			}
		case FlagVerbose:
			if boolTrue(a, logger) {
				p.Args = append(p.Args, "-verbose")
			}
		case FlagUnconfigure:
			if boolTrue(a, logger) {
				p.Args = append(p.Args, "-unconfigure")
				p.UnconfigureSet = true
			}
		case FlagCpus:
			// Forwarded verbatim, whatever the value.
			p.Args = append(p.Args, "-cpus", a.Value)
			p.Cpus = a.Value
			p.CpusSet = true
		case FlagTest:
			if a.Value != "all" {
				p.SingleTest = true
				p.TestFilter = a.Value
				p.Args = append(p.Args, "-run", a.Value)
			}
		}
	}
	return p
}

func boolTrue(a Assignment, logger log.Logger) bool {
	v := ParseBoolValue(a.Value)
	if v == BoolUnset {
		logger.Warn("flag value is neither true nor false, treating as unset",
			"flag", a.Name, "value", a.Value)
	}
	return v == BoolTrue
}

package dispatch

// ValidationError is a rejected flag combination. The message text is part
// of the tool's contract, wrapper scripts grep for it.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

var (
	errPersistAllTests        = &ValidationError{msg: "persist flag is not supported while running all tests!"}
	errUnconfigureNeedsSingle = &ValidationError{msg: "a single test has to be specified when unconfigure is set"}
	errPersistAndUnconfigure  = &ValidationError{msg: "setting persist flag and unconfigure flag is not allowed"}
	// "supperted" is spelled the way the original wrapper spells it.
	errDebugAllTests = &ValidationError{msg: "VPP debug flag is not supperted while running all tests!"}
)

// Validate applies the combination rules in fixed order; the first failure
// wins. persist, unconfigure and debug all require single-test mode, and
// persist excludes unconfigure.
func (p *Plan) Validate() error {
	if !p.SingleTest && p.PersistSet {
		return errPersistAllTests
	}
	if p.UnconfigureSet && !p.SingleTest {
		return errUnconfigureNeedsSingle
	}
	if p.PersistSet && p.UnconfigureSet {
		return errPersistAndUnconfigure
	}
	if !p.SingleTest && p.DebugSet {
		return errDebugAllTests
	}
	return nil
}

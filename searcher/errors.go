package searcher

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports engine parameters a Search cannot run with.
	ErrConfiguration = errors.New("invalid search configuration")
	// ErrTerminalRoot reports a root state with nothing left to decide.
	ErrTerminalRoot = errors.New("root state is terminal")
	// ErrNoLegalActions reports a non-terminal root with an empty action
	// set, which is a modeling inconsistency in the domain.
	ErrNoLegalActions = errors.New("root state has no legal actions")
	// ErrPolicyViolation is the target for errors.Is on ViolationError.
	ErrPolicyViolation = errors.New("decision policy violation")
)

// ViolationError reports a State implementation that broke the policy
// contract during a search, e.g. Apply returning its own receiver.
type ViolationError struct {
	Action string
	Detail string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("decision policy violation applying %q: %s", e.Action, e.Detail)
}

func (e *ViolationError) Unwrap() error {
	return ErrPolicyViolation
}

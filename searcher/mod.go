// Package searcher implements Monte Carlo Tree Search over a generic
// decision policy. Domains plug in by implementing State; the engine
// owns the statistics tree and returns the most robust action.
package searcher

import "math"

// Action is one choice an agent can make from a state. String must be
// stable and distinct within a state's legal-action set; it doubles as
// the action's identity when merging root-parallel trees.
type Action interface {
	String() string
}

// State is an immutable snapshot of the world as one agent sees it,
// carrying the four decision-policy operations.
//
// LegalActions must be deterministic for a fixed state and may return
// an empty slice only for terminal states. The returned slice is owned
// by the caller. Apply must return an independent state and leave the
// receiver untouched; returning the receiver itself is a contract
// violation the engine detects and fails on. Reward must be finite,
// higher is better.
type State interface {
	LegalActions() []Action
	Apply(action Action) State
	Terminal() bool
	Reward() float64
}

func ucb1(value float64, visits int, c, lnParent float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return value/float64(visits) + c*math.Sqrt(lnParent/float64(visits))
}

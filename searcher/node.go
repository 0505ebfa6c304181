package searcher

import (
	"math"
	"reflect"

	"golang.org/x/exp/rand"
)

// node is one entry of the statistics tree. A tree is only ever touched
// by a single goroutine, so nodes carry no locks.
type node struct {
	state    State
	parent   *node // nil at the root, backpropagation only
	action   Action // action applied to parent.state, nil at the root
	children []*node // expansion order
	untried  []Action
	visits   int
	value    float64
}

// newNode captures the node's legal-action set exactly once; expansion
// consumes it and never re-enumerates.
func newNode(state State, parent *node, action Action) *node {
	return &node{
		state:   state,
		parent:  parent,
		action:  action,
		untried: state.LegalActions(),
	}
}

func (n *node) fullyExpanded() bool {
	return len(n.untried) == 0
}

// selectChild returns the child with the highest UCB1 score. Unvisited
// children score +Inf so every child is tried once before any revisit.
// Ties break by a uniform random pick among the maximal candidates.
func (n *node) selectChild(c float64, rng *rand.Rand) *node {
	lnParent := math.Log(float64(n.visits))

	var best *node
	bestScore := math.Inf(-1)
	ties := 0
	for _, child := range n.children {
		score := ucb1(child.value, child.visits, c, lnParent)
		switch {
		case score > bestScore:
			bestScore = score
			best = child
			ties = 1
		case score == bestScore:
			ties++
			if rng.Intn(ties) == 0 {
				best = child
			}
		}
	}
	return best
}

// expand removes one untried action uniformly at random, applies it and
// appends the resulting child.
func (n *node) expand(rng *rand.Rand) (*node, error) {
	i := rng.Intn(len(n.untried))
	action := n.untried[i]
	last := len(n.untried) - 1
	n.untried[i] = n.untried[last]
	n.untried = n.untried[:last]

	childState := n.state.Apply(action)
	if aliases(n.state, childState) {
		return nil, &ViolationError{Action: action.String(), Detail: "Apply returned its receiver"}
	}

	child := newNode(childState, n, action)
	n.children = append(n.children, child)
	return child, nil
}

func (n *node) update(reward float64) {
	n.visits++
	n.value += reward
}

// bestChild picks the most visited child (robust child), not the one
// with the highest average value. Ties keep the earliest expansion.
func (n *node) bestChild() *node {
	var best *node
	maxVisits := -1
	for _, child := range n.children {
		if child.visits > maxVisits {
			maxVisits = child.visits
			best = child
		}
	}
	return best
}

// aliases reports whether two states are the same pointer. Value-typed
// states cannot alias and are exempt by construction.
func aliases(a, b State) bool {
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Pointer() == vb.Pointer()
}

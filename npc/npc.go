// Package npc implements the decision policies the search engine runs
// against: nine agent kinds, each modelling one entity family as a
// searcher.State over an immutable world snapshot plus the agent's own
// fields. Apply never mutates the receiver; it returns a reworked copy so
// simulations can branch freely. Where the live simulation would roll dice
// for an outcome, these policies apply the expected value instead, keeping
// every search reproducible for a fixed seed.
package npc

import "sort"

// clamp bounds v to the [lo, hi] interval.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sortedKeys returns map keys in ascending order so action generation
// stays deterministic for a fixed state.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

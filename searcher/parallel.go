package searcher

import (
	"context"
	"sync"
)

// searchTrees fans out one goroutine per configured tree, seeded seed,
// seed+1, and so on. Trees never share nodes, so the only
// synchronization is the final join.
func (e *Engine) searchTrees(ctx context.Context, root State, seed uint64) ([]*node, int, error) {
	roots := make([]*node, e.trees)
	truncations := make([]int, e.trees)
	errs := make([]error, e.trees)

	var wg sync.WaitGroup
	for i := 0; i < e.trees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roots[i], truncations[i], errs[i] = e.runTree(ctx, root, seed+uint64(i))
		}(i)
	}
	wg.Wait()

	truncated := 0
	for i := range roots {
		if errs[i] != nil {
			return nil, 0, errs[i]
		}
		truncated += truncations[i]
	}
	return roots, truncated, nil
}

type tally struct {
	action Action
	visits int
	value  float64
}

// mergeRoots sums per-action visit counts and values across trees in
// tree-index order, keyed by Action.String(). The outcome is identical
// for a fixed seed regardless of goroutine scheduling; ties keep the
// earliest action in merge order.
func mergeRoots(roots []*node) (best Action, children, visits int, value float64) {
	order := make([]string, 0)
	tallies := make(map[string]*tally)

	for _, root := range roots {
		visits += root.visits
		value += root.value
		for _, child := range root.children {
			key := child.action.String()
			t, ok := tallies[key]
			if !ok {
				t = &tally{action: child.action}
				tallies[key] = t
				order = append(order, key)
			}
			t.visits += child.visits
			t.value += child.value
		}
	}

	maxVisits := -1
	for _, key := range order {
		if t := tallies[key]; t.visits > maxVisits {
			maxVisits = t.visits
			best = t.action
		}
	}
	return best, len(order), visits, value
}

package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchRootVisits(t *testing.T) {
	e := New(WithSimulations(25), WithSeed(11))

	result, err := e.Search(context.Background(), rewardGraph())

	require.NoError(t, err)
	require.Equal(t, 25, result.Visits, "Every simulation should pass through the root")
}

func TestSearchTerminalRoot(t *testing.T) {
	col := NewCollector()
	e := New(WithSimulations(10), WithSeed(1), WithCollector(col))

	_, err := e.Search(context.Background(), &mockState{id: "end", terminal: true, reward: 1})

	require.ErrorIs(t, err, ErrTerminalRoot)
	require.Zero(t, col.Complete().Simulations, "No simulation should run against a terminal root")
}

func TestSearchNoLegalActions(t *testing.T) {
	e := New(WithSimulations(10), WithSeed(1))

	_, err := e.Search(context.Background(), &mockState{id: "stuck"})

	require.ErrorIs(t, err, ErrNoLegalActions)
}

func TestSearchConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		engine *Engine
	}{
		{"zero simulations", New(WithSimulations(0))},
		{"negative exploration", New(WithExploration(-0.5))},
		{"zero max depth", New(WithMaxDepth(0))},
		{"zero trees", New(WithTrees(0))},
		{"nil collector", New(WithCollector(nil))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.engine.Search(context.Background(), rewardGraph())
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}

	t.Run("nil root", func(t *testing.T) {
		_, err := New(WithSeed(1)).Search(context.Background(), nil)
		require.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestSearchSingleAction(t *testing.T) {
	graph := func() *mockState {
		return &mockState{
			id:    "root",
			order: []string{"only"},
			next:  map[string]*mockState{"only": {id: "end", terminal: true, reward: 1}},
		}
	}

	for _, simulations := range []int{1, 17} {
		e := New(WithSimulations(simulations), WithSeed(4))

		result, err := e.Search(context.Background(), graph())

		require.NoError(t, err)
		require.Equal(t, "only", result.Action.String(), "The sole legal action must win")
		require.Equal(t, 1, result.Children)
		require.Equal(t, simulations, result.Visits)
	}
}

func TestSearchExpansionBeforeRevisit(t *testing.T) {
	e := New(WithSimulations(3), WithSeed(11))

	root, truncated, err := e.runTree(context.Background(), rewardGraph(), 11)

	require.NoError(t, err)
	require.Zero(t, truncated)
	require.Equal(t, 3, root.visits)
	require.Len(t, root.children, 3, "Three simulations should expand all three actions")
	for _, child := range root.children {
		require.Equal(t, 1, child.visits, "Every action gets tried once before any revisit")
	}
	require.True(t, root.fullyExpanded())
}

func TestSearchDominantReward(t *testing.T) {
	e := New(WithSimulations(30), WithExploration(1.0), WithSeed(5))

	result, err := e.Search(context.Background(), rewardGraph())

	require.NoError(t, err)
	require.Equal(t, "alpha", result.Action.String(), "The dominant reward should win the search")

	root, _, err := e.runTree(context.Background(), rewardGraph(), 5)
	require.NoError(t, err)
	var alphaVisits, others int
	for _, child := range root.children {
		if child.action.String() == "alpha" {
			alphaVisits = child.visits
		} else if child.visits > others {
			others = child.visits
		}
	}
	require.Greater(t, alphaVisits, others, "The dominant action should collect the most visits")
}

func TestSearchDeterminism(t *testing.T) {
	e := New(WithSimulations(40), WithSeed(99))

	first, err := e.Search(context.Background(), rewardGraph())
	require.NoError(t, err)
	second, err := e.Search(context.Background(), rewardGraph())
	require.NoError(t, err)

	require.Equal(t, first.Action.String(), second.Action.String(), "Fixed seed searches should agree on the action")
	require.Equal(t, first.Visits, second.Visits)
	require.Equal(t, first.Value, second.Value)
	require.Equal(t, first.Children, second.Children)
	require.Equal(t, first.Truncated, second.Truncated)
}

func TestSearchDiagnostics(t *testing.T) {
	col := NewCollector()
	e := New(WithSimulations(30), WithSeed(8), WithCollector(col))

	result, err := e.Search(context.Background(), rewardGraph())

	require.NoError(t, err)
	require.Equal(t, 30, result.Visits)
	require.Equal(t, 3, result.Children, "Diagnostics should count the root children actually built")
	require.Greater(t, result.Value, 0.0)
	require.Greater(t, result.Elapsed.Nanoseconds(), int64(0))

	metric := col.Complete()
	require.Equal(t, 30, metric.Simulations)
	require.Equal(t, 30, metric.FullRollouts, "Terminal rollouts should count as full")
	require.Zero(t, metric.Truncations)
}

func TestSearchTruncation(t *testing.T) {
	col := NewCollector()
	e := New(WithSimulations(10), WithMaxDepth(5), WithSeed(2), WithCollector(col))

	result, err := e.Search(context.Background(), endlessState{})

	require.NoError(t, err)
	require.Equal(t, 10, result.Visits)
	require.Equal(t, 10, result.Truncated, "Every rollout should report hitting the depth cap")

	metric := col.Complete()
	require.Equal(t, 10, metric.Truncations)
	require.Zero(t, metric.FullRollouts)
}

func TestSearchViolation(t *testing.T) {
	e := New(WithSimulations(5), WithSeed(1))

	_, err := e.Search(context.Background(), &violatingState{})

	require.ErrorIs(t, err, ErrPolicyViolation)
	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "noop", verr.Action)
}

func TestSearchCancellation(t *testing.T) {
	t.Run("cancelled before any simulation returns the context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := New(WithSimulations(20), WithSeed(3))

		_, err := e.Search(ctx, rewardGraph())

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled midway returns the best action so far", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		calls := 0
		root := cancellingState{inner: rewardGraph(), calls: &calls, after: 5, cancel: cancel}
		e := New(WithSimulations(50), WithSeed(3))

		result, err := e.Search(ctx, root)

		require.NoError(t, err)
		require.Equal(t, 5, result.Visits, "Completed simulations up to the cancel should be kept")
		require.NotNil(t, result.Action)
	})
}

func TestSearchLeavesRootUntouched(t *testing.T) {
	graph := rewardGraph()
	e := New(WithSimulations(30), WithSeed(21))

	_, err := e.Search(context.Background(), graph)

	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, graph.order, "The engine must not mutate the root state")
	require.False(t, graph.terminal)
}

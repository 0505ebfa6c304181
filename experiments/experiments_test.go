package experiments

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planeflake/sworn/experiments/metrics"
	"github.com/planeflake/sworn/npc"
	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSummarize(t *testing.T) {
	configs := []metrics.Config{{ID: 1}, {ID: 2}, {ID: 3}}
	records := []metrics.DecisionRecord{
		{Config: 1, Value: 10, Visits: 50, Truncated: 5, Elapsed: 2 * time.Millisecond},
		{Config: 1, Value: 20, Visits: 50, Elapsed: 4 * time.Millisecond},
		{Config: 2, Value: 7, Visits: 100, Elapsed: 3 * time.Millisecond},
	}

	summaries := Summarize(configs, records)
	require.Len(t, summaries, 2, "config 3 produced nothing and is skipped")

	first := summaries[0]
	require.Equal(t, 1, first.Config)
	require.Equal(t, 2, first.Decisions)
	require.InDelta(t, 15.0, first.MeanValue, 1e-9)
	require.InDelta(t, math.Sqrt(50), first.StdDevValue, 1e-9)
	require.InDelta(t, 3.0, first.MeanElapsedMs, 1e-9)
	require.InDelta(t, 0.05, first.TruncationRate, 1e-9)

	second := summaries[1]
	require.Equal(t, 2, second.Config)
	require.Equal(t, 1, second.Decisions)
	require.InDelta(t, 7.0, second.MeanValue, 1e-9)
	require.Zero(t, second.StdDevValue, "a single sample has no spread")
}

func TestWalkStopsAtTerminalRoot(t *testing.T) {
	engine := searcher.New(searcher.WithSimulations(10), searcher.WithSeed(1))
	agent := Agent{Name: "retired", Fresh: func(snap *world.Snapshot) searcher.State {
		trader := npc.NewTrader(snap, "millbrook", 0)
		trader.Retired = true
		return trader
	}}

	records, err := walk(context.Background(), engine, metrics.Config{ID: 1}, agent, world.Fixture())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRunWritesRunDirectory(t *testing.T) {
	root := t.TempDir()
	configs := []metrics.Config{{ID: 1, Simulations: 20, Trees: 1, Seed: 1}}
	agents := []Agent{{Name: "trader", Fresh: func(snap *world.Snapshot) searcher.State {
		return npc.NewTrader(snap, "saltmere", 120)
	}}}

	dir, records, err := Run(context.Background(), root, configs, agents)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dir, filepath.Join(root, "engine_grid")))
	require.NotEmpty(t, records)

	decisions := readCSV(t, filepath.Join(dir, "decision_records.csv"))
	require.Len(t, decisions, len(records)+1)
	require.Equal(t,
		[]string{"config", "agent", "step", "action", "value", "visits", "children", "truncated", "duration"},
		decisions[0])
	require.GreaterOrEqual(t, len(decisions), 2)
	require.LessOrEqual(t, len(decisions), DecisionsPerAgent+1)
	require.Equal(t, "1", decisions[1][0])
	require.Equal(t, "trader", decisions[1][1])
	require.Equal(t, "20", decisions[1][5], "visits column carries the simulation budget")

	summaries := readCSV(t, filepath.Join(dir, "summaries.csv"))
	require.Len(t, summaries, 2)

	configsCSV := readCSV(t, filepath.Join(dir, "configs.csv"))
	require.Len(t, configsCSV, 2)
	require.Equal(t, []string{"1", "20", "0", "0", "1", "1"}, configsCSV[1])
}

func TestRunThroughputScalesVisitsWithTrees(t *testing.T) {
	dir, err := RunThroughput(context.Background(), t.TempDir())
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "throughput_records.csv"))
	require.Len(t, rows, 5)
	require.Equal(t, []string{"trees", "simulations", "duration", "per_second"}, rows[0])

	// Every tree runs the full budget, so merged visits scale linearly.
	require.Equal(t, "200", rows[1][1])
	require.Equal(t, "400", rows[2][1])
	require.Equal(t, "800", rows[3][1])
	require.Equal(t, "1600", rows[4][1])
}

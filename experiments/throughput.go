package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/planeflake/sworn/experiments/metrics"
	"github.com/planeflake/sworn/npc"
	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// RunThroughput measures simulations per second as the tree count
// scales, searching the same trader root at every count. It returns
// the run directory.
func RunThroughput(ctx context.Context, root string) (string, error) {
	const simulations = 200
	treeCounts := []int{1, 2, 4, 8}

	snap := world.Fixture()
	configs := make([]metrics.Config, 0, len(treeCounts))
	records := make([]metrics.ThroughputRecord, 0, len(treeCounts))

	log.Info().Msg("starting throughput experiment")

	for i, trees := range treeCounts {
		configs = append(configs, metrics.Config{
			ID:          i + 1,
			Simulations: simulations,
			Trees:       trees,
			Seed:        1,
		})

		engine := searcher.New(
			searcher.WithSimulations(simulations),
			searcher.WithTrees(trees),
			searcher.WithSeed(1),
		)

		result, err := engine.Search(ctx, npc.NewTrader(snap, "saltmere", 120))
		if err != nil {
			return "", fmt.Errorf("trees %d: %w", trees, err)
		}

		perSecond := 0.0
		if seconds := result.Elapsed.Seconds(); seconds > 0 {
			perSecond = float64(result.Visits) / seconds
		}
		records = append(records, metrics.ThroughputRecord{
			Trees:       trees,
			Simulations: result.Visits,
			Elapsed:     result.Elapsed,
			PerSecond:   perSecond,
		})

		log.Info().
			Int("trees", trees).
			Int("simulations", result.Visits).
			Dur("elapsed", result.Elapsed).
			Float64("per_second", perSecond).
			Msg("measured tree count")
	}

	log.Info().Msg("completed throughput experiment")

	writer, err := metrics.NewWriter(root, "throughput")
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteConfigs(configs); err != nil {
		return "", err
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		return "", err
	}

	return writer.BaseDir(), nil
}

// Package experiments walks scripted agents through the fixture world
// under different engine configurations and stores the resulting
// decision quality and cost numbers as CSV.
package experiments

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/planeflake/sworn/experiments/metrics"
	"github.com/planeflake/sworn/npc"
	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// DecisionsPerAgent bounds how far each agent is walked per config.
const DecisionsPerAgent = 25

// Agent builds a fresh root state for each measured walk.
type Agent struct {
	Name  string
	Fresh func(snap *world.Snapshot) searcher.State
}

// DefaultAgents covers a trading walk, a lone hunter and a grazing
// herd, which between them exercise moves, trades and survival trade
// offs.
func DefaultAgents() []Agent {
	return []Agent{
		{Name: "trader", Fresh: func(snap *world.Snapshot) searcher.State {
			return npc.NewTrader(snap, "saltmere", 120)
		}},
		{Name: "animal", Fresh: func(snap *world.Snapshot) searcher.State {
			animal := npc.NewAnimal(snap, "wolfpine")
			animal.Carnivore = true
			animal.Energy = 60
			return animal
		}},
		{Name: "herd", Fresh: func(snap *world.Snapshot) searcher.State {
			herd := npc.NewHerd(snap, "ambervale", 20)
			herd.Herbivore = true
			return herd
		}},
	}
}

// DefaultConfigs sweeps the simulation budget at one tree, then holds
// the budget and sweeps trees.
func DefaultConfigs() []metrics.Config {
	return []metrics.Config{
		{ID: 1, Simulations: 50, Trees: 1, Seed: 1},
		{ID: 2, Simulations: 100, Trees: 1, Seed: 1},
		{ID: 3, Simulations: 200, Trees: 1, Seed: 1},
		{ID: 4, Simulations: 200, Trees: 2, Seed: 1},
		{ID: 5, Simulations: 200, Trees: 4, Seed: 1},
	}
}

// Run walks every agent forward under every config and stores configs,
// per-decision records and per-config summaries under root. It returns
// the run directory and the collected records.
func Run(ctx context.Context, root string, configs []metrics.Config, agents []Agent) (string, []metrics.DecisionRecord, error) {
	snap := world.Fixture()
	records := []metrics.DecisionRecord{}

	log.Info().Int("configs", len(configs)).Int("agents", len(agents)).Msg("starting engine grid experiment")

	for _, config := range configs {
		engine := newEngine(config)
		for _, agent := range agents {
			walked, err := walk(ctx, engine, config, agent, snap)
			if err != nil {
				return "", nil, fmt.Errorf("config %d agent %s: %w", config.ID, agent.Name, err)
			}
			records = append(records, walked...)
		}
		log.Info().Int("config", config.ID).Msg("completed config")
	}

	log.Info().Int("decisions", len(records)).Msg("completed engine grid experiment")

	writer, err := metrics.NewWriter(root, "engine_grid")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteConfigs(configs); err != nil {
		return "", nil, err
	}
	if err := writer.WriteDecisionRecords(records); err != nil {
		return "", nil, err
	}
	if err := writer.WriteSummaries(Summarize(configs, records)); err != nil {
		return "", nil, err
	}

	return writer.BaseDir(), records, nil
}

// walk plays one agent forward decision by decision until it reaches a
// terminal state or the step bound.
func walk(ctx context.Context, engine *searcher.Engine, config metrics.Config, agent Agent, snap *world.Snapshot) ([]metrics.DecisionRecord, error) {
	state := agent.Fresh(snap)
	records := make([]metrics.DecisionRecord, 0, DecisionsPerAgent)

	for step := 0; step < DecisionsPerAgent; step++ {
		result, err := engine.Search(ctx, state)
		if errors.Is(err, searcher.ErrTerminalRoot) || errors.Is(err, searcher.ErrNoLegalActions) {
			break
		}
		if err != nil {
			return nil, err
		}

		records = append(records, metrics.DecisionRecord{
			Config:    config.ID,
			Agent:     agent.Name,
			Step:      step,
			Action:    result.Action.String(),
			Value:     result.Value / float64(result.Visits),
			Visits:    result.Visits,
			Children:  result.Children,
			Truncated: result.Truncated,
			Elapsed:   result.Elapsed,
		})

		state = state.Apply(result.Action)
	}

	return records, nil
}

// newEngine maps a config onto engine options, leaving defaults in
// place for zero fields.
func newEngine(config metrics.Config) *searcher.Engine {
	options := []searcher.Option{}

	if config.Simulations > 0 {
		options = append(options, searcher.WithSimulations(config.Simulations))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if config.MaxDepth > 0 {
		options = append(options, searcher.WithMaxDepth(config.MaxDepth))
	}
	if config.Trees > 0 {
		options = append(options, searcher.WithTrees(config.Trees))
	}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}

	return searcher.New(options...)
}

// Summarize folds decision records into one row per config. Configs
// that produced no decisions are skipped.
func Summarize(configs []metrics.Config, records []metrics.DecisionRecord) []metrics.Summary {
	summaries := make([]metrics.Summary, 0, len(configs))

	for _, config := range configs {
		values := []float64{}
		elapsed := []float64{}
		truncated, visits := 0, 0
		for _, record := range records {
			if record.Config != config.ID {
				continue
			}
			values = append(values, record.Value)
			elapsed = append(elapsed, float64(record.Elapsed.Milliseconds()))
			truncated += record.Truncated
			visits += record.Visits
		}
		if len(values) == 0 {
			continue
		}

		summary := metrics.Summary{
			Config:        config.ID,
			Decisions:     len(values),
			MeanValue:     stat.Mean(values, nil),
			MeanElapsedMs: stat.Mean(elapsed, nil),
		}
		if len(values) > 1 {
			summary.StdDevValue = stat.StdDev(values, nil)
		}
		if visits > 0 {
			summary.TruncationRate = float64(truncated) / float64(visits)
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

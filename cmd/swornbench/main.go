// Command swornbench runs the engine experiments over the fixture
// world: the config grid and optionally the tree-count throughput
// sweep. Results land as CSVs plus a parquet archive of every
// decision, with a summary table on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/planeflake/sworn/archive"
	"github.com/planeflake/sworn/decide"
	"github.com/planeflake/sworn/experiments"
	"github.com/planeflake/sworn/experiments/metrics"
)

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// selectConfigs picks the config grid to sweep. "quick" keeps the two
// cheapest configs for a fast sanity run.
func selectConfigs(grid string) ([]metrics.Config, error) {
	configs := experiments.DefaultConfigs()
	switch grid {
	case "default":
		return configs, nil
	case "quick":
		return configs[:2], nil
	default:
		return nil, fmt.Errorf("unknown grid %q (want default or quick)", grid)
	}
}

// selectAgents filters the default agents by name. An empty filter
// keeps all of them.
func selectAgents(names string) ([]experiments.Agent, error) {
	agents := experiments.DefaultAgents()
	if strings.TrimSpace(names) == "" {
		return agents, nil
	}
	byName := make(map[string]experiments.Agent, len(agents))
	known := make([]string, 0, len(agents))
	for _, agent := range agents {
		byName[agent.Name] = agent
		known = append(known, agent.Name)
	}
	var picked []experiments.Agent
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		agent, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown agent %q (want one of %s)", name, strings.Join(known, ", "))
		}
		picked = append(picked, agent)
	}
	return picked, nil
}

func main() {
	outDir := flag.String("out-dir", getEnvOrDefault("SWORN_BENCH_DIR", "runs"), "Directory for experiment runs")
	grid := flag.String("grid", getEnvOrDefault("SWORN_BENCH_GRID", "default"), "Config grid to sweep: default or quick")
	agentNames := flag.String("agents", getEnvOrDefault("SWORN_BENCH_AGENTS", ""), "Comma-separated agent names to run (empty runs all)")
	throughput := flag.Bool("throughput", false, "Also run the tree-count throughput sweep")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := selectConfigs(*grid)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid grid")
	}
	agents, err := selectAgents(*agentNames)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid agent filter")
	}

	dir, records, err := experiments.Run(ctx, *outDir, configs, agents)
	if err != nil {
		log.Fatal().Err(err).Msg("engine grid experiment failed")
	}

	archivePath, err := archiveRecords(dir, records)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to archive decisions")
	}
	log.Info().Str("dir", dir).Str("archive", archivePath).Msg("engine grid stored")

	printSummary(os.Stdout, experiments.Summarize(configs, records))

	if *throughput {
		throughputDir, err := experiments.RunThroughput(ctx, *outDir)
		if err != nil {
			log.Fatal().Err(err).Msg("throughput experiment failed")
		}
		log.Info().Str("dir", throughputDir).Msg("throughput stored")
	}
}

// archiveRecords stores every grid decision as one parquet file inside
// the run directory, next to the CSVs.
func archiveRecords(dir string, records []metrics.DecisionRecord) (string, error) {
	runID := filepath.Base(dir)
	rows := make([]archive.Row, 0, len(records))
	for i, record := range records {
		actionType, target, _ := strings.Cut(record.Action, ":")
		outcome := decide.Outcome{
			Status:     decide.StatusSearch,
			Agent:      fmt.Sprintf("%s-c%d", record.Agent, record.Config),
			Kind:       record.Agent,
			ActionType: actionType,
			Target:     target,
			Detail:     record.Action,
			Stats: decide.Stats{
				Visits:    record.Visits,
				Children:  record.Children,
				Truncated: record.Truncated,
				Value:     record.Value,
				ElapsedMs: record.Elapsed.Milliseconds(),
			},
		}
		rows = append(rows, archive.FromOutcome(runID, i+1, outcome))
	}

	path := filepath.Join(dir, "decisions.parquet")
	if err := archive.WriteRows(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

func printSummary(out io.Writer, summaries []metrics.Summary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONFIG\tDECISIONS\tMEAN VALUE\tSTDDEV\tMEAN MS\tTRUNC RATE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.3f\t%.2f\t%.4f\n",
			s.Config, s.Decisions, s.MeanValue, s.StdDevValue, s.MeanElapsedMs, s.TruncationRate)
	}
	w.Flush()
}

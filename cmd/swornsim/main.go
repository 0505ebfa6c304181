// Command swornsim walks search-driven agents through the fixture
// world, shows a live dashboard, and archives every decision as
// parquet batches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/planeflake/sworn/archive"
	"github.com/planeflake/sworn/decide"
	"github.com/planeflake/sworn/npc"
	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

var (
	totalDecisions atomic.Int64
	totalFallbacks atomic.Int64
	totalTruncated atomic.Int64
	totalVisits    atomic.Int64
)

type DecisionUpdate struct {
	Worker int
	Agent  string
	Action string
	Status string
	Visits int
}

type rowRequest struct {
	row archive.Row
}

type agentSpec struct {
	kind  string
	fresh func(snap *world.Snapshot) searcher.State
}

// agentSpecs covers every decision domain; workers cycle through them
// round-robin so the dashboard mixes all nine.
func agentSpecs() []agentSpec {
	return []agentSpec{
		{"trader", func(snap *world.Snapshot) searcher.State {
			trader := npc.NewTrader(snap, "saltmere", 120)
			trader.Biomes[world.BiomePlains] = true
			return trader
		}},
		{"animal", func(snap *world.Snapshot) searcher.State {
			animal := npc.NewAnimal(snap, "wolfpine")
			animal.Carnivore = true
			animal.Energy = 70
			return animal
		}},
		{"herd", func(snap *world.Snapshot) searcher.State {
			herd := npc.NewHerd(snap, "ambervale", 24)
			herd.Herbivore = true
			herd.HasYoung = true
			return herd
		}},
		{"villager", func(snap *world.Snapshot) searcher.State {
			return npc.NewVillager(snap, "millbrook", "millbrook", "farmer")
		}},
		{"faction", func(snap *world.Snapshot) searcher.State {
			faction := npc.NewFaction(snap, "thornwall")
			faction.Gold = 400
			faction.Members = 5
			faction.Resources["wood"] = 80
			faction.Resources["stone"] = 40
			faction.Rivals["ironpact"] = "thornwall"
			faction.Preferred["wolfpine"] = true
			return faction
		}},
		{"settlement", func(snap *world.Snapshot) searcher.State {
			return npc.NewSettlement(snap, "millbrook", 300)
		}},
		{"player", func(snap *world.Snapshot) searcher.State {
			player := npc.NewPlayer(snap, "thornwall")
			player.Skills["gathering"] = 5
			return player
		}},
		{"equipment", func(snap *world.Snapshot) searcher.State {
			return npc.NewEquipment(starterGear())
		}},
		{"item", func(snap *world.Snapshot) searcher.State {
			item := npc.NewItem("ranger")
			item.Equippable = true
			item.Durability = 60
			item.Nearby = []string{"companion"}
			item.Storage = []string{"camp_chest"}
			return item
		}},
	}
}

func starterGear() []npc.GearItem {
	return []npc.GearItem{
		{ID: "iron_sword", Slot: "weapon", Quality: 80, Durability: 90, Value: 60},
		{ID: "oak_shield", Slot: "offhand", Quality: 70, Durability: 85, Value: 40},
		{ID: "leather_cap", Slot: "head", Quality: 60, Durability: 80, Value: 20},
		{ID: "mail_shirt", Slot: "chest", Quality: 75, Durability: 70, Value: 80, Set: "guard"},
		{ID: "mail_leggings", Slot: "legs", Quality: 75, Durability: 75, Value: 55, Set: "guard"},
		{ID: "mail_gauntlets", Slot: "hands", Quality: 75, Durability: 65, Value: 35, Set: "guard"},
		{ID: "riding_boots", Slot: "feet", Quality: 55, Durability: 88, Value: 25},
	}
}

type model struct {
	decisions int64
	fallbacks int64
	truncated int64
	visits    int64
	startTime time.Time
	tick      time.Duration
	recent    []string
	updates   chan DecisionUpdate
}

func initialModel(updates chan DecisionUpdate, tick time.Duration) model {
	return model{
		startTime: time.Now(),
		tick:      tick,
		updates:   updates,
	}
}

type TickMsg time.Time

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd(m.tick))
}

func waitForUpdate(updates chan DecisionUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.decisions = totalDecisions.Load()
		m.fallbacks = totalFallbacks.Load()
		m.truncated = totalTruncated.Load()
		m.visits = totalVisits.Load()
		return m, tickCmd(m.tick)
	case DecisionUpdate:
		line := fmt.Sprintf("Worker %d: %s %s (%s, visits %d)",
			msg.Worker, msg.Agent, msg.Action, msg.Status, msg.Visits)
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > 10 {
			m.recent = m.recent[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	decisionsPerSec := float64(m.decisions) / duration.Seconds()
	visitsPerSec := float64(m.visits) / duration.Seconds()
	if duration.Seconds() < 1 {
		decisionsPerSec = 0
		visitsPerSec = 0
	}

	s := fmt.Sprintf("Decisions:       %d\n", m.decisions)
	s += fmt.Sprintf("Fallbacks:       %d\n", m.fallbacks)
	s += fmt.Sprintf("Truncations:     %d\n", m.truncated)
	s += fmt.Sprintf("Simulations:     %d\n", m.visits)
	s += fmt.Sprintf("Duration:        %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Decisions/Sec:   %.2f\n", decisionsPerSec)
	s += fmt.Sprintf("Simulations/Sec: %.2f\n\n", visitsPerSec)

	s += "Recent Decisions:\n"
	for _, line := range m.recent {
		s += line + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}

type worker struct {
	id           int
	runID        string
	maker        *decide.Maker
	snap         *world.Snapshot
	steps        int
	maxDecisions int64
	cancel       context.CancelFunc
	updates      chan<- DecisionUpdate
	rows         chan<- rowRequest
}

func (w *worker) run(ctx context.Context, specs []agentSpec, next *atomic.Int64) {
	for ctx.Err() == nil {
		n := next.Add(1)
		spec := specs[int(n-1)%len(specs)]
		w.walk(ctx, fmt.Sprintf("%s-%d", spec.kind, n), spec)
	}
}

// walk plays one fresh agent forward, archiving and reporting every
// decision, until it terminates, hits the step bound, or shutdown.
func (w *worker) walk(ctx context.Context, agentID string, spec agentSpec) {
	state := spec.fresh(w.snap)

	for step := 0; step < w.steps; step++ {
		if ctx.Err() != nil {
			return
		}

		outcome, err := w.maker.Decide(ctx, agentID, spec.kind, state)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			log.Error().Err(err).Str("agent", agentID).Msg("decision failed")
			return
		}

		total := totalDecisions.Add(1)
		if outcome.Status == decide.StatusFallback {
			totalFallbacks.Add(1)
		}
		totalTruncated.Add(int64(outcome.Stats.Truncated))
		totalVisits.Add(int64(outcome.Stats.Visits))

		w.rows <- rowRequest{row: archive.FromOutcome(w.runID, int(total), outcome)}

		// Never block shutdown on a dashboard that stopped consuming.
		select {
		case w.updates <- DecisionUpdate{
			Worker: w.id,
			Agent:  agentID,
			Action: outcome.Detail,
			Status: outcome.Status,
			Visits: outcome.Stats.Visits,
		}:
		default:
		}

		if w.maxDecisions > 0 && total >= w.maxDecisions {
			w.cancel()
			return
		}

		next, ok := actionByString(state, outcome.Detail)
		if !ok {
			return
		}
		state = state.Apply(next)
		if state.Terminal() {
			return
		}
	}
}

// actionByString maps a decision back onto the state's action set by
// its stable identity.
func actionByString(state searcher.State, detail string) (searcher.Action, bool) {
	for _, action := range state.LegalActions() {
		if action.String() == detail {
			return action, true
		}
	}
	return nil, false
}

// archiveWriterLoop batches rows and flushes them as parquet files
// under outDir, with a final flush when the channel closes.
func archiveWriterLoop(outDir string, rowsPerFlush int, in <-chan rowRequest) {
	if rowsPerFlush <= 0 {
		rowsPerFlush = 200
	}

	pending := make([]archive.Row, 0, rowsPerFlush)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		path, err := archive.WriteBatch(outDir, pending)
		if err != nil {
			log.Error().Err(err).Int("rows", len(pending)).Msg("parquet flush failed")
		} else {
			log.Info().Str("path", path).Int("rows", len(pending)).Msg("parquet flush ok")
		}
		pending = pending[:0]
	}

	for req := range in {
		pending = append(pending, req.row)
		if len(pending) >= rowsPerFlush {
			flush()
		}
	}
	flush()
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	outDir := flag.String("out-dir", getEnvOrDefault("SWORN_OUT_DIR", "data/decisions"), "Directory for decision parquet batches")
	workers := flag.Int("workers", getEnvIntOrDefault("SWORN_WORKERS", 4), "Number of decision workers")
	simulations := flag.Int("simulations", getEnvIntOrDefault("SWORN_SIMULATIONS", 150), "Simulations per decision")
	trees := flag.Int("trees", getEnvIntOrDefault("SWORN_TREES", 1), "Independent trees per decision")
	stepsPerAgent := flag.Int("steps-per-agent", 20, "Decisions per agent before a fresh one spawns")
	rowsPerFlush := flag.Int("rows-per-flush", 200, "Rows buffered per parquet flush")
	maxDecisions := flag.Int64("max-decisions", 0, "If > 0, stop after this many decisions (across all workers)")
	tick := flag.Duration("tick", getEnvDurationOrDefault("SWORN_TICK", 100*time.Millisecond), "Dashboard refresh interval")
	logPath := flag.String("log-file", getEnvOrDefault("SWORN_LOG_FILE", "swornsim.log"), "Log file; the dashboard owns the terminal")
	rulesOnly := flag.Bool("rules-only", false, "Skip the search and use the rule-based choosers")
	flag.Parse()

	// Logs go to a file so they cannot tear the dashboard.
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	snap := world.Fixture()
	engine := searcher.New(
		searcher.WithSimulations(*simulations),
		searcher.WithTrees(*trees),
	)
	maker := &decide.Maker{
		Engine:    engine,
		Fallback:  decide.TraderRules{World: snap, Home: "saltmere", Seed: 1},
		RulesOnly: *rulesOnly,
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	updates := make(chan DecisionUpdate, *workers)
	rows := make(chan rowRequest, (*workers)*4)

	writerDone := make(chan struct{})
	go func() {
		archiveWriterLoop(*outDir, *rowsPerFlush, rows)
		close(writerDone)
	}()

	log.Info().
		Str("run", runID).
		Int("workers", *workers).
		Int("simulations", *simulations).
		Int("trees", *trees).
		Msg("starting simulation")

	var workerWG sync.WaitGroup
	var nextAgent atomic.Int64
	specs := agentSpecs()
	for i := 0; i < *workers; i++ {
		workerWG.Add(1)
		w := &worker{
			id:           i,
			runID:        runID,
			maker:        maker,
			snap:         snap,
			steps:        *stepsPerAgent,
			maxDecisions: *maxDecisions,
			cancel:       cancel,
			updates:      updates,
			rows:         rows,
		}
		go func() {
			defer workerWG.Done()
			w.run(ctx, specs, &nextAgent)
		}()
	}

	p := tea.NewProgram(initialModel(updates, *tick), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	if _, err := p.Run(); err != nil {
		log.Fatal().Err(err).Msg("dashboard failed")
	}
	cancel()

	log.Info().Msg("shutdown requested, waiting for workers")
	workerWG.Wait()
	close(rows)
	<-writerDone
	log.Info().Int64("decisions", totalDecisions.Load()).Msg("shutdown complete, final flush done")
}

package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *Engine)

// Engine runs Monte Carlo Tree Search with a fixed configuration. A
// Search writes no engine fields, so one instance is safe to share
// across concurrent callers.
type Engine struct {
	simulations int
	exploration float64
	maxDepth    int
	trees       int
	seed        uint64
	collector   Collector
}

// WithSimulations sets how many simulations each tree runs per Search.
func WithSimulations(n int) Option {
	return func(e *Engine) {
		e.simulations = n
	}
}

// WithExploration sets the UCB1 exploration weight.
func WithExploration(c float64) Option {
	return func(e *Engine) {
		e.exploration = c
	}
}

// WithMaxDepth caps rollout length for domains that may never reach a
// terminal state.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithTrees sets the number of independent root-parallel trees whose
// statistics are merged before picking the action.
func WithTrees(n int) Option {
	return func(e *Engine) {
		e.trees = n
	}
}

// WithSeed fixes the random source for reproducible searches. Seed 0
// draws a fresh seed from the clock on every Search.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithCollector installs a metrics collector observing every Search.
func WithCollector(c Collector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}

// New builds an engine from the default configuration and options. Bad
// values are reported by Search as ErrConfiguration, never panicked on.
func New(options ...Option) *Engine {
	e := &Engine{
		simulations: DefaultSimulations,
		exploration: DefaultExploration,
		maxDepth:    DefaultMaxDepth,
		trees:       1,
		collector:   NewNopCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Result reports the chosen action plus the diagnostics of the tree
// (or merged trees) that produced it. A fresh value is built per call.
type Result struct {
	Action    Action
	Visits    int     // simulations recorded at the root(s)
	Value     float64 // reward accumulated at the root(s)
	Children  int     // distinct root actions expanded
	Truncated int     // rollouts stopped at the depth cap
	Elapsed   time.Duration
}

// Search grows a statistics tree from the root state and returns the
// most visited root action. Cancelling ctx stops the loop between
// simulations: with at least one simulation recorded Search returns the
// best action so far, otherwise it returns ctx's error.
func (e *Engine) Search(ctx context.Context, root State) (Result, error) {
	start := time.Now()

	if err := e.validate(); err != nil {
		return Result{}, err
	}
	if root == nil {
		return Result{}, fmt.Errorf("%w: nil root state", ErrConfiguration)
	}
	if root.Terminal() {
		return Result{}, ErrTerminalRoot
	}
	if len(root.LegalActions()) == 0 {
		return Result{}, ErrNoLegalActions
	}

	seed := e.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	e.collector.Start()

	roots, truncated, err := e.searchTrees(ctx, root, seed)
	if err != nil {
		return Result{}, err
	}

	action, children, visits, value := mergeRoots(roots)
	if visits == 0 { // Cancelled before any simulation completed
		return Result{}, ctx.Err()
	}

	if truncated > 0 {
		log.Warn().
			Int("truncated", truncated).
			Int("simulations", visits).
			Int("max_depth", e.maxDepth).
			Msg("rollouts cut at the depth cap, rewards approximated from non-terminal states")
	}

	return Result{
		Action:    action,
		Visits:    visits,
		Value:     value,
		Children:  children,
		Truncated: truncated,
		Elapsed:   time.Since(start),
	}, nil
}

func (e *Engine) validate() error {
	if e.simulations <= 0 {
		return fmt.Errorf("%w: simulations must be positive, got %d", ErrConfiguration, e.simulations)
	}
	if e.exploration < 0 {
		return fmt.Errorf("%w: exploration must be non-negative, got %g", ErrConfiguration, e.exploration)
	}
	if e.maxDepth <= 0 {
		return fmt.Errorf("%w: max rollout depth must be positive, got %d", ErrConfiguration, e.maxDepth)
	}
	if e.trees <= 0 {
		return fmt.Errorf("%w: trees must be positive, got %d", ErrConfiguration, e.trees)
	}
	if e.collector == nil {
		return fmt.Errorf("%w: nil collector", ErrConfiguration)
	}
	return nil
}

// runTree grows one independent tree for up to the configured number of
// simulations, stopping early once ctx is done.
func (e *Engine) runTree(ctx context.Context, rootState State, seed uint64) (*node, int, error) {
	rng := rand.New(rand.NewSource(seed))
	root := newNode(rootState, nil, nil)

	truncated := 0
	for i := 0; i < e.simulations; i++ {
		if ctx.Err() != nil {
			break
		}
		cut, err := e.simulate(root, rng)
		if err != nil {
			return nil, 0, err
		}
		if cut {
			truncated++
			e.collector.AddTruncation()
		} else {
			e.collector.AddFullRollout()
		}
		e.collector.AddSimulation()
	}
	return root, truncated, nil
}

// simulate runs one selection, expansion, rollout and backpropagation
// cycle and reports whether the rollout hit the depth cap.
func (e *Engine) simulate(root *node, rng *rand.Rand) (bool, error) {
	leaf, err := e.descend(root, rng)
	if err != nil {
		return false, err
	}

	reward, truncated, err := e.rollout(leaf.state, rng)
	if err != nil {
		return false, err
	}

	backup(leaf, reward)
	return truncated, nil
}

// descend selects through fully expanded nodes by UCB1, then expands
// one untried action if the frontier node is not terminal.
func (e *Engine) descend(root *node, rng *rand.Rand) (*node, error) {
	current := root
	for current.fullyExpanded() && !current.state.Terminal() && len(current.children) > 0 {
		current = current.selectChild(e.exploration, rng)
	}

	if current.state.Terminal() || current.fullyExpanded() {
		return current, nil
	}
	return current.expand(rng)
}

// rollout plays uniformly random actions until a terminal state or the
// depth cap. At the cap the current state's reward stands in for a
// terminal one, which is reported as a truncation rather than an error.
func (e *Engine) rollout(state State, rng *rand.Rand) (float64, bool, error) {
	for depth := 0; !state.Terminal(); depth++ {
		if depth >= e.maxDepth {
			return state.Reward(), true, nil
		}

		actions := state.LegalActions()
		if len(actions) == 0 { // Dead end the domain did not mark terminal
			break
		}
		action := actions[rng.Intn(len(actions))]
		next := state.Apply(action)
		if aliases(state, next) {
			return 0, false, &ViolationError{Action: action.String(), Detail: "Apply returned its receiver"}
		}
		state = next
	}
	return state.Reward(), false, nil
}

// backup walks the reward from the new node up to the root inclusive.
// Rewards are never sign flipped: a single agent owns every level.
func backup(leaf *node, reward float64) {
	for n := leaf; n != nil; n = n.parent {
		n.update(reward)
	}
}

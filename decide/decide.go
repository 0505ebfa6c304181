// Package decide runs the search engine for one agent and translates
// the chosen action into the outcome shape callers persist or serve.
// When the engine has nothing to work with it falls back to a
// rule-based chooser, so the caller always gets an action.
package decide

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/planeflake/sworn/searcher"
)

// Outcome statuses.
const (
	StatusSearch   = "search"
	StatusFallback = "fallback"
)

// Stats carries the search diagnostics alongside a decision. Fallback
// outcomes leave it zeroed.
type Stats struct {
	Visits    int     `json:"visits"`
	Children  int     `json:"children"`
	Truncated int     `json:"truncated,omitempty"`
	Value     float64 `json:"value"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

// Outcome is one decision in transport shape: which agent, what to do,
// and how the answer was reached.
type Outcome struct {
	Status     string `json:"status"`
	Agent      string `json:"agent"`
	Kind       string `json:"kind"`
	ActionType string `json:"action_type"`
	Target     string `json:"target,omitempty"`
	Detail     string `json:"detail"`
	Stats      Stats  `json:"stats"`
}

// Chooser picks an action without searching. Makers fall back to one
// when the engine cannot decide; implementations may synthesize an
// action even when the state models none.
type Chooser interface {
	Choose(state searcher.State) (searcher.Action, error)
}

// Maker decides for agents: search first, rules when the search has
// nothing to work with. RulesOnly skips the engine entirely, which
// keeps the old behaviour reachable behind a flag.
type Maker struct {
	Engine    *searcher.Engine
	Fallback  Chooser
	RulesOnly bool
}

func NewMaker(engine *searcher.Engine, fallback Chooser) *Maker {
	return &Maker{Engine: engine, Fallback: fallback}
}

// Decide searches from root and translates the winning action. The
// engine's nothing-to-decide failures route to the fallback chooser;
// anything else is the caller's problem and propagates.
func (m *Maker) Decide(ctx context.Context, agent, kind string, root searcher.State) (Outcome, error) {
	if m.RulesOnly {
		return m.fallback(agent, kind, root, nil)
	}

	result, err := m.Engine.Search(ctx, root)
	if errors.Is(err, searcher.ErrTerminalRoot) || errors.Is(err, searcher.ErrNoLegalActions) {
		return m.fallback(agent, kind, root, err)
	}
	if err != nil {
		return Outcome{}, err
	}

	outcome := translate(agent, kind, result.Action)
	outcome.Status = StatusSearch
	outcome.Stats = Stats{
		Visits:    result.Visits,
		Children:  result.Children,
		Truncated: result.Truncated,
		Value:     result.Value,
		ElapsedMs: result.Elapsed.Milliseconds(),
	}

	log.Info().
		Str("agent", agent).
		Str("kind", kind).
		Str("action", outcome.Detail).
		Int("visits", result.Visits).
		Dur("elapsed", result.Elapsed).
		Msg("decision made")

	return outcome, nil
}

func (m *Maker) fallback(agent, kind string, root searcher.State, cause error) (Outcome, error) {
	if m.Fallback == nil {
		if cause == nil {
			cause = errors.New("decide: no fallback chooser configured")
		}
		return Outcome{}, cause
	}

	action, err := m.Fallback.Choose(root)
	if err != nil {
		return Outcome{}, err
	}

	log.Warn().
		Str("agent", agent).
		Str("kind", kind).
		Str("action", action.String()).
		AnErr("cause", cause).
		Msg("search unavailable, rule-based choice used")

	outcome := translate(agent, kind, action)
	outcome.Status = StatusFallback
	return outcome, nil
}

// translate splits an action's identity into its type and target. The
// first colon divides them; composite targets keep their own colons.
func translate(agent, kind string, action searcher.Action) Outcome {
	detail := action.String()
	actionType, target, _ := strings.Cut(detail, ":")
	return Outcome{
		Agent:      agent,
		Kind:       kind,
		ActionType: actionType,
		Target:     target,
		Detail:     detail,
	}
}

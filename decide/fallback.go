package decide

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/planeflake/sworn/npc"
	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// ErrNoChoice reports that a chooser found nothing to pick from.
var ErrNoChoice = errors.New("decide: no action available")

// RuleChooser picks from the state's own legal actions. Going
// somewhere beats resting, resting beats everything else, and ties
// keep the state's order.
type RuleChooser struct{}

func (RuleChooser) Choose(state searcher.State) (searcher.Action, error) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return nil, ErrNoChoice
	}
	best, bestRank := actions[0], kindRank(actions[0])
	for _, action := range actions[1:] {
		if rank := kindRank(action); rank < bestRank {
			best, bestRank = action, rank
		}
	}
	return best, nil
}

func kindRank(action searcher.Action) int {
	kind, _, _ := strings.Cut(action.String(), ":")
	switch kind {
	case "move", "travel", "migrate":
		return 0
	case "rest":
		return 1
	}
	return 2
}

// awayLimit is how many days a trader roams before the rules send it
// home.
const awayLimit = 5

// TraderRules is the movement heuristic traders followed before the
// search took over: one road is no choice, too long on the road means
// heading home, and otherwise roads are weighed by biome taste, danger
// and length. Non-trader states defer to RuleChooser.
type TraderRules struct {
	World *world.Snapshot
	Home  string
	Seed  uint64
}

func (r TraderRules) Choose(state searcher.State) (searcher.Action, error) {
	trader, ok := state.(*npc.Trader)
	if !ok {
		return RuleChooser{}.Choose(state)
	}

	moves := traderMoves(trader)
	if len(moves) == 0 {
		log.Warn().Str("location", trader.Location).Msg("trader has no road out, resting in place")
		return npc.TraderAction{Kind: "rest"}, nil
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	if trader.Days > awayLimit && trader.Location != r.Home {
		for _, move := range moves {
			if move.Dest == r.Home {
				return move, nil
			}
		}
	}

	weights := make([]float64, len(moves))
	total := 0.0
	for i, move := range moves {
		weights[i] = r.weight(trader, move.Dest)
		total += weights[i]
	}
	if total <= 0 {
		return moves[0], nil
	}

	rng := rand.New(rand.NewSource(r.Seed))
	pick := rng.Float64() * total
	cumulative := 0.0
	for i, move := range moves {
		cumulative += weights[i]
		if pick <= cumulative {
			return move, nil
		}
	}
	return moves[len(moves)-1], nil
}

// weight scores one road out. Preferred biomes count double; the
// route's danger and its length both divide the score.
func (r TraderRules) weight(trader *npc.Trader, dest string) float64 {
	biome := 0.5
	if loc, ok := r.World.Location(dest); ok && trader.Biomes[loc.Biome] {
		biome = 1.0
	}
	danger, distance := 0.0, 0.0
	if route, ok := r.World.RouteBetween(trader.Location, dest); ok {
		danger, distance = route.Danger, route.Distance
	}
	return biome / (1 + danger) / (1 + distance/20)
}

func traderMoves(trader *npc.Trader) []npc.TraderAction {
	var moves []npc.TraderAction
	for _, action := range trader.LegalActions() {
		if move, ok := action.(npc.TraderAction); ok && move.Kind == "move" {
			moves = append(moves, move)
		}
	}
	return moves
}

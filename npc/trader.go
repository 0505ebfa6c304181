package npc

import (
	"maps"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// TraderAction is one step of a trader's day. Buy and sell carry the
// quoted price so Apply does not have to consult the market again.
type TraderAction struct {
	Kind  string
	Dest  string
	Good  string
	Price float64
}

func (a TraderAction) String() string {
	switch a.Kind {
	case "move":
		return "move:" + a.Dest
	case "buy", "sell":
		return a.Kind + ":" + a.Good
	default:
		return a.Kind
	}
}

// Trader is a wandering merchant weighing trade runs against putting
// down roots. Every action advances the day counter by one.
type Trader struct {
	World        *world.Snapshot
	Location     string
	Destination  string
	Gold         float64
	Inventory    map[string]int
	Visited      map[string]bool
	Preferred    map[string]bool      // settlements worth extra
	Biomes       map[world.Biome]bool // biomes worth extra
	Days         int
	Settled      bool
	Shopkeeper   bool
	ShopLocation string
	Retired      bool
}

// NewTrader returns a trader starting at home with the given stake.
// Preference sets start empty; callers fill them before searching.
func NewTrader(snap *world.Snapshot, home string, gold float64) *Trader {
	return &Trader{
		World:     snap,
		Location:  home,
		Gold:      gold,
		Inventory: map[string]int{},
		Visited:   map[string]bool{home: true},
		Preferred: map[string]bool{},
		Biomes:    map[world.Biome]bool{},
	}
}

func (t *Trader) clone() *Trader {
	next := *t
	next.Inventory = maps.Clone(t.Inventory)
	next.Visited = maps.Clone(t.Visited)
	// Preferred and Biomes are never written after construction, so the
	// copies share them.
	return &next
}

// LegalActions lists moves along routes, trades the local market will
// honour, and the life choices the trader's purse currently supports.
// Rest is always available, so a live trader is never stuck.
func (t *Trader) LegalActions() []searcher.Action {
	if t.Retired {
		return []searcher.Action{TraderAction{Kind: "rest"}}
	}
	var actions []searcher.Action
	if !t.Settled {
		for _, dest := range t.World.Neighbors(t.Location) {
			actions = append(actions, TraderAction{Kind: "move", Dest: dest})
		}
	}
	if market, ok := t.World.MarketAt(t.Location); ok {
		for _, listing := range market.Listings {
			if listing.Stock > 0 && t.Gold >= listing.Sell {
				actions = append(actions, TraderAction{Kind: "buy", Good: listing.Good, Price: listing.Sell})
			}
		}
		for _, listing := range market.Listings {
			if t.Inventory[listing.Good] > 0 {
				actions = append(actions, TraderAction{Kind: "sell", Good: listing.Good, Price: listing.Buy})
			}
		}
	}
	if loc, ok := t.World.Location(t.Location); ok && loc.Settlement {
		score := t.settlementScore(t.Location)
		if t.Gold >= 500 && score >= 0.7 {
			actions = append(actions, TraderAction{Kind: "settle"})
		}
		if t.Gold >= 1000 && score >= 0.8 {
			actions = append(actions, TraderAction{Kind: "open_shop"})
		}
		if t.Gold >= 2000 {
			actions = append(actions, TraderAction{Kind: "retire"})
		}
	}
	actions = append(actions, TraderAction{Kind: "rest"})
	return actions
}

func (t *Trader) Apply(action searcher.Action) searcher.State {
	act := action.(TraderAction)
	next := t.clone()
	next.Days++
	switch act.Kind {
	case "move":
		next.Location = act.Dest
		next.Visited[act.Dest] = true
		if next.Destination == act.Dest {
			next.Destination = ""
		}
	case "buy":
		next.Gold -= act.Price
		next.Inventory[act.Good]++
	case "sell":
		next.Gold += act.Price
		next.Inventory[act.Good]--
		if next.Inventory[act.Good] <= 0 {
			delete(next.Inventory, act.Good)
		}
	case "settle":
		next.Settled = true
	case "open_shop":
		next.Settled = true
		next.Shopkeeper = true
		next.ShopLocation = next.Location
		next.Gold -= 500
	case "retire":
		next.Retired = true
	}
	return next
}

func (t *Trader) Terminal() bool {
	if t.Retired || t.Shopkeeper {
		return true
	}
	if t.visitedSettlements() >= len(t.World.Settlements()) {
		return true
	}
	if t.Destination != "" && t.Destination == t.Location && len(t.Inventory) >= 5 {
		return true
	}
	return t.Days > 100
}

// Reward scores a trader's position: liquid gold, the life it has
// chosen, stock on hand at base value, ground covered, and how well the
// current location suits its tastes. Time on the road costs a little.
func (t *Trader) Reward() float64 {
	reward := t.Gold * 0.1
	if t.Retired {
		reward += 100 * (t.Gold / 1000)
	}
	if t.Shopkeeper {
		reward += 200 * t.settlementScore(t.ShopLocation)
	} else if t.Settled {
		reward += 50 * t.settlementScore(t.Location)
	}
	stock := 0.0
	for good, count := range t.Inventory {
		stock += t.goodValue(good) * float64(count)
	}
	reward += stock * 0.05
	if t.Preferred[t.Location] {
		reward += 10
	}
	if loc, ok := t.World.Location(t.Location); ok && t.Biomes[loc.Biome] {
		reward += 5
	}
	reward += 2 * float64(len(t.Visited))
	if t.Destination != "" && t.Destination == t.Location {
		reward += 20
	}
	reward -= float64(t.Days) * 0.1
	return reward
}

// settlementScore rates a place to settle on a 0..1 scale from the
// trader's preferences and the breadth of the local market.
func (t *Trader) settlementScore(id string) float64 {
	score := 0.5
	if t.Preferred[id] {
		score += 0.3
	}
	if loc, ok := t.World.Location(id); ok && t.Biomes[loc.Biome] {
		score += 0.2
	}
	if market, ok := t.World.MarketAt(id); ok {
		size := 0
		for _, listing := range market.Listings {
			size++ // buying side
			if listing.Stock > 0 {
				size++ // selling side
			}
		}
		switch {
		case size > 20:
			score += 0.2
		case size > 10:
			score += 0.1
		}
	}
	return clamp(score, 0, 1)
}

func (t *Trader) goodValue(id string) float64 {
	if good, ok := t.World.GoodByID(id); ok {
		return good.BasePrice
	}
	return 5
}

func (t *Trader) visitedSettlements() int {
	n := 0
	for _, id := range t.World.Settlements() {
		if t.Visited[id] {
			n++
		}
	}
	return n
}

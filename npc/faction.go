package npc

import (
	"maps"
	"math"
	"slices"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// factionStocks are the resource kinds a faction tracks.
var factionStocks = []string{"wood", "stone", "food", "iron"}

// FactionAction names a target where one exists: a rival faction, a
// settlement, a quest from the backlog. Cost is gold.
type FactionAction struct {
	Kind   string
	Dest   string
	Target string
	Cost   float64
}

func (a FactionAction) String() string {
	switch {
	case a.Dest != "":
		return a.Kind + ":" + a.Dest
	case a.Target != "":
		return a.Kind + ":" + a.Target
	default:
		return a.Kind
	}
}

// Faction is an organised group expanding its reach: gathering wealth
// and members, planting outposts, and managing relations with the
// rivals it shares the map with. Rival positions are fixed for the
// duration of a search.
type Faction struct {
	World        *world.Snapshot
	Location     string
	Gold         float64
	Resources    map[string]int
	Influence    float64
	Members      int
	Controlled   map[string]bool
	Allies       map[string]bool
	Enemies      map[string]bool
	Rivals       map[string]string // rival faction id -> its location
	Quests       []string
	Preferred    map[string]bool
	Biomes       map[world.Biome]bool
	Unacceptable map[string]bool // locations the faction will not enter
}

// NewFaction returns a faction with empty ledgers; callers seed gold,
// members, rivals and preferences before searching.
func NewFaction(snap *world.Snapshot, location string) *Faction {
	return &Faction{
		World:        snap,
		Location:     location,
		Resources:    map[string]int{},
		Controlled:   map[string]bool{},
		Allies:       map[string]bool{},
		Enemies:      map[string]bool{},
		Rivals:       map[string]string{},
		Preferred:    map[string]bool{},
		Biomes:       map[world.Biome]bool{},
		Unacceptable: map[string]bool{},
	}
}

func (f *Faction) clone() *Faction {
	next := *f
	next.Resources = maps.Clone(f.Resources)
	next.Controlled = maps.Clone(f.Controlled)
	next.Allies = maps.Clone(f.Allies)
	next.Enemies = maps.Clone(f.Enemies)
	next.Quests = slices.Clone(f.Quests)
	// Rivals, preferences and the no-go set are never written after
	// construction.
	return &next
}

// rivalsHere returns co-located rival factions in id order.
func (f *Faction) rivalsHere() []string {
	var ids []string
	for _, id := range sortedKeys(f.Rivals) {
		if f.Rivals[id] == f.Location {
			ids = append(ids, id)
		}
	}
	return ids
}

// LegalActions offers marches to acceptable neighbours, diplomacy and
// trade with whoever shares the location, and the growth moves the
// treasury supports. Rest is always available.
func (f *Faction) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, dest := range f.World.Neighbors(f.Location) {
		if !f.Unacceptable[dest] {
			actions = append(actions, FactionAction{Kind: "move", Dest: dest, Cost: 10 * float64(f.Members)})
		}
	}
	rivals := f.rivalsHere()
	for _, id := range rivals {
		if !f.Enemies[id] {
			actions = append(actions, FactionAction{Kind: "trade", Target: id})
		}
	}
	loc, atKnown := f.World.Location(f.Location)
	if atKnown && loc.Settlement {
		actions = append(actions, FactionAction{Kind: "trade", Target: f.Location})
	}
	for _, id := range rivals {
		if !f.Allies[id] && !f.Enemies[id] {
			actions = append(actions, FactionAction{Kind: "alliance", Target: id, Cost: 100})
		}
	}
	for _, id := range rivals {
		if f.Enemies[id] {
			actions = append(actions, FactionAction{Kind: "peace", Target: id, Cost: 200})
		}
	}
	if atKnown && loc.Settlement {
		cost := 50 * float64(f.Members+1)
		if f.Gold >= cost {
			actions = append(actions, FactionAction{Kind: "recruit", Cost: cost})
		}
	}
	if f.Preferred[f.Location] && !f.Controlled[f.Location] &&
		f.Gold >= 200 && f.Resources["wood"] >= 50 && f.Resources["stone"] >= 30 {
		actions = append(actions, FactionAction{Kind: "outpost", Cost: 200})
	}
	if f.Controlled[f.Location] {
		for _, quest := range f.Quests {
			actions = append(actions, FactionAction{Kind: "quest", Target: quest})
		}
	}
	actions = append(actions, FactionAction{Kind: "rest"})
	return actions
}

func (f *Faction) Apply(action searcher.Action) searcher.State {
	act := action.(FactionAction)
	next := f.clone()
	switch act.Kind {
	case "move":
		next.Location = act.Dest
		next.Gold = math.Max(0, next.Gold-act.Cost)
	case "trade":
		for _, stock := range factionStocks {
			next.Resources[stock] += 5
		}
		next.Gold += 25
		next.Influence += 3
	case "alliance":
		next.Allies[act.Target] = true
		delete(next.Enemies, act.Target)
		next.Gold = math.Max(0, next.Gold-act.Cost)
		next.Influence += 20
	case "peace":
		delete(next.Enemies, act.Target)
		next.Gold = math.Max(0, next.Gold-act.Cost)
	case "recruit":
		next.Members++
		next.Gold = math.Max(0, next.Gold-act.Cost)
	case "outpost":
		next.Controlled[next.Location] = true
		next.Gold = math.Max(0, next.Gold-act.Cost)
		next.Resources["wood"] -= 50
		next.Resources["stone"] -= 30
		next.Influence += 10
	case "quest":
		if i := slices.Index(next.Quests, act.Target); i >= 0 {
			next.Quests = slices.Delete(next.Quests, i, i+1)
		}
		next.Influence += 10
	}
	return next
}

// Terminal fires when the faction dissolves or has won: ten holdings or
// an influence of five hundred.
func (f *Faction) Terminal() bool {
	return f.Members <= 0 || len(f.Controlled) >= 10 || f.Influence >= 500
}

// Reward values holdings first, then people, friends, influence and
// the treasury. Open feuds cost, favoured ground pays.
func (f *Faction) Reward() float64 {
	reward := float64(len(f.Controlled))*10 + float64(f.Members)*5 + float64(len(f.Allies))*3
	reward += f.Influence*0.1 + f.Gold*0.05
	total := 0
	for _, amount := range f.Resources {
		total += amount
	}
	reward += float64(total) * 0.02
	reward -= float64(len(f.Enemies)) * 2
	if f.Preferred[f.Location] {
		reward += 5
	}
	if loc, ok := f.World.Location(f.Location); ok && f.Biomes[loc.Biome] {
		reward += 3
	}
	return reward
}

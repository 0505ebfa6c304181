package npc

import (
	"maps"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// Tier is a settlement's stage of growth. It gates construction and
// caps how many of each building the settlement supports.
type Tier int

const (
	TierVillage Tier = iota
	TierTown
	TierCity
)

func (t Tier) String() string {
	switch t {
	case TierVillage:
		return "village"
	case TierTown:
		return "town"
	case TierCity:
		return "city"
	}
	return "unknown"
}

// buildingSpec is one catalog entry: construction costs, what finishing
// it grants, and how many fit at each tier.
type buildingSpec struct {
	name                    string
	wood, stone, iron, gold int
	population              int
	prosperity              int
	defense                 int
	minTier                 Tier
	caps                    [3]int // per tier
}

var buildingCatalog = []buildingSpec{
	{name: "house", wood: 20, stone: 5, gold: 10, population: 5, prosperity: 1, minTier: TierVillage, caps: [3]int{10, 20, 40}},
	{name: "farm", wood: 15, gold: 20, prosperity: 2, minTier: TierVillage, caps: [3]int{5, 10, 15}},
	{name: "market", wood: 30, stone: 10, gold: 50, prosperity: 5, minTier: TierVillage, caps: [3]int{1, 2, 3}},
	{name: "blacksmith", wood: 20, stone: 15, iron: 10, gold: 40, prosperity: 3, minTier: TierVillage, caps: [3]int{1, 2, 3}},
	{name: "tavern", wood: 25, stone: 5, gold: 30, prosperity: 3, minTier: TierVillage, caps: [3]int{1, 2, 3}},
	{name: "church", wood: 20, stone: 30, gold: 60, prosperity: 5, minTier: TierTown, caps: [3]int{0, 1, 2}},
	{name: "town_hall", wood: 40, stone: 50, gold: 100, prosperity: 10, minTier: TierTown, caps: [3]int{0, 1, 1}},
	{name: "walls", stone: 100, gold: 150, defense: 10, minTier: TierTown, caps: [3]int{0, 1, 1}},
	{name: "castle", stone: 200, iron: 50, gold: 300, prosperity: 15, minTier: TierCity, caps: [3]int{0, 0, 1}},
}

// upgradeSpec improves one existing building of the named kind.
type upgradeSpec struct {
	name                    string
	wood, stone, iron, gold int
	population              int
	prosperity              int
}

var upgradeCatalog = []upgradeSpec{
	{name: "house", wood: 10, stone: 5, gold: 5, population: 2, prosperity: 1},
	{name: "farm", wood: 5, stone: 5, gold: 10, prosperity: 1},
	{name: "market", wood: 15, stone: 10, gold: 25, prosperity: 3},
	{name: "blacksmith", wood: 10, stone: 5, iron: 5, gold: 20, prosperity: 2},
	{name: "tavern", wood: 10, stone: 5, gold: 15, prosperity: 2},
}

func findBuilding(name string) (buildingSpec, bool) {
	for _, spec := range buildingCatalog {
		if spec.name == name {
			return spec, true
		}
	}
	return buildingSpec{}, false
}

func findUpgrade(name string) (upgradeSpec, bool) {
	for _, spec := range upgradeCatalog {
		if spec.name == name {
			return spec, true
		}
	}
	return upgradeSpec{}, false
}

// stockName maps a map resource to the settlement stock it feeds.
func stockName(resource string) string {
	switch resource {
	case "wood", "timber":
		return "wood"
	case "grain", "fish", "berries":
		return "food"
	}
	return resource
}

// harvestSpec returns yield, the workers a harvest occupies, and any
// prosperity it brings.
func harvestSpec(stock string) (yield, workers, prosperity int) {
	switch stock {
	case "wood":
		return 30, 2, 0
	case "stone":
		return 20, 3, 0
	case "food":
		return 40, 1, 1
	case "iron":
		return 15, 3, 1
	}
	return 10, 2, 0
}

// SettlementAction is one council decision. Build and upgrade name a
// catalog entry; trade names a partner and a stock.
type SettlementAction struct {
	Kind     string
	Building string
	Target   string
	Resource string
}

func (a SettlementAction) String() string {
	switch a.Kind {
	case "build", "upgrade":
		return a.Kind + ":" + a.Building
	case "trade", "trade_sell":
		return a.Kind + ":" + a.Target + ":" + a.Resource
	case "harvest":
		return a.Kind + ":" + a.Resource
	case "establish_route":
		return a.Kind + ":" + a.Target
	}
	return a.Kind
}

// Settlement plans one settlement's growth: construction, trade with
// its neighbours, working the land, and eventually expanding to the
// next tier.
type Settlement struct {
	World      *world.Snapshot
	Location   string
	Tier       Tier
	Population int
	Prosperity int
	Gold       int
	Stocks     map[string]int
	Buildings  map[string]int
	Routes     map[string]bool // established trade routes
	Defense    int
	Happiness  int
	Growth     int
}

// NewSettlement seeds the plan from the snapshot's population and
// prosperity, with a starter stockpile.
func NewSettlement(snap *world.Snapshot, location string, gold int) *Settlement {
	population, prosperity := 100, 10
	if loc, ok := snap.Location(location); ok {
		population, prosperity = loc.Population, loc.Prosperity
	}
	tier := TierVillage
	switch {
	case population >= 1000:
		tier = TierCity
	case population >= 300:
		tier = TierTown
	}
	return &Settlement{
		World:      snap,
		Location:   location,
		Tier:       tier,
		Population: population,
		Prosperity: prosperity,
		Gold:       gold,
		Stocks:     map[string]int{"wood": 60, "stone": 30, "food": 80, "iron": 10},
		Buildings:  map[string]int{},
		Routes:     map[string]bool{},
		Happiness:  50,
	}
}

func (s *Settlement) clone() *Settlement {
	next := *s
	next.Stocks = maps.Clone(s.Stocks)
	next.Buildings = maps.Clone(s.Buildings)
	next.Routes = maps.Clone(s.Routes)
	return &next
}

func (s *Settlement) canAfford(wood, stone, iron, gold int) bool {
	return s.Stocks["wood"] >= wood && s.Stocks["stone"] >= stone &&
		s.Stocks["iron"] >= iron && s.Gold >= gold
}

// connected returns trading partners: settlements one route away plus
// any the settlement has established routes with.
func (s *Settlement) connected() []string {
	var ids []string
	for _, id := range s.World.Neighbors(s.Location) {
		if loc, ok := s.World.Location(id); ok && loc.Settlement {
			ids = append(ids, id)
		}
	}
	ids = append(ids, sortedKeys(s.Routes)...)
	return ids
}

// routeCandidates returns settlements two routes away that are not yet
// trading partners.
func (s *Settlement) routeCandidates() []string {
	seen := map[string]bool{s.Location: true}
	for _, id := range s.connected() {
		seen[id] = true
	}
	var ids []string
	for _, mid := range s.World.Neighbors(s.Location) {
		for _, id := range s.World.Neighbors(mid) {
			if seen[id] {
				continue
			}
			if loc, ok := s.World.Location(id); ok && loc.Settlement {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// LegalActions enumerates construction the tier and stockpile allow,
// trade with connected settlements, local harvests, and the leaps:
// expanding the settlement or opening a new trade route.
func (s *Settlement) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, spec := range buildingCatalog {
		if s.Tier < spec.minTier {
			continue
		}
		if s.Buildings[spec.name] >= spec.caps[s.Tier] {
			continue
		}
		if s.canAfford(spec.wood, spec.stone, spec.iron, spec.gold) {
			actions = append(actions, SettlementAction{Kind: "build", Building: spec.name})
		}
	}
	for _, spec := range upgradeCatalog {
		if s.Buildings[spec.name] >= 1 && s.canAfford(spec.wood, spec.stone, spec.iron, spec.gold) {
			actions = append(actions, SettlementAction{Kind: "upgrade", Building: spec.name})
		}
	}
	for _, target := range s.connected() {
		loc, ok := s.World.Location(target)
		if !ok {
			continue
		}
		offered := map[string]bool{}
		for _, resource := range loc.Resources {
			stock := stockName(resource)
			if offered[stock] || s.Stocks[stock] >= 50 {
				continue
			}
			offered[stock] = true
			actions = append(actions, SettlementAction{Kind: "trade", Target: target, Resource: stock})
		}
		for _, stock := range sortedKeys(s.Stocks) {
			if s.Stocks[stock] > 50 {
				actions = append(actions, SettlementAction{Kind: "trade_sell", Target: target, Resource: stock})
			}
		}
	}
	if loc, ok := s.World.Location(s.Location); ok {
		harvested := map[string]bool{}
		for _, resource := range loc.Resources {
			stock := stockName(resource)
			if harvested[stock] {
				continue
			}
			harvested[stock] = true
			actions = append(actions, SettlementAction{Kind: "harvest", Resource: stock})
		}
	}
	if s.expandReady() && s.canAfford(100, 50, 0, 200) && s.Stocks["food"] >= 100 {
		actions = append(actions, SettlementAction{Kind: "expand"})
	}
	if s.canAfford(30, 0, 0, 50) {
		for _, target := range s.routeCandidates() {
			actions = append(actions, SettlementAction{Kind: "establish_route", Target: target})
		}
	}
	return actions
}

func (s *Settlement) expandReady() bool {
	switch s.Tier {
	case TierVillage:
		return s.Population >= 50 && s.Prosperity >= 20
	case TierTown:
		return s.Population >= 100 && s.Prosperity >= 50
	}
	return false
}

func (s *Settlement) Apply(action searcher.Action) searcher.State {
	act := action.(SettlementAction)
	next := s.clone()
	switch act.Kind {
	case "build":
		if spec, ok := findBuilding(act.Building); ok {
			next.spend(spec.wood, spec.stone, spec.iron, spec.gold)
			next.Buildings[spec.name]++
			next.Population += spec.population
			next.Prosperity += spec.prosperity
			next.Defense += spec.defense
		}
	case "upgrade":
		if spec, ok := findUpgrade(act.Building); ok {
			next.spend(spec.wood, spec.stone, spec.iron, spec.gold)
			next.Population += spec.population
			next.Prosperity += spec.prosperity
		}
	case "trade":
		next.Stocks[act.Resource] += 20
		next.Gold -= 10
	case "trade_sell":
		next.Stocks[act.Resource] = max(0, next.Stocks[act.Resource]-20)
		next.Gold += 20
	case "harvest":
		yield, workers, prosperity := harvestSpec(act.Resource)
		next.Stocks[act.Resource] += yield
		next.Population -= workers
		next.Prosperity += prosperity
	case "expand":
		next.Tier++
		next.spend(100, 50, 0, 200)
		next.Stocks["food"] -= 100
		next.Prosperity += 10
		if next.Tier == TierTown {
			next.Growth += 5
		} else {
			next.Growth += 10
		}
	case "establish_route":
		next.Routes[act.Target] = true
		next.spend(30, 0, 0, 50)
		next.Prosperity += 3
	}
	return next
}

func (s *Settlement) spend(wood, stone, iron, gold int) {
	s.Stocks["wood"] -= wood
	s.Stocks["stone"] -= stone
	s.Stocks["iron"] -= iron
	s.Gold -= gold
}

// Terminal fires on collapse, or on the win state: a city at two
// hundred prosperity.
func (s *Settlement) Terminal() bool {
	if s.Tier == TierCity && s.Prosperity >= 200 {
		return true
	}
	if s.Population <= 0 {
		return true
	}
	total := 0
	for _, amount := range s.Stocks {
		total += amount
	}
	return total <= 0 && s.Gold <= 0
}

// Reward favours prosperity and built-up infrastructure over raw
// stockpiles, with the tier itself worth a step bonus.
func (s *Settlement) Reward() float64 {
	built := 0
	for _, count := range s.Buildings {
		built += count
	}
	stocked := 0
	for _, amount := range s.Stocks {
		stocked += amount
	}
	reward := float64(s.Population)*0.1 + float64(built)*5 + float64(s.Prosperity)*0.5
	switch s.Tier {
	case TierVillage:
		reward += 10
	case TierTown:
		reward += 30
	case TierCity:
		reward += 60
	}
	reward += float64(len(s.Routes))*10 + float64(stocked)*0.05 + float64(s.Gold)*0.1
	reward += float64(s.Defense)*0.2 + float64(s.Happiness)*0.1
	return reward
}

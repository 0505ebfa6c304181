package npc

import (
	"maps"
	"math"
	"slices"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// PlayerAction is one tick of an adventurer's plan.
type PlayerAction struct {
	Kind     string
	Dest     string
	Resource string
	Skill    string
	Item     string
}

func (a PlayerAction) String() string {
	switch {
	case a.Dest != "":
		return a.Kind + ":" + a.Dest
	case a.Resource != "":
		return a.Kind + ":" + a.Resource
	case a.Skill != "":
		return a.Kind + ":" + a.Skill
	case a.Item != "":
		return a.Kind + ":" + a.Item
	default:
		return a.Kind
	}
}

// Player models an adventurer roaming the map: travelling, gathering,
// cashing finds in at markets, and keeping health, stamina and mana
// topped up. Only health is fatal.
type Player struct {
	World       *world.Snapshot
	Location    string
	Destination string
	Health      float64
	Stamina     float64
	Mana        float64
	Resources   map[string]int
	Skills      map[string]int
	Items       []string // consumables by id
	Preferred   map[string]bool
	Biomes      map[world.Biome]bool
}

// NewPlayer returns a rested adventurer with empty pockets.
func NewPlayer(snap *world.Snapshot, location string) *Player {
	return &Player{
		World:     snap,
		Location:  location,
		Health:    100,
		Stamina:   100,
		Mana:      100,
		Resources: map[string]int{},
		Skills:    map[string]int{},
		Preferred: map[string]bool{},
		Biomes:    map[world.Biome]bool{},
	}
}

func (p *Player) clone() *Player {
	next := *p
	next.Resources = maps.Clone(p.Resources)
	next.Skills = maps.Clone(p.Skills)
	next.Items = slices.Clone(p.Items)
	return &next
}

// hasTradeGoods reports whether anything in the pack would sell.
func (p *Player) hasTradeGoods() bool {
	for resource, count := range p.Resources {
		if resource != "gold" && count > 0 {
			return true
		}
	}
	return false
}

// LegalActions offers travel and planning, whatever the ground yields,
// a market sale when the pack holds goods, recovery, and the skills and
// items the player carries.
func (p *Player) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, dest := range p.World.Neighbors(p.Location) {
		actions = append(actions, PlayerAction{Kind: "move", Dest: dest})
	}
	for _, loc := range p.World.Locations() {
		if loc.ID != p.Location && loc.ID != p.Destination {
			actions = append(actions, PlayerAction{Kind: "set_destination", Dest: loc.ID})
		}
	}
	if loc, ok := p.World.Location(p.Location); ok {
		for _, resource := range loc.Resources {
			actions = append(actions, PlayerAction{Kind: "gather", Resource: resource})
		}
	}
	if _, ok := p.World.MarketAt(p.Location); ok && p.hasTradeGoods() {
		actions = append(actions, PlayerAction{Kind: "trade"})
	}
	actions = append(actions, PlayerAction{Kind: "rest"})
	for _, skill := range sortedKeys(p.Skills) {
		if p.Skills[skill] > 0 {
			actions = append(actions, PlayerAction{Kind: "use_skill", Skill: skill})
		}
	}
	offered := map[string]bool{}
	for _, item := range p.Items {
		if !offered[item] {
			offered[item] = true
			actions = append(actions, PlayerAction{Kind: "use_item", Item: item})
		}
	}
	return actions
}

func (p *Player) Apply(action searcher.Action) searcher.State {
	act := action.(PlayerAction)
	next := p.clone()
	switch act.Kind {
	case "move":
		next.Location = act.Dest
		next.Stamina = math.Max(0, next.Stamina-10)
		if next.Destination == act.Dest {
			next.Destination = ""
		}
	case "set_destination":
		next.Destination = act.Dest
	case "gather":
		amount := 1 + p.Skills["gathering"]/5
		next.Resources[act.Resource] += amount
		next.Stamina = math.Max(0, next.Stamina-5)
	case "trade":
		for _, resource := range sortedKeys(next.Resources) {
			if resource == "gold" || next.Resources[resource] <= 0 {
				continue
			}
			next.Resources[resource]--
			if next.Resources[resource] <= 0 {
				delete(next.Resources, resource)
			}
			break
		}
		next.Resources["gold"] += 5
		next.Stamina = math.Max(0, next.Stamina-2)
	case "rest":
		next.Health = math.Min(100, next.Health+20)
		next.Stamina = math.Min(100, next.Stamina+20)
		next.Mana = math.Min(100, next.Mana+20)
	case "use_skill":
		next.Mana = math.Max(0, next.Mana-5)
	case "use_item":
		if i := slices.Index(next.Items, act.Item); i >= 0 {
			next.Items = slices.Delete(next.Items, i, i+1)
		}
		next.Health = math.Min(100, next.Health+15)
	}
	return next
}

func (p *Player) Terminal() bool {
	return p.Health <= 0
}

// Reward keeps the adventurer alive first, rich second, and nudges it
// toward ground it likes.
func (p *Player) Reward() float64 {
	reward := p.Health/100*10 + p.Stamina/100*5 + p.Mana/100*5
	for resource, count := range p.Resources {
		if resource == "gold" {
			reward += float64(count) * 0.1
		} else {
			reward += float64(count) * 0.05
		}
	}
	if p.Preferred[p.Location] {
		reward += 5
	}
	if loc, ok := p.World.Location(p.Location); ok && p.Biomes[loc.Biome] {
		reward += 3
	}
	total := 0
	for _, level := range p.Skills {
		total += level
	}
	reward += float64(total) * 0.1
	return reward
}

package npc

import (
	"maps"
	"math"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// preyEnergy is the energy a successful hunt restores before the kill
// chance discounts it.
const preyEnergy = 20.0

// AnimalAction carries the energy cost computed at generation time.
// Hunts also carry the difficulty so Apply can derive the kill chance.
type AnimalAction struct {
	Kind       string
	Dest       string
	Cost       float64
	Difficulty float64
}

func (a AnimalAction) String() string {
	if a.Dest != "" {
		return a.Kind + ":" + a.Dest
	}
	return a.Kind
}

// Animal is a lone creature balancing energy against risk. Behaviour
// flags widen its action set; Carnivore gates hunting.
type Animal struct {
	World     *world.Snapshot
	Location  string
	Territory map[string]bool
	Energy    float64
	Health    float64
	Carnivore bool
	Predator  bool
	Skittish  bool
	Social    bool
	Grouped   bool
}

// NewAnimal returns a healthy animal holding its starting location as
// territory. Behaviour flags default to false; callers flip them.
func NewAnimal(snap *world.Snapshot, location string) *Animal {
	return &Animal{
		World:     snap,
		Location:  location,
		Territory: map[string]bool{location: true},
		Energy:    100,
		Health:    100,
	}
}

func (an *Animal) clone() *Animal {
	next := *an
	next.Territory = maps.Clone(an.Territory)
	return &next
}

// LegalActions offers movement along routes, a hunt when prey is about,
// and the behaviours the animal's temperament allows. Rest is always
// available.
func (an *Animal) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, dest := range an.World.Neighbors(an.Location) {
		actions = append(actions, AnimalAction{Kind: "move", Dest: dest, Cost: 1})
	}
	if an.Carnivore {
		if loc, ok := an.World.Location(an.Location); ok && loc.Prey > 0 {
			difficulty := clamp(0.9-0.1*float64(loc.Prey), 0.1, 0.9)
			actions = append(actions, AnimalAction{Kind: "hunt", Cost: 1 + difficulty*0.5, Difficulty: difficulty})
		}
	}
	actions = append(actions, AnimalAction{Kind: "rest", Cost: 0.5})
	if an.Skittish {
		for _, dest := range an.World.Neighbors(an.Location) {
			actions = append(actions, AnimalAction{Kind: "hide", Dest: dest, Cost: 0.7})
		}
	}
	if an.Social {
		for _, dest := range an.World.Neighbors(an.Location) {
			if loc, ok := an.World.Location(dest); ok && loc.Prey > 0 {
				actions = append(actions, AnimalAction{Kind: "group", Dest: dest, Cost: 1})
			}
		}
	}
	return actions
}

func (an *Animal) Apply(action searcher.Action) searcher.State {
	act := action.(AnimalAction)
	next := an.clone()
	switch act.Kind {
	case "move", "hide":
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
	case "hunt":
		chance := an.huntChance(act.Difficulty)
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Energy = math.Min(100, next.Energy+preyEnergy*chance)
		next.Health = math.Max(0, next.Health-(1-chance))
	case "rest":
		next.Energy = math.Min(100, next.Energy+10)
		next.Health = math.Min(100, next.Health+5)
	case "group":
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Grouped = true
	}
	return next
}

// huntChance folds the animal's condition into the base difficulty:
// born predators do better, a starving animal does worse.
func (an *Animal) huntChance(difficulty float64) float64 {
	chance := 1 - difficulty
	if an.Predator {
		chance += 0.2
	}
	if an.Energy < 30 {
		chance -= 0.2
	}
	return clamp(chance, 0.1, 0.9)
}

func (an *Animal) Terminal() bool {
	return an.Health <= 0 || an.Energy <= 0
}

// Reward favours a fed, healthy animal sitting somewhere safe inside
// its own territory, with company if it wants company.
func (an *Animal) Reward() float64 {
	reward := an.Health*0.05 + an.Energy*0.05
	if an.Territory[an.Location] {
		reward += 10
	}
	if an.foodAt(an.Location) {
		reward += 5
	}
	reward += an.safety(an.Location) * 10
	reward -= an.threat() * 15
	if an.Social && an.Grouped {
		reward += 5
	}
	return reward
}

func (an *Animal) foodAt(id string) bool {
	loc, ok := an.World.Location(id)
	return ok && an.Carnivore && loc.Prey > 0
}

// safety rates a location from familiarity and the predators that roam
// it.
func (an *Animal) safety(id string) float64 {
	score := 0.5
	if an.Territory[id] {
		score += 0.3
	}
	if loc, ok := an.World.Location(id); ok {
		score -= 0.2 * float64(loc.Predators)
	}
	return clamp(score, 0, 1)
}

// threat aggregates predators here and one route away.
func (an *Animal) threat() float64 {
	level := 0.1
	if loc, ok := an.World.Location(an.Location); ok {
		level += 0.3 * float64(loc.Predators)
	}
	for _, id := range an.World.Neighbors(an.Location) {
		if loc, ok := an.World.Location(id); ok {
			level += 0.1 * float64(loc.Predators)
		}
	}
	return clamp(level, 0, 1)
}

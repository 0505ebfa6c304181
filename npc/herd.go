package npc

import (
	"maps"
	"math"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// vegetation approximates forage density per biome on a 0..100 scale.
func vegetation(biome world.Biome) float64 {
	switch biome {
	case world.BiomeForest:
		return 80
	case world.BiomePlains:
		return 70
	case world.BiomeSwamp:
		return 55
	case world.BiomeCoastal:
		return 45
	case world.BiomeMountains:
		return 35
	case world.BiomeTundra:
		return 20
	}
	return 40
}

// HerdAction carries the group's energy cost, already scaled by size.
type HerdAction struct {
	Kind string
	Dest string
	Cost float64
}

func (a HerdAction) String() string {
	if a.Dest != "" {
		return a.Kind + ":" + a.Dest
	}
	return a.Kind
}

// Herd is a group of animals moving as one. Costs grow with group size
// and successes scale with it. Size itself stays fixed during a search;
// births and losses land between searches.
type Herd struct {
	World            *world.Snapshot
	Location         string
	Size             int
	Energy           float64
	Health           float64
	Territory        map[string]bool
	Herbivore        bool
	Carnivore        bool
	Predatory        bool
	Migratory        bool
	HasYoung         bool
	MigrationTargets map[world.Season][]string
	MigrationSeasons map[world.Season]bool
}

// NewHerd returns a healthy herd of the given size, migrating in spring
// and autumn once targets are set.
func NewHerd(snap *world.Snapshot, location string, size int) *Herd {
	return &Herd{
		World:            snap,
		Location:         location,
		Size:             size,
		Energy:           100,
		Health:           100,
		Territory:        map[string]bool{location: true},
		MigrationTargets: map[world.Season][]string{},
		MigrationSeasons: map[world.Season]bool{world.SeasonSpring: true, world.SeasonAutumn: true},
	}
}

func (h *Herd) clone() *Herd {
	next := *h
	next.Territory = maps.Clone(h.Territory)
	// Migration tables are never written after construction.
	return &next
}

// sizeFactor scales costs with herd size, capped so huge herds do not
// become immobile.
func (h *Herd) sizeFactor() float64 {
	return math.Min(10, float64(h.Size)/5)
}

func (h *Herd) foodAt(id string) bool {
	loc, ok := h.World.Location(id)
	if !ok {
		return false
	}
	if h.Herbivore && vegetation(loc.Biome) > 50 {
		return true
	}
	return h.Carnivore && loc.Prey > 0
}

// LegalActions offers travel, foraging here and wherever food is one
// route away, the predatory and defensive options the situation calls
// for, and seasonal migration. Rest is always available.
func (h *Herd) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, dest := range h.World.Neighbors(h.Location) {
		actions = append(actions, HerdAction{Kind: "move", Dest: dest, Cost: 1 + 0.1*h.sizeFactor()})
	}
	actions = append(actions, HerdAction{Kind: "forage", Cost: 0.8 + 0.05*h.sizeFactor()})
	for _, dest := range h.World.Neighbors(h.Location) {
		if h.foodAt(dest) {
			actions = append(actions, HerdAction{Kind: "forage", Dest: dest, Cost: 1.2 + 0.05*h.sizeFactor()})
		}
	}
	if h.Predatory {
		if loc, ok := h.World.Location(h.Location); ok && loc.Prey > 0 {
			actions = append(actions, HerdAction{Kind: "attack", Dest: h.Location, Cost: 1.5})
		}
		for _, dest := range h.World.Neighbors(h.Location) {
			if loc, ok := h.World.Location(dest); ok && loc.Prey > 0 {
				actions = append(actions, HerdAction{Kind: "attack", Dest: dest, Cost: 2})
			}
		}
	}
	if loc, ok := h.World.Location(h.Location); ok && loc.Predators > 0 {
		actions = append(actions, HerdAction{Kind: "defend", Cost: 1.2})
	}
	if h.Migratory && h.MigrationSeasons[h.World.Season] {
		for _, dest := range h.MigrationTargets[h.World.Season] {
			if dest != h.Location {
				actions = append(actions, HerdAction{Kind: "migrate", Dest: dest, Cost: 2})
			}
		}
	}
	actions = append(actions, HerdAction{Kind: "rest", Cost: 0.5})
	return actions
}

func (h *Herd) Apply(action searcher.Action) searcher.State {
	act := action.(HerdAction)
	next := h.clone()
	switch act.Kind {
	case "move":
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
	case "forage":
		if act.Dest != "" {
			next.Location = act.Dest
		}
		chance := h.forageChance(next.Location)
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Energy = math.Min(100, next.Energy+15*chance)
	case "attack":
		prey := 0
		if loc, ok := h.World.Location(act.Dest); ok {
			prey = loc.Prey
		}
		chance := math.Min(0.9, float64(h.Size)/math.Max(1, float64(prey))*h.Energy/100)
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Energy = math.Min(100, next.Energy+5*float64(prey)*chance)
		next.Health = math.Max(0, next.Health-3*(1-chance))
	case "defend":
		chance := math.Min(0.9, 0.3+float64(h.Size)*0.05+h.Health*0.002)
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Health = math.Max(0, next.Health-17.5*(1-chance))
	case "migrate":
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Territory[act.Dest] = true
	case "rest":
		next.Energy = math.Min(100, next.Energy+15)
		next.Health = math.Min(100, next.Health+10)
	}
	return next
}

// forageChance blends local vegetation or prey with the advantage of
// many mouths that can also search.
func (h *Herd) forageChance(id string) float64 {
	chance := 0.5
	if loc, ok := h.World.Location(id); ok {
		if h.Herbivore {
			chance += vegetation(loc.Biome) / 100 * 0.4
		}
		if h.Carnivore {
			chance += math.Min(0.3, 0.1*float64(loc.Prey))
		}
	}
	chance += math.Min(0.2, float64(h.Size)/100)
	return clamp(chance, 0.1, 0.9)
}

func (h *Herd) Terminal() bool {
	return h.Size <= 0 || h.Health <= 0 || h.Energy <= 0
}

// Reward weighs the herd's numbers and condition, the ground it stands
// on, and whether it is where the season says it should be.
func (h *Herd) Reward() float64 {
	reward := float64(h.Size)*5 + h.Health*0.1 + h.Energy*0.1
	if h.Territory[h.Location] {
		reward += 10
	}
	if h.foodAt(h.Location) {
		reward += 5
	}
	reward += h.safety() * 10
	if h.Migratory && h.MigrationSeasons[h.World.Season] && h.atSeasonalTarget() {
		reward += 20
	}
	if h.HasYoung {
		reward += 15
	}
	return reward
}

func (h *Herd) atSeasonalTarget() bool {
	for _, dest := range h.MigrationTargets[h.World.Season] {
		if dest == h.Location {
			return true
		}
	}
	return false
}

// safety discounts local predators by herd size: numbers are their own
// protection.
func (h *Herd) safety() float64 {
	score := 0.5
	if h.Territory[h.Location] {
		score += 0.3
	}
	if loc, ok := h.World.Location(h.Location); ok {
		exposure := math.Min(1, 4/math.Max(1, float64(h.Size)))
		score -= 0.2 * float64(loc.Predators) * exposure
	}
	return clamp(score, 0, 1)
}

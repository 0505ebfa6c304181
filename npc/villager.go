package npc

import (
	"maps"
	"math"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// Daily schedule windows, in hours of the day.
func inWorkHours(h int) bool   { return h >= 8 && h < 17 }
func inRestHours(h int) bool   { return h >= 20 || h < 6 }
func inSocialHours(h int) bool { return h >= 17 && h < 20 }
func inShopHours(h int) bool   { return h >= 10 && h < 19 }

// edibleGoods are the market goods that count as a meal.
var edibleGoods = map[string]bool{"grain": true, "fish": true, "berries": true}

// marketProvision picks what a shopping trip brings home: the first
// edible listing if the market has one, otherwise the first listing.
func marketProvision(m world.Market) (string, bool) {
	for _, listing := range m.Listings {
		if edibleGoods[listing.Good] {
			return listing.Good, true
		}
	}
	if len(m.Listings) > 0 {
		return m.Listings[0].Good, false
	}
	return "", false
}

// VillagerAction carries everything Apply needs: the energy cost, the
// gold and happiness changes, and which skill the hour exercised.
type VillagerAction struct {
	Kind      string
	Dest      string
	Target    string // socialize partner
	Resource  string // what work or gathering produces
	Skill     string
	Cost      float64
	Pay       float64
	Happiness float64
}

func (a VillagerAction) String() string {
	switch {
	case a.Dest != "":
		return a.Kind + ":" + a.Dest
	case a.Target != "":
		return a.Kind + ":" + a.Target
	case a.Resource != "":
		return a.Kind + ":" + a.Resource
	default:
		return a.Kind
	}
}

// Villager lives on a clock: Hour counts from the start of the search
// week and gates which actions each hour offers. Every action takes an
// hour and leaves the villager a little hungrier.
type Villager struct {
	World         *world.Snapshot
	Location      string
	Home          string
	Work          string
	Profession    string
	Skills        map[string]int
	Relationships map[string]int
	Inventory     map[string]int
	Energy        float64
	Happiness     float64
	Health        float64
	Gold          float64
	Hunger        float64
	Hour          int
}

// NewVillager returns a villager at home at eight in the morning, ready
// for work.
func NewVillager(snap *world.Snapshot, home, work, profession string) *Villager {
	return &Villager{
		World:         snap,
		Location:      home,
		Home:          home,
		Work:          work,
		Profession:    profession,
		Skills:        map[string]int{},
		Relationships: map[string]int{},
		Inventory:     map[string]int{},
		Energy:        100,
		Happiness:     50,
		Health:        100,
		Hour:          8,
	}
}

func (v *Villager) clone() *Villager {
	next := *v
	next.Skills = maps.Clone(v.Skills)
	next.Relationships = maps.Clone(v.Relationships)
	next.Inventory = maps.Clone(v.Inventory)
	return &next
}

// workActions lists what the villager can do at its workplace: the
// profession's base shift, plus specialised work once the matching
// skill passes 30.
func (v *Villager) workActions() []searcher.Action {
	var actions []searcher.Action
	base := VillagerAction{Kind: "work", Cost: 15, Pay: 5}
	switch v.Profession {
	case "farmer":
		base.Resource, base.Skill = "food", "farming"
		base.Pay = 3 + float64(v.Skills["farming"])/10
	case "miner":
		base.Resource, base.Skill = "ore", "mining"
		base.Pay = 4 + float64(v.Skills["mining"])/10
	case "blacksmith":
		base.Resource, base.Skill = "tools", "smithing"
		base.Pay = 5 + float64(v.Skills["smithing"])/10
	case "merchant":
		base.Resource, base.Skill = "goods", "trading"
		base.Pay = 6 + float64(v.Skills["trading"])/10
	case "guard":
		base.Resource, base.Skill = "security", "combat"
		base.Pay = 4 + float64(v.Skills["combat"])/10
	}
	actions = append(actions, base)
	if v.Skills["farming"] > 30 {
		actions = append(actions, VillagerAction{Kind: "work", Resource: "crops", Skill: "farming", Cost: 20, Pay: 7})
	}
	if v.Skills["mining"] > 30 {
		actions = append(actions, VillagerAction{Kind: "work", Resource: "minerals", Skill: "mining", Cost: 25, Pay: 8})
	}
	return actions
}

// LegalActions walks the day's schedule: work, rest, company and
// errands in their windows, with travel and gathering always on the
// table. The hour of day decides what is open.
func (v *Villager) LegalActions() []searcher.Action {
	var actions []searcher.Action
	hour := v.Hour % 24
	restOffered := false

	if inWorkHours(hour) && v.Work != "" && v.Location == v.Work {
		actions = append(actions, v.workActions()...)
	}
	if inRestHours(hour) && v.Location == v.Home {
		actions = append(actions, VillagerAction{Kind: "rest"})
		restOffered = true
	}
	if inSocialHours(hour) && v.Location == v.Home {
		for _, name := range sortedKeys(v.Relationships) {
			strength := v.Relationships[name]
			actions = append(actions, VillagerAction{
				Kind: "socialize", Target: name, Cost: 5,
				Happiness: 5 + float64(strength)/10,
			})
			if strength > 50 {
				actions = append(actions, VillagerAction{
					Kind: "socialize_friend", Target: name, Cost: 8, Happiness: 12,
				})
			}
		}
	}
	if inShopHours(hour) && v.Gold >= 5 {
		if _, ok := v.World.MarketAt(v.Location); ok {
			actions = append(actions, VillagerAction{Kind: "shop", Cost: 5, Happiness: 3})
		}
	}
	for _, dest := range v.World.Neighbors(v.Location) {
		actions = append(actions, VillagerAction{Kind: "travel", Dest: dest, Cost: 10})
	}
	if v.Energy > 30 {
		if loc, ok := v.World.Location(v.Location); ok {
			for _, resource := range loc.Resources {
				act := VillagerAction{Kind: "gather", Resource: resource, Skill: "gathering", Cost: 12, Pay: 2}
				switch resource {
				case "wood":
					act.Cost, act.Pay = 15, 3
				case "herbs":
					act.Cost, act.Pay = 10, 4
				case "berries":
					act.Cost, act.Pay = 8, 2
				}
				actions = append(actions, act)
			}
		}
	}
	if v.Energy < 20 && v.Location == v.Home && !restOffered {
		actions = append(actions, VillagerAction{Kind: "rest"})
	}
	return actions
}

func (v *Villager) Apply(action searcher.Action) searcher.State {
	act := action.(VillagerAction)
	next := v.clone()
	next.Hour++
	next.Hunger = math.Min(100, next.Hunger+5)
	switch act.Kind {
	case "work":
		next.Gold += act.Pay
		next.Energy = math.Max(0, next.Energy-act.Cost)
	case "rest":
		next.Energy = math.Min(100, next.Energy+20)
		next.Happiness = math.Min(100, next.Happiness+5)
		next.Hunger = math.Max(0, next.Hunger-10)
	case "travel":
		next.Location = act.Dest
		next.Energy = math.Max(0, next.Energy-act.Cost)
	case "socialize", "socialize_friend":
		gain := 5
		if act.Kind == "socialize_friend" {
			gain = 10
		}
		next.Relationships[act.Target] = min(100, next.Relationships[act.Target]+gain)
		next.Happiness = math.Min(100, next.Happiness+act.Happiness)
		next.Energy = math.Max(0, next.Energy-act.Cost)
	case "shop":
		next.Gold = math.Max(0, next.Gold-5)
		next.Happiness = math.Min(100, next.Happiness+act.Happiness)
		next.Energy = math.Max(0, next.Energy-act.Cost)
		if market, ok := v.World.MarketAt(v.Location); ok {
			if good, edible := marketProvision(market); good != "" {
				next.Inventory[good]++
				if edible {
					next.Hunger = math.Max(0, next.Hunger-30)
				}
			}
		}
	case "gather":
		next.Gold += act.Pay
		next.Energy = math.Max(0, next.Energy-act.Cost)
		next.Inventory[act.Resource]++
	}
	if act.Skill != "" {
		next.Skills[act.Skill]++
	}
	return next
}

// Terminal ends the search week after 168 hours or when the villager
// runs out of energy, health or spirit.
func (v *Villager) Terminal() bool {
	return v.Energy <= 0 || v.Health <= 0 || v.Happiness <= 0 || v.Hour >= 168
}

// Reward scores wellbeing, wealth, competence and company, with bonuses
// for being where the schedule wants the villager to be.
func (v *Villager) Reward() float64 {
	reward := v.Energy*0.05 + v.Happiness*0.1 + v.Health*0.05 + v.Gold*0.2
	reward += float64(len(v.Inventory)) * 0.5
	total := 0
	for _, level := range v.Skills {
		total += level
	}
	reward += float64(total) * 0.02
	for _, strength := range v.Relationships {
		if strength > 50 {
			reward += 2
		}
	}
	reward -= v.Hunger * 0.01
	hour := v.Hour % 24
	if inWorkHours(hour) && v.Work != "" && v.Location == v.Work {
		reward += 10
	}
	if inRestHours(hour) && v.Location == v.Home {
		reward += 10
	}
	return reward
}

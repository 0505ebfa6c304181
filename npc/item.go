package npc

import (
	"math"

	"github.com/planeflake/sworn/searcher"
)

// ItemAction names a receiving entity or storage when the move needs
// one.
type ItemAction struct {
	Kind   string
	Target string
}

func (a ItemAction) String() string {
	if a.Target != "" {
		return a.Kind + ":" + a.Target
	}
	return a.Kind
}

// Item follows a single object through its lifecycle: carried, worn,
// handed over, stashed, dropped, or used up. Location is "inventory",
// "ground", "consumed", or a storage id.
type Item struct {
	Location    string
	Owner       string
	InInventory bool
	Equipped    bool
	Equippable  bool
	Consumable  bool
	Durability  float64
	Quality     float64
	Value       float64
	Enchantment float64
	Nearby      []string // entities that could take or pick it up
	Storage     []string // storage ids available to the owner
}

// NewItem returns an item sitting in its owner's inventory.
func NewItem(owner string) *Item {
	return &Item{
		Location:    "inventory",
		Owner:       owner,
		InInventory: true,
		Durability:  100,
		Quality:     50,
		Value:       10,
	}
}

func (it *Item) clone() *Item {
	next := *it
	// Nearby and Storage are never written after construction.
	return &next
}

// LegalActions depends on where the item currently is: an inventory
// item can be worn, used, dropped, handed over or stashed; a worn item
// taken off; a dropped one picked up. Worn-down gear can be repaired
// wherever it is.
func (it *Item) LegalActions() []searcher.Action {
	var actions []searcher.Action
	if it.InInventory {
		if it.Equippable && !it.Equipped && it.Durability > 0 {
			actions = append(actions, ItemAction{Kind: "equip"})
		}
		if it.Consumable {
			actions = append(actions, ItemAction{Kind: "use"})
		}
		actions = append(actions, ItemAction{Kind: "drop"})
		for _, target := range it.Nearby {
			actions = append(actions, ItemAction{Kind: "transfer", Target: target})
		}
		for _, id := range it.Storage {
			actions = append(actions, ItemAction{Kind: "store", Target: id})
		}
	}
	if it.Equipped {
		actions = append(actions, ItemAction{Kind: "unequip"})
	}
	if it.Location == "ground" {
		for _, target := range it.Nearby {
			actions = append(actions, ItemAction{Kind: "pickup", Target: target})
		}
	}
	if it.Equippable && it.Durability < 75 {
		actions = append(actions, ItemAction{Kind: "repair"})
	}
	return actions
}

func (it *Item) Apply(action searcher.Action) searcher.State {
	act := action.(ItemAction)
	next := it.clone()
	switch act.Kind {
	case "equip":
		next.Equipped = true
		next.Durability = math.Max(0, next.Durability-1)
		next.Value -= 0.5
	case "unequip":
		next.Equipped = false
	case "use":
		next.InInventory = false
		next.Location = "consumed"
	case "drop":
		next.InInventory = false
		next.Equipped = false
		next.Location = "ground"
		next.Owner = ""
		next.Value -= 1
	case "transfer":
		next.Owner = act.Target
		next.InInventory = true
		next.Equipped = false
		next.Location = "inventory"
	case "store":
		next.InInventory = false
		next.Equipped = false
		next.Location = act.Target
	case "pickup":
		next.Owner = act.Target
		next.InInventory = true
		next.Location = "inventory"
	case "repair":
		amount := math.Min(100-next.Durability, 25)
		next.Durability += amount
		next.Value += amount * 0.1
	}
	return next
}

// Terminal fires when the item is gone: consumed, or gear worn through.
func (it *Item) Terminal() bool {
	if it.Location == "consumed" {
		return true
	}
	return it.Equippable && it.Durability <= 0
}

// Reward prefers the item useful and in hands: worn gear scores best,
// a stash is safe, the ground is where value leaks away.
func (it *Item) Reward() float64 {
	reward := it.Value * 0.1
	if it.Equippable {
		reward += it.Durability * 0.05
	}
	if it.Equipped {
		reward += 5 + it.Quality*0.1
	}
	if it.InInventory {
		reward += 3
	}
	switch it.Location {
	case "inventory", "ground", "consumed":
	default:
		reward += 2
	}
	if it.Location == "ground" {
		reward -= 5
	}
	reward += it.Enchantment * 0.5
	return reward
}

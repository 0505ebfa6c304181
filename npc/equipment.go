package npc

import (
	"maps"
	"math"

	"github.com/planeflake/sworn/searcher"
)

// equipmentSlots is every slot a character dresses, in display order.
var equipmentSlots = []string{"head", "chest", "legs", "hands", "feet", "weapon", "shield"}

// GearItem is one piece in a character's pool. Slot names the slot it
// fits; Set groups pieces that reinforce each other when worn together.
type GearItem struct {
	ID         string
	Slot       string
	Quality    float64
	Durability float64
	Value      float64
	Set        string
}

// EquipAction targets a slot, and an item when one is involved.
type EquipAction struct {
	Kind string
	Slot string
	Item string
}

func (a EquipAction) String() string {
	if a.Item != "" {
		return a.Kind + ":" + a.Slot + ":" + a.Item
	}
	return a.Kind + ":" + a.Slot
}

// Equipment searches for the best loadout from a fixed pool: what to
// wear, what to swap, what to repair first. It is self-contained; no
// world snapshot is involved.
type Equipment struct {
	Slots map[string]string   // slot -> equipped item id, absent when empty
	Items map[string]GearItem // pool by id
}

// NewEquipment returns a bare loadout over the given pool.
func NewEquipment(items []GearItem) *Equipment {
	pool := make(map[string]GearItem, len(items))
	for _, item := range items {
		pool[item.ID] = item
	}
	return &Equipment{Slots: map[string]string{}, Items: pool}
}

func (e *Equipment) clone() *Equipment {
	next := *e
	next.Slots = maps.Clone(e.Slots)
	next.Items = maps.Clone(e.Items)
	return &next
}

func (e *Equipment) isEquipped(id string) bool {
	for _, held := range e.Slots {
		if held == id {
			return true
		}
	}
	return false
}

// fits reports whether the item can occupy the slot. The shield slot
// also takes off-hand pieces.
func fits(slot string, item GearItem) bool {
	if item.Slot == slot {
		return true
	}
	return slot == "shield" && item.Slot == "offhand"
}

// candidates returns unequipped pool items that fit the slot, in id
// order.
func (e *Equipment) candidates(slot string) []string {
	var ids []string
	for _, id := range sortedKeys(e.Items) {
		if !e.isEquipped(id) && fits(slot, e.Items[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// LegalActions walks the slots in order: fill the empty ones, and for
// the filled ones offer taking the piece off, swapping it, or repairing
// it once it is worn.
func (e *Equipment) LegalActions() []searcher.Action {
	var actions []searcher.Action
	for _, slot := range equipmentSlots {
		held := e.Slots[slot]
		if held == "" {
			for _, id := range e.candidates(slot) {
				actions = append(actions, EquipAction{Kind: "equip", Slot: slot, Item: id})
			}
			continue
		}
		actions = append(actions, EquipAction{Kind: "unequip", Slot: slot})
		for _, id := range e.candidates(slot) {
			actions = append(actions, EquipAction{Kind: "swap", Slot: slot, Item: id})
		}
		if e.Items[held].Durability < 75 {
			actions = append(actions, EquipAction{Kind: "repair", Slot: slot})
		}
	}
	return actions
}

func (e *Equipment) Apply(action searcher.Action) searcher.State {
	act := action.(EquipAction)
	next := e.clone()
	switch act.Kind {
	case "equip", "swap":
		next.Slots[act.Slot] = act.Item
		item := next.Items[act.Item]
		item.Durability = math.Max(0, item.Durability-1)
		next.Items[act.Item] = item
	case "unequip":
		delete(next.Slots, act.Slot)
	case "repair":
		held := next.Slots[act.Slot]
		item := next.Items[held]
		item.Durability += math.Min(100-item.Durability, 25)
		next.Items[held] = item
	}
	return next
}

// Terminal fires when every slot holds a sound, high-quality piece, or
// when nothing is left to do.
func (e *Equipment) Terminal() bool {
	sound := 0
	for _, slot := range equipmentSlots {
		held := e.Slots[slot]
		if held == "" {
			continue
		}
		item := e.Items[held]
		if item.Quality >= 75 && item.Durability >= 75 {
			sound++
		}
	}
	if sound >= len(equipmentSlots) {
		return true
	}
	return len(e.LegalActions()) == 0
}

// Reward scores each worn piece by quality discounted by wear plus its
// value, weighted up for the weapon and chest slots, with bonuses for
// coverage and for assembled sets.
func (e *Equipment) Reward() float64 {
	reward := 0.0
	filled := 0
	sets := map[string]int{}
	for _, slot := range equipmentSlots {
		held := e.Slots[slot]
		if held == "" {
			continue
		}
		filled++
		item := e.Items[held]
		piece := item.Quality/100*5*(item.Durability/100) + item.Value/100
		switch slot {
		case "weapon":
			piece *= 1.5
		case "chest":
			piece *= 1.3
		}
		reward += piece
		if item.Set != "" {
			sets[item.Set]++
		}
	}
	if filled >= len(equipmentSlots) {
		reward += 10
	} else if float64(filled) >= 0.7*float64(len(equipmentSlots)) {
		reward += 5
	}
	for _, count := range sets {
		if count >= 3 {
			reward += 2 * float64(count)
		}
	}
	return reward
}

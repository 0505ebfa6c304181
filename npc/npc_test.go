package npc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

// fixtureDomains builds one live state per agent kind over the shared
// snapshot, each configured so its full action surface is reachable.
func fixtureDomains(snap *world.Snapshot) map[string]func() searcher.State {
	return map[string]func() searcher.State{
		"trader": func() searcher.State {
			return NewTrader(snap, "millbrook", 100)
		},
		"animal": func() searcher.State {
			animal := NewAnimal(snap, "wolfpine")
			animal.Carnivore = true
			animal.Predator = true
			return animal
		},
		"herd": func() searcher.State {
			herd := NewHerd(snap, "greenmarsh", 20)
			herd.Herbivore = true
			herd.Migratory = true
			return herd
		},
		"villager": func() searcher.State {
			villager := NewVillager(snap, "thornwall", "thornwall", "farmer")
			villager.Relationships["mara"] = 60
			return villager
		},
		"faction": func() searcher.State {
			faction := NewFaction(snap, "millbrook")
			faction.Members = 5
			faction.Gold = 500
			faction.Rivals["ravens"] = "millbrook"
			faction.Preferred["millbrook"] = true
			return faction
		},
		"settlement": func() searcher.State {
			return NewSettlement(snap, "millbrook", 100)
		},
		"player": func() searcher.State {
			player := NewPlayer(snap, "saltmere")
			player.Skills["gathering"] = 2
			player.Items = []string{"elixir"}
			return player
		},
		"equipment": func() searcher.State {
			return NewEquipment([]GearItem{
				{ID: "iron_helm", Slot: "head", Quality: 60, Durability: 80, Value: 40},
				{ID: "iron_sword", Slot: "weapon", Quality: 70, Durability: 85, Value: 60},
				{ID: "oak_shield", Slot: "shield", Quality: 55, Durability: 90, Value: 35},
				{ID: "buckler", Slot: "offhand", Quality: 45, Durability: 70, Value: 20},
			})
		},
		"item": func() searcher.State {
			item := NewItem("aldric")
			item.Equippable = true
			item.Nearby = []string{"caravan_guard"}
			item.Storage = []string{"warehouse"}
			return item
		},
	}
}

// TestDomainContracts holds every agent kind to the engine's contract:
// live fixture states, deterministic and duplicate-free action sets,
// copy-on-apply, and finite rewards.
func TestDomainContracts(t *testing.T) {
	snap := world.Fixture()

	for name, build := range fixtureDomains(snap) {
		t.Run(name, func(t *testing.T) {
			state := build()
			require.False(t, state.Terminal(), "Fixture states start live")

			first := actionStrings(state.LegalActions())
			require.NotEmpty(t, first)
			require.Equal(t, first, actionStrings(state.LegalActions()),
				"Action generation must be deterministic")

			seen := map[string]bool{}
			for _, s := range first {
				require.False(t, seen[s], "duplicate action %q", s)
				seen[s] = true
			}

			child := state.Apply(state.LegalActions()[0])
			require.NotSame(t, state, child, "Apply must return an independent state")
			require.Equal(t, first, actionStrings(state.LegalActions()),
				"Apply must leave the parent intact")

			for _, s := range []searcher.State{state, child} {
				reward := s.Reward()
				require.False(t, math.IsNaN(reward), "Reward must not be NaN")
				require.False(t, math.IsInf(reward, 0), "Reward must be finite")
			}
		})
	}
}

// TestDomainsSearchable runs the engine end to end over every agent
// kind, including the ones whose rollouts only end at the depth cap.
func TestDomainsSearchable(t *testing.T) {
	snap := world.Fixture()

	for name, build := range fixtureDomains(snap) {
		t.Run(name, func(t *testing.T) {
			state := build()
			e := searcher.New(searcher.WithSimulations(40), searcher.WithSeed(3))

			result, err := e.Search(context.Background(), state)

			require.NoError(t, err)
			require.Equal(t, 40, result.Visits)
			require.NotNil(t, result.Action)
			require.Contains(t, actionStrings(state.LegalActions()), result.Action.String())
		})
	}
}

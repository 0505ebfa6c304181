package npc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planeflake/sworn/world"
)

func TestAnimalLegalActions(t *testing.T) {
	snap := world.Fixture()

	t.Run("grazers do not hunt", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		require.NotContains(t, actionStrings(animal.LegalActions()), "hunt")
	})

	t.Run("hunting needs prey about", func(t *testing.T) {
		animal := NewAnimal(snap, "millbrook")
		animal.Carnivore = true
		require.NotContains(t, actionStrings(animal.LegalActions()), "hunt")

		animal.Location = "wolfpine"
		require.Contains(t, actionStrings(animal.LegalActions()), "hunt")
	})

	t.Run("plentiful prey makes an easy hunt", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		animal.Carnivore = true
		for _, action := range animal.LegalActions() {
			act := action.(AnimalAction)
			if act.Kind != "hunt" {
				continue
			}
			require.InDelta(t, 0.3, act.Difficulty, 1e-9, "Six prey takes 0.6 off the base difficulty")
			require.InDelta(t, 1.15, act.Cost, 1e-9)
			return
		}
		t.Fatal("no hunt offered")
	})

	t.Run("temperament widens the options", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		got := actionStrings(animal.LegalActions())
		require.NotContains(t, got, "hide:thornwall")
		require.NotContains(t, got, "group:thornwall")

		animal.Skittish = true
		animal.Social = true
		got = actionStrings(animal.LegalActions())
		require.Contains(t, got, "hide:thornwall")
		require.Contains(t, got, "group:thornwall", "Thornwall has animals to join")
		require.NotContains(t, got, "group:millbrook", "Nothing lives around Millbrook")
	})
}

func TestAnimalApply(t *testing.T) {
	snap := world.Fixture()

	t.Run("a hunt trades effort for food", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		animal.Carnivore = true
		animal.Predator = true
		animal.Energy = 50

		next := animal.Apply(AnimalAction{Kind: "hunt", Cost: 1.15, Difficulty: 0.3}).(*Animal)

		// chance 0.9: 1 - 0.3 difficulty + 0.2 predator, clamped
		require.InDelta(t, 66.85, next.Energy, 1e-9)
		require.InDelta(t, 99.9, next.Health, 1e-9)
	})

	t.Run("a starving hunter does worse", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		animal.Carnivore = true
		animal.Predator = true
		animal.Energy = 20

		next := animal.Apply(AnimalAction{Kind: "hunt", Cost: 1.15, Difficulty: 0.3}).(*Animal)

		// chance drops to 0.7 below 30 energy
		require.InDelta(t, 32.85, next.Energy, 1e-9)
		require.InDelta(t, 99.7, next.Health, 1e-9)
	})

	t.Run("rest recovers up to the cap", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		animal.Energy = 95
		animal.Health = 98

		next := animal.Apply(AnimalAction{Kind: "rest", Cost: 0.5}).(*Animal)

		require.Equal(t, 100.0, next.Energy)
		require.Equal(t, 100.0, next.Health)
	})

	t.Run("grouping moves and marks the company", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		animal.Social = true

		next := animal.Apply(AnimalAction{Kind: "group", Dest: "thornwall", Cost: 1}).(*Animal)

		require.Equal(t, "thornwall", next.Location)
		require.True(t, next.Grouped)
		require.Equal(t, 99.0, next.Energy)
	})

	t.Run("apply leaves the parent untouched", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")

		next := animal.Apply(AnimalAction{Kind: "move", Dest: "thornwall", Cost: 1}).(*Animal)
		next.Territory["thornwall"] = true

		require.Equal(t, "wolfpine", animal.Location)
		require.Equal(t, 100.0, animal.Energy)
		require.False(t, animal.Territory["thornwall"])
	})
}

func TestAnimalTerminal(t *testing.T) {
	snap := world.Fixture()
	animal := NewAnimal(snap, "wolfpine")
	require.False(t, animal.Terminal())

	drained := NewAnimal(snap, "wolfpine")
	drained.Energy = 0
	require.True(t, drained.Terminal())

	hurt := NewAnimal(snap, "wolfpine")
	hurt.Health = 0
	require.True(t, hurt.Terminal())
}

func TestAnimalReward(t *testing.T) {
	snap := world.Fixture()

	t.Run("a safe meadow scores the full margin", func(t *testing.T) {
		animal := NewAnimal(snap, "millbrook")
		// 5 health + 5 energy + 10 territory + 8 safety - 4.5 threat
		require.InDelta(t, 23.5, animal.Reward(), 1e-9)
	})

	t.Run("predator country drags the score down", func(t *testing.T) {
		animal := NewAnimal(snap, "wolfpine")
		// safety falls to 0.4 and threat rises to 0.7 beside two predators
		require.InDelta(t, 13.5, animal.Reward(), 1e-9)
	})

	t.Run("company pays only for the social", func(t *testing.T) {
		loner := NewAnimal(snap, "millbrook")
		loner.Grouped = true
		social := NewAnimal(snap, "millbrook")
		social.Social = true
		social.Grouped = true
		require.InDelta(t, 5.0, social.Reward()-loner.Reward(), 1e-9)
	})
}

package npc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planeflake/sworn/world"
)

func TestSettlementBuildGating(t *testing.T) {
	snap := world.Fixture()

	t.Run("the stockpile and tier decide what goes up", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		got := actionStrings(s.LegalActions())
		require.Contains(t, got, "build:house")
		require.Contains(t, got, "build:market")
		require.NotContains(t, got, "build:church", "Churches need a town")
		require.NotContains(t, got, "build:castle", "Castles need a city")
	})

	t.Run("caps limit repeats per tier", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		s.Buildings["market"] = 1
		require.NotContains(t, actionStrings(s.LegalActions()), "build:market",
			"A village supports one market")
	})

	t.Run("upgrades need the building standing", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		require.NotContains(t, actionStrings(s.LegalActions()), "upgrade:farm")

		s.Buildings["farm"] = 1
		require.Contains(t, actionStrings(s.LegalActions()), "upgrade:farm")
	})

	t.Run("construction spends and grants", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)

		next := s.Apply(SettlementAction{Kind: "build", Building: "house"}).(*Settlement)

		require.Equal(t, 40, next.Stocks["wood"])
		require.Equal(t, 25, next.Stocks["stone"])
		require.Equal(t, 90, next.Gold)
		require.Equal(t, 245, next.Population)
		require.Equal(t, 36, next.Prosperity)
		require.Equal(t, 1, next.Buildings["house"])
	})

	t.Run("walls raise the defense", func(t *testing.T) {
		s := NewSettlement(snap, "thornwall", 200)
		s.Stocks["stone"] = 120
		require.Contains(t, actionStrings(s.LegalActions()), "build:walls",
			"Thornwall is town-sized")

		next := s.Apply(SettlementAction{Kind: "build", Building: "walls"}).(*Settlement)
		require.Equal(t, 10, next.Defense)
		require.Equal(t, 20, next.Stocks["stone"])
	})
}

func TestSettlementTrade(t *testing.T) {
	snap := world.Fixture()

	t.Run("buying covers only what runs short", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		got := actionStrings(s.LegalActions())
		require.Contains(t, got, "trade:thornwall:herbs", "No herbs in store")
		require.NotContains(t, got, "trade:thornwall:wood", "Sixty wood is plenty")
	})

	t.Run("a purchase can run the treasury dry", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 0)

		next := s.Apply(SettlementAction{Kind: "trade", Target: "thornwall", Resource: "herbs"}).(*Settlement)

		require.Equal(t, 20, next.Stocks["herbs"])
		require.Equal(t, -10, next.Gold, "The council buys on credit")
	})

	t.Run("surplus sells for gold", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		require.Contains(t, actionStrings(s.LegalActions()), "trade_sell:thornwall:food")

		next := s.Apply(SettlementAction{Kind: "trade_sell", Target: "thornwall", Resource: "food"}).(*Settlement)
		require.Equal(t, 60, next.Stocks["food"])
		require.Equal(t, 120, next.Gold)
	})
}

func TestSettlementHarvest(t *testing.T) {
	snap := world.Fixture()

	t.Run("local produce folds into one stock", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)
		harvests := 0
		for _, str := range actionStrings(s.LegalActions()) {
			if strings.HasPrefix(str, "harvest:") {
				harvests++
				require.Equal(t, "harvest:food", str, "Grain and berries both feed the food stock")
			}
		}
		require.Equal(t, 1, harvests)
	})

	t.Run("a harvest occupies workers", func(t *testing.T) {
		s := NewSettlement(snap, "millbrook", 100)

		next := s.Apply(SettlementAction{Kind: "harvest", Resource: "food"}).(*Settlement)

		require.Equal(t, 120, next.Stocks["food"])
		require.Equal(t, 239, next.Population)
		require.Equal(t, 36, next.Prosperity)
	})

	t.Run("mountain settlements work stone and iron", func(t *testing.T) {
		s := NewSettlement(snap, "ironhollow", 100)
		got := actionStrings(s.LegalActions())
		require.Contains(t, got, "harvest:stone")
		require.Contains(t, got, "harvest:iron")
	})
}

func TestSettlementExpand(t *testing.T) {
	snap := world.Fixture()

	s := NewSettlement(snap, "millbrook", 100)
	require.NotContains(t, actionStrings(s.LegalActions()), "expand",
		"Growth is earned: the stores cannot cover it yet")

	s.Gold = 300
	s.Stocks["wood"] = 150
	s.Stocks["stone"] = 60
	s.Stocks["food"] = 120
	require.Contains(t, actionStrings(s.LegalActions()), "expand")

	next := s.Apply(SettlementAction{Kind: "expand"}).(*Settlement)
	require.Equal(t, TierTown, next.Tier)
	require.Equal(t, 50, next.Stocks["wood"])
	require.Equal(t, 10, next.Stocks["stone"])
	require.Equal(t, 20, next.Stocks["food"])
	require.Equal(t, 100, next.Gold)
	require.Equal(t, 45, next.Prosperity)
	require.Equal(t, 5, next.Growth)
}

func TestSettlementRoutes(t *testing.T) {
	snap := world.Fixture()

	s := NewSettlement(snap, "millbrook", 100)
	got := actionStrings(s.LegalActions())
	require.Contains(t, got, "establish_route:saltmere", "Two hops through Thornwall")
	require.Contains(t, got, "establish_route:ironhollow", "Two hops through Ambervale")
	require.NotContains(t, got, "establish_route:thornwall", "Thornwall already trades with us")

	next := s.Apply(SettlementAction{Kind: "establish_route", Target: "saltmere"}).(*Settlement)
	require.True(t, next.Routes["saltmere"])
	require.Equal(t, 30, next.Stocks["wood"])
	require.Equal(t, 50, next.Gold)
	require.Equal(t, 38, next.Prosperity)
	require.Contains(t, actionStrings(next.LegalActions()), "trade_sell:saltmere:food",
		"A new route opens its market")
}

func TestSettlementTerminal(t *testing.T) {
	snap := world.Fixture()

	t.Run("a prosperous city is the win", func(t *testing.T) {
		s := NewSettlement(snap, "thornwall", 100)
		s.Tier = TierCity
		s.Prosperity = 199
		require.False(t, s.Terminal())
		s.Prosperity = 200
		require.True(t, s.Terminal())
	})

	t.Run("ruin ends the plan", func(t *testing.T) {
		s := NewSettlement(snap, "thornwall", 0)
		s.Stocks = map[string]int{}
		require.True(t, s.Terminal())

		s.Gold = 1
		require.False(t, s.Terminal(), "A single coin keeps the council going")
	})

	t.Run("an empty settlement is done", func(t *testing.T) {
		s := NewSettlement(snap, "thornwall", 100)
		s.Population = 0
		require.True(t, s.Terminal())
	})
}

func TestSettlementReward(t *testing.T) {
	snap := world.Fixture()
	s := NewSettlement(snap, "millbrook", 100)
	// 24 population + 17.5 prosperity + 10 village + 9 stocks + 10 gold + 5 happiness
	require.InDelta(t, 75.5, s.Reward(), 1e-9)
}

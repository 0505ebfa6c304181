package npc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planeflake/sworn/searcher"
	"github.com/planeflake/sworn/world"
)

func actionStrings(actions []searcher.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.String())
	}
	return out
}

func TestTraderActionString(t *testing.T) {
	cases := []struct {
		action TraderAction
		want   string
	}{
		{TraderAction{Kind: "move", Dest: "thornwall"}, "move:thornwall"},
		{TraderAction{Kind: "buy", Good: "salt", Price: 8}, "buy:salt"},
		{TraderAction{Kind: "sell", Good: "salt", Price: 13}, "sell:salt"},
		{TraderAction{Kind: "settle"}, "settle"},
		{TraderAction{Kind: "open_shop"}, "open_shop"},
		{TraderAction{Kind: "retire"}, "retire"},
		{TraderAction{Kind: "rest"}, "rest"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.action.String())
	}
}

func TestTraderLegalActions(t *testing.T) {
	snap := world.Fixture()

	t.Run("moves follow routes", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		got := actionStrings(trader.LegalActions())
		require.Subset(t, got, []string{"move:thornwall", "move:ambervale", "move:wolfpine", "rest"})
	})

	t.Run("buying needs stock and the asking price", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 4)
		require.NotContains(t, actionStrings(trader.LegalActions()), "buy:grain",
			"Grain asks 5, the trader holds 4")

		trader.Gold = 5
		got := actionStrings(trader.LegalActions())
		require.Contains(t, got, "buy:grain")
		require.NotContains(t, got, "buy:wool", "Wool asks 7")
	})

	t.Run("selling needs held goods the market lists", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		trader.Inventory["salt"] = 1
		require.NotContains(t, actionStrings(trader.LegalActions()), "sell:salt",
			"Millbrook does not deal in salt")

		trader.Location = "saltmere"
		require.Contains(t, actionStrings(trader.LegalActions()), "sell:salt")
	})

	t.Run("life choices unlock with gold and a liked spot", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 500)
		trader.Preferred["millbrook"] = true
		got := actionStrings(trader.LegalActions())
		require.Contains(t, got, "settle")
		require.NotContains(t, got, "open_shop", "A shop takes 1000 gold")
		require.NotContains(t, got, "retire", "Retiring takes 2000 gold")

		trader.Gold = 2000
		got = actionStrings(trader.LegalActions())
		require.Contains(t, got, "open_shop")
		require.Contains(t, got, "retire")
	})

	t.Run("an indifferent trader does not settle", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 2000)
		got := actionStrings(trader.LegalActions())
		require.NotContains(t, got, "settle", "Score 0.5 stays below the 0.7 bar")
		require.Contains(t, got, "retire", "Retiring only needs the gold")
	})

	t.Run("no settling in the wilderness", func(t *testing.T) {
		trader := NewTrader(snap, "wolfpine", 5000)
		trader.Preferred["wolfpine"] = true
		got := actionStrings(trader.LegalActions())
		require.NotContains(t, got, "settle")
		require.NotContains(t, got, "retire")
	})

	t.Run("settling ends the wandering", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 100)
		trader.Settled = true
		for _, s := range actionStrings(trader.LegalActions()) {
			require.NotContains(t, s, "move:", "A settled trader stays put")
		}
	})

	t.Run("a retired trader only rests", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 3000)
		trader.Retired = true
		require.Equal(t, []string{"rest"}, actionStrings(trader.LegalActions()))
	})
}

func TestTraderApply(t *testing.T) {
	snap := world.Fixture()

	t.Run("move tracks ground covered and arrival", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		trader.Destination = "thornwall"

		next := trader.Apply(TraderAction{Kind: "move", Dest: "thornwall"}).(*Trader)

		require.Equal(t, "thornwall", next.Location)
		require.True(t, next.Visited["thornwall"])
		require.Empty(t, next.Destination, "Arrival clears the destination")
		require.Equal(t, 1, next.Days)
	})

	t.Run("buy and sell move gold against stock", func(t *testing.T) {
		trader := NewTrader(snap, "saltmere", 100)

		bought := trader.Apply(TraderAction{Kind: "buy", Good: "salt", Price: 8}).(*Trader)
		require.Equal(t, 92.0, bought.Gold)
		require.Equal(t, 1, bought.Inventory["salt"])

		sold := bought.Apply(TraderAction{Kind: "sell", Good: "salt", Price: 13}).(*Trader)
		require.Equal(t, 105.0, sold.Gold)
		require.NotContains(t, sold.Inventory, "salt", "Selling the last unit clears the entry")
	})

	t.Run("opening a shop locks the trader down", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 1200)

		next := trader.Apply(TraderAction{Kind: "open_shop"}).(*Trader)

		require.True(t, next.Shopkeeper)
		require.True(t, next.Settled)
		require.Equal(t, "millbrook", next.ShopLocation)
		require.Equal(t, 700.0, next.Gold)
		require.True(t, next.Terminal())
	})

	t.Run("apply leaves the parent untouched", func(t *testing.T) {
		trader := NewTrader(snap, "saltmere", 100)

		next := trader.Apply(TraderAction{Kind: "buy", Good: "salt", Price: 8}).(*Trader)
		next.Inventory["salt"] = 99
		next.Visited["highmoor"] = true

		require.Equal(t, 100.0, trader.Gold)
		require.Empty(t, trader.Inventory)
		require.False(t, trader.Visited["highmoor"])
		require.Zero(t, trader.Days)
	})
}

func TestTraderTerminal(t *testing.T) {
	snap := world.Fixture()

	t.Run("a hundred days on the road is enough", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		trader.Days = 100
		require.False(t, trader.Terminal())
		trader.Days = 101
		require.True(t, trader.Terminal())
	})

	t.Run("seeing every settlement completes the circuit", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		for _, id := range snap.Settlements() {
			trader.Visited[id] = true
		}
		require.True(t, trader.Terminal())
	})

	t.Run("arriving loaded at the destination", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 0)
		trader.Destination = "millbrook"
		for _, good := range []string{"grain", "wool", "fish", "salt"} {
			trader.Inventory[good] = 1
		}
		require.False(t, trader.Terminal(), "Four kinds of goods is one short")
		trader.Inventory["iron"] = 1
		require.True(t, trader.Terminal())
	})
}

func TestTraderReward(t *testing.T) {
	snap := world.Fixture()

	t.Run("a fresh trader scores gold plus ground covered", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 100)
		require.InDelta(t, 12.0, trader.Reward(), 1e-9, "10 for gold, 2 for the home visit")
	})

	t.Run("retirement pays out on the fortune", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 2000)
		trader.Retired = true
		require.InDelta(t, 402.0, trader.Reward(), 1e-9, "200 for gold, 200 retirement, 2 visits")
	})

	t.Run("a shop outranks wandering with the same purse", func(t *testing.T) {
		wanderer := NewTrader(snap, "millbrook", 700)
		keeper := NewTrader(snap, "millbrook", 700)
		keeper.Settled = true
		keeper.Shopkeeper = true
		keeper.ShopLocation = "millbrook"
		require.Greater(t, keeper.Reward(), wanderer.Reward())
	})

	t.Run("arrival at the destination pays", func(t *testing.T) {
		trader := NewTrader(snap, "millbrook", 100)
		enRoute := NewTrader(snap, "millbrook", 100)
		enRoute.Destination = "millbrook"
		require.InDelta(t, 20.0, enRoute.Reward()-trader.Reward(), 1e-9)
	})
}

func TestTraderSearch(t *testing.T) {
	snap := world.Fixture()

	run := func(seed uint64) string {
		trader := NewTrader(snap, "saltmere", 120)
		e := searcher.New(searcher.WithSimulations(80), searcher.WithSeed(seed))

		result, err := e.Search(context.Background(), trader)

		require.NoError(t, err)
		require.Equal(t, 80, result.Visits)
		require.Contains(t, actionStrings(trader.LegalActions()), result.Action.String(),
			"The chosen action must be legal at the root")
		return result.Action.String()
	}

	require.Equal(t, run(7), run(7), "Same seed and state must pick the same action")
}

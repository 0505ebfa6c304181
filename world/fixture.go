package world

// Fixture builds a small hand-tuned world shared by tests, experiments
// and the simulation binaries: five settlements, three wild areas, and
// markets priced so that a handful of trade runs are profitable (grain
// uphill to ironhollow, salt inland, fish to the plains, iron to the
// tool makers at thornwall).
func Fixture() *Snapshot {
	locations := []Location{
		{ID: "millbrook", Name: "Millbrook", Biome: BiomePlains, Settlement: true,
			Population: 240, Prosperity: 35, Danger: 0.1, Shelter: 0.8, Resources: []string{"grain", "berries"}},
		{ID: "thornwall", Name: "Thornwall", Biome: BiomeForest, Settlement: true,
			Population: 520, Prosperity: 55, Danger: 0.15, Prey: 2, Shelter: 0.9, Resources: []string{"wood", "herbs"}},
		{ID: "saltmere", Name: "Saltmere", Biome: BiomeCoastal, Settlement: true,
			Population: 410, Prosperity: 48, Danger: 0.12, Shelter: 0.85, Resources: []string{"fish"}},
		{ID: "ironhollow", Name: "Ironhollow", Biome: BiomeMountains, Settlement: true,
			Population: 180, Prosperity: 30, Danger: 0.25, Shelter: 0.7, Resources: []string{"stone", "iron"}},
		{ID: "ambervale", Name: "Ambervale", Biome: BiomePlains, Settlement: true,
			Population: 150, Prosperity: 22, Danger: 0.1, Shelter: 0.75, Resources: []string{"berries", "wood"}},
		{ID: "greenmarsh", Name: "Greenmarsh", Biome: BiomeSwamp,
			Danger: 0.5, Prey: 4, Predators: 1, Shelter: 0.4, Resources: []string{"herbs", "berries"}},
		{ID: "wolfpine", Name: "Wolfpine", Biome: BiomeForest,
			Danger: 0.35, Prey: 6, Predators: 2, Shelter: 0.6, Resources: []string{"wood", "berries"}},
		{ID: "highmoor", Name: "Highmoor", Biome: BiomeTundra,
			Danger: 0.45, Prey: 3, Predators: 1, Shelter: 0.2, Resources: []string{"stone"}},
	}

	routes := []Route{
		{From: "millbrook", To: "thornwall", Distance: 12, Danger: 0.2},
		{From: "millbrook", To: "ambervale", Distance: 8, Danger: 0.1},
		{From: "millbrook", To: "wolfpine", Distance: 10, Danger: 0.35},
		{From: "thornwall", To: "saltmere", Distance: 16, Danger: 0.25},
		{From: "thornwall", To: "wolfpine", Distance: 6, Danger: 0.3},
		{From: "saltmere", To: "greenmarsh", Distance: 9, Danger: 0.4},
		{From: "saltmere", To: "ironhollow", Distance: 18, Danger: 0.2},
		{From: "ambervale", To: "ironhollow", Distance: 14, Danger: 0.3},
		{From: "ambervale", To: "greenmarsh", Distance: 13, Danger: 0.35},
		{From: "ironhollow", To: "highmoor", Distance: 11, Danger: 0.45},
	}

	goods := []Good{
		{ID: "grain", Name: "Grain", BasePrice: 4},
		{ID: "wool", Name: "Wool", BasePrice: 6},
		{ID: "fish", Name: "Fish", BasePrice: 5},
		{ID: "timber", Name: "Timber", BasePrice: 5},
		{ID: "herbs", Name: "Herbs", BasePrice: 11},
		{ID: "iron", Name: "Iron", BasePrice: 13},
		{ID: "tools", Name: "Tools", BasePrice: 20},
		{ID: "salt", Name: "Salt", BasePrice: 8},
		{ID: "hides", Name: "Hides", BasePrice: 8},
		{ID: "berries", Name: "Berries", BasePrice: 3},
	}

	markets := []Market{
		{Location: "millbrook", Listings: []Listing{
			{Good: "grain", Buy: 3, Sell: 5, Stock: 40},
			{Good: "wool", Buy: 5, Sell: 7, Stock: 25},
			{Good: "fish", Buy: 8, Sell: 11, Stock: 10},
		}},
		{Location: "thornwall", Listings: []Listing{
			{Good: "timber", Buy: 4, Sell: 6, Stock: 30},
			{Good: "herbs", Buy: 9, Sell: 13, Stock: 12},
			{Good: "iron", Buy: 18, Sell: 22, Stock: 6},
			{Good: "tools", Buy: 16, Sell: 24, Stock: 10},
		}},
		{Location: "saltmere", Listings: []Listing{
			{Good: "salt", Buy: 6, Sell: 8, Stock: 35},
			{Good: "fish", Buy: 3, Sell: 5, Stock: 50},
			{Good: "grain", Buy: 7, Sell: 9, Stock: 20},
		}},
		{Location: "ironhollow", Listings: []Listing{
			{Good: "iron", Buy: 11, Sell: 14, Stock: 25},
			{Good: "salt", Buy: 13, Sell: 16, Stock: 8},
			{Good: "grain", Buy: 8, Sell: 10, Stock: 12},
			{Good: "tools", Buy: 15, Sell: 22, Stock: 8},
		}},
		{Location: "ambervale", Listings: []Listing{
			{Good: "grain", Buy: 3, Sell: 5, Stock: 35},
			{Good: "timber", Buy: 9, Sell: 12, Stock: 10},
			{Good: "hides", Buy: 6, Sell: 9, Stock: 18},
			{Good: "wool", Buy: 4, Sell: 6, Stock: 22},
		}},
	}

	return NewSnapshot(SeasonSummer, locations, routes, goods, markets)
}

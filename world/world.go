// Package world defines the immutable snapshot the decision domains
// search over. A snapshot is assembled from persisted data before a
// search starts; nothing downstream performs I/O or writes to it.
package world

type Biome string

const (
	BiomeForest    Biome = "forest"
	BiomePlains    Biome = "plains"
	BiomeMountains Biome = "mountains"
	BiomeCoastal   Biome = "coastal"
	BiomeSwamp     Biome = "swamp"
	BiomeTundra    Biome = "tundra"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Location is one node of the travel graph. Settlements and wild areas
// share the same shape.
type Location struct {
	ID         string
	Name       string
	Biome      Biome
	Settlement bool
	Population int
	Prosperity int
	Danger     float64 // 0..1
	Prey       int     // huntable animals around
	Predators  int
	Shelter    float64  // 0..1
	Resources  []string // gatherable, in fixed order
}

// Route is an undirected edge between two locations.
type Route struct {
	From     string
	To       string
	Distance float64
	Danger   float64
}

// Snapshot is the read-only world every domain state shares by pointer.
// Lookups are index-backed; the indexes are built once in NewSnapshot.
type Snapshot struct {
	Season Season

	locations map[string]Location
	order     []string
	routes    []Route
	neighbors map[string][]string
	markets   map[string]Market
	goods     map[string]Good
	goodOrder []string
}

func NewSnapshot(season Season, locations []Location, routes []Route, goods []Good, markets []Market) *Snapshot {
	s := &Snapshot{
		Season:    season,
		locations: make(map[string]Location, len(locations)),
		order:     make([]string, 0, len(locations)),
		routes:    routes,
		neighbors: make(map[string][]string, len(locations)),
		markets:   make(map[string]Market, len(markets)),
		goods:     make(map[string]Good, len(goods)),
		goodOrder: make([]string, 0, len(goods)),
	}
	for _, loc := range locations {
		s.locations[loc.ID] = loc
		s.order = append(s.order, loc.ID)
	}
	for _, route := range routes {
		s.neighbors[route.From] = append(s.neighbors[route.From], route.To)
		s.neighbors[route.To] = append(s.neighbors[route.To], route.From)
	}
	for _, good := range goods {
		s.goods[good.ID] = good
		s.goodOrder = append(s.goodOrder, good.ID)
	}
	for _, market := range markets {
		s.markets[market.Location] = market
	}
	return s
}

func (s *Snapshot) Location(id string) (Location, bool) {
	loc, ok := s.locations[id]
	return loc, ok
}

// Locations returns every location in snapshot order.
func (s *Snapshot) Locations() []Location {
	locations := make([]Location, 0, len(s.order))
	for _, id := range s.order {
		locations = append(locations, s.locations[id])
	}
	return locations
}

// Neighbors returns the ids reachable by one route, in route insertion
// order. Domains rely on this order being deterministic.
func (s *Snapshot) Neighbors(id string) []string {
	return s.neighbors[id]
}

func (s *Snapshot) RouteBetween(a, b string) (Route, bool) {
	for _, route := range s.routes {
		if (route.From == a && route.To == b) || (route.From == b && route.To == a) {
			return route, true
		}
	}
	return Route{}, false
}

func (s *Snapshot) MarketAt(id string) (Market, bool) {
	market, ok := s.markets[id]
	return market, ok
}

func (s *Snapshot) GoodByID(id string) (Good, bool) {
	good, ok := s.goods[id]
	return good, ok
}

// Goods returns every good in snapshot order.
func (s *Snapshot) Goods() []Good {
	goods := make([]Good, 0, len(s.goodOrder))
	for _, id := range s.goodOrder {
		goods = append(goods, s.goods[id])
	}
	return goods
}

// Settlements returns settlement ids in snapshot order.
func (s *Snapshot) Settlements() []string {
	ids := make([]string, 0)
	for _, id := range s.order {
		if s.locations[id].Settlement {
			ids = append(ids, id)
		}
	}
	return ids
}

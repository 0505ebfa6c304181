package world

// Good is a tradeable commodity. BasePrice values inventory outside a
// market context.
type Good struct {
	ID        string
	Name      string
	BasePrice float64
}

// Listing is one good's terms at a market. Buy is what the market pays
// an agent selling the good; Sell is what it charges an agent buying
// it. Buy stays below Sell, the spread is the market's margin.
type Listing struct {
	Good  string
	Buy   float64
	Sell  float64
	Stock int
}

// Market is a location's trading post.
type Market struct {
	Location string
	Listings []Listing
}

func (m Market) Listing(good string) (Listing, bool) {
	for _, listing := range m.Listings {
		if listing.Good == good {
			return listing, true
		}
	}
	return Listing{}, false
}

// Sells reports whether an agent can buy the good here right now.
func (m Market) Sells(good string) bool {
	listing, ok := m.Listing(good)
	return ok && listing.Stock > 0
}

// Buys reports whether an agent can sell the good here.
func (m Market) Buys(good string) bool {
	_, ok := m.Listing(good)
	return ok
}

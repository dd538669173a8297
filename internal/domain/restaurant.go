package domain

// Restaurant is a catalog record. Immutable within a request.
type Restaurant struct {
	ID            int64
	Name          string
	City          string
	Area          string
	Address       string
	Coords        *Coords // both lat and lon, or absent
	Cuisines      []string
	Rating        float64 // 0..5
	Votes         int
	CostForTwo    int
	PriceCategory string
	SpicyLevel    string // Low|Medium|High
	FoodType      string // Veg|Non-Veg|Both
	BestDish      string
	FamousFor     string
	OpeningTime   string
	ClosingTime   string
	OpenNow       *bool // stored snapshot from the last import, may be stale
}

type Coords struct{ Lat, Lon float64 }

// FamousFood is a per-city cuisine ranking entry, recomputed per request.
type FamousFood struct {
	Cuisine         string  `json:"cuisine"`
	Frequency       int     `json:"frequency"`
	AvgRating       float64 `json:"avg_rating"`
	PopularityScore float64 `json:"popularity_score"`
}

// RankedResult is a scored restaurant surfaced to the caller. Built fresh on
// every request; the enrichment step is the only thing that mutates it.
type RankedResult struct {
	Restaurant
	AIScore    float64  // full precision, rounded only for display
	DistanceKm *float64 // nil when either side has no coordinates
	IsOpen     *bool    // nil until enriched or when lookup failed with no stored status
	MapLink    string
}

// CitySummary is the city-search response payload.
type CitySummary struct {
	City             string       `json:"city"`
	FamousFoods      []FamousFood `json:"famous_foods"`
	TotalRestaurants int          `json:"total_restaurants"`
}

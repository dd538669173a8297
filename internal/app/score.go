package app

import (
	"math"

	"tastefinder/internal/domain"
)

// Convex scoring weights; they must sum to 1.0 so ai_score stays in [0,1].
const (
	weightRating   = 0.35
	weightDistance = 0.30
	weightBudget   = 0.20
	weightTaste    = 0.15

	// neutralDistanceScore is used when either side has no coordinates.
	neutralDistanceScore = 0.5

	// distanceDecayKm is the distance at which the distance sub-score
	// reaches zero.
	distanceDecayKm = 10.0
)

// ScoreRestaurant computes the relevance score for one candidate. Pure: no
// I/O, no randomness, deterministic for identical inputs. The returned
// distance is nil when it cannot be computed.
func ScoreRestaurant(r domain.Restaurant, prefs domain.UserPreferences) (score float64, distanceKm *float64) {
	ratingScore := r.Rating / 5.0

	distScore := neutralDistanceScore
	if prefs.Coords != nil && r.Coords != nil {
		d := haversineKm(*prefs.Coords, *r.Coords)
		distanceKm = &d
		distScore = clamp(1.0-d/distanceDecayKm, 0, 1)
	}

	budgetScore := budgetMatch(r.CostForTwo, prefs.BudgetMin, prefs.BudgetMax)

	// Taste is enforced as a hard filter upstream, so every survivor is a
	// full match. Kept as a weighted term so a graded taste signal can be
	// slotted in without reshaping the formula.
	tasteScore := 1.0

	score = weightRating*ratingScore +
		weightDistance*distScore +
		weightBudget*budgetScore +
		weightTaste*tasteScore
	return score, distanceKm
}

// budgetMatch is a triangular fit: 1.0 at the band midpoint, linear decay to
// 0 at either edge. Out-of-band costs (already excluded by the filter) score 0.
func budgetMatch(cost, min, max int) float64 {
	if max <= min {
		if cost == min {
			return 1.0
		}
		return 0
	}
	mid := float64(min+max) / 2.0
	half := float64(max-min) / 2.0
	return clamp(1.0-math.Abs(float64(cost)-mid)/half, 0, 1)
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(a, b domain.Coords) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2 is the display rounding for scores; sorting always uses full
// precision.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

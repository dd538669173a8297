package app

import (
	"sort"
	"strings"

	"tastefinder/internal/domain"
)

// famousFoodLimit caps the cuisine ranking surfaced per city.
const famousFoodLimit = 7

// DetectFamousFoods ranks cuisines across the candidate set. A record with
// several cuisine tags contributes to each of them. popularity = frequency
// times the group's mean rating, so a cuisine has to be both common and
// well-rated to surface.
func DetectFamousFoods(candidates []domain.Restaurant) []domain.FamousFood {
	type acc struct {
		name  string
		count int
		sum   float64
	}
	groups := make(map[string]*acc)
	for _, r := range candidates {
		for _, c := range r.Cuisines {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			key := strings.ToLower(c)
			g, ok := groups[key]
			if !ok {
				g = &acc{name: c}
				groups[key] = g
			}
			g.count++
			g.sum += r.Rating
		}
	}

	out := make([]domain.FamousFood, 0, len(groups))
	for _, g := range groups {
		avg := g.sum / float64(g.count)
		out = append(out, domain.FamousFood{
			Cuisine:         g.name,
			Frequency:       g.count,
			AvgRating:       avg,
			PopularityScore: float64(g.count) * avg,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PopularityScore != b.PopularityScore {
			return a.PopularityScore > b.PopularityScore
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Cuisine < b.Cuisine
	})

	if len(out) > famousFoodLimit {
		out = out[:famousFoodLimit]
	}
	return out
}

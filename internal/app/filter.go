package app

import (
	"strings"

	"tastefinder/internal/domain"
)

// tasteCuisines maps each taste preference to its cuisine allow-list. New
// taste categories are additive: add a key here, nothing else changes.
// Matching is case-insensitive.
var tasteCuisines = map[domain.TastePreference][]string{
	domain.TasteSpicy: {
		"Biryani", "Andhra", "Chinese", "Kebabs", "North Indian",
		"Mughlai", "Street Food", "Chettinad",
	},
	domain.TasteNormal: {
		"South Indian", "Continental", "Cafe", "Bakery", "Desserts",
		"Italian", "Fast Food", "Juices",
	},
}

// FilterByPreferences narrows candidates in three stages: area, taste,
// budget. Each stage sees only the previous stage's survivors. An empty
// result is a valid outcome, not an error.
func FilterByPreferences(candidates []domain.Restaurant, prefs domain.UserPreferences) []domain.Restaurant {
	out := candidates

	// Area is a hard filter; GPS coordinates never exclude, they only feed
	// distance scoring later.
	if prefs.Area != "" {
		kept := make([]domain.Restaurant, 0, len(out))
		for _, r := range out {
			if strings.EqualFold(r.Area, prefs.Area) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	allowed := make(map[string]struct{}, len(tasteCuisines[prefs.Taste]))
	for _, c := range tasteCuisines[prefs.Taste] {
		allowed[strings.ToLower(c)] = struct{}{}
	}
	kept := make([]domain.Restaurant, 0, len(out))
	for _, r := range out {
		if cuisineMatch(r.Cuisines, allowed) {
			kept = append(kept, r)
		}
	}
	out = kept

	kept = make([]domain.Restaurant, 0, len(out))
	for _, r := range out {
		if r.CostForTwo >= prefs.BudgetMin && r.CostForTwo <= prefs.BudgetMax {
			kept = append(kept, r)
		}
	}
	return kept
}

func cuisineMatch(cuisines []string, allowed map[string]struct{}) bool {
	for _, c := range cuisines {
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(c))]; ok {
			return true
		}
	}
	return false
}

package app

import (
	"sort"

	"tastefinder/internal/domain"
)

// defaultTopN caps how many results a recommendation surfaces.
const defaultTopN = 10

// Rank orders scored candidates and truncates to topN. Ties fall back to
// rating, then vote count, then name, so output is fully deterministic.
// Fewer than topN survivors are returned as-is, never padded.
func Rank(scored []domain.RankedResult, topN int) []domain.RankedResult {
	if topN <= 0 {
		topN = defaultTopN
	}
	out := make([]domain.RankedResult, len(scored))
	copy(out, scored)

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AIScore != b.AIScore {
			return a.AIScore > b.AIScore
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.Name < b.Name
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

package app

import (
	"context"
	"fmt"
	"time"

	"tastefinder/internal/adapters/observability"
	"tastefinder/internal/domain"
)

// RecommendService is the engine's facade: famous foods per city and
// preference-driven recommendations. It owns no state beyond its injected
// collaborators; every request is independent.
type RecommendService struct {
	repo     domain.RestaurantRepository
	cache    domain.Cache
	enricher *Enricher
	cacheTTL time.Duration
	topN     int
}

func NewRecommendService(r domain.RestaurantRepository, c domain.Cache, e *Enricher, ttl time.Duration, topN int) *RecommendService {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &RecommendService{repo: r, cache: c, enricher: e, cacheTTL: ttl, topN: topN}
}

// CitySearch resolves a city against the catalog and returns its cuisine
// ranking plus catalog size. Summaries are cached per city.
func (s *RecommendService) CitySearch(ctx context.Context, city string) (domain.CitySummary, error) {
	canonical, err := s.repo.ResolveCity(ctx, city)
	if err != nil {
		return domain.CitySummary{}, err
	}

	key := "famous:" + canonical
	var cached domain.CitySummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	candidates, err := s.repo.ByCity(ctx, canonical)
	if err != nil {
		return domain.CitySummary{}, err
	}
	total, err := s.repo.CountByCity(ctx, canonical)
	if err != nil {
		return domain.CitySummary{}, err
	}

	out := domain.CitySummary{
		City:             canonical,
		FamousFoods:      DetectFamousFoods(candidates),
		TotalRestaurants: total,
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Recommend runs the full pipeline: filter, score, rank, enrich. An empty
// result set means zero matches, not an error. Results are rebuilt fresh on
// every call and never cached (they depend on the full preference object).
func (s *RecommendService) Recommend(ctx context.Context, city string, prefs domain.UserPreferences) ([]domain.RankedResult, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	canonical, err := s.repo.ResolveCity(ctx, city)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Restaurant
	if prefs.Area != "" {
		candidates, err = s.repo.ByCityAndArea(ctx, canonical, prefs.Area)
	} else {
		candidates, err = s.repo.ByCity(ctx, canonical)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	filtered := FilterByPreferences(candidates, prefs)

	scored := make([]domain.RankedResult, 0, len(filtered))
	for _, r := range filtered {
		score, dist := ScoreRestaurant(r, prefs)
		scored = append(scored, domain.RankedResult{
			Restaurant: r,
			AIScore:    score,
			DistanceKm: dist,
		})
	}

	ranked := Rank(scored, s.topN)

	if s.enricher != nil {
		ranked = s.enricher.Enrich(ctx, canonical, ranked)
	} else {
		for i := range ranked {
			degrade(&ranked[i], canonical)
		}
	}

	observability.ObserveRecommendation(canonical, len(ranked))
	return ranked, nil
}

// Health reports catalog reachability and size for the health endpoint.
func (s *RecommendService) Health(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}

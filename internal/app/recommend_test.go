package app_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"tastefinder/internal/app"
	"tastefinder/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	restaurants []domain.Restaurant
}

func (f *fakeRepo) Upsert(ctx context.Context, r domain.Restaurant) error { return nil }

func (f *fakeRepo) ByCity(ctx context.Context, city string) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	for _, r := range f.restaurants {
		if r.City == city {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ByCityAndArea(ctx context.Context, city, area string) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	for _, r := range f.restaurants {
		if r.City == city && strings.EqualFold(r.Area, area) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ResolveCity(ctx context.Context, city string) (string, error) {
	for _, r := range f.restaurants {
		if strings.EqualFold(r.City, city) {
			return r.City, nil
		}
	}
	return "", domain.ErrNotFound
}

func (f *fakeRepo) CountByCity(ctx context.Context, city string) (int, error) {
	out, _ := f.ByCity(ctx, city)
	return len(out), nil
}

func (f *fakeRepo) CountAll(ctx context.Context) (int, error) { return len(f.restaurants), nil }

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok2 := dst.(*domain.CitySummary); ok2 {
		*d = v.(domain.CitySummary)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

func hyderabadRepo() *fakeRepo {
	return &fakeRepo{restaurants: []domain.Restaurant{
		rest("A", "Gachibowli", 4.5, 500, "Biryani"),
		rest("B", "Gachibowli", 4.0, 1500, "Biryani"),
		rest("C", "Madhapur", 4.8, 300, "Cafe"),
	}}
}

func newService(repo domain.RestaurantRepository, cache domain.Cache) *app.RecommendService {
	enr := app.NewEnricher(nil, 2, time.Second)
	return app.NewRecommendService(repo, cache, enr, 10*time.Minute, 10)
}

// ---- tests ----

func TestCitySearch_ResolvesCaseInsensitively(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})

	out, err := s.CitySearch(context.Background(), "hyderabad")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.City != "Hyderabad" {
		t.Fatalf("expected canonical city name, got %q", out.City)
	}
	if out.TotalRestaurants != 3 {
		t.Fatalf("total = %d, want 3", out.TotalRestaurants)
	}
	if len(out.FamousFoods) == 0 || out.FamousFoods[0].Cuisine != "Biryani" {
		t.Fatalf("famous foods: %+v", out.FamousFoods)
	}
}

func TestCitySearch_UnknownCity(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})
	_, err := s.CitySearch(context.Background(), "Atlantis")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCitySearch_CacheMissThenHit(t *testing.T) {
	repo := hyderabadRepo()
	cache := &fakeCache{}
	s := newService(repo, cache)

	first, err := s.CitySearch(context.Background(), "Hyderabad")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// Mutate repo; second read must come from cache.
	repo.restaurants = repo.restaurants[:1]

	second, err := s.CitySearch(context.Background(), "Hyderabad")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if second.TotalRestaurants != first.TotalRestaurants {
		t.Fatalf("expected cached summary, got %+v", second)
	}
}

func TestRecommend_SpecScenario(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})
	prefs := domain.UserPreferences{
		Area:      "Gachibowli",
		Taste:     domain.TasteSpicy,
		BudgetMin: 400,
		BudgetMax: 1000,
	}

	got, err := s.Recommend(context.Background(), "Hyderabad", prefs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("expected only A, got %+v", got)
	}
	if got[0].AIScore < 0 || got[0].AIScore > 1 {
		t.Fatalf("ai_score out of range: %v", got[0].AIScore)
	}
	if got[0].MapLink == "" {
		t.Fatalf("expected a map link even without a places client")
	}
	if got[0].DistanceKm != nil {
		t.Fatalf("no GPS given; distance must be nil")
	}
}

func TestRecommend_InvalidPreferencesFailFast(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})

	_, err := s.Recommend(context.Background(), "Hyderabad", domain.UserPreferences{
		Taste: "umami", BudgetMin: 0, BudgetMax: 100,
	})
	if !errors.Is(err, domain.ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences for unknown taste, got %v", err)
	}

	_, err = s.Recommend(context.Background(), "Hyderabad", domain.UserPreferences{
		Taste: domain.TasteSpicy, BudgetMin: 900, BudgetMax: 100,
	})
	if !errors.Is(err, domain.ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences for inverted budget, got %v", err)
	}
}

func TestRecommend_ZeroMatchesIsNotAnError(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})
	got, err := s.Recommend(context.Background(), "Hyderabad", domain.UserPreferences{
		Area: "Banjara Hills", Taste: domain.TasteSpicy, BudgetMin: 0, BudgetMax: 9999,
	})
	if err != nil {
		t.Fatalf("zero matches must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	s := newService(hyderabadRepo(), &fakeCache{})
	prefs := domain.UserPreferences{Taste: domain.TasteSpicy, BudgetMin: 0, BudgetMax: 9999}

	a, err := s.Recommend(context.Background(), "Hyderabad", prefs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	b, err := s.Recommend(context.Background(), "Hyderabad", prefs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("pipeline not idempotent:\n%+v\n%+v", a, b)
	}
}

package domain

import "context"

type RestaurantRepository interface {
	// Write paths (importer)
	Upsert(ctx context.Context, r Restaurant) error

	// Read paths
	ByCity(ctx context.Context, city string) ([]Restaurant, error)
	ByCityAndArea(ctx context.Context, city, area string) ([]Restaurant, error)
	ResolveCity(ctx context.Context, city string) (string, error)
	CountByCity(ctx context.Context, city string) (int, error)
	CountAll(ctx context.Context) (int, error)
}

// PlaceStatus is what a live places lookup yields. IsOpen is nil when the
// provider did not report opening hours.
type PlaceStatus struct {
	IsOpen  *bool
	MapLink string
}

type PlacesClient interface {
	Lookup(ctx context.Context, name, city string, coords *Coords) (PlaceStatus, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

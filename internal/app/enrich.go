package app

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tastefinder/internal/adapters/observability"
	"tastefinder/internal/domain"
)

// Enricher augments ranked results with live open/closed status and a map
// link. Lookups run concurrently under a bounded fan-out, each with its own
// timeout; a failed lookup degrades that one result and never aborts the
// batch.
type Enricher struct {
	places      domain.PlacesClient
	workers     int64
	callTimeout time.Duration
}

func NewEnricher(places domain.PlacesClient, workers int, callTimeout time.Duration) *Enricher {
	if workers <= 0 {
		workers = 4
	}
	if callTimeout <= 0 {
		callTimeout = 3 * time.Second
	}
	return &Enricher{places: places, workers: int64(workers), callTimeout: callTimeout}
}

// Enrich returns a slice with the same length and order as results. Each
// entry is enriched in place by index, so order never depends on lookup
// completion timing.
func (e *Enricher) Enrich(ctx context.Context, city string, results []domain.RankedResult) []domain.RankedResult {
	out := make([]domain.RankedResult, len(results))
	copy(out, results)

	if e.places == nil {
		for i := range out {
			degrade(&out[i], city)
		}
		return out
	}

	sem := semaphore.NewWeighted(e.workers)
	var wg sync.WaitGroup

	for i := range out {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Request deadline hit: remaining entries degrade.
			degrade(&out[i], city)
			continue
		}
		wg.Add(1)
		go func(rr *domain.RankedResult) {
			defer wg.Done()
			defer sem.Release(1)

			cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
			defer cancel()

			st, err := e.places.Lookup(cctx, rr.Name, city, rr.Coords)
			if err != nil {
				observability.ObserveEnrichment("miss")
				log.Debug().Str("name", rr.Name).Err(err).Msg("places lookup failed")
				degrade(rr, city)
				return
			}
			observability.ObserveEnrichment("hit")
			if st.IsOpen != nil {
				rr.IsOpen = st.IsOpen
			} else {
				rr.IsOpen = rr.OpenNow
			}
			if st.MapLink != "" {
				rr.MapLink = st.MapLink
			} else {
				rr.MapLink = FallbackMapLink(rr.Name, city)
			}
		}(&out[i])
	}
	wg.Wait()
	return out
}

// degrade fills the live fields from whatever is known without the lookup:
// the stored open/closed snapshot (possibly nil, meaning unknown) and a
// synthesized map-search link.
func degrade(rr *domain.RankedResult, city string) {
	rr.IsOpen = rr.OpenNow
	rr.MapLink = FallbackMapLink(rr.Name, city)
}

// FallbackMapLink builds a maps search URL from name + city.
func FallbackMapLink(name, city string) string {
	q := url.QueryEscape(name + " " + city)
	return "https://www.google.com/maps/search/?api=1&query=" + q
}

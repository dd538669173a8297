package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tastefinder/internal/adapters/observability"
	"tastefinder/internal/domain"
)

// Client queries the Google Places "find place from text" endpoint for live
// open/closed status and a canonical map link. Calls are rate-limited
// client-side and retried on transient failures.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("places: no match")
	ErrUnauthorized = errors.New("places: request denied")
)

// findPlaceResponse mirrors the fields we request from the API.
type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID      string `json:"place_id"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"candidates"`
}

// Lookup resolves a restaurant by "<name> <city>" text query. Coordinates,
// when known, bias the search toward the right venue.
func (c *Client) Lookup(ctx context.Context, name, city string, coords *domain.Coords) (domain.PlaceStatus, error) {
	q := url.Values{}
	q.Set("input", strings.TrimSpace(name+" "+city))
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id,opening_hours")
	q.Set("key", c.key)
	if coords != nil {
		q.Set("locationbias", fmt.Sprintf("point:%f,%f", coords.Lat, coords.Lon))
	}
	u := c.base + "/findplacefromtext/json?" + q.Encode()

	var resp findPlaceResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return domain.PlaceStatus{}, err
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.PlaceStatus{}, ErrNotFound
	case "REQUEST_DENIED", "INVALID_REQUEST":
		return domain.PlaceStatus{}, fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	default:
		return domain.PlaceStatus{}, fmt.Errorf("places: status %s", resp.Status)
	}
	if len(resp.Candidates) == 0 {
		return domain.PlaceStatus{}, ErrNotFound
	}

	cand := resp.Candidates[0]
	st := domain.PlaceStatus{
		MapLink: "https://www.google.com/maps/place/?q=place_id:" + url.QueryEscape(cand.PlaceID),
	}
	if cand.OpeningHours != nil {
		st.IsOpen = cand.OpeningHours.OpenNow
	}
	return st, nil
}

// get performs a GET with client-side rate limiting, retries, and JSON decode
// into out. Retries on 429 and transient 5xx, honoring Retry-After when
// provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "tastefinder/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			observability.ObserveExternal("places", "findplacefromtext", resp.StatusCode, time.Since(start))
			return err

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("places", "findplacefromtext", resp.StatusCode, time.Since(start))
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("places", "findplacefromtext", resp.StatusCode, time.Since(start))
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if
// absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// Base doubles each attempt (200ms, 400ms, 800ms...), with up to +50% random
// jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}

package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tastefinder/internal/app"
	"tastefinder/internal/domain"
)

type Handlers struct{ S *app.RecommendService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/health", h.health)
	s.mux.Post("/v1/city/search", h.citySearch)
	s.mux.Post("/v1/restaurants/recommend", h.recommend)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- city search ----

type citySearchRequest struct {
	City string `json:"city"`
}

func (h *Handlers) citySearch(w http.ResponseWriter, r *http.Request) {
	var req citySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON with a city field")
		return
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "city must not be empty")
		return
	}

	out, err := h.S.CitySearch(r.Context(), city)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "city "+city+" not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write citySearch body")
	}
}

// ---- recommend ----

type recommendRequest struct {
	City            string  `json:"city"`
	Area            string  `json:"area"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	TastePreference string  `json:"taste_preference"`
	BudgetMin       int     `json:"budget_min"`
	BudgetMax       int     `json:"budget_max"`
}

type recommendResult struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Area          string   `json:"area"`
	Cuisine       string   `json:"cuisine"`
	BestDish      string   `json:"best_dish,omitempty"`
	FamousFor     string   `json:"famous_for,omitempty"`
	SpicyLevel    string   `json:"spicy_level"`
	FoodType      string   `json:"food_type"`
	CostForTwo    int      `json:"cost_for_two"`
	PriceCategory string   `json:"price_category,omitempty"`
	Rating        float64  `json:"rating"`
	Votes         int      `json:"votes"`
	DistanceKm    *float64 `json:"distance_km"`
	IsOpen        *bool    `json:"is_open"`
	MapLink       string   `json:"map_link"`
	AIScore       float64  `json:"ai_score"`
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "city must not be empty")
		return
	}

	// An omitted budget_max means "no upper bound".
	if req.BudgetMax == 0 {
		req.BudgetMax = 99999
	}
	prefs := domain.UserPreferences{
		Area:      strings.TrimSpace(req.Area),
		Taste:     domain.TastePreference(strings.ToLower(strings.TrimSpace(req.TastePreference))),
		BudgetMin: req.BudgetMin,
		BudgetMax: req.BudgetMax,
	}
	// Zero/zero means "no GPS"; the scoring engine then uses its neutral
	// distance fallback.
	if req.Latitude != 0 || req.Longitude != 0 {
		prefs.Coords = &domain.Coords{Lat: req.Latitude, Lon: req.Longitude}
	}
	if err := prefs.Validate(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid preferences", err.Error())
		return
	}

	ranked, err := h.S.Recommend(r.Context(), strings.TrimSpace(req.City), prefs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "city "+req.City+" not found")
		case errors.Is(err, domain.ErrInvalidPreferences):
			writeProblem(w, http.StatusBadRequest, "Invalid preferences", err.Error())
		default:
			writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	out := make([]recommendResult, 0, len(ranked))
	for _, rr := range ranked {
		out = append(out, toResult(rr))
	}
	writeJSON(w, http.StatusOK, out)
}

func toResult(rr domain.RankedResult) recommendResult {
	var dist *float64
	if rr.DistanceKm != nil {
		d := math.Round(*rr.DistanceKm*10) / 10
		dist = &d
	}
	return recommendResult{
		Name:          rr.Name,
		Address:       rr.Address,
		Area:          rr.Area,
		Cuisine:       strings.Join(rr.Cuisines, ", "),
		BestDish:      rr.BestDish,
		FamousFor:     rr.FamousFor,
		SpicyLevel:    rr.SpicyLevel,
		FoodType:      rr.FoodType,
		CostForTwo:    rr.CostForTwo,
		PriceCategory: rr.PriceCategory,
		Rating:        rr.Rating,
		Votes:         rr.Votes,
		DistanceKm:    dist,
		IsOpen:        rr.IsOpen,
		MapLink:       rr.MapLink,
		AIScore:       app.Round2(rr.AIScore),
	}
}

// ---- health ----

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	total, err := h.S.Health(r.Context())
	resp := map[string]any{
		"api":      "healthy",
		"database": "connected",
	}
	if err != nil {
		resp["database"] = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp["total_restaurants"] = total
	writeJSON(w, http.StatusOK, resp)
}

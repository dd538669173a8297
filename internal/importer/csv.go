package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tastefinder/internal/domain"
)

// Defaults applied to blank dataset cells, mirroring the published
// Hyderabad restaurant dataset conventions.
const (
	defaultCity       = "Hyderabad"
	defaultCost       = 500
	defaultSpicy      = "Medium"
	defaultPriceCat   = "₹₹"
	defaultOpening    = "11:00 AM"
	defaultClosing    = "11:00 PM"
	defaultFoodType   = "Both"
	defaultAreaName   = "Unknown"
	defaultRestaurant = "Unknown"
)

// ParseCSV reads the restaurant dataset. The first row must be a header;
// columns are matched by name so column order does not matter. Rows that
// cannot be parsed at all are skipped and counted, not fatal.
func ParseCSV(r io.Reader) ([]domain.Restaurant, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := idx[n]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var out []domain.Restaurant
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec := domain.Restaurant{
			Name:          orDefault(field(row, "restaurant_name", "name"), defaultRestaurant),
			City:          orDefault(field(row, "city"), defaultCity),
			Area:          orDefault(field(row, "area_locality", "area", "locality"), defaultAreaName),
			Address:       field(row, "address", "area_locality"),
			Cuisines:      splitCuisines(field(row, "cuisine", "cuisines")),
			Rating:        parseFloat(field(row, "rating"), 0),
			Votes:         parseInt(field(row, "number_of_reviews", "votes"), 0),
			CostForTwo:    parseInt(field(row, "average_cost_for_two_inr", "cost_for_two"), defaultCost),
			PriceCategory: orDefault(field(row, "price_category"), defaultPriceCat),
			SpicyLevel:    orDefault(field(row, "taste_profile_spicy_level", "spicy_level"), defaultSpicy),
			FoodType:      orDefault(field(row, "food_type"), defaultFoodType),
			BestDish:      field(row, "best_dish"),
			FamousFor:     field(row, "famous_for"),
			OpeningTime:   orDefault(field(row, "opening_time"), defaultOpening),
			ClosingTime:   orDefault(field(row, "closing_time"), defaultClosing),
		}
		if rec.Address == "" {
			rec.Address = rec.Area
		}

		lat := field(row, "latitude", "lat")
		lon := field(row, "longitude", "lon", "lng")
		if lat != "" && lon != "" {
			la, errA := strconv.ParseFloat(lat, 64)
			lo, errB := strconv.ParseFloat(lon, 64)
			if errA == nil && errB == nil {
				rec.Coords = &domain.Coords{Lat: la, Lon: lo}
			}
		}

		switch strings.ToLower(field(row, "open_now")) {
		case "yes", "true", "1":
			b := true
			rec.OpenNow = &b
		case "no", "false", "0":
			b := false
			rec.OpenNow = &b
		}

		out = append(out, rec)
	}
	return out, skipped, nil
}

func splitCuisines(s string) []string {
	if s == "" || strings.EqualFold(s, "not specified") {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

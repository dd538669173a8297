package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"tastefinder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func boolVal(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func coordVal(c *domain.Coords, lon bool) any {
	if c == nil {
		return nil
	}
	if lon {
		return c.Lon
	}
	return c.Lat
}

func (r *Repo) Upsert(ctx context.Context, rec domain.Restaurant) error {
	cuisines, _ := json.Marshal(rec.Cuisines)
	_, err := r.db.ExecContext(ctx, upsertRestaurantSQL,
		rec.Name,
		rec.City,
		rec.Area,
		rec.Address,
		coordVal(rec.Coords, false),
		coordVal(rec.Coords, true),
		string(cuisines),
		rec.Rating,
		rec.Votes,
		rec.CostForTwo,
		rec.PriceCategory,
		rec.SpicyLevel,
		rec.FoodType,
		rec.BestDish,
		rec.FamousFor,
		rec.OpeningTime,
		rec.ClosingTime,
		boolVal(rec.OpenNow),
	)
	return err
}

func (r *Repo) ByCity(ctx context.Context, city string) ([]domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, selectByCitySQL, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (r *Repo) ByCityAndArea(ctx context.Context, city, area string) ([]domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, selectByCityAreaSQL, city, area)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRestaurants(rows)
}

func (r *Repo) ResolveCity(ctx context.Context, city string) (string, error) {
	var canonical string
	err := r.db.QueryRowContext(ctx, resolveCitySQL, city).Scan(&canonical)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return canonical, nil
}

func (r *Repo) CountByCity(ctx context.Context, city string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countByCitySQL, city).Scan(&n)
	return n, err
}

func (r *Repo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countAllSQL).Scan(&n)
	return n, err
}

func scanRestaurants(rows *sql.Rows) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	for rows.Next() {
		var (
			rec          domain.Restaurant
			lat, lon     sql.NullFloat64
			cuisinesJSON []byte
			address      sql.NullString
			priceCat     sql.NullString
			spicy        sql.NullString
			foodType     sql.NullString
			bestDish     sql.NullString
			famousFor    sql.NullString
			openT        sql.NullString
			closeT       sql.NullString
			openNow      sql.NullBool
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.City,
			&rec.Area,
			&address,
			&lat, &lon,
			&cuisinesJSON,
			&rec.Rating,
			&rec.Votes,
			&rec.CostForTwo,
			&priceCat,
			&spicy,
			&foodType,
			&bestDish,
			&famousFor,
			&openT,
			&closeT,
			&openNow,
		); err != nil {
			return nil, err
		}

		// Coordinates are both-or-nothing; a half-set pair is treated as absent.
		if lat.Valid && lon.Valid {
			rec.Coords = &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
		}
		_ = json.Unmarshal(cuisinesJSON, &rec.Cuisines)
		rec.Address = address.String
		rec.PriceCategory = priceCat.String
		rec.SpicyLevel = spicy.String
		rec.FoodType = foodType.String
		rec.BestDish = bestDish.String
		rec.FamousFor = famousFor.String
		rec.OpeningTime = openT.String
		rec.ClosingTime = closeT.String
		if openNow.Valid {
			b := openNow.Bool
			rec.OpenNow = &b
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tastefinder/internal/domain"
	mysqlrepo "tastefinder/internal/storage/mysql"
)

// ---------- small helpers ----------

func pbool(b bool) *bool { return &b }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------

func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tastefinder",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "tastefinder")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records := []domain.Restaurant{
		{
			Name: "Bawarchi", City: "Hyderabad", Area: "RTC X Roads",
			Address:  "RTC X Roads, Hyderabad",
			Coords:   &domain.Coords{Lat: 17.4065, Lon: 78.4772},
			Cuisines: []string{"Biryani", "North Indian"},
			Rating:   4.3, Votes: 15230, CostForTwo: 600,
			PriceCategory: "₹₹", SpicyLevel: "High", FoodType: "Non-Veg",
			BestDish: "Chicken Biryani", FamousFor: "Dum Biryani",
			OpeningTime: "11:00 AM", ClosingTime: "11:00 PM",
			OpenNow: pbool(true),
		},
		{
			Name: "Chutneys", City: "Hyderabad", Area: "Banjara Hills",
			Cuisines: []string{"South Indian"},
			Rating:   4.1, Votes: 8200, CostForTwo: 450,
			SpicyLevel: "Low", FoodType: "Veg",
		},
	}
	for _, r := range records {
		if err := repo.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert %s: %v", r.Name, err)
		}
	}

	// Upsert again with a changed rating; must update, not duplicate.
	records[0].Rating = 4.4
	if err := repo.Upsert(ctx, records[0]); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	// ResolveCity is case-insensitive and returns the stored spelling.
	city, err := repo.ResolveCity(ctx, "hyderabad")
	if err != nil || city != "Hyderabad" {
		t.Fatalf("resolve: %q %v", city, err)
	}
	if _, err := repo.ResolveCity(ctx, "Atlantis"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := repo.ByCity(ctx, "Hyderabad")
	if err != nil {
		t.Fatalf("by city: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	var bawarchi domain.Restaurant
	for _, r := range got {
		if r.Name == "Bawarchi" {
			bawarchi = r
		}
	}
	if bawarchi.Rating != 4.4 {
		t.Fatalf("upsert did not update rating: %+v", bawarchi)
	}
	if bawarchi.Coords == nil || bawarchi.Coords.Lat != 17.4065 {
		t.Fatalf("coords roundtrip: %+v", bawarchi.Coords)
	}
	if len(bawarchi.Cuisines) != 2 || bawarchi.Cuisines[0] != "Biryani" {
		t.Fatalf("cuisines roundtrip: %+v", bawarchi.Cuisines)
	}
	if bawarchi.OpenNow == nil || !*bawarchi.OpenNow {
		t.Fatalf("open_now roundtrip: %+v", bawarchi.OpenNow)
	}

	area, err := repo.ByCityAndArea(ctx, "Hyderabad", "Banjara Hills")
	if err != nil || len(area) != 1 || area[0].Name != "Chutneys" {
		t.Fatalf("by city+area: %+v %v", area, err)
	}
	if area[0].Coords != nil {
		t.Fatalf("missing coords must scan as nil, got %+v", area[0].Coords)
	}

	n, err := repo.CountByCity(ctx, "Hyderabad")
	if err != nil || n != 2 {
		t.Fatalf("count by city: %d %v", n, err)
	}
	total, err := repo.CountAll(ctx)
	if err != nil || total != 2 {
		t.Fatalf("count all: %d %v", total, err)
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tastefinder/internal/adapters/observability"
	"tastefinder/internal/importer"
	"tastefinder/internal/shared"
	mysqlrepo "tastefinder/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	var path string
	flag.StringVar(&path, "csv", "", "path to the restaurant dataset CSV")
	flag.Parse()
	if path == "" {
		log.Fatal().Msg("-csv is required")
	}

	log.Info().
		Str("csv", path).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("open CSV failed")
	}
	defer f.Close()

	records, skipped, err := importer.ParseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("parse CSV failed")
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("unparseable rows skipped")
	}
	log.Info().Int("records", len(records)).Msg("dataset parsed")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var failed int64

	for _, rec := range records {
		rec := rec

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.Upsert(ctx, rec); err != nil {
				log.Warn().Str("name", rec.Name).Str("area", rec.Area).Err(err).Msg("upsert failed")
				atomic.AddInt64(&failed, 1)
			}
		}()
	}

	wg.Wait()
	log.Info().
		Int("records", len(records)).
		Int64("failed", failed).
		Msg("import completed")
}

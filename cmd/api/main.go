package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tastefinder/internal/adapters/http_server"
	"tastefinder/internal/adapters/observability"
	"tastefinder/internal/adapters/places"
	redisad "tastefinder/internal/adapters/redis"
	"tastefinder/internal/app"
	"tastefinder/internal/domain"
	"tastefinder/internal/shared"
	mysqlrepo "tastefinder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Places client is optional; without a key the enricher degrades every
	// result to stored status + fallback map links.
	var pc domain.PlacesClient
	if cfg.PlacesKey != "" {
		client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize places client")
		}
		pc = client
	}
	enr := app.NewEnricher(pc, cfg.EnrichWorkers, cfg.EnrichTimeout)

	svc := app.NewRecommendService(repo, cache, enr, cfg.CacheTTL, cfg.TopN)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

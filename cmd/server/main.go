package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/costing"
	"github.com/Simplici0/costworks/internal/db"
	"github.com/Simplici0/costworks/internal/logger"
	"github.com/Simplici0/costworks/internal/metrics"
	"github.com/Simplici0/costworks/internal/migrations"
	"github.com/Simplici0/costworks/internal/seed"
	"github.com/Simplici0/costworks/internal/store"
)

const serviceName = "costworks"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	lg, err := logger.New(logger.Options{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: serviceName})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer lg.Sync()
	zap.ReplaceGlobals(lg)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.Dialect(), cfg.MigrationsDir); err != nil {
			lg.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	if cfg.SeedDemoData {
		stats, err := seed.Run(context.Background(), database, seed.Config{Dialect: cfg.Dialect()})
		if err != nil {
			lg.Fatal("failed to seed demo data", zap.Error(err))
		}
		lg.Info("demo data seeded", zap.Int("inserts", stats.Inserts))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, cfg.MetricsPrefix)

	repo := store.New(database, cfg.Dialect(), m)
	srv := &server{
		engine:  costing.NewEngine(repo, lg, m),
		db:      database,
		metrics: m,
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(lg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lg.Info("listening",
		zap.String("addr", addr),
		zap.String("dialect", string(cfg.Dialect())),
		zap.String("environment", cfg.Env),
	)
	if err := httpServer.ListenAndServe(); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes(lg *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(lg))
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/products/{id}/breakdown", s.handleBreakdownJSON)
	r.Get("/products/{id}/breakdown.txt", s.handleBreakdownText)
	r.Get("/inventory/stock", s.handleStock)

	return r
}

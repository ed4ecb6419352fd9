// Package main provides the EliteAniCore app server entry point. It
// hosts the governance, promo, generation, auth, and directory APIs
// under a single process.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mythicam/eliteanicore/internal/db"
	"github.com/mythicam/eliteanicore/pkg/accounts"
	"github.com/mythicam/eliteanicore/pkg/auth"
	"github.com/mythicam/eliteanicore/pkg/generation"
	"github.com/mythicam/eliteanicore/pkg/governance"
	"github.com/mythicam/eliteanicore/pkg/promo"
)

// statusModules is the module list reported by GET /api/status.
var statusModules = []string{
	"Auth", "Stats", "Users", "Transactions", "Payments",
	"Generate", "Admin Governance", "AI Promo Engine", "Sentinel",
}

func main() {
	var (
		listenAddr   string
		databaseType string
		databaseDSN  string
	)

	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&databaseType, "db-type", "sqlite", "Database type (sqlite, mysql, or postgres)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if databaseDSN == "" {
		databaseDSN = os.Getenv("DATABASE_DSN")
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" && databaseType == "sqlite" {
		databaseType = v
	}

	gormDB, err := db.Connect(databaseType, databaseDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Stores and migrations.
	authCfg := auth.ConfigFromEnv()
	promoCfg := promo.ConfigFromEnv()
	genCfg := generation.ConfigFromEnv()

	govStore := governance.NewStore(gormDB)
	promoStore := promo.NewStore(gormDB)
	genStore := generation.NewStore(gormDB)
	authStore := auth.NewStore(gormDB)
	accountStore := accounts.NewStore(gormDB)

	for _, migrate := range []func() error{
		govStore.AutoMigrate,
		promoStore.AutoMigrate,
		genStore.AutoMigrate,
		func() error { return authStore.AutoMigrate(authCfg) },
		accountStore.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Generation gateway wiring. A missing API key leaves the primary
	// provider nil; the handler reports 503 until one is configured.
	var primary generation.ImageProvider
	if genCfg.APIKey != "" {
		provider, err := generation.NewGenAIProvider(ctx, genCfg.APIKey, genCfg.Model)
		if err != nil {
			logger.Error("failed to create image provider", "error", err)
			os.Exit(1)
		}
		primary = provider
		logger.Info("image provider configured", "model", genCfg.Model)
	} else {
		logger.Warn("image provider not configured, generation disabled (set GEMINI_API_KEY)")
	}

	var meter generation.UsageReporter
	if genCfg.MeteringURL != "" {
		meter = generation.NewHTTPReporter(genCfg.MeteringURL)
		logger.Info("usage metering enabled", "url", genCfg.MeteringURL)
	}

	fallback := generation.NewFallbackBuilder(genCfg.FallbackBaseURL)
	gateway := generation.NewGateway(primary, fallback, genStore, govStore, meter, logger)

	gate := auth.RequireAdmin(authCfg)
	if gate == nil {
		logger.Info("admin gating disabled (no ELITEANI_SESSION_SECRET)")
	}

	startedAt := time.Now()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.NewRouter(authStore, authCfg))
		r.Mount("/governance", governance.NewRouter(govStore, gate))
		r.Mount("/promo", promo.NewRouter(promoStore, govStore, promoCfg))
		r.Mount("/", accounts.NewRouter(accountStore))

		r.Post("/generate", generation.GenerateHandler(gateway))
		r.Get("/generations", generation.ListHandler(genStore, genCfg.HistoryLimit))
		r.Post("/studio/action", generation.StudioActionHandler(govStore))
		r.Post("/sentinel/heartbeat", governance.HeartbeatHandler(govStore))
		r.Get("/status", governance.StatusHandler(govStore, startedAt, statusModules))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		logger.Info("eliteani server ready", "listen", listenAddr, "dbType", databaseType)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("eliteani server stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"leavetrack/internal/db"
	"leavetrack/internal/domain/directory"
	"leavetrack/internal/domain/leave"
	"leavetrack/internal/domain/reports"
	"leavetrack/internal/platform/config"
	"leavetrack/internal/platform/jobs"
	"leavetrack/internal/platform/metrics"
	"leavetrack/internal/transport/http/api"
	authhandler "leavetrack/internal/transport/http/handlers/auth"
	directoryhandler "leavetrack/internal/transport/http/handlers/directory"
	leavehandler "leavetrack/internal/transport/http/handlers/leave"
	reportshandler "leavetrack/internal/transport/http/handlers/reports"
	"leavetrack/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	dirService := directory.NewService(directory.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool), dirService)
	dirService.Provisioner = leaveService
	reportsStore := reports.NewStore(pool)

	collector := metrics.New()

	jobService := jobs.New(pool, leaveService)
	jobService.Metrics = collector
	jobService.Start(ctx, cfg.CarryForwardInterval)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	// Auth runs before the logger so the request log carries the user id.
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(chimw.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(dirService, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/me", authHandler.HandleMe)

		directoryhandler.NewHandler(dirService).RegisterRoutes(r)
		leaveHandler := leavehandler.NewHandler(leaveService, jobService)
		leaveHandler.Metrics = collector
		leaveHandler.RegisterRoutes(r)
		reportshandler.NewHandler(reportsStore, dirService).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}
	})

	log.Printf("leavetrack server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// Package main is the entry point for the restaurant discovery API
// server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tablescout/tablescout/internal/api"
	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/config"
	"github.com/tablescout/tablescout/internal/db"
	"github.com/tablescout/tablescout/internal/health"
	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/ranking"
	"github.com/tablescout/tablescout/internal/restaurant"
	"github.com/tablescout/tablescout/internal/tracing"
	"github.com/tablescout/tablescout/internal/user"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("TableScout API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	// Tracing
	tracerProvider, err := tracing.NewProvider(context.Background(), tracing.Config{
		ServiceName:  "tablescout-api",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporterType,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Ranking calibration. Load failure is non-fatal: defaults keep
	// the service ranking.
	cal, err := ranking.LoadCalibration(cfg.RankingCalibrationPath)
	if err != nil {
		logger.Warn("using default ranking calibration", "error", err)
	}

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		restaurantStore  restaurant.Store
		preferenceStore  user.PreferenceStore
		interactionStore user.InteractionStore
		dbChecker        api.HealthChecker
		sqlDB            *sql.DB
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		restaurantStore = restaurant.NewPostgresStore(sqlDB, logger)
		preferenceStore = user.NewPostgresPreferenceStore(sqlDB, logger)
		interactionStore = user.NewPostgresInteractionStore(sqlDB, logger)
		dbChecker = health.NewDBChecker(sqlDB)
		logger.Info("using postgres stores")
	} else {
		restaurantStore = restaurant.NewInMemoryStore()
		preferenceStore = user.NewInMemoryPreferenceStore()
		interactionStore = user.NewInMemoryInteractionStore()
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Metrics registry with process and Go runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Rate limit store: Redis when configured, else per-instance
	// in-memory.
	var (
		rateLimitStore middleware.RateLimitStore
		redisChecker   api.HealthChecker
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient, logger, metrics)
		redisChecker = health.NewRedisChecker(redisClient)
		logger.Info("using redis rate limit store")
	} else {
		memStore := middleware.NewInMemoryRateLimitStore()
		rateLimitStore = memStore

		// Periodic cleanup so idle buckets do not accumulate.
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				memStore.Cleanup()
			}
		}()
	}

	globalLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.GlobalRateLimit,
		WindowDuration:    time.Minute,
	}
	searchLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.SearchRateLimit,
		WindowDuration:    time.Minute,
	}

	// Handlers
	searcher := restaurant.NewSearcher(restaurantStore, preferenceStore, interactionStore, cal, logger)
	searchHandlers := api.NewSearchHandlers(searcher, metrics, logger)
	restaurantHandlers := api.NewRestaurantHandlers(restaurantStore, logger)
	preferenceHandlers := api.NewPreferenceHandlers(preferenceStore, logger)
	interactionHandlers := api.NewInteractionHandlers(interactionStore, logger)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	searchLimiter := middleware.RateLimiter(rateLimitStore, searchLimit, middleware.UserKeyFunc())

	mux := http.NewServeMux()
	mux.Handle("/restaurants", searchLimiter(restaurantHandlers.HandleRestaurants(searchHandlers)))
	mux.HandleFunc("/restaurants/", restaurantHandlers.HandleRestaurantByID)
	mux.HandleFunc("/users/", preferenceHandlers.HandlePreferences)
	mux.HandleFunc("/interactions", interactionHandlers.Record)
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"tablescout-api","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Middleware chain, outermost first: RequestID -> Tracing ->
	// Logging -> HTTPMetrics -> global RateLimiter -> CORS -> auth.
	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		handler = auth.OptionalBearer(auth.NewJWTService(cfg.JWTSecret))(handler)
	}
	handler = middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins))(handler)
	handler = middleware.RateLimiter(rateLimitStore, globalLimit, middleware.IPKeyFunc())(handler)
	handler = middleware.HTTPMetrics(metrics)(handler)
	handler = middleware.Logging(logger)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing("tablescout-api")(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/shiva/tripwise/config"
	"github.com/shiva/tripwise/internal/handler"
	"github.com/shiva/tripwise/internal/middleware"
	"github.com/shiva/tripwise/internal/repository"
	"github.com/shiva/tripwise/internal/service"
	"github.com/shiva/tripwise/migrations"
	"github.com/shiva/tripwise/pkg/cache"
	"github.com/shiva/tripwise/pkg/db"
	"github.com/shiva/tripwise/pkg/metrics"
	"github.com/shiva/tripwise/pkg/tracing"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Tracing ─────────────────────────────────────────
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.OTLPEndpoint, version, cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()
	if cfg.Tracing.OTLPEndpoint != "" {
		log.Printf("✓ Tracing to %s", cfg.Tracing.OTLPEndpoint)
	}

	// ── Catalog ─────────────────────────────────────────
	var pgPool *pgxpool.Pool
	catalog := service.DefaultCatalog()
	if cfg.Catalog.Source == config.CatalogPostgres {
		pgPool, err = db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatalf("failed to connect to PostgreSQL: %v", err)
		}
		defer pgPool.Close()
		log.Println("✓ PostgreSQL connected")

		if cfg.Postgres.AutoMigrate {
			if _, err := db.Migrate(ctx, pgPool, migrations.FS); err != nil {
				log.Fatalf("failed to migrate catalog schema: %v", err)
			}
		}

		catalog, err = service.LoadCatalog(ctx, repository.NewPlaceRepository(pgPool))
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
	}
	places, pairs := catalog.Size()
	metrics.SetCatalogSize(places, pairs)
	log.Printf("✓ Catalog ready: %d places, %d city pairs", places, pairs)

	// ── Distance cache ──────────────────────────────────
	var redisClient *redis.Client
	var distanceCache service.DistanceCache
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		distanceCache = cache.NewMemoryDistanceCache(cfg.Cache.Size, cfg.Cache.TTL)
		log.Printf("✓ In-memory distance cache (%d entries, ttl %s)", cfg.Cache.Size, cfg.Cache.TTL)
	case config.CacheRedis:
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		fingerprint := catalog.Fingerprint()
		distanceCache = cache.NewRedisDistanceCache(redisClient, cfg.Cache.TTL, fingerprint)
		log.Printf("✓ Redis connected (catalog %s)", fingerprint)
	default:
		log.Println("Distance cache disabled")
	}

	// ── Initialize layers ───────────────────────────────
	resolver := service.NewResolver(catalog)
	planner := service.NewPlanner(resolver, distanceCache)

	routeHandler := handler.NewRouteHandler(planner)
	pageHandler := handler.NewPageHandler(planner, cfg.UI.ResultDelay)
	healthHandler := handler.NewHealthHandler(catalog)
	if pgPool != nil {
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return db.HealthCheck(ctx, pgPool)
		})
	}
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return cache.HealthCheck(ctx, redisClient)
		})
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy)
		defer limiter.Stop()
	}

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()
	router.Use(middleware.Recoverer, middleware.Tracing, middleware.RequestLogger)

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/", pageHandler.Index).Methods(http.MethodGet)

	// API v1 routes.
	api := router.PathPrefix("/api/v1").Subrouter()
	if limiter != nil {
		api.Use(limiter.Middleware)
	}
	api.HandleFunc("/routes", routeHandler.SearchRoutes).Methods(http.MethodGet)
	api.HandleFunc("/routes", routeHandler.SearchRoutesJSON).Methods(http.MethodPost)
	api.HandleFunc("/modes", routeHandler.ListModes).Methods(http.MethodGet)
	api.HandleFunc("/places", routeHandler.ListPlaces).Methods(http.MethodGet)

	// Wrap with CORS so browser clients can call the API.
	handler := middleware.CORS(router)

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout + cfg.UI.ResultDelay,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server gracefully stopped")
}

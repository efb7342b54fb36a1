package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"cloudunify-backend/internal/auth"
	"cloudunify-backend/internal/cache"
	"cloudunify-backend/internal/handlers"
	"cloudunify-backend/internal/ingest"
	"cloudunify-backend/internal/middleware"
	"cloudunify-backend/internal/natsbus"
	"cloudunify-backend/internal/seed"
	"cloudunify-backend/internal/storage"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("WARN JWT_SECRET is not set; login is disabled until it is configured")
	}

	// Database handle. Connectivity problems are logged, not fatal: the
	// server starts anyway and queries fail per request until the database
	// comes back.
	db, err := sqlx.Open("postgres", buildDSN())
	if err != nil {
		log.Fatalf("Failed to open database handle: %v", err)
	}
	defer db.Close()

	connected := false
	for i := 0; i < 5; i++ {
		if err := db.Ping(); err == nil {
			connected = true
			break
		} else {
			log.Printf("DB connection attempt %d failed: %v", i+1, err)
		}
		time.Sleep(2 * time.Second)
	}

	store := storage.NewStorage(db)
	if connected {
		log.Println("Connected to database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Printf("WARN Schema initialization failed: %v", err)
		}
		cancel()
	} else {
		log.Println("WARN Starting without database connectivity; schema initialization skipped")
	}

	seeder := seed.NewSeeder(store)

	// Redis is optional; without it the rate limits are simply not applied.
	var cacheClient cache.Client
	if os.Getenv("REDIS_URL") != "" {
		redisClient, err := cache.NewRedisClient()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cacheClient = redisClient
	} else {
		log.Println("INFO REDIS_URL not set; rate limiting disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS inventory ingest is optional; enabled when NATS_URL is set.
	var inventoryConsumer *ingest.InventoryConsumer
	if os.Getenv("NATS_URL") != "" {
		natsClient, err := natsbus.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsClient.Close()

		inventoryConsumer = ingest.NewInventoryConsumer(natsClient.JS(), seeder)
		if err := inventoryConsumer.Start(ctx); err != nil {
			log.Fatalf("Failed to start inventory consumer: %v", err)
		}
	} else {
		log.Println("INFO NATS_URL not set; inventory ingest disabled")
	}

	var seedLimiter func(http.Handler) http.Handler
	if cacheClient != nil {
		seedLimiter = middleware.RateLimitSeed(cacheClient)
	}

	h := handlers.New(store, seeder, seedLimiter)
	ah := auth.NewHandler(store)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	if cacheClient != nil {
		r.With(middleware.RateLimitLogin(cacheClient)).Post("/auth/login", ah.Login)
	} else {
		r.Post("/auth/login", ah.Login)
	}
	r.Post("/auth/logout", ah.Logout)
	r.With(auth.Middleware).Get("/auth/me", ah.Me)

	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:    ":" + getEnv("PORT", "3001"),
		Handler: r,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if inventoryConsumer != nil {
			_ = inventoryConsumer.Stop()
		}
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "cloudunify") +
		" password=" + getEnv("DB_PASSWORD", "cloudunify") +
		" dbname=" + getEnv("DB_NAME", "cloudunify") +
		" sslmode=" + getEnv("DB_SSLMODE", "disable")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/api/routes"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/media"
	"AgroFeed/internal/core/posts"
	"AgroFeed/internal/core/users"
	postgresRepo "AgroFeed/internal/db/postgres"
	"AgroFeed/internal/upstream"
)

func main() {
	// Local development convenience; production sets real env vars
	_ = godotenv.Load()

	upstreamURL := os.Getenv("UPSTREAM_URL")
	if upstreamURL == "" {
		upstreamURL = "http://localhost:3000" // Local dev API
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-session-secret-change-me"
	}

	// Snapshot cache is optional: without DATABASE_URL the feed still works,
	// it just has no stale fallback when the upstream is down
	var store feed.SnapshotStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database:", err)
		}

		log.Println("Connected to snapshot database")

		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect:", err)
		}

		if err := goose.Up(db, "internal/db/migrations"); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		log.Println("Migrations completed successfully")

		store = postgresRepo.NewSnapshotRepository(db)
	} else {
		log.Println("DATABASE_URL not set, snapshot fallback disabled")
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per IP
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	// Initialize adapters and services
	mediaResolver := media.NewResolver(upstreamURL, media.DefaultGalleryMax)
	authorAdapter := users.NewAdapter(mediaResolver)
	postAdapter := posts.NewAdapter(mediaResolver, authorAdapter)

	upstreamClient := upstream.NewClient(upstreamURL, 15*time.Second)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	registry := feed.NewRegistry(feed.DefaultConfig(), postAdapter, upstreamClient, store, logger)

	session := middleware.NewWindowSession([]byte(sessionSecret), registry)
	viewer := middleware.NewViewer([]byte(os.Getenv("JWT_SECRET")))

	routes.RegisterFeedRoutes(r, registry, session, viewer)
	routes.RegisterPostRoutes(r, registry, session, viewer)
	routes.RegisterViewerRoutes(r, upstreamClient, authorAdapter, registry, session, viewer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	fmt.Printf("AgroFeed gateway starting on port %s\n", port)
	fmt.Printf("Upstream URL: %s\n", upstreamURL)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

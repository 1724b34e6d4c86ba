package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/learnhub/backend/internal/config"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/internal/repository/postgres"
	"github.com/learnhub/backend/internal/repository/redis"
	"github.com/learnhub/backend/internal/service/cleanup"
	"github.com/learnhub/backend/internal/service/session"
	"github.com/learnhub/backend/internal/service/shortener"
	transportHttp "github.com/learnhub/backend/internal/transport/http"
	"github.com/learnhub/backend/internal/transport/http/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMin) * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable:", err)
	}

	log.Println("Running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Repositories (Persistence Layer)
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	courseRepo := postgres.NewCourseRepo(db)
	linkRepo := postgres.NewShortLinkRepo(db)

	// Redis (optional cache)
	if err := redis.InitRedis(); err != nil {
		log.Printf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()

	var cache shortener.CacheRepository
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	// Services (Business Logic Layer)
	sessionService := session.NewService(sessionRepo, cfg.SessionTTLDays)
	shortenerService := shortener.NewService(linkRepo, cache)

	// Background workers
	cleanupWorker := cleanup.NewWorker(sessionRepo)
	go cleanupWorker.Start()
	defer cleanupWorker.Stop()

	// HTTP Handlers (API Layer)
	authHandler := transportHttp.NewAuthHandler(userRepo, sessionService)
	courseHandler := transportHttp.NewCourseHandler(courseRepo, userRepo, sessionService, shortenerService)
	shortLinkHandler := transportHttp.NewShortLinkHandler(shortenerService)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.LoginRatePerSec), cfg.LoginRateBurst)

	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /login/{$}", limiter.Limit(authHandler.Login))
	mux.HandleFunc("POST /logout/{$}", authHandler.Logout)
	mux.HandleFunc("POST /signup/{$}", limiter.Limit(authHandler.Signup))
	mux.HandleFunc("POST /validate/{$}", authHandler.Validate)

	// Teacher routes
	mux.HandleFunc("GET /teacher/course/all/{$}", courseHandler.TeacherCourses)

	// Course routes
	mux.HandleFunc("GET /course/detail/{id}/{$}", courseHandler.CourseDetail)
	mux.HandleFunc("GET /course/{id}/comments/{$}", courseHandler.Comments)
	mux.HandleFunc("POST /course/{id}/comments/{$}",
		middleware.RequireSession(courseHandler.CreateComment, sessionService))
	mux.HandleFunc("POST /course/{id}/rating/{$}",
		middleware.RequireSession(courseHandler.RateCourse, sessionService))

	// Short URL redirects
	mux.HandleFunc("GET /short/{token}/{$}", shortLinkHandler.Redirect)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	handler := middleware.EnableCORS(cfg.AllowedOrigins)(middleware.ObserveRequests(mux))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Printf("Server is listening on port %s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Server is shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

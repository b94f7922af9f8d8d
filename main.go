package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"loksangam/internal/auth"
	"loksangam/internal/config"
	"loksangam/internal/database"
	eventdb "loksangam/internal/events/db"
	"loksangam/internal/events/event_api"
	events "loksangam/internal/events/service"
	"loksangam/internal/kafka"
	"loksangam/internal/logger"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting LokSangam event service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()

	bunDB, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	if err := database.Init(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to initialise schema: %v", err))
	}
	if err := database.SeedAdmin(ctx, bunDB, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to seed admin user: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("SQLite ready at %s", cfg.Database.DSN))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	var sessionCache *auth.SessionCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, sessions will rely on token expiry only: %v", cfg.Redis.Addr, err))
	} else {
		sessionCache = auth.NewSessionCache(redisClient)
		log.Info("REDIS", fmt.Sprintf("Session cache connected to %s", cfg.Redis.Addr))
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()
	if err := producer.EnsureTopicsExist(cfg.Kafka.Brokers); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	authService := auth.NewService(&auth.DB{Bun: bunDB}, sessionCache, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	eventService := events.NewService(&eventdb.DB{Bun: bunDB}, producer, log)
	handler := event_api.NewHandler(eventService, authService, log)

	r := chi.NewRouter()
	r.Use(requestLogger(log))
	handler.RegisterRoutes(r, auth.Middleware(cfg.Auth.JWTSecret, sessionCache, log))
	log.Info("ROUTER", "Routes registered")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("LokSangam event service running on %s", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Shutdown complete")
	}
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			log.LogRequest(r.Method, r.URL.Path, recorder.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

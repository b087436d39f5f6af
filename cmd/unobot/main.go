// cmd/unobot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iamnolimit/tg-uno-bot/internal/config"
	"github.com/iamnolimit/tg-uno-bot/internal/handlers"
	"github.com/iamnolimit/tg-uno-bot/internal/middleware"
	"github.com/iamnolimit/tg-uno-bot/internal/repository"
	"github.com/iamnolimit/tg-uno-bot/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisDB := getEnvInt("REDIS_DB", 0)

	repo, err := repository.NewRedisRepository(ctx, redisAddr, redisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer repo.Close()

	cacheClient := redis.NewClient(&redis.Options{Addr: redisAddr, DB: redisDB})
	defer cacheClient.Close()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)
	settings, err := config.New(ctx, dsn, cacheClient)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer settings.Close()

	manager := session.NewManager(repo, settings, logger)
	if err := manager.Resume(ctx); err != nil {
		logger.WithError(err).Warn("resume persisted games")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.HealthHandler())
	mux.Handle("/events", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.EventsWSHandler(logger, manager),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Infof("Running on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server exited: %v", err)
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

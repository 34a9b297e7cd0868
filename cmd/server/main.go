package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jeyphieee/Sentivents-Backend/internal/app"
	"github.com/jeyphieee/Sentivents-Backend/internal/config"
	"github.com/jeyphieee/Sentivents-Backend/internal/database"
	"github.com/jeyphieee/Sentivents-Backend/internal/logging"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
	"github.com/jeyphieee/Sentivents-Backend/internal/moderation"
	"github.com/jeyphieee/Sentivents-Backend/internal/redis"
	"github.com/jeyphieee/Sentivents-Backend/internal/sentiment"
	"github.com/jeyphieee/Sentivents-Backend/internal/server"
	"github.com/jeyphieee/Sentivents-Backend/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	// Repositories
	authorRepo := database.NewAuthorRepo(pool)
	commentRepo := database.NewCommentRepo(pool)
	ratingRepo := database.NewRatingRepo(pool)
	responseRepo := database.NewResponseRepo(pool)

	// Abuse guard over Redis-backed moderation state
	moderationStore := redis.NewModerationStore(redisClient, clock)
	guard := moderation.NewGuard(moderationStore, commentRepo, clock, moderation.Config{
		BurstInterval:    cfg.BurstInterval,
		LookbackWindow:   cfg.LookbackWindow,
		MildCooldown:     cfg.MildCooldown,
		ModerateCooldown: cfg.ModerateCooldown,
		SevereCooldown:   cfg.SevereCooldown,
	})

	// Sentiment pipeline over the RapidAPI vendors
	translator := sentiment.NewTranslatorClient("https://"+cfg.TranslatorHost, cfg.RapidAPIKey, cfg.PipelineTimeout)
	classifier := sentiment.NewClassifierClient("https://"+cfg.ClassifierHost, cfg.RapidAPIKey, cfg.PipelineTimeout)
	pipeline := sentiment.NewPipeline(translator, classifier)

	appSvc := app.NewService(authorRepo, commentRepo, ratingRepo, responseRepo, guard, pipeline, clock, cfg.RejectOnClassifyFailure)
	aggregator := app.NewAggregator(responseRepo)

	srv := server.NewServer(cfg, appSvc, aggregator, redisClient, pool)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

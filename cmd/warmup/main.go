// The warmup binary pre-populates the cache for the most viewed published
// articles. It is meant to run from cron or a deploy hook, paced so the
// database never sees a thundering herd of its own making.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"newsdesk-backend/infrastructure/config"
	"newsdesk-backend/infrastructure/di"
	"newsdesk-backend/pkg/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	logger := container.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Warm-up interrupted, stopping")
		cancel()
	}()

	ids, err := container.ArticleService.TopArticleIDs(ctx, cfg.WarmupTopN)
	if err != nil {
		logger.Fatal("Failed to list articles to warm", zap.Error(err))
	}
	logger.Info("Starting cache warm-up",
		zap.Int("articles", len(ids)),
		zap.Int("concurrency", cfg.WarmupConcurrency),
		zap.Int("rate_per_sec", cfg.WarmupRatePerSec),
	)

	// Pace warm fetches so the database sees a steady trickle
	bucket := ratelimit.NewTokenBucket(cfg.WarmupRatePerSec, cfg.WarmupRatePerSec)
	warm := func(ctx context.Context, id string) error {
		if err := bucket.Wait(ctx); err != nil {
			return err
		}
		return container.ArticleService.WarmArticle(ctx, id)
	}

	result := container.ArticleService.CacheManager().WarmUp(ctx, ids, warm, cfg.WarmupConcurrency)
	logger.Info("Warm-up complete",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
	)
}

// Command backfill embeds catalog rows that are missing their vector. Meant
// to run as a cron or one-off job after catalog imports.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/db/postgres"
	dbRedis "github.com/mibarrio/buscador/internal/db/redis"
	"github.com/mibarrio/buscador/internal/domain"
	logpkg "github.com/mibarrio/buscador/internal/logger"
	"github.com/mibarrio/buscador/internal/metrics"
	"github.com/mibarrio/buscador/internal/repository/catalog"
	"github.com/mibarrio/buscador/internal/repository/embcache"
	openaiEmb "github.com/mibarrio/buscador/internal/transport/openai"
	backfilluc "github.com/mibarrio/buscador/internal/usecase/backfill"
)

func main() {
	batchSize := flag.Int("batch", 200, "rows per entity type to embed in one run")
	timeout := flag.Duration("timeout", 15*time.Minute, "overall run deadline")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbConn, err := postgres.NewConnection(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: time.Duration(cfg.Database.ConnLifetimeMin) * time.Minute,
	})
	if err != nil {
		logger.Fatal("Failed to connect to catalog database", zap.Error(err))
	}
	defer dbConn.Close()

	metrics.RegisterEmbeddingMetrics()

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(embedder, cacheStore, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	svc := backfilluc.New(catalog.New(dbConn), embedder, logger)

	stats, err := svc.Run(ctx, *batchSize)
	if err != nil {
		logger.Error("Backfill failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Backfill finished",
		zap.Int("embedded", stats.Embedded),
		zap.Int("skipped", stats.Skipped),
	)
}

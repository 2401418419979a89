package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/labelpadhega/backend/config"
	httpDelivery "github.com/labelpadhega/backend/internal/delivery/http"
	"github.com/labelpadhega/backend/internal/infrastructure/cache"
	"github.com/labelpadhega/backend/internal/infrastructure/ocr"
	"github.com/labelpadhega/backend/internal/infrastructure/openfoodfacts"
	"github.com/labelpadhega/backend/internal/infrastructure/watsonx"
	"github.com/labelpadhega/backend/internal/logger"
	"github.com/labelpadhega/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting labelpadhega backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Infrastructure
	catalogClient := openfoodfacts.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, zlog)
	generator := watsonx.NewClient(
		cfg.Watsonx.APIKey,
		cfg.Watsonx.ProjectID,
		cfg.Watsonx.BaseURL,
		cfg.Watsonx.ModelID,
		cfg.Watsonx.Timeout,
		zlog,
	)
	extractor := ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.APIKey, zlog)
	detailCache := cache.NewMemoryCache()

	if generator.Configured() {
		zlog.Info("generative service configured",
			zap.String("model", cfg.Watsonx.ModelID),
			zap.String("base_url", cfg.Watsonx.BaseURL))
	} else {
		zlog.Warn("generative credentials not configured, analyses will return placeholders")
	}
	if !extractor.Configured() {
		zlog.Warn("text extraction not configured, image analyses will use placeholder ingredients")
	}

	// Usecase layer
	resolver := usecase.NewResolverService(catalogClient, detailCache, usecase.ResolverConfig{
		DefaultLimit: cfg.Search.DefaultLimit,
		CacheTTL:     cfg.Cache.TTL,
	}, zlog)

	analysis := usecase.NewAnalysisService(resolver, generator, extractor, zlog)

	// Delivery
	handler := httpDelivery.NewHandler(resolver, analysis)
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

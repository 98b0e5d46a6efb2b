package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartsave/freshness/config"
	httpDelivery "github.com/smartsave/freshness/internal/delivery/http"
	"github.com/smartsave/freshness/internal/domain"
	"github.com/smartsave/freshness/internal/infrastructure/analyzeapi"
	"github.com/smartsave/freshness/internal/infrastructure/archive"
	"github.com/smartsave/freshness/internal/infrastructure/cache"
	"github.com/smartsave/freshness/internal/infrastructure/catalog"
	"github.com/smartsave/freshness/internal/infrastructure/store"
	"github.com/smartsave/freshness/internal/infrastructure/vision"
	"github.com/smartsave/freshness/internal/logger"
	"github.com/smartsave/freshness/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

// run wires the service and blocks until shutdown
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SmartSave freshness service v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("scorer", cfg.Scoring.Provider),
		zap.String("cache", cfg.Cache.Type),
		zap.String("store", cfg.Store.Type))

	ctx := context.Background()
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	inventory, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load inventory catalog: %w", err)
	}
	appLogger.Info("Inventory loaded", zap.Int("items", inventory.Len()), zap.String("path", cfg.Catalog.Path))

	scoreCache, closeCache, err := buildCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	closers = append(closers, closeCache)

	pricingStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize pricing store: %w", err)
	}
	closers = append(closers, closeStore)

	imageArchive, err := buildArchive(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image archive: %w", err)
	}

	seed := cfg.Detector.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scorer, closeScorer := buildScorer(cfg, scoreCache, seed, appLogger)
	closers = append(closers, closeScorer)

	analysisService := usecase.NewAnalysisService(
		usecase.NewKeywordDetector(rand.New(rand.NewSource(seed))),
		usecase.NewProductResolver(inventory),
		usecase.NewRequestBuilder(rand.New(rand.NewSource(seed+1)), time.Now),
		scorer,
		imageArchive,
		usecase.AnalysisServiceConfig{ScoringTimeout: cfg.Scoring.Timeout},
		appLogger,
	)
	pricingService := usecase.NewPricingService(pricingStore, appLogger)

	handler := httpDelivery.NewHandler(scorer, analysisService, pricingService, inventory, appLogger)
	router := httpDelivery.SetupRouter(cfg, handler, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLogger.Info("Received shutdown signal, gracefully shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("http server error: %w", err)
	}

	// In-flight analyses get up to one scoring timeout to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Scoring.Timeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	appLogger.Info("HTTP server stopped gracefully")
	return nil
}

// buildScorer selects the scoring backend. Model scorers sit behind the
// caching, sanitizing scoring service; the remote backend already does that.
func buildScorer(cfg *config.Config, scoreCache domain.CacheRepository, seed int64, appLogger *zap.Logger) (domain.FreshnessScorer, func()) {
	var model domain.FreshnessScorer
	closeScorer := func() {}

	switch cfg.Scoring.Provider {
	case "remote":
		appLogger.Info("Using remote scoring backend", zap.String("url", cfg.Remote.URL))
		return analyzeapi.NewClient(cfg.Remote.URL, appLogger), closeScorer
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			appLogger.Warn("Gemini API key not configured (GEMINI_API_KEY), scoring calls will fail")
		}
		gemini := vision.NewGeminiScorer(vision.GeminiConfig{
			APIKey:             cfg.Gemini.APIKey,
			Model:              cfg.Gemini.Model,
			RateLimitPerMinute: cfg.Scoring.RateLimitPerMinute,
		}, appLogger)
		closeScorer = func() {
			if err := gemini.Close(); err != nil {
				appLogger.Warn("Failed to close Gemini client", zap.Error(err))
			}
		}
		model = gemini
	case "demo":
		appLogger.Info("Using simulated demo scorer")
		model = vision.NewDemoScorer(rand.New(rand.NewSource(seed + 2)))
	default:
		if cfg.OpenAI.APIKey == "" {
			appLogger.Warn("OpenAI API key not configured (OPENAI_API_KEY), scoring calls will fail")
		}
		model = vision.NewOpenAIScorer(vision.OpenAIConfig{
			APIKey:             cfg.OpenAI.APIKey,
			BaseURL:            cfg.OpenAI.BaseURL,
			Model:              cfg.OpenAI.Model,
			MaxTokens:          cfg.OpenAI.MaxTokens,
			RateLimitPerMinute: cfg.Scoring.RateLimitPerMinute,
		}, appLogger)
	}

	return usecase.NewScoringService(model, scoreCache, usecase.ScoringServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, appLogger), closeScorer
}

func buildCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache()
	return memoryCache, func() { memoryCache.Close() }, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (domain.PricingStore, func(), error) {
	if cfg.Store.Type == "postgres" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pgStore, pgStore.Close, nil
	}
	return store.NewMemoryStore(), func() {}, nil
}

// buildArchive returns nil when archiving is disabled
func buildArchive(ctx context.Context, cfg *config.Config) (domain.ImageArchive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	s3Archive, err := archive.NewS3Archive(archive.Config{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		Region:    cfg.Archive.Region,
		UseSSL:    cfg.Archive.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3Archive.EnsureBucket(ensureCtx); err != nil {
		return nil, err
	}
	return s3Archive, nil
}

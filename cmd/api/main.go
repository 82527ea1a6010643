package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"lookbook/internal/adapter/repo"
	"lookbook/internal/batch"
	"lookbook/internal/billing"
	"lookbook/internal/domain"
	"lookbook/internal/history"
	"lookbook/internal/http/handlers"
	"lookbook/internal/http/httpapi"
	"lookbook/internal/infra"
	"lookbook/internal/infra/credentials"
	"lookbook/internal/middleware"
	"lookbook/internal/poses"
	"lookbook/internal/preview"
	"lookbook/internal/providers/analysis"
	"lookbook/internal/providers/generation"
	"lookbook/internal/providers/skeleton"
	"lookbook/internal/session"
	"lookbook/internal/storage"
)

const analysisCacheTTL = 30 * time.Minute

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)
	creds := credentials.NewStore(runner)

	files, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}
	geminiKey, err := creds.Resolve(ctx, credentials.ProviderGemini, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini api key lookup failed")
	}

	gen, err := newGenerator(ctx, cfg, creds, files, geminiKey, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.GenerationBackend).Msg("failed to configure generation backend")
	}

	var poseRepo domain.PoseRepository = repo.NewPoseRepository(runner)
	if cfg.PoseLibraryPath != "" {
		lib, err := poses.LoadLibraryFile(cfg.PoseLibraryPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.PoseLibraryPath).Msg("failed to load pose library")
		}
		poseRepo = lib
	}
	var stickman *poses.StickmanResolver
	if cfg.SkeletonBaseURL != "" {
		skeletonKey, err := creds.Resolve(ctx, credentials.ProviderSkeleton, "")
		if err != nil {
			logger.Warn().Err(err).Msg("skeleton api key lookup failed")
		}
		stickman = poses.NewStickmanResolver(poseRepo, skeleton.NewClient(skeleton.Options{
			BaseURL: cfg.SkeletonBaseURL,
			APIKey:  skeletonKey,
		}), &logger)
	}

	var analyzer analysis.Analyzer = analysis.Static{}
	if geminiKey != "" {
		gemini, err := analysis.NewGeminiClient(ctx, geminiKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini unavailable, using static analysis")
		} else {
			analyzer = analysis.Cached(analysis.WithFallback(gemini, &logger), analysisCacheTTL)
		}
	}

	var store session.Store = session.NewMemoryStore()
	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb, session.DefaultTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, session state is kept in memory")
	}
	sessions := session.NewManager(session.Options{
		Store:     store,
		Debouncer: session.NewDebouncer(store, cfg.StateDebounce, &logger),
		Files:     files,
		Logger:    &logger,
	})

	ledger := billing.NewLedger(runner)
	recorder := history.NewRecorder(runner)
	executor := batch.NewExecutor(batch.Options{
		Generator: gen,
		Ledger:    ledger,
		History:   recorder,
		Logger:    &logger,
	})
	registry := batch.NewRegistry(executor, cfg.BatchRetention)

	origins := middleware.NewOrigins(cfg.CORSAllowedOrigins)
	app := handlers.NewApp(handlers.App{
		Logger:   &logger,
		Sessions: sessions,
		Poses:    poseRepo,
		Stickman: stickman,
		Analyzer: analyzer,
		Previews: preview.NewAssembler(preview.Options{
			Generator:   gen,
			Concurrency: cfg.PreviewConcurrency,
			Logger:      &logger,
		}),
		Batches:         registry,
		Ledger:          ledger,
		History:         recorder,
		CreditsPerImage: cfg.CreditsPerImage,
		Upgrader:        websocket.Upgrader{CheckOrigin: origins.CheckOrigin},
	})

	router := httpapi.NewRouter(app, httpapi.Options{
		Config: cfg,
		Logger: logger,
		Static: http.FileServer(http.Dir(files.BasePath())),
	})
	server := infra.NewHTTPServer(cfg, router, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(runCtx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	registry.StopAll()
	if err := registry.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("batches still running at shutdown")
	}
	sessions.Flush(shutdownCtx)
	logger.Info().Msg("server stopped")
}

func newGenerator(ctx context.Context, cfg *infra.Config, creds *credentials.Store, files *storage.FileStore, geminiKey string, logger *infra.Logger) (generation.Generator, error) {
	if cfg.GenerationBackend == "gemini" {
		return generation.NewGeminiBackend(ctx, geminiKey, generation.GeminiOptions{
			Model:         cfg.GeminiImageModel,
			Store:         files,
			Logger:        logger,
			RatePerMinute: cfg.GenerationRatePerMinute,
		})
	}
	key, err := creds.Resolve(ctx, credentials.ProviderGeneration, cfg.GenerationAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("generation api key lookup failed")
	}
	return generation.NewClient(generation.Options{
		APIKey:         key,
		BaseURL:        cfg.GenerationBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.GenerationTimeout,
		RatePerMinute:  cfg.GenerationRatePerMinute,
	})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"

	"clipforge/internal/adapter/repo"
	"clipforge/internal/attach"
	"clipforge/internal/cancelflag"
	"clipforge/internal/http/handlers"
	httpapi "clipforge/internal/http/httpapi"
	"clipforge/internal/infra"
	"clipforge/internal/infra/credentials"
	"clipforge/internal/infra/geoip"
	"clipforge/internal/middleware"
	"clipforge/internal/orchestrator"
	"clipforge/internal/providers/motion"
	"clipforge/internal/providers/transcribe"
	"clipforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	creds := credentials.NewStore(dbpool)
	motionKey := cfg.MotionAPIKey
	if motionKey == "" {
		if motionKey, err = creds.MotionAPIKey(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to load motion api key")
		}
	}
	if motionKey == "" {
		logger.Fatal().Msg("motion api key is not configured")
	}
	transcribeKey := cfg.TranscribeAPIKey
	if transcribeKey == "" {
		if transcribeKey, err = creds.TranscribeAPIKey(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to load transcribe api key")
		}
	}

	gen := motion.NewClient(motion.Options{
		APIKey:  motionKey,
		BaseURL: cfg.MotionBaseURL,
		Logger:  &logger,
	})
	transcriber := transcribe.NewClient(transcribe.Options{
		APIKey:  transcribeKey,
		BaseURL: cfg.TranscribeBaseURL,
	})

	var store storage.Gateway
	switch cfg.StorageBackend {
	case "supabase":
		store, err = storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
	default:
		store, err = storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL, cfg.JWTSecret)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	var countryLookup middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable")
		} else {
			countryLookup = resolver.CountryCode
		}
	}

	workers, err := ants.NewPool(cfg.MaxConcurrent)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create worker pool")
	}
	defer workers.Release()

	artifacts := repo.NewArtifactRepository(dbpool)
	cancels := cancelflag.NewRedisStore(rdb, 0)
	var buffer attach.Store = attach.NewMemoryStore(cfg.AttachCapacity, cfg.AttachTTL)
	if cfg.AttachBackend == "redis" {
		buffer = attach.NewRedisStore(rdb, cfg.AttachTTL)
	}
	prep := attach.NewPreprocessor(buffer, transcriber, attach.NewHTTPFetcher(nil), logger)

	controller := orchestrator.NewController(gen, cancels, cfg.PollInterval, cfg.MaxPollAttempts, logger)
	placer := orchestrator.NewPlacer(store, artifacts, cfg.PermanentLinkTTL, cfg.EphemeralTTL, logger)
	mux := orchestrator.NewMultiplexer(controller, gen, placer, logger)

	app := handlers.NewApp(logger, prep, buffer, mux, artifacts, cancels, workers)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		JWTSecret:       cfg.JWTSecret,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

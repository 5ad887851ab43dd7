package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/realm-quiz/internal/config"
	"github.com/gokatarajesh/realm-quiz/internal/logging"
	"github.com/gokatarajesh/realm-quiz/internal/question"
	"github.com/gokatarajesh/realm-quiz/internal/question/ai"
	"github.com/gokatarajesh/realm-quiz/internal/question/corpus"
	"github.com/gokatarajesh/realm-quiz/internal/question/external"
	"github.com/gokatarajesh/realm-quiz/internal/server"
	"github.com/gokatarajesh/realm-quiz/internal/stats"
)

// Application aggregates shared infrastructure (engine, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	engine *question.Engine
	redis  *redis.Client
	http   *http.Server
}

// New bootstraps logger, corpus, selection engine, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	file, err := loadCorpus(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	repo, err := file.Repository()
	if err != nil {
		return nil, fmt.Errorf("build question repository: %w", err)
	}
	if repo.Size() == 0 {
		// Not fatal: the process stays up but never reports ready.
		logger.Error().Err(question.ErrEmptyCorpus).Msg("no questions loaded; service will not become ready")
	} else if _, general := repo.Candidates(question.GeneralRealm); len(general) == 0 {
		logger.Error().Err(question.ErrNoFallback).Msg("service will not become ready")
	}
	logger.Info().
		Int("questions", repo.Size()).
		Strs("realms", repo.Realms()).
		Msg("question corpus loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := question.NewEngine(repo, question.EngineOptions{
		DefaultCount: cfg.Selection.QuestionsPerSession,
		MaxCount:     cfg.Selection.MaxQuestionsPerSession,
		Cooldown: question.CooldownConfig{
			Period:    cfg.Selection.CooldownPeriod,
			BatchSize: cfg.Selection.QuestionsPerSession,
		},
		Metrics: question.NewMetrics(registry),
	}, logger)

	checks := map[string]server.ReadinessCheck{
		"corpus": func(context.Context) error {
			return engine.CheckReady()
		},
	}

	var (
		redisClient *redis.Client
		statsStore  stats.Store
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		statsSvc := stats.NewService(redisClient, logger, stats.ServiceOptions{EntryTTL: cfg.Redis.StatsTTL})
		statsStore = statsSvc
		checks["redis"] = statsSvc.Ping
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; player stats endpoints disabled")
	}

	apiServer := server.NewHTTPServer(cfg, logger, registry, server.Handlers{
		Questions: question.NewHTTPHandler(engine, logger),
		Stats:     stats.NewHTTPHandler(statsStore, logger),
	}, checks)

	return &Application{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// loadCorpus merges the built-in corpus, an optional corpus file, any
// generated questions and any OpenTDB imports. Remote failures are logged
// and skipped.
func loadCorpus(ctx context.Context, cfg *config.App, logger zerolog.Logger) (corpus.File, error) {
	file, err := corpus.Builtin()
	if err != nil {
		return corpus.File{}, fmt.Errorf("load built-in corpus: %w", err)
	}

	if path := cfg.Selection.CorpusPath; path != "" {
		extra, err := corpus.Load(path)
		if err != nil {
			return corpus.File{}, err
		}
		logger.Info().Str("path", path).Int("questions", extra.Size()).Msg("corpus file loaded")
		file = file.Merge(extra)
	}

	if cfg.AI.Enabled() {
		gen := ai.NewGenerator(ai.Config{
			GeneratorURL: cfg.AI.GeneratorURL,
			GeneratorKey: cfg.AI.GeneratorKey,
			Timeout:      cfg.AI.HTTPTimeout,
		}, logger)
		for _, realm := range cfg.AI.Realms {
			qs, err := gen.GenerateRealm(ctx, realm, cfg.AI.QuestionsPerRealm)
			if err != nil {
				logger.Warn().Err(err).Str("realm", realm).Msg("generated questions unavailable")
				continue
			}
			file.AddRealm(realm, qs)
			logger.Info().Str("realm", realm).Int("questions", len(qs)).Msg("generated questions imported")
		}
	}

	if cfg.OpenTDB.Enabled() {
		client := external.NewOpenTDBClient(cfg.OpenTDB.BaseURL, &http.Client{Timeout: cfg.OpenTDB.HTTPTimeout}, logger)
		realms := make([]string, 0, len(cfg.OpenTDB.Realms))
		for realm := range cfg.OpenTDB.Realms {
			realms = append(realms, realm)
		}
		sort.Strings(realms)
		for _, realm := range realms {
			category := cfg.OpenTDB.Realms[realm]
			qs, err := client.FetchRealm(ctx, category, cfg.OpenTDB.QuestionsPerRealm)
			if err != nil {
				logger.Warn().Err(err).Str("realm", realm).Str("category", category).Msg("opentdb import unavailable")
				continue
			}
			file.AddRealm(realm, qs)
			logger.Info().Str("realm", realm).Int("questions", len(qs)).Msg("opentdb questions imported")
		}
	}
	return file, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-academy/internal/ai"
	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/coach"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/httpapi"
	"github.com/p-n-ai/pai-academy/internal/platform/cache"
	"github.com/p-n-ai/pai-academy/internal/platform/config"
	"github.com/p-n-ai/pai-academy/internal/platform/database"
	"github.com/p-n-ai/pai-academy/internal/platform/metrics"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/session"
)

// mockFeedback answers prompt analyses when no AI provider is configured.
const mockFeedback = "AI 코치가 설정되지 않았습니다. 역할, 맥락, 행동, 형식을 모두 적었는지 스스로 점검해 보세요."

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// app is the wired server and the resources it must release.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	checks := map[string]httpapi.Checker{}

	catalog, err := curriculum.Load(cfg.ContentPath)
	if err != nil {
		return nil, err
	}

	var kv cache.Store = cache.NewMemory()
	var redis *cache.Cache
	if cfg.Cache.URL != "" {
		redis, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { redis.Close() })
		checks["cache"] = redis
		kv = redis
		slog.Info("cache connected")
	}

	var store progress.Store = progress.NewMemoryStore()
	var events analytics.EventLogger = analytics.NopEventLogger{}
	if cfg.Progress.Store == config.StorePostgres {
		db, err := database.Open(ctx, cfg.Database.URL,
			database.WithPoolSize(cfg.Database.MaxConns, cfg.Database.MinConns))
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			a.close()
			return nil, err
		}
		pg, err := progress.NewPostgresStore(db.Pool)
		if err != nil {
			a.close()
			return nil, err
		}
		store = pg
		if redis != nil {
			store = progress.NewCachedStore(pg, redis, cfg.Cache.TTL())
		}
		events = analytics.NewPostgresEventLogger(db.Pool)
		checks["database"] = db
		slog.Info("database connected")
	}

	var budget ai.BudgetChecker = ai.NewInMemoryBudget(int64(cfg.AI.DailyTokenBudget))
	if redis != nil {
		budget = ai.NewCacheBudget(redis, int64(cfg.AI.DailyTokenBudget))
	}

	m := metrics.New()
	tracker := progress.NewService(catalog, store,
		progress.WithEventLogger(events),
		progress.WithMetrics(m),
	)
	coachEngine := coach.NewEngine(coach.EngineConfig{
		AIRouter: newAIRouter(cfg),
		Cache:    kv,
		Budget:   budget,
		Events:   events,
		Metrics:  m,
	})
	sessions := session.NewHandler(session.Deps{
		Catalog:     catalog,
		Coordinator: progress.NewCoordinator(tracker),
		Events:      events,
		Metrics:     m,
	})

	api := httpapi.New(httpapi.Config{
		Catalog:        catalog,
		Progress:       tracker,
		Coach:          coachEngine,
		Sessions:       sessions,
		Metrics:        m,
		Events:         events,
		RatePerMinute:  cfg.AI.RatePerMinute,
		TrustedProxies: cfg.Server.TrustedProxies,
		Checks:         checks,
	})
	a.handler = api.Handler()

	slog.Info("academy ready",
		"store", cfg.Progress.Store,
		"lessons", catalog.TotalLessons(),
		"grades", len(catalog.Grades()),
	)
	return a, nil
}

func newAIRouter(cfg *config.Config) *ai.Router {
	router := ai.NewRouter()
	if cfg.AI.OpenAI.APIKey != "" {
		router.Register("openai", ai.NewOpenAIProvider(cfg.AI.OpenAI.APIKey))
	}
	if cfg.AI.DeepSeek.APIKey != "" {
		router.Register("deepseek", ai.NewDeepSeekProvider(cfg.AI.DeepSeek.APIKey))
	}
	if cfg.AI.OpenRouter.APIKey != "" {
		router.Register("openrouter", ai.NewOpenRouterProvider(cfg.AI.OpenRouter.APIKey))
	}
	if cfg.AI.Ollama.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(cfg.AI.Ollama.URL))
	}
	if cfg.AI.Anthropic.APIKey != "" {
		p, err := ai.NewAnthropicProvider(cfg.AI.Anthropic.APIKey)
		if err != nil {
			slog.Warn("anthropic provider disabled", "error", err)
		} else {
			router.Register("anthropic", p)
		}
	}
	if cfg.AI.Google.APIKey != "" {
		router.Register("google", ai.NewGoogleProvider(cfg.AI.Google.APIKey))
	}

	if !cfg.HasAIProvider() {
		slog.Warn("no AI provider configured, using mock")
		router.Register("mock", ai.NewMockProvider(mockFeedback))
		return router
	}
	// Cheaper models first for prompt reviews, stronger writers first for
	// rewrites.
	router.Prefer(ai.TaskPromptAnalysis, "deepseek", "google", "ollama", "openai", "openrouter", "anthropic")
	router.Prefer(ai.TaskPromptRewrite, "anthropic", "openai", "google", "deepseek", "openrouter", "ollama")
	return router
}

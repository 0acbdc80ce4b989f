package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chemibot/backend/internal/api"
	"chemibot/backend/internal/cache"
	"chemibot/backend/internal/config"
	"chemibot/backend/internal/database"
	"chemibot/backend/internal/inference"
	"chemibot/backend/internal/llm"
	"chemibot/backend/internal/repository"
	"chemibot/backend/internal/service"
)

const (
	shutdownTimeout     = 10 * time.Second
	warmupRetryInterval = 3 * time.Second
)

// App holds the process-wide dependencies. It is built once by NewApp.
type App struct {
	Config      *config.Config
	Repository  repository.Repository
	Engine      *inference.Engine
	Cache       cache.AnswerCache
	Predictions *service.PredictionService
	Auth        *service.AuthService
	Server      *http.Server
}

// NewApp wires the application. It does not touch the model or the store; both are
// initialized lazily.
func NewApp(cfg *config.Config) (*App, error) {
	// --- Model ---
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	engine := inference.NewEngine(provider, inference.Options{
		MaxInputWords: cfg.MaxInputWords,
		Decoding: llm.DecodingOptions{
			MaxTokens:         cfg.MaxOutputTokens,
			RepetitionPenalty: cfg.RepetitionPenalty,
			NoRepeatNgramSize: cfg.NoRepeatNgramSize,
		},
	})

	// --- Storage ---
	// The store connects on first use, so a missing database does not block startup.
	repo := newRepository(cfg)

	// An empty REDIS_URL yields a cache that never hits.
	answers, err := cache.NewRedisCache(context.Background(), cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	// --- Services and HTTP ---
	predictions := service.NewPredictionService(engine, repo, answers, cfg.HistoryLimit)
	auth := service.NewAuthService(repo, 0) // 0 selects the default bcrypt cost.

	router := api.NewRouter(api.NewPredictionHandler(predictions), api.NewAuthHandler(auth), api.RouterOptions{
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		GenerationTimeout: cfg.GenerationTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Generation routes are bounded by their own middleware timeout.
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:      cfg,
		Repository:  repo,
		Engine:      engine,
		Cache:       answers,
		Predictions: predictions,
		Auth:        auth,
		Server:      server,
	}, nil
}

// --- Construction helpers ---

func newProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.InferenceBackend {
	case config.BackendOpenAI:
		return llm.NewOpenAIProvider(llm.OpenAIOptions{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.ModelName,
		}), nil
	case config.BackendOllama:
		return llm.NewOllamaProvider(llm.OllamaOptions{
			BaseURL:     cfg.OllamaURL,
			Model:       cfg.ModelName,
			BaseModel:   cfg.BaseModel,
			PullMissing: cfg.PullMissingModel,
		})
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.InferenceBackend)
	}
}

func newRepository(cfg *config.Config) repository.Repository {
	if cfg.StoreDriver == config.StoreSQLite {
		return repository.NewSQLiteRepository(database.NewSQLite(cfg.SQLitePath))
	}
	return repository.NewMongoRepository(database.NewMongo(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout))
}

// --- Lifecycle ---

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr, "backend", a.Config.InferenceBackend,
			"model", a.Engine.ModelName(), "store", a.Config.StoreDriver)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// The server is already accepting requests, so /health answers during the load.
	if a.Config.WarmupOnStart {
		go a.warmupInBackground(ctx)
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Drain in-flight requests before returning.
	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

// warmupInBackground retries the warmup until the model is loaded or ctx ends. The
// backend is often still starting when the service comes up.
func (a *App) warmupInBackground(ctx context.Context) {
	for {
		result, err := a.Predictions.Warmup(ctx)
		if err == nil {
			slog.Info("Warmup finished", "status", result.Status, "store_connected", result.StoreConnected)
			return
		}
		slog.Debug("Model not ready yet, retrying warmup", "error", err, "retry_in", warmupRetryInterval)

		select {
		case <-ctx.Done():
			return
		case <-time.After(warmupRetryInterval):
		}
	}
}

// Close releases the store and the cache.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Repository.Close(ctx); err != nil {
		slog.Error("Failed to close store", "error", err)
	}
	if err := a.Cache.Close(); err != nil {
		slog.Error("Failed to close answer cache", "error", err)
	}
}

// --- Entry point ---

// Run is the process entry point; it returns the exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource(cfg)

	application, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer application.Close()

	// SIGINT and SIGTERM cancel ctx, which triggers the graceful shutdown in Serve.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	slog.Info("Server exited")
	return 0
}

// --- Logging ---

func logConfigSource(cfg *config.Config) {
	if cfg.ConfigFile != "" {
		slog.Info("Successfully loaded configuration from file.", "file", cfg.ConfigFile)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

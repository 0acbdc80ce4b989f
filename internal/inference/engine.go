package inference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	app_errors "chemibot/backend/internal/errors"
	"chemibot/backend/internal/llm"
)

var (
	// ErrModelUnavailable is returned when the model could not be loaded.
	ErrModelUnavailable = fmt.Errorf("%w: model unavailable", app_errors.ErrUnavailable)
	// ErrGeneration is returned when the backend failed to produce an answer.
	ErrGeneration = fmt.Errorf("%w: generation failed", app_errors.ErrUnavailable)
	// ErrBusy is returned when the caller gave up waiting for the model.
	ErrBusy = fmt.Errorf("%w: model busy", app_errors.ErrUnavailable)
)

// Options holds the fixed parameters applied to every generation.
type Options struct {
	MaxInputWords int
	Decoding      llm.DecodingOptions
}

// Engine owns the process-wide model. It loads the model lazily on first use and runs
// at most one load or generation at a time; the critical section spans input
// truncation, generation and output decoding.
type Engine struct {
	provider llm.Provider
	opts     Options
	sem      *semaphore.Weighted
	loaded   atomic.Bool
}

func NewEngine(provider llm.Provider, opts Options) *Engine {
	return &Engine{
		provider: provider,
		opts:     opts,
		sem:      semaphore.NewWeighted(1),
	}
}

// Loaded reports whether the model has been loaded. It never blocks; once true it
// stays true for the life of the engine.
func (e *Engine) Loaded() bool {
	return e.loaded.Load()
}

// ModelName is the name of the served model.
func (e *Engine) ModelName() string {
	return e.provider.Name()
}

// Fingerprint identifies the model together with every setting that shapes its
// answers. Two engines with equal fingerprints produce the same answer for a question.
func (e *Engine) Fingerprint() string {
	d := e.opts.Decoding
	return fmt.Sprintf("%s|in=%d|max=%d|rep=%g|ngram=%d",
		e.provider.Name(), e.opts.MaxInputWords, d.MaxTokens, d.RepetitionPenalty, d.NoRepeatNgramSize)
}

// Warmup loads the model if it is not loaded yet. It is safe to call repeatedly.
func (e *Engine) Warmup(ctx context.Context) error {
	if e.Loaded() {
		return nil
	}
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.sem.Release(1)
	return e.ensureLoaded(ctx)
}

// Generate answers a single question.
func (e *Engine) Generate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text must not be empty", app_errors.ErrValidation)
	}

	if err := e.acquire(ctx); err != nil {
		return "", err
	}
	defer e.sem.Release(1)

	if err := e.ensureLoaded(ctx); err != nil {
		return "", err
	}

	prompt := llm.TruncateInput(text, e.opts.MaxInputWords)
	start := time.Now()
	raw, err := e.provider.Generate(ctx, prompt, e.opts.Decoding)
	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		slog.Error("Generation failed", "model", e.provider.Name(), "error", err)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	answer := llm.BlockRepeatedNgrams(llm.CleanOutput(raw), e.opts.Decoding.NoRepeatNgramSize)
	if answer == "" {
		generationsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("%w: empty answer", ErrGeneration)
	}

	generationsTotal.WithLabelValues("success").Inc()
	slog.Debug("Generated answer", "model", e.provider.Name(), "prompt_words", len(strings.Fields(prompt)),
		"duration", time.Since(start))
	return answer, nil
}

func (e *Engine) acquire(ctx context.Context) error {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return nil
}

// ensureLoaded must be called with the semaphore held.
func (e *Engine) ensureLoaded(ctx context.Context) error {
	if e.loaded.Load() {
		return nil
	}

	slog.Info("Loading model", "model", e.provider.Name())
	start := time.Now()
	if err := e.provider.Load(ctx); err != nil {
		slog.Error("Failed to load model", "model", e.provider.Name(), "error", err)
		return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	elapsed := time.Since(start)
	modelLoadSeconds.Set(elapsed.Seconds())
	modelLoaded.Set(1)
	e.loaded.Store(true)
	slog.Info("Model loaded", "model", e.provider.Name(), "duration", elapsed)
	return nil
}

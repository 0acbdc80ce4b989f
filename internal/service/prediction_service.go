package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chemibot/backend/internal/cache"
	app_errors "chemibot/backend/internal/errors"
	"chemibot/backend/internal/model"
	"chemibot/backend/internal/repository"
)

const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

// ModelEngine is the part of inference.Engine the service depends on.
type ModelEngine interface {
	Generate(ctx context.Context, text string) (string, error)
	Warmup(ctx context.Context) error
	Loaded() bool
	// Fingerprint scopes cached answers to the model and its generation settings.
	Fingerprint() string
}

// PredictResult is the answer to one question. Degraded is set when the answer could
// not be recorded in the history store.
type PredictResult struct {
	Output   string `json:"output" example:"An acid is a substance that donates protons."`
	Degraded bool   `json:"degraded,omitempty"`
}

// WarmupResult reports the state of the model and the store after a warmup.
type WarmupResult struct {
	Status         string `json:"status" example:"ready"`
	ModelLoaded    bool   `json:"model_loaded"`
	StoreConnected bool   `json:"store_connected"`
}

type PredictionService struct {
	engine       ModelEngine
	repo         repository.Repository
	cache        cache.AnswerCache
	historyLimit int
	now          func() time.Time
}

func NewPredictionService(engine ModelEngine, repo repository.Repository, answers cache.AnswerCache, historyLimit int) *PredictionService {
	if answers == nil {
		answers = cache.Nop()
	}
	return &PredictionService{
		engine:       engine,
		repo:         repo,
		cache:        answers,
		historyLimit: historyLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Predict answers text and records the pair. A record is written only for a
// successful generation; a failed write does not fail the request.
func (s *PredictionService) Predict(ctx context.Context, text string) (*PredictResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", app_errors.ErrValidation)
	}

	scope := s.engine.Fingerprint()
	output, hit := s.cache.Get(ctx, scope, text)
	if hit {
		cacheHits.Inc()
	} else {
		var err error
		output, err = s.engine.Generate(ctx, text)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, scope, text, output)
	}

	result := &PredictResult{Output: output}
	record := &model.Prediction{Input: text, Output: output, Time: s.now()}
	if err := s.repo.InsertPrediction(ctx, record); err != nil {
		persistenceFailures.WithLabelValues("insert").Inc()
		slog.Error("Failed to record prediction", "error", err)
		result.Degraded = true
	}
	return result, nil
}

// History returns the most recent predictions, newest first. Read failures yield an
// empty list.
func (s *PredictionService) History(ctx context.Context) []model.HistoryItem {
	records, err := s.repo.ListRecentPredictions(ctx, s.historyLimit)
	if err != nil {
		persistenceFailures.WithLabelValues("list").Inc()
		slog.Error("Failed to read prediction history", "error", err)
		return []model.HistoryItem{}
	}

	items := make([]model.HistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, model.HistoryItem{Input: r.Input, Output: r.Output})
	}
	return items
}

// Warmup loads the model, then connects the store. A store failure degrades the
// result; a model failure is returned as an error.
func (s *PredictionService) Warmup(ctx context.Context) (*WarmupResult, error) {
	if err := s.engine.Warmup(ctx); err != nil {
		return nil, err
	}

	result := &WarmupResult{Status: StatusReady, ModelLoaded: true, StoreConnected: true}
	if err := s.repo.Connect(ctx); err != nil {
		slog.Warn("Store is not reachable during warmup", "error", err)
		result.Status = StatusDegraded
		result.StoreConnected = false
	}
	return result, nil
}

// Readiness reads the model and store latches without blocking.
func (s *PredictionService) Readiness() model.Readiness {
	return model.Readiness{
		ModelLoaded:    s.engine.Loaded(),
		StoreConnected: s.repo.Connected(),
	}
}

package interfaces

import (
	"context"

	"chemibot/backend/internal/model"
	"chemibot/backend/internal/service"
)

// The API layer depends on these contracts rather than on the concrete services, so
// handlers can be tested against mocks.

// PredictionService answers questions and reports model and store state.
type PredictionService interface {
	Predict(ctx context.Context, text string) (*service.PredictResult, error)
	History(ctx context.Context) []model.HistoryItem
	Warmup(ctx context.Context) (*service.WarmupResult, error)
	Readiness() model.Readiness
}

// AuthService registers and verifies email/password accounts.
type AuthService interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

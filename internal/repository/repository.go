package repository

import (
	"context"

	"chemibot/backend/internal/model"
)

// Repository is the persistence wrapper shared by the MongoDB and SQLite stores.
// Implementations connect lazily; every method other than Connected and Close
// connects on first use.
type Repository interface {
	Connect(ctx context.Context) error
	// Connected never blocks and stays true once a connection succeeded.
	Connected() bool

	InsertPrediction(ctx context.Context, p *model.Prediction) error
	// ListRecentPredictions returns at most limit records, newest first.
	ListRecentPredictions(ctx context.Context, limit int) ([]model.Prediction, error)

	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	Close(ctx context.Context) error
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"chemibot/backend/internal/database"
	"chemibot/backend/internal/model"
)

type sqliteRepository struct {
	store *database.SQLite
}

func NewSQLiteRepository(store *database.SQLite) Repository {
	return &sqliteRepository{store: store}
}

func (r *sqliteRepository) Connect(ctx context.Context) error {
	_, err := r.store.DB(ctx)
	return err
}

func (r *sqliteRepository) Connected() bool {
	return r.store.Connected()
}

func (r *sqliteRepository) InsertPrediction(ctx context.Context, p *model.Prediction) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := "INSERT INTO history (id, input, output, time) VALUES (?, ?, ?, ?)"
	if _, err := db.ExecContext(ctx, query, p.ID, p.Input, p.Output, p.Time.UTC()); err != nil {
		return fmt.Errorf("could not insert prediction: %w", err)
	}
	return nil
}

func (r *sqliteRepository) ListRecentPredictions(ctx context.Context, limit int) ([]model.Prediction, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT id, input, output, time FROM history ORDER BY time DESC LIMIT ?"
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]model.Prediction, 0, limit)
	for rows.Next() {
		var p model.Prediction
		if err := rows.Scan(&p.ID, &p.Input, &p.Output, &p.Time); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *sqliteRepository) CreateUser(ctx context.Context, u *model.User) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := "INSERT INTO users (id, email, password, created_at) VALUES (?, ?, ?, ?)"
	_, err = db.ExecContext(ctx, query, u.ID, u.Email, u.Password, u.CreatedAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicate
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT id, email, password, created_at FROM users WHERE email = ?"
	var u model.User
	err = db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) Close(ctx context.Context) error {
	return r.store.Close()
}

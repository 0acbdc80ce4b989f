package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	app_errors "chemibot/backend/internal/errors"
	"chemibot/backend/internal/model"
	"chemibot/backend/internal/repository"
)

var (
	// ErrUserExists is returned by Signup for an email that is already registered.
	ErrUserExists = fmt.Errorf("%w: User exists", app_errors.ErrConflict)
	// ErrInvalidCredentials is returned by Login for both an unknown email and a wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: Invalid credentials", app_errors.ErrUnauthorized)
)

type AuthService struct {
	repo repository.Repository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates the service. A cost of zero selects bcrypt.DefaultCost.
func NewAuthService(repo repository.Repository, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, cost: cost}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) error {
	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		authAttempts.WithLabelValues("signup", "exists").Inc()
		return ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("could not look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return fmt.Errorf("%w: password is too long", app_errors.ErrValidation)
		}
		return fmt.Errorf("could not hash password: %w", err)
	}

	user := &model.User{Email: email, Password: string(hash), CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			authAttempts.WithLabelValues("signup", "exists").Inc()
			return ErrUserExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}

	authAttempts.WithLabelValues("signup", "success").Inc()
	slog.Info("User signed up", "user_id", user.ID)
	return nil
}

// Login verifies the credentials and returns the user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("could not look up user: %w", err)
		}
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		authAttempts.WithLabelValues("login", "failure").Inc()
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		authAttempts.WithLabelValues("login", "failure").Inc()
		return "", ErrInvalidCredentials
	}

	authAttempts.WithLabelValues("login", "success").Inc()
	return user.Email, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("chemibot-dummy-password"), s.cost)
		if err != nil {
			slog.Error("Failed to build dummy password hash", "error", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

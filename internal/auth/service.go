// Package auth implements email/password authentication with Redis-backed
// sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"catsnap/internal/session"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 30 * 24 * time.Hour

const bcryptCost = 12

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	// ErrUserExists is returned when the email or handle is taken.
	ErrUserExists = errors.New("user with this email or handle already exists")
	// ErrInvalidHandle is returned for handles with characters outside
	// letters, digits and underscores.
	ErrInvalidHandle = errors.New("handle can only contain letters, numbers, and underscores")
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service defines the authentication operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (sessionID string, user *User, err error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	store    Store
	sessions session.Manager
	logger   *slog.Logger
}

// NewService creates an auth service.
func NewService(store Store, sessions session.Manager, logger *slog.Logger) Service {
	return &service{store: store, sessions: sessions, logger: logger}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if !handlePattern.MatchString(req.Handle) {
		return nil, ErrInvalidHandle
	}

	taken, err := s.store.Taken(ctx, req.Email, req.Handle)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:     uuid.New().String(),
		Email:  req.Email,
		Handle: req.Handle,
		Name:   req.Name,
	}
	if err := s.store.Create(ctx, user, string(hash)); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "handle", user.Handle)
	return user, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, *User, error) {
	user, hash, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, user.ID, user.Handle, user.Email, SessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	return sessionID, user, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

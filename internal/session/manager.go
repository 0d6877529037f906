// Package session provides cookie-session management backed by Redis with
// TTL-based expiration.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when stored session data cannot be decoded.
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the session management operations.
type Manager interface {
	Create(ctx context.Context, userID, handle, email string, maxAge time.Duration) (string, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type manager struct {
	store Store
}

// NewManager creates a session manager on top of the given store.
func NewManager(store Store) Manager {
	return &manager{store: store}
}

func (m *manager) Create(ctx context.Context, userID, handle, email string, maxAge time.Duration) (string, error) {
	sessionID := uuid.New().String()

	now := time.Now()
	sess := &Session{
		ID:        sessionID,
		UserID:    userID,
		Handle:    handle,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(maxAge),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := m.store.Set(ctx, sessionKey(sessionID), string(data), maxAge); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return sessionID, nil
}

func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := m.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidSession
	}

	if time.Now().After(sess.ExpiresAt) {
		m.store.Delete(ctx, sessionKey(sessionID))
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

func (m *manager) Delete(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionKey(sessionID))
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

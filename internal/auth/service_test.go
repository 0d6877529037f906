package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catsnap/internal/session"
)

type memStore struct {
	users  map[string]*User // keyed by email
	hashes map[string]string
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*User{}, hashes: map[string]string{}}
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (*User, string, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, "", nil
	}
	return u, s.hashes[email], nil
}

func (s *memStore) Taken(ctx context.Context, email, handle string) (bool, error) {
	if _, ok := s.users[email]; ok {
		return true, nil
	}
	for _, u := range s.users {
		if u.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Create(ctx context.Context, u *User, passwordHash string) error {
	u.CreatedAt = time.Now()
	s.users[u.Email] = u
	s.hashes[u.Email] = passwordHash
	return nil
}

type fakeSessions struct {
	created int
	deleted []string
}

func (f *fakeSessions) Create(ctx context.Context, userID, handle, email string, maxAge time.Duration) (string, error) {
	f.created++
	return "sess-fixed", nil
}

func (f *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return nil, session.ErrSessionNotFound
}

func newTestService(store Store, sessions *fakeSessions) Service {
	return NewService(store, sessions, slog.New(slog.DiscardHandler))
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	sessions := &fakeSessions{}
	svc := newTestService(store, sessions)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    "demo@catsnap.dev",
		Password: "password123",
		Name:     "Demo Cat Lover",
		Handle:   "demo_cat_lover",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "demo_cat_lover", user.Handle)

	// The stored hash is never the plaintext password.
	assert.NotEqual(t, "password123", store.hashes[user.Email])

	sessionID, loggedIn, err := svc.Login(ctx, LoginRequest{
		Email:    "demo@catsnap.dev",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-fixed", sessionID)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, 1, sessions.created)
}

func TestRegisterRejectsInvalidHandle(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeSessions{})

	for _, handle := range []string{"has space", "dash-y", "émoji", "dot.dot"} {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "x@catsnap.dev",
			Password: "password123",
			Name:     "X",
			Handle:   handle,
		})
		assert.ErrorIs(t, err, ErrInvalidHandle, "handle %q", handle)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeSessions{})
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "dup@catsnap.dev",
		Password: "password123",
		Name:     "Dup",
		Handle:   "dup_cat",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)

	// Same handle under a different email is still a conflict.
	req.Email = "other@catsnap.dev"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeSessions{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "demo@catsnap.dev",
		Password: "password123",
		Name:     "Demo",
		Handle:   "demo_cat",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginRequest{Email: "demo@catsnap.dev", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeSessions{})

	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@catsnap.dev",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutDeletesSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(newMemStore(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "sess-1"))
	assert.Equal(t, []string{"sess-1"}, sessions.deleted)
}

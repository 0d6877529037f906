package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return v, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *memStore) Health(ctx context.Context) error {
	return nil
}

func TestCreateAndGet(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)
	ctx := context.Background()

	id, err := m.Create(ctx, "user-1", "whiskers_lover", "whiskers@catsnap.dev", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "whiskers_lover", sess.Handle)
	assert.Equal(t, "whiskers@catsnap.dev", sess.Email)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
}

func TestGetUnknownSession(t *testing.T) {
	m := NewManager(newMemStore())

	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetExpiredSession(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)
	ctx := context.Background()

	// Negative maxAge makes the session already expired. A TTL store would
	// have dropped it; the manager must also reject a stale row.
	id, err := m.Create(ctx, "user-1", "h", "e@x.dev", -time.Minute)
	require.NoError(t, err)

	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Expired sessions are purged from the store on read.
	assert.Empty(t, store.data)
}

func TestGetCorruptSession(t *testing.T) {
	store := newMemStore()
	store.data[sessionKey("bad")] = "{not json"
	m := NewManager(store)

	_, err := m.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)
	ctx := context.Background()

	id, err := m.Create(ctx, "user-1", "h", "e@x.dev", time.Hour)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))

	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

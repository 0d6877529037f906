package votes

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	posts map[string]bool
	votes map[[2]string]*Vote
	// raceType, when set, makes the next Insert lose to a concurrent
	// toggle that already wrote a vote of this polarity.
	raceType *Type
}

func newMemStore(postIDs ...string) *memStore {
	s := &memStore{posts: map[string]bool{}, votes: map[[2]string]*Vote{}}
	for _, id := range postIDs {
		s.posts[id] = true
	}
	return s
}

func (s *memStore) Find(ctx context.Context, postID, userID string) (*Vote, error) {
	return s.votes[[2]string{postID, userID}], nil
}

func (s *memStore) Insert(ctx context.Context, v *Vote) (bool, error) {
	key := [2]string{v.PostID, v.UserID}
	if s.raceType != nil {
		s.votes[key] = &Vote{ID: "rival", PostID: v.PostID, UserID: v.UserID, Type: *s.raceType}
		return false, nil
	}
	if _, ok := s.votes[key]; ok {
		return false, nil
	}
	s.votes[key] = v
	return true, nil
}

func (s *memStore) UpdateType(ctx context.Context, postID, userID string, t Type) error {
	if v, ok := s.votes[[2]string{postID, userID}]; ok {
		v.Type = t
	}
	return nil
}

func (s *memStore) Delete(ctx context.Context, postID, userID string) error {
	delete(s.votes, [2]string{postID, userID})
	return nil
}

func (s *memStore) CountByType(ctx context.Context, postID string) (int64, int64, error) {
	var up, down int64
	for key, v := range s.votes {
		if key[0] != postID {
			continue
		}
		if v.Type == Up {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}

func (s *memStore) PostExists(ctx context.Context, postID string) (bool, error) {
	return s.posts[postID], nil
}

func newTestService(store Store) Service {
	return NewService(store, slog.New(slog.DiscardHandler))
}

func TestToggleFirstVote(t *testing.T) {
	svc := newTestService(newMemStore("p1"))

	res, err := svc.Toggle(context.Background(), "p1", "u1", Up)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpVotes)
	assert.Equal(t, int64(0), res.DownVotes)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, Up, *res.UserVote)
}

func TestToggleSamePolarityRemoves(t *testing.T) {
	svc := newTestService(newMemStore("p1"))
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "p1", "u1", Up)
	require.NoError(t, err)

	res, err := svc.Toggle(ctx, "p1", "u1", Up)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.UpVotes)
	assert.Equal(t, int64(0), res.DownVotes)
	assert.Nil(t, res.UserVote)
}

func TestToggleOppositePolaritySwitches(t *testing.T) {
	svc := newTestService(newMemStore("p1"))
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "p1", "u1", Up)
	require.NoError(t, err)

	res, err := svc.Toggle(ctx, "p1", "u1", Down)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.UpVotes)
	assert.Equal(t, int64(1), res.DownVotes)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, Down, *res.UserVote)
}

func TestToggleCountsIncludeOtherUsers(t *testing.T) {
	store := newMemStore("p1")
	store.votes[[2]string{"p1", "u2"}] = &Vote{ID: "a", PostID: "p1", UserID: "u2", Type: Up}
	store.votes[[2]string{"p1", "u3"}] = &Vote{ID: "b", PostID: "p1", UserID: "u3", Type: Down}
	svc := newTestService(store)

	res, err := svc.Toggle(context.Background(), "p1", "u1", Up)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.UpVotes)
	assert.Equal(t, int64(1), res.DownVotes)
}

func TestTogglePostNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Toggle(context.Background(), "missing", "u1", Up)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleInvalidType(t *testing.T) {
	svc := newTestService(newMemStore("p1"))

	_, err := svc.Toggle(context.Background(), "p1", "u1", Type("SIDEWAYS"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToggleLostRaceReportsWinner(t *testing.T) {
	store := newMemStore("p1")
	rival := Down
	store.raceType = &rival
	svc := newTestService(store)

	res, err := svc.Toggle(context.Background(), "p1", "u1", Up)
	require.NoError(t, err)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, Down, *res.UserVote)
	assert.Equal(t, int64(0), res.UpVotes)
	assert.Equal(t, int64(1), res.DownVotes)
}

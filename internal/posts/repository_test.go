package posts

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"catsnap/internal/database"
)

// setupDB starts a disposable PostgreSQL container, applies the schema and
// returns a connected database service.
func setupDB(t *testing.T) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catsnap_test"),
		postgres.WithUsername("catsnap"),
		postgres.WithPassword("catsnap"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		testcontainers.TerminateContainer(container)
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := slog.New(slog.DiscardHandler)
	db, err := database.Open(ctx, url, log)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.ApplySchema(ctx, db))
	return db
}

func insertUser(t *testing.T, db database.Service, handle, name string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(context.Background(), `
		INSERT INTO users (id, email, handle, name, password_hash)
		VALUES ($1, $2, $3, $4, 'x')
	`, id, handle+"@catsnap.dev", handle, name)
	require.NoError(t, err)
	return id
}

func insertPost(t *testing.T, db database.Service, authorID, caption string, createdAt time.Time) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(context.Background(), `
		INSERT INTO posts (id, author_id, caption, image_key, image_url, created_at)
		VALUES ($1, $2, $3, 'k.jpg', 'http://x/k.jpg', $4)
	`, id, authorID, caption, createdAt)
	require.NoError(t, err)
	return id
}

func TestRepositoryPagination(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "pager", "Pager Cat")
	base := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
	var ids []string
	for i := 0; i < 7; i++ {
		id := insertPost(t, db, author, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, id)
	}

	// First page: the three newest posts.
	page1, err := repo.FindPage(ctx, Filter{}, "", 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	assert.Equal(t, ids[6], page1[0].ID)
	assert.Equal(t, ids[5], page1[1].ID)
	assert.Equal(t, ids[4], page1[2].ID)

	// Second page continues strictly after the cursor, no overlap.
	page2, err := repo.FindPage(ctx, Filter{}, page1[2].ID, 3)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.Equal(t, ids[3], page2[0].ID)
	assert.Equal(t, ids[1], page2[2].ID)

	// Final page is short.
	page3, err := repo.FindPage(ctx, Filter{}, page2[2].ID, 3)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, ids[0], page3[0].ID)
}

func TestRepositoryTieBreakOnEqualTimestamps(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "tied", "Tied Cat")
	at := time.Now().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		insertPost(t, db, author, fmt.Sprintf("tied %d", i), at)
	}

	seen := map[string]bool{}
	cursor := ""
	for {
		page, err := repo.FindPage(ctx, Filter{}, cursor, 2)
		require.NoError(t, err)
		for _, p := range page {
			assert.False(t, seen[p.ID], "post %s returned twice", p.ID)
			seen[p.ID] = true
		}
		if len(page) < 2 {
			break
		}
		cursor = page[len(page)-1].ID
	}
	assert.Len(t, seen, 5)
}

func TestRepositoryInvalidCursor(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)

	_, err := repo.FindPage(context.Background(), Filter{}, uuid.New().String(), 10)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestRepositoryExcludesReported(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "reporter", "Reporter Cat")
	keep := insertPost(t, db, author, "fine", time.Now().Add(-2*time.Minute))
	hidden := insertPost(t, db, author, "reported", time.Now().Add(-time.Minute))
	_, err := db.Exec(ctx, `UPDATE posts SET is_reported = TRUE WHERE id = $1`, hidden)
	require.NoError(t, err)

	page, err := repo.FindPage(ctx, Filter{}, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, keep, page[0].ID)

	// Direct lookup still resolves the reported post.
	post, err := repo.FindByID(ctx, hidden)
	require.NoError(t, err)
	assert.True(t, post.IsReported)
}

func TestRepositoryFilters(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "sleepy_sam", "Sleepy Sam")
	other := insertUser(t, db, "awake_amy", "Awake Amy")
	match := insertPost(t, db, other, "A very SLEEPY afternoon", time.Now().Add(-3*time.Minute))
	byHandle := insertPost(t, db, author, "nothing notable", time.Now().Add(-2*time.Minute))
	insertPost(t, db, other, "zoomies", time.Now().Add(-time.Minute))

	page, err := repo.FindPage(ctx, Filter{Text: "sleepy"}, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Caption match and author-handle match, newest first.
	assert.Equal(t, byHandle, page[0].ID)
	assert.Equal(t, match, page[1].ID)
}

func TestRepositoryCreateAndTagReuse(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "tagger", "Tagger Cat")

	first, err := repo.Create(ctx, NewPost{
		AuthorID: author,
		Caption:  "first",
		ImageKey: "a.jpg",
		ImageURL: "http://x/a.jpg",
		Tags:     []string{"floof", "cute"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"floof", "cute"}, first.Tags)

	second, err := repo.Create(ctx, NewPost{
		AuthorID: author,
		Caption:  "second",
		ImageKey: "b.jpg",
		ImageURL: "http://x/b.jpg",
		Tags:     []string{"floof"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"floof"}, second.Tags)

	// Reusing a tag name must not mint a second tag row.
	var tagCount int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM tags WHERE name = 'floof'`).Scan(&tagCount))
	assert.Equal(t, 1, tagCount)

	// Tag filter resolves posts through the shared tag.
	page, err := repo.FindPage(ctx, Filter{Tag: "floof"}, "", 10)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestRepositoryCounts(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := insertUser(t, db, "counted", "Counted Cat")
	fanA := insertUser(t, db, "fan_a", "Fan A")
	fanB := insertUser(t, db, "fan_b", "Fan B")
	postID := insertPost(t, db, author, "popular", time.Now())

	for _, fan := range []string{fanA, fanB} {
		_, err := db.Exec(ctx, `
			INSERT INTO likes (id, post_id, user_id) VALUES ($1, $2, $3)
		`, uuid.New().String(), postID, fan)
		require.NoError(t, err)
	}
	_, err := db.Exec(ctx, `
		INSERT INTO votes (id, post_id, user_id, type) VALUES ($1, $2, $3, 'UP')
	`, uuid.New().String(), postID, fanA)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO comments (post_id, user_id, body) VALUES ($1, $2, 'nice')
	`, postID, fanB)
	require.NoError(t, err)

	post, err := repo.FindByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.Counts.Likes)
	assert.Equal(t, int64(1), post.Counts.Comments)
	assert.Equal(t, int64(1), post.Counts.Votes)
}

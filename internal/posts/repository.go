package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

var (
	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidCursor is returned when a pagination cursor does not refer
	// to an existing post.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// Store defines the post persistence operations used by the service layer.
type Store interface {
	// FindPage returns up to limit eligible posts matching the filter,
	// newest first, starting strictly after the cursor post when set.
	// Reported posts are never included.
	FindPage(ctx context.Context, filter Filter, cursor string, limit int) ([]Post, error)

	// FindByID returns a post by identifier, including reported ones.
	FindByID(ctx context.Context, id string) (*Post, error)

	// FindByAuthor returns the author's non-reported posts, newest first.
	FindByAuthor(ctx context.Context, authorID string) ([]Post, error)

	// Create inserts the post and its tag associations in one transaction,
	// creating missing tags by name.
	Create(ctx context.Context, p NewPost) (*Post, error)
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db database.Service
}

// NewRepository creates a posts repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// selectPost is the shared projection: post columns, author summary,
// aggregated tag names and fresh engagement counts.
const selectPost = `
	SELECT p.id, p.caption, p.image_key, p.image_url, p.blur_hash, p.is_reported, p.created_at,
	       u.id, u.name, u.handle, u.image,
	       COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}'),
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	       (SELECT COUNT(*) FROM votes v WHERE v.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id
`

const groupAndOrder = `
	GROUP BY p.id, u.id
	ORDER BY p.created_at DESC, p.id DESC
`

func (r *Repository) FindPage(ctx context.Context, filter Filter, cursor string, limit int) ([]Post, error) {
	conds := []string{"p.is_reported = FALSE"}
	var args []any

	fconds, fargs := filter.conditions(len(args) + 1)
	conds = append(conds, fconds...)
	args = append(args, fargs...)

	if cursor != "" {
		// Resolve the cursor post once so the page query can use a tuple
		// comparison against (created_at, id).
		var cursorCreatedAt any
		var cursorID string
		err := r.db.QueryRow(ctx,
			`SELECT created_at, id FROM posts WHERE id = $1`, cursor,
		).Scan(&cursorCreatedAt, &cursorID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCursor
		}
		if err != nil {
			return nil, fmt.Errorf("resolve cursor: %w", err)
		}

		n := len(args) + 1
		conds = append(conds, fmt.Sprintf("(p.created_at, p.id) < ($%d, $%d)", n, n+1))
		args = append(args, cursorCreatedAt, cursorID)
	}

	query := selectPost +
		"WHERE " + strings.Join(conds, " AND ") +
		groupAndOrder +
		fmt.Sprintf("LIMIT $%d", len(args)+1)
	args = append(args, limit)

	return r.queryPosts(ctx, query, args...)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Post, error) {
	query := selectPost + "WHERE p.id = $1" + groupAndOrder

	posts, err := r.queryPosts(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return &posts[0], nil
}

func (r *Repository) FindByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	query := selectPost + "WHERE p.author_id = $1 AND p.is_reported = FALSE" + groupAndOrder
	return r.queryPosts(ctx, query, authorID)
}

func (r *Repository) Create(ctx context.Context, p NewPost) (*Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create post: %w", err)
	}
	defer tx.Rollback(ctx)

	postID := uuid.New().String()

	var blurHash *string
	if p.BlurHash != "" {
		blurHash = &p.BlurHash
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, author_id, caption, image_key, image_url, blur_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, postID, p.AuthorID, p.Caption, p.ImageKey, p.ImageURL, blurHash)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	for _, name := range p.Tags {
		// Upsert-by-name: attaching an existing tag reuses its row. The
		// no-op update makes RETURNING yield the id on both paths.
		var tagID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID)
		if err != nil {
			return nil, fmt.Errorf("attach tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	return r.FindByID(ctx, postID)
}

func (r *Repository) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID, &p.Caption, &p.ImageKey, &p.ImageURL, &p.BlurHash, &p.IsReported, &p.CreatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.Handle, &p.Author.Image,
			&p.Tags,
			&p.Counts.Likes, &p.Counts.Comments, &p.Counts.Votes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

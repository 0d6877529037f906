// Command seed populates a development database with demo users, posts,
// tags and engagement so the feed has something to show.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"

	"catsnap/internal/database"
	"catsnap/internal/logger"
)

type seedUser struct {
	email  string
	handle string
	name   string
	bio    string
}

type seedPost struct {
	authorHandle string
	caption      string
	imageKey     string
	blurHash     string
	tags         []string
}

var users = []seedUser{
	{"demo@catsnap.dev", "demo_cat_lover", "Demo Cat Lover", "Just here to share the cutest cat moments!"},
	{"fluffy@catsnap.dev", "fluffy_cat_mom", "Fluffy Cat Mom", "Proud mom of 3 adorable cats"},
	{"whiskers@catsnap.dev", "whiskers_lover", "Whiskers Lover", "Cat photographer and enthusiast"},
	{"meow@catsnap.dev", "meow_master", "Meow Master", "Professional cat whisperer"},
}

var posts = []seedPost{
	{"demo_cat_lover", "Just a sleepy cat enjoying the sunshine", "seed/sleepy.jpg", "LGF5]+Yk^6#M@-5c,1J5@[or[Q6.", []string{"sleepy", "sunshine", "cute"}},
	{"demo_cat_lover", "My majestic floof surveying the kingdom", "seed/floof.jpg", "LKO2?V%2Tw=w]~RBVZRi};RPxuwH", []string{"majestic", "floof"}},
	{"fluffy_cat_mom", "Caught in the act of being absolutely adorable", "seed/adorable.jpg", "L6PZfSi_.AyE_3t7t7R**0o#DgR4", []string{"adorable", "cute", "kitten"}},
	{"whiskers_lover", "The classic \"I fits, I sits\" pose", "seed/box.jpg", "LGF5]+Yk^6#M@-5c,1J5@[or[Q6.", []string{"box", "cute"}},
	{"meow_master", "Mid-yawn perfection", "seed/yawn.jpg", "LKO2?V%2Tw=w]~RBVZRi};RPxuwH", []string{"yawn", "sleepy"}},
}

func main() {
	log := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := database.New(ctx, log)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.ApplySchema(ctx, db); err != nil {
		log.Error("apply schema", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, db); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "users", len(users), "posts", len(posts))
}

func run(ctx context.Context, db database.Service) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	userIDs := make(map[string]string)
	for _, u := range users {
		var id string
		err := db.QueryRow(ctx, `
			INSERT INTO users (id, email, handle, name, bio, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, uuid.New().String(), u.email, u.handle, u.name, u.bio, string(hash)).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.handle, err)
		}
		userIDs[u.handle] = id
	}

	publicEndpoint := os.Getenv("S3_PUBLIC_ENDPOINT")
	bucket := os.Getenv("S3_BUCKET")

	postIDs := make([]string, 0, len(posts))
	for i, p := range posts {
		postID := uuid.New().String()
		// Stagger creation times so the feed has a stable order.
		createdAt := time.Now().Add(-time.Duration(len(posts)-i) * time.Hour)
		imageURL := fmt.Sprintf("%s/%s/%s", publicEndpoint, bucket, p.imageKey)

		_, err := db.Exec(ctx, `
			INSERT INTO posts (id, author_id, caption, image_key, image_url, blur_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, postID, userIDs[p.authorHandle], p.caption, p.imageKey, imageURL, p.blurHash, createdAt)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.caption, err)
		}
		postIDs = append(postIDs, postID)

		for _, tag := range p.tags {
			var tagID int64
			err := db.QueryRow(ctx, `
				INSERT INTO tags (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, tag).Scan(&tagID)
			if err != nil {
				return fmt.Errorf("seed tag %q: %w", tag, err)
			}
			if _, err := db.Exec(ctx, `
				INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, postID, tagID); err != nil {
				return fmt.Errorf("attach tag %q: %w", tag, err)
			}
		}
	}

	// Everyone likes the first post, and opinions split on the second.
	for _, u := range users {
		if _, err := db.Exec(ctx, `
			INSERT INTO likes (id, post_id, user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, uuid.New().String(), postIDs[0], userIDs[u.handle]); err != nil {
			return fmt.Errorf("seed like: %w", err)
		}
	}
	voteTypes := []string{"UP", "UP", "DOWN", "UP"}
	for i, u := range users {
		if _, err := db.Exec(ctx, `
			INSERT INTO votes (id, post_id, user_id, type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, uuid.New().String(), postIDs[1], userIDs[u.handle], voteTypes[i]); err != nil {
			return fmt.Errorf("seed vote: %w", err)
		}
	}

	if _, err := db.Exec(ctx, `
		INSERT INTO comments (post_id, user_id, body)
		VALUES ($1, $2, $3)
	`, postIDs[0], userIDs["whiskers_lover"], "What a beautiful floof!"); err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}

	return nil
}

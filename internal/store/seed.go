package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

//go:embed seed/*.json
var seedFS embed.FS

type SeedTopic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type SeedUser struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type SeedArticle struct {
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
}

type SeedComment struct {
	Body      string    `json:"body"`
	ArticleID int       `json:"article_id"`
	Author    string    `json:"author"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedData is a full fixture set. Articles and comments receive their ids in
// slice order, starting at 1.
type SeedData struct {
	Topics   []SeedTopic
	Users    []SeedUser
	Articles []SeedArticle
	Comments []SeedComment
}

// FixtureData returns the embedded fixture set used by the seed command and
// the integration tests.
func FixtureData() (*SeedData, error) {
	var data SeedData
	files := []struct {
		name string
		dst  any
	}{
		{"seed/topics.json", &data.Topics},
		{"seed/users.json", &data.Users},
		{"seed/articles.json", &data.Articles},
		{"seed/comments.json", &data.Comments},
	}
	for _, f := range files {
		raw, err := seedFS.ReadFile(f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return &data, nil
}

// Seed resets the schema and loads data in one batch, parents before children.
func (s *Store) Seed(ctx context.Context, data *SeedData) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, t := range data.Topics {
		batch.Queue(`INSERT INTO topics (slug, description) VALUES ($1, $2)`, t.Slug, t.Description)
	}
	for _, u := range data.Users {
		batch.Queue(`INSERT INTO users (username, name, avatar_url) VALUES ($1, $2, $3)`,
			u.Username, u.Name, u.AvatarURL)
	}
	for _, a := range data.Articles {
		img := a.ArticleImgURL
		if img == "" {
			img = DefaultArticleImage
		}
		batch.Queue(`INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.Title, a.Topic, a.Author, a.Body, a.CreatedAt, a.Votes, img)
	}
	for _, c := range data.Comments {
		batch.Queue(`INSERT INTO comments (body, article_id, author, votes, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			c.Body, c.ArticleID, c.Author, c.Votes, c.CreatedAt)
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

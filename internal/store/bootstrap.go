package store

import (
	"context"
	"fmt"
)

// DefaultArticleImage is used when an article is created without an image.
const DefaultArticleImage = "https://images.pexels.com/photos/158651/news-newsletter-newspaper-information-158651.jpeg?w=700&h=700"

const newsTablesSQL = `
CREATE TABLE IF NOT EXISTS topics (
    slug        VARCHAR PRIMARY KEY,
    description VARCHAR
);

CREATE TABLE IF NOT EXISTS users (
    username   VARCHAR PRIMARY KEY,
    name       VARCHAR NOT NULL,
    avatar_url VARCHAR
);

CREATE TABLE IF NOT EXISTS articles (
    article_id      SERIAL PRIMARY KEY,
    title           VARCHAR NOT NULL,
    topic           VARCHAR NOT NULL REFERENCES topics(slug),
    author          VARCHAR NOT NULL REFERENCES users(username),
    body            VARCHAR NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    votes           INT NOT NULL DEFAULT 0,
    article_img_url VARCHAR DEFAULT '` + DefaultArticleImage + `'
);

CREATE TABLE IF NOT EXISTS comments (
    comment_id SERIAL PRIMARY KEY,
    body       VARCHAR NOT NULL,
    article_id INT NOT NULL REFERENCES articles(article_id) ON DELETE CASCADE,
    author     VARCHAR NOT NULL REFERENCES users(username),
    votes      INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_comments_article ON comments (article_id);
`

const dropNewsTablesSQL = `
DROP TABLE IF EXISTS comments;
DROP TABLE IF EXISTS articles;
DROP TABLE IF EXISTS users;
DROP TABLE IF EXISTS topics;
`

// Bootstrap creates the news tables if they are missing.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, newsTablesSQL); err != nil {
		return fmt.Errorf("bootstrap news tables: %w", err)
	}
	return nil
}

// Reset drops and recreates the news tables, discarding all rows.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, dropNewsTablesSQL); err != nil {
		return fmt.Errorf("drop news tables: %w", err)
	}
	return s.Bootstrap(ctx)
}

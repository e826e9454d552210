package engine

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"nc-news/internal/apperr"
	"nc-news/internal/query"
	"nc-news/internal/store"
)

// ListArticles handles GET /api/articles
func (h *Handler) ListArticles(c *fiber.Ctx) error {
	rows, total, err := h.page(c.UserContext(), articleList, params(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"articles": rows, "total_count": total})
}

// GetArticle handles GET /api/articles/:article_id
func (h *Handler) GetArticle(c *fiber.Ctx) error {
	id, err := pathID(c, "article_id")
	if err != nil {
		return err
	}

	st := query.Detail(articleList, id)
	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NewNotFound("article", "id")
	}
	if err != nil {
		return fmt.Errorf("get article %d: %w", id, err)
	}
	return c.JSON(fiber.Map{"article": row})
}

// CreateArticle handles POST /api/articles
func (h *Handler) CreateArticle(c *fiber.Ctx) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	st, err := query.Insert(articleInsert, body)
	if err != nil {
		return err
	}

	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	row[commentCount.Alias] = int32(0)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"newArticle": row})
}

// VoteArticle handles PATCH /api/articles/:article_id
func (h *Handler) VoteArticle(c *fiber.Ctx) error {
	id, err := pathID(c, "article_id")
	if err != nil {
		return err
	}
	if _, err := EnsureExists(c.UserContext(), h.db, "articles", id); err != nil {
		return err
	}

	body, err := readBody(c)
	if err != nil {
		return err
	}
	delta, err := voteDelta(body)
	if err != nil {
		return err
	}

	st := query.IncrementVotes("articles", "article_id", id, delta)
	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NewNotFound("article", "id")
	}
	if err != nil {
		return fmt.Errorf("vote article %d: %w", id, err)
	}
	return c.JSON(fiber.Map{"updatedArticle": row})
}

// DeleteArticle handles DELETE /api/articles/:article_id
func (h *Handler) DeleteArticle(c *fiber.Ctx) error {
	id, err := pathID(c, "article_id")
	if err != nil {
		return err
	}
	if _, err := EnsureExists(c.UserContext(), h.db, "articles", id); err != nil {
		return err
	}

	st := query.Delete("articles", "article_id", id)
	n, err := store.Exec(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	if n == 0 {
		return apperr.NewNotFound("article", "id")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package engine

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"nc-news/internal/apperr"
	"nc-news/internal/query"
	"nc-news/internal/store"
)

// ListComments handles GET /api/articles/:article_id/comments
func (h *Handler) ListComments(c *fiber.Ctx) error {
	id, err := pathID(c, "article_id")
	if err != nil {
		return err
	}
	if _, err := EnsureExists(c.UserContext(), h.db, "articles", id); err != nil {
		return err
	}

	rows, total, err := h.page(c.UserContext(), articleComments(id), params(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comments": rows, "total_count": total})
}

// CreateComment handles POST /api/articles/:article_id/comments
func (h *Handler) CreateComment(c *fiber.Ctx) error {
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
	st, err := query.Insert(commentInsert, body, query.Assignment{Column: "article_id", Value: id})
	if err != nil {
		return err
	}

	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("create comment on article %d: %w", id, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"newComment": row})
}

// VoteComment handles PATCH /api/comments/:comment_id
func (h *Handler) VoteComment(c *fiber.Ctx) error {
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	if _, err := EnsureExists(c.UserContext(), h.db, "comments", id); err != nil {
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

	st := query.IncrementVotes("comments", "comment_id", id, delta)
	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NewNotFound("comment", "id")
	}
	if err != nil {
		return fmt.Errorf("vote comment %d: %w", id, err)
	}
	return c.JSON(fiber.Map{"updatedComment": row})
}

// DeleteComment handles DELETE /api/comments/:comment_id
func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	if _, err := EnsureExists(c.UserContext(), h.db, "comments", id); err != nil {
		return err
	}

	st := query.Delete("comments", "comment_id", id)
	n, err := store.Exec(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	if n == 0 {
		return apperr.NewNotFound("comment", "id")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

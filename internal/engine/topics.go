package engine

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"nc-news/internal/query"
	"nc-news/internal/store"
)

// ListTopics handles GET /api/topics
func (h *Handler) ListTopics(c *fiber.Ctx) error {
	st := query.List(topicList, params(c))
	rows, err := store.QueryRows(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	return c.JSON(fiber.Map{"topics": rows})
}

// CreateTopic handles POST /api/topics
func (h *Handler) CreateTopic(c *fiber.Ctx) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	st, err := query.Insert(topicInsert, body)
	if err != nil {
		return err
	}

	row, err := store.QueryRow(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"newTopic": row})
}

package engine

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"nc-news/internal/query"
	"nc-news/internal/store"
)

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	st := query.List(userList, params(c))
	rows, err := store.QueryRows(c.UserContext(), h.db, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	return c.JSON(fiber.Map{"users": rows})
}

// GetUser handles GET /api/users/:username
func (h *Handler) GetUser(c *fiber.Ctx) error {
	row, err := EnsureExistsBy(c.UserContext(), h.db, "users", "username", c.Params("username"), "username")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": row})
}

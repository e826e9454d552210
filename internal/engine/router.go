package engine

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"nc-news/internal/apperr"
)

// RegisterRoutes mounts every API route behind its query guard. A route
// missing from the endpoint catalog is a startup error.
func RegisterRoutes(app *fiber.App, h *Handler) error {
	routes := []struct {
		method  string
		path    string
		handler fiber.Handler
	}{
		{fiber.MethodGet, "/api", h.Endpoints},
		{fiber.MethodGet, "/api/topics", h.ListTopics},
		{fiber.MethodPost, "/api/topics", h.CreateTopic},
		{fiber.MethodGet, "/api/articles", h.ListArticles},
		{fiber.MethodPost, "/api/articles", h.CreateArticle},
		{fiber.MethodGet, "/api/articles/:article_id", h.GetArticle},
		{fiber.MethodPatch, "/api/articles/:article_id", h.VoteArticle},
		{fiber.MethodDelete, "/api/articles/:article_id", h.DeleteArticle},
		{fiber.MethodGet, "/api/articles/:article_id/comments", h.ListComments},
		{fiber.MethodPost, "/api/articles/:article_id/comments", h.CreateComment},
		{fiber.MethodGet, "/api/users", h.ListUsers},
		{fiber.MethodGet, "/api/users/:username", h.GetUser},
		{fiber.MethodPatch, "/api/comments/:comment_id", h.VoteComment},
		{fiber.MethodDelete, "/api/comments/:comment_id", h.DeleteComment},
	}

	for _, r := range routes {
		key := r.method + " " + r.path
		if _, ok := h.catalog.Lookup(key); !ok {
			return fmt.Errorf("route %s is not declared in the endpoint catalog", key)
		}
		app.Add(r.method, r.path, h.guarded(key), r.handler)
	}

	app.All("/api/*", func(c *fiber.Ctx) error {
		return apperr.NewBadInput()
	})
	return nil
}

// guarded validates the request's query string against the endpoint declared
// under key and stores the result for the handler.
func (h *Handler) guarded(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := h.guard.ValidateRequest(c.UserContext(), key, c.Queries())
		if err != nil {
			h.log(c).Debug("query rejected", zap.String("endpoint", key), zap.Error(err))
			return err
		}
		c.Locals(localsParams, p)
		return c.Next()
	}
}

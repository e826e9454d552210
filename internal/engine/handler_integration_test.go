//go:build integration

package engine_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nc-news/internal/config"
	"nc-news/internal/engine"
	"nc-news/internal/instrument"
	"nc-news/internal/metadata"
	"nc-news/internal/store"
)

// newSeededApp connects with the DATABASE_* settings, reseeds the fixture data
// and returns an app over it.
func newSeededApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Load("")
	require.NoError(t, err)
	s, err := store.New(ctx, cfg.Database)
	require.NoError(t, err, "connect to test db")
	t.Cleanup(s.Close)

	data, err := store.FixtureData()
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, data))

	cat, err := metadata.Default()
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	app := fiber.New(fiber.Config{ErrorHandler: engine.ErrorHandler(logger)})
	app.Use(instrument.Middleware(logger))
	require.NoError(t, engine.RegisterRoutes(app, engine.NewHandler(s.Pool, cat, logger)))
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func items(t *testing.T, body map[string]any, key string) []map[string]any {
	t.Helper()
	raw, ok := body[key].([]any)
	require.True(t, ok, "%s is not an array: %v", key, body)
	out := make([]map[string]any, len(raw))
	for i, r := range raw {
		out[i] = r.(map[string]any)
	}
	return out
}

func TestIntegration_Topics(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/topics", nil)
	require.Equal(t, 200, status)
	topics := items(t, body, "topics")
	assert.Len(t, topics, 3)
	for _, topic := range topics {
		assert.Contains(t, topic, "slug")
		assert.Contains(t, topic, "description")
	}

	status, body = call(t, app, "POST", "/api/topics", map[string]any{"slug": "dogs", "description": "Not cats"})
	require.Equal(t, 201, status)
	assert.Equal(t, "dogs", body["newTopic"].(map[string]any)["slug"])

	status, body = call(t, app, "POST", "/api/topics", map[string]any{"slug": "dogs", "description": "again"})
	assert.Equal(t, 409, status)
	assert.Equal(t, "Topic already exists", body["message"])
}

func TestIntegration_ArticlesDefaults(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/articles", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 13, body["total_count"])

	articles := items(t, body, "articles")
	require.Len(t, articles, 10)
	for i, a := range articles {
		assert.NotContains(t, a, "body")
		assert.Contains(t, a, "comment_count")
		if i > 0 {
			assert.GreaterOrEqual(t, articles[i-1]["created_at"], a["created_at"], "newest first")
		}
	}
}

func TestIntegration_ArticlesFilterSortPaginate(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/articles?topic=cats", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["total_count"])
	assert.Len(t, items(t, body, "articles"), 1)

	status, body = call(t, app, "GET", "/api/articles?author=butter_bridge&limit=20", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, len(items(t, body, "articles")), body["total_count"])

	status, body = call(t, app, "GET", "/api/articles?sort_by=comment_count", nil)
	require.Equal(t, 200, status)
	first := items(t, body, "articles")[0]
	assert.EqualValues(t, 1, first["article_id"])
	assert.EqualValues(t, 11, first["comment_count"])

	status, body = call(t, app, "GET", "/api/articles?sort_by=votes&order=asc&limit=5&p=2", nil)
	require.Equal(t, 200, status)
	page := items(t, body, "articles")
	assert.Len(t, page, 3)
	assert.EqualValues(t, 100, page[2]["votes"])

	status, body = call(t, app, "GET", "/api/articles?topic=paper", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 0, body["total_count"])
	assert.Empty(t, items(t, body, "articles"))
}

func TestIntegration_ArticleQueryRejections(t *testing.T) {
	app, _ := newSeededApp(t)

	for target, message := range map[string]string{
		"/api/articles?colour=red":         "Bad request: invalid query field",
		"/api/articles?sort_by=price":      "Bad request: invalid sort_by value",
		"/api/articles?order=random":       "Bad request: invalid order value",
		"/api/articles?limit=many":         "Bad request: 'limit' value must be a number",
		"/api/articles/1/comments?p=first": "Bad request: 'p' value must be a number",
	} {
		status, body := call(t, app, "GET", target, nil)
		assert.Equal(t, 400, status, target)
		assert.Equal(t, message, body["message"], target)
	}
}

func TestIntegration_ArticleByID(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/articles/9", nil)
	require.Equal(t, 200, status)
	article := body["article"].(map[string]any)
	assert.EqualValues(t, 2, article["comment_count"])
	assert.Contains(t, article, "body")

	status, body = call(t, app, "GET", "/api/articles/4", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 0, body["article"].(map[string]any)["comment_count"])

	status, body = call(t, app, "GET", "/api/articles/9999", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No article matching requested id", body["message"])

	status, body = call(t, app, "GET", "/api/articles/not-an-id", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad endpoint", body["message"])
}

func TestIntegration_CreateArticle(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "POST", "/api/articles", map[string]any{
		"author": "lurker", "title": "New", "body": "Words", "topic": "paper",
	})
	require.Equal(t, 201, status)
	article := body["newArticle"].(map[string]any)
	assert.EqualValues(t, 14, article["article_id"])
	assert.EqualValues(t, 0, article["votes"])
	assert.EqualValues(t, 0, article["comment_count"])
	assert.Equal(t, store.DefaultArticleImage, article["article_img_url"])

	status, body = call(t, app, "POST", "/api/articles", map[string]any{
		"author": "lurker", "title": "New", "body": "Words", "topic": "dogs",
	})
	assert.Equal(t, 404, status)
	assert.Equal(t, "Topic not found", body["message"])

	status, body = call(t, app, "POST", "/api/articles", map[string]any{
		"author": "lurker", "body": "Words", "topic": "paper",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad request: missing property", body["message"])
}

func TestIntegration_VoteArticle(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "PATCH", "/api/articles/2", map[string]any{"inc_votes": 10})
	require.Equal(t, 200, status)
	assert.EqualValues(t, 10, body["updatedArticle"].(map[string]any)["votes"])

	status, body = call(t, app, "PATCH", "/api/articles/2", map[string]any{"inc_votes": -3})
	require.Equal(t, 200, status)
	assert.EqualValues(t, 7, body["updatedArticle"].(map[string]any)["votes"])

	status, body = call(t, app, "PATCH", "/api/articles/2", map[string]any{"inc_votes": "cheese"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad request: 'inc_votes' value must be a number", body["message"])

	status, body = call(t, app, "PATCH", "/api/articles/2", map[string]any{})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad request: missing property", body["message"])

	status, body = call(t, app, "PATCH", "/api/articles/9999", map[string]any{"inc_votes": 1})
	assert.Equal(t, 404, status)
	assert.Equal(t, "No article matching requested id", body["message"])
}

func TestIntegration_DeleteArticleCascades(t *testing.T) {
	app, s := newSeededApp(t)
	ctx := context.Background()

	status, _ := call(t, app, "DELETE", "/api/articles/1", nil)
	assert.Equal(t, 204, status)

	row, err := store.QueryRow(ctx, s.Pool, "SELECT COUNT(*)::INT AS n FROM comments WHERE article_id = 1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, row["n"])

	status, body := call(t, app, "DELETE", "/api/articles/1", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No article matching requested id", body["message"])
}

func TestIntegration_Comments(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/articles/1/comments", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 11, body["total_count"])
	comments := items(t, body, "comments")
	require.Len(t, comments, 10)
	for i := 1; i < len(comments); i++ {
		assert.GreaterOrEqual(t, comments[i-1]["created_at"], comments[i]["created_at"], "newest first")
	}

	status, body = call(t, app, "GET", "/api/articles/1/comments?limit=5&p=2", nil)
	require.Equal(t, 200, status)
	assert.Len(t, items(t, body, "comments"), 1)

	status, body = call(t, app, "GET", "/api/articles/4/comments", nil)
	require.Equal(t, 200, status)
	assert.Empty(t, items(t, body, "comments"))
	assert.EqualValues(t, 0, body["total_count"])

	status, body = call(t, app, "GET", "/api/articles/9999/comments", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No article matching requested id", body["message"])
}

func TestIntegration_PostComment(t *testing.T) {
	app, s := newSeededApp(t)
	ctx := context.Background()

	status, body := call(t, app, "POST", "/api/articles/9/comments", map[string]any{"username": "lurker", "body": "Hello", "votes": 50})
	require.Equal(t, 201, status)
	comment := body["newComment"].(map[string]any)
	assert.Equal(t, "lurker", comment["author"])
	assert.EqualValues(t, 9, comment["article_id"])
	assert.EqualValues(t, 0, comment["votes"], "extra properties are ignored")

	status, body = call(t, app, "POST", "/api/articles/9/comments", map[string]any{"username": "chris", "body": "Hello"})
	assert.Equal(t, 404, status)
	assert.Equal(t, "User not found", body["message"])

	status, body = call(t, app, "POST", "/api/articles/9/comments", map[string]any{"username": "lurker"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad request: missing property", body["message"])

	status, body = call(t, app, "POST", "/api/articles/9999/comments", map[string]any{"username": "lurker", "body": "Hello"})
	assert.Equal(t, 404, status)
	assert.Equal(t, "No article matching requested id", body["message"])

	row, err := store.QueryRow(ctx, s.Pool, "SELECT COUNT(*)::INT AS n FROM comments")
	require.NoError(t, err)
	assert.EqualValues(t, 19, row["n"], "only the first comment was stored")
}

func TestIntegration_VoteAndDeleteComment(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "PATCH", "/api/comments/1", map[string]any{"inc_votes": 4})
	require.Equal(t, 200, status)
	assert.EqualValues(t, 20, body["updatedComment"].(map[string]any)["votes"])

	status, _ = call(t, app, "DELETE", "/api/comments/1", nil)
	assert.Equal(t, 204, status)

	status, body = call(t, app, "DELETE", "/api/comments/1", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No comment matching requested id", body["message"])
}

func TestIntegration_Users(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/users", nil)
	require.Equal(t, 200, status)
	assert.Len(t, items(t, body, "users"), 4)

	status, body = call(t, app, "GET", "/api/users/lurker", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "do_nothing", body["user"].(map[string]any)["name"])

	status, body = call(t, app, "GET", "/api/users/chris", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No user matching requested username", body["message"])
}

func TestIntegration_GetIsIdempotent(t *testing.T) {
	app, _ := newSeededApp(t)

	_, first := call(t, app, "GET", "/api/articles?sort_by=title&order=asc", nil)
	_, second := call(t, app, "GET", "/api/articles?sort_by=title&order=asc", nil)
	assert.Equal(t, first, second)
}

func TestIntegration_UnmatchedRoute(t *testing.T) {
	app, _ := newSeededApp(t)

	status, body := call(t, app, "GET", "/api/not-a-route", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Bad endpoint", body["message"])
}

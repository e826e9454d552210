package engine

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"nc-news/internal/apperr"
	"nc-news/internal/query"
)

const localsParams = "query_params"

// params returns the query parameters validated by the route's guard.
func params(c *fiber.Ctx) *query.Params {
	if p, ok := c.Locals(localsParams).(*query.Params); ok {
		return p
	}
	return &query.Params{}
}

// pathID parses a surrogate key path segment. Anything that is not a base-10
// int32 never reaches the store.
func pathID(c *fiber.Ctx, name string) (int32, error) {
	n, err := strconv.ParseInt(c.Params(name), 10, 32)
	if err != nil {
		return 0, apperr.NewBadInput()
	}
	return int32(n), nil
}

// readBody decodes a JSON object body. An empty body reads as {}.
func readBody(c *fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	if len(c.Body()) == 0 {
		return body, nil
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, apperr.NewBadBody()
	}
	return body, nil
}

// voteDelta extracts inc_votes. A missing property yields nil so the store's
// NOT NULL constraint reports it.
func voteDelta(body map[string]any) (*int, error) {
	raw, ok := body["inc_votes"]
	if !ok || raw == nil {
		return nil, nil
	}
	f, isNum := raw.(float64)
	if !isNum || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, apperr.NewInvalidBodyValue("inc_votes", "number")
	}
	n := int(f)
	return &n, nil
}

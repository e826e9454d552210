package engine

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"nc-news/internal/apperr"
	"nc-news/internal/instrument"
)

// ErrorHandler renders every failure as {message}. Store errors are classified
// once here; server-side failures are logged with the request id.
func ErrorHandler(fallback *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(apperr.Response{Message: fiberErr.Message})
		}

		appErr := apperr.Translate(err)
		if appErr.Internal() {
			instrument.Logger(c, fallback).Error("request failed",
				zap.Stringer("kind", appErr.Kind),
				zap.Error(err),
			)
		}
		return c.Status(appErr.Status).JSON(apperr.Response{Message: appErr.Message})
	}
}

package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

// RequestLogger logs one line per request and feeds the request counters.
// Registered outermost it sees the rendered response; when an error still
// reaches it the status is taken from the error.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err, status)
		}
		metrics.RecordRequest(c.Route().Path, c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("request", fields...)
		} else {
			logger.Info("request", fields...)
		}
		return err
	}
}

func errorStatus(err error, written int) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	var de *apperrors.DomainError
	if errors.As(err, &de) && de.HTTPStatus > 0 {
		return de.HTTPStatus
	}
	if written >= fiber.StatusBadRequest {
		return written
	}
	return fiber.StatusInternalServerError
}

package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restbuck/coffeeshop/internal/logging"
)

// RequestLogger puts a request-scoped logger into the request context, so the
// handlers and the service pick it up through logging.FromContext, and writes
// one completion line per request.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				l = l.With("request_id", rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			switch {
			case err != nil && status < 400, status >= 500:
				l.Error("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds(), "error", err)
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
			}
			return err
		}
	}
}

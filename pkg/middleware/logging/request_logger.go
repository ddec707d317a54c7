package loggingmw

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// RequestLogger puts a request-scoped logger into the context and records one
// line per request. Errors returned by handlers are rendered here, so the
// status in the log line and in the metrics is the one the client saw.
func RequestLogger(base *slog.Logger, m *metrics.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := requestID(c)

			l := base.With(
				"method", req.Method,
				"route", route(c),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			dur := time.Since(start)
			status := c.Response().Status

			observe(m, c, status, dur)

			attrs := []any{"status", status, "duration_ms", dur.Milliseconds()}
			if uid, ok := c.Get("user_id").(string); ok && uid != "" {
				attrs = append(attrs, "admin_id", uid)
			}
			switch {
			case status >= 500:
				l.Error("request completed", append(attrs, "error", errString(err))...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// route is the registered path pattern, so metrics do not grow one series per id.
func route(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedRoute
}

func observe(m *metrics.Registry, c echo.Context, status int, dur time.Duration) {
	if m == nil {
		return
	}
	method := c.Request().Method
	m.HTTPRequests.WithLabelValues(method, route(c), strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route(c)).Observe(dur.Seconds())
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler renders every error as {"error": msg}. Server errors also
// carry the underlying cause in details.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := errorBody{Error: "internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		body.Error = fmt.Sprint(he.Message)
		if he.Internal != nil && code >= http.StatusInternalServerError {
			body.Details = he.Internal.Error()
		}
	} else {
		body.Details = err.Error()
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
}

// fail logs err under event and maps it to an HTTP error: validation to 400,
// not found to 404, anything else to 500 with internalMsg.
func fail(l *slog.Logger, event string, err error, notFoundMsg, internalMsg string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		msg := validationMessage(err)
		l.Warn(event, "status", 400, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", notFoundMsg, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg).SetInternal(err)
	default:
		l.Error(event, "status", 500, "reason", internalMsg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg).SetInternal(err)
	}
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
}

package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/internal/util"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type LogHTTP struct {
	Svc *service.LogService
}

func (h *LogHTTP) GetLogs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logs.get_logs")

	logs, err := h.Svc.List(ctx, transport.LogFilter{
		Level:    c.QueryParam("level"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), service.DefaultLogLimit),
	})
	if err != nil {
		return fail(l, "get_logs_error", err, "", "failed to fetch logs")
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *LogHTTP) AddLog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logs.add_log")

	var req transport.LogRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_log_error", err)
	}

	entry, err := h.Svc.Add(ctx, req)
	if err != nil {
		return fail(l, "add_log_error", err, "", "failed to add log")
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *LogHTTP) ClearLogs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logs.clear_logs")

	n, err := h.Svc.Clear(ctx)
	if err != nil {
		return fail(l, "clear_logs_error", err, "", "failed to clear logs")
	}

	l.Info("clear_logs_success", "deleted", n)
	return c.NoContent(http.StatusNoContent)
}

func (h *LogHTTP) ExportLogs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logs.export_logs")

	format := c.QueryParam("format")
	if format == "" {
		format = service.ExportJSON
	}

	var buf bytes.Buffer
	ctype, err := h.Svc.Export(ctx, format, &buf)
	if err != nil {
		return fail(l, "export_logs_error", err, "", "failed to export logs")
	}

	name := fmt.Sprintf("logs-%s.%s", time.Now().UTC().Format(time.DateOnly), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, ctype, buf.Bytes())
}

func (h *LogHTTP) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Health(c.Request().Context()))
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/internal/util"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type AnalyticsHTTP struct {
	Svc *service.AnalyticsService
}

func (h *AnalyticsHTTP) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics.track")

	var req transport.TrackEventRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "track_event_error", err)
	}

	e, err := h.Svc.Track(ctx, req)
	if err != nil {
		return fail(l, "track_event_error", err, "", "failed to track event")
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *AnalyticsHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics.summary")

	days := util.ParseIntDefault(c.QueryParam("days"), service.DefaultAnalyticsDays)
	sum, err := h.Svc.Summary(ctx, days)
	if err != nil {
		return fail(l, "analytics_summary_error", err, "", "failed to fetch analytics")
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *AnalyticsHTTP) Realtime(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics.realtime")

	snap, err := h.Svc.Realtime(ctx)
	if err != nil {
		return fail(l, "analytics_realtime_error", err, "", "failed to fetch realtime data")
	}
	return c.JSON(http.StatusOK, snap)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	p := pageFromQuery(c)
	orders, total, err := h.Svc.List(ctx, transport.OrderFilter{
		CustomerID: c.QueryParam("customerId"),
		Status:     c.QueryParam("status"),
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return fail(l, "get_orders_error", err, "", "failed to fetch orders")
	}

	setTotal(c, total)
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	order, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err, "order not found", "failed to fetch order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_order_error", err)
	}

	order, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err, "", "failed to create order in database")
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.Total.StringFixed(3))
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_order_error", err)
	}

	order, err := h.Svc.Amend(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_order_error", err, "order not found", "failed to update order")
	}

	l.Info("update_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_order_error", err, "order not found", "failed to delete order")
	}

	l.Info("delete_order_success")
	return c.NoContent(http.StatusNoContent)
}

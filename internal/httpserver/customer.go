package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customers")

	items, total, err := h.Svc.List(ctx, pageFromQuery(c))
	if err != nil {
		return fail(l, "get_customers_error", err, "", "failed to fetch customers")
	}
	setTotal(c, total)
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	customer, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_customer_error", err, "customer not found", "failed to fetch customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create_customer")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_customer_error", err)
	}

	customer, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_customer_error", err, "", "failed to create customer")
	}

	l.Info("create_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHTTP) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update_customer")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_customer_error", err)
	}

	customer, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_customer_error", err, "customer not found", "failed to update customer")
	}

	l.Info("update_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete_customer")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_customer_error", err, "customer not found", "failed to delete customer")
	}

	l.Info("delete_customer_success")
	return c.NoContent(http.StatusNoContent)
}

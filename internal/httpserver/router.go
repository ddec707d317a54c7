package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	middleware "github.com/Skotchmaster/shop_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
)

type Deps struct {
	Customers *CustomerHTTP
	Catalog   *CatalogHTTP
	Orders    *OrderHTTP
	Uploads   *UploadHTTP
	Analytics *AnalyticsHTTP
	Logs      *LogHTTP
	Admin     *AdminHTTP

	JWTSecret []byte
	Metrics   *metrics.Registry
	// Ready reports whether the database answers.
	Ready     func(ctx context.Context) error
	UploadDir string
	// CSRF, when set, runs after the admin check on admin routes.
	CSRF echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	if d.UploadDir != "" {
		e.Static(service.UploadURLPrefix, d.UploadDir)
	}

	authMW := middleware.NewAdminAuth(d.JWTSecret)
	admin := authMW.RequireAdmin
	if d.CSRF != nil {
		admin = func(next echo.HandlerFunc) echo.HandlerFunc {
			return authMW.RequireAdmin(d.CSRF(next))
		}
	}

	api := e.Group("/api")
	api.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"message": "pong", "timestamp": time.Now().UTC()})
	})

	customers := api.Group("/customers")
	customers.POST("", d.Customers.CreateCustomer)
	customers.GET("", d.Customers.GetCustomers, admin)
	customers.GET("/:id", d.Customers.GetCustomer, admin)
	customers.PUT("/:id", d.Customers.UpdateCustomer, admin)
	customers.DELETE("/:id", d.Customers.DeleteCustomer, admin)

	products := api.Group("/products")
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("", d.Catalog.GetProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, admin)
	products.PUT("/:id", d.Catalog.UpdateProduct, admin)
	products.DELETE("/:id", d.Catalog.DeleteProduct, admin)

	categories := api.Group("/categories")
	categories.GET("", d.Catalog.GetCategories)
	categories.GET("/:id", d.Catalog.GetCategory)
	categories.POST("", d.Catalog.CreateCategory, admin)
	categories.PUT("/:id", d.Catalog.UpdateCategory, admin)
	categories.DELETE("/:id", d.Catalog.DeleteCategory, admin)

	orders := api.Group("/orders")
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("", d.Orders.GetOrders, admin)
	orders.GET("/:id", d.Orders.GetOrder, admin)
	orders.PUT("/:id", d.Orders.UpdateOrder, admin)
	orders.DELETE("/:id", d.Orders.DeleteOrder, admin)

	uploads := api.Group("/upload")
	uploads.GET("/info", d.Uploads.Info)
	uploads.POST("", d.Uploads.Upload, admin)
	uploads.POST("/multiple", d.Uploads.UploadMultiple, admin)
	uploads.DELETE("/:filename", d.Uploads.Delete, admin)

	analytics := api.Group("/analytics")
	analytics.POST("/track", d.Analytics.Track)
	analytics.GET("", d.Analytics.Summary, admin)
	analytics.GET("/realtime", d.Analytics.Realtime, admin)

	logs := api.Group("/logs")
	logs.GET("/health", d.Logs.Health)
	logs.POST("", d.Logs.AddLog)
	logs.GET("", d.Logs.GetLogs, admin)
	logs.DELETE("", d.Logs.ClearLogs, admin)
	logs.GET("/export", d.Logs.ExportLogs, admin)

	adm := api.Group("/admin")
	adm.POST("/login", d.Admin.Login)
	adm.POST("/logout", d.Admin.Logout)
	adm.GET("/me", d.Admin.Me, admin)
	adm.PUT("/password", d.Admin.UpdatePassword, admin)
	adm.PUT("/email", d.Admin.UpdateEmail, admin)
}

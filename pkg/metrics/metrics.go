package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OrdersCreated      prometheus.Counter
	OrdersRejected     *prometheus.CounterVec
	OrderPersistFailed prometheus.Counter

	CredentialFallbacks prometheus.Counter
	AnalyticsTracked    *prometheus.CounterVec
	EventsPublishFailed *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_admin_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_admin_orders_created_total"})
	ordersRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_orders_rejected_total",
		Help: "Order submissions rejected by validation, by rule.",
	}, []string{"reason"})
	orderPersistFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_admin_order_persist_failures_total"})

	credentialFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_admin_credential_fallback_total",
		Help: "Transitions of the admin credential store to the in-memory tier.",
	})
	analyticsTracked := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_admin_analytics_events_total"}, []string{"type"})
	eventsPublishFailed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_admin_event_publish_failures_total"}, []string{"topic"})

	r.MustRegister(httpRequests, httpDuration, ordersCreated, ordersRejected, orderPersistFailed,
		credentialFallbacks, analyticsTracked, eventsPublishFailed)

	return &Registry{
		reg:                 r,
		HTTPRequests:        httpRequests,
		HTTPDuration:        httpDuration,
		OrdersCreated:       ordersCreated,
		OrdersRejected:      ordersRejected,
		OrderPersistFailed:  orderPersistFailed,
		CredentialFallbacks: credentialFallbacks,
		AnalyticsTracked:    analyticsTracked,
		EventsPublishFailed: eventsPublishFailed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

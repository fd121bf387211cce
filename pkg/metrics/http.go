package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request-level metadata for the storefront API.
type HTTPMetrics struct {
	registry *prometheus.Registry

	duration *prometheus.HistogramVec
	orders   *prometheus.CounterVec
	payments *prometheus.CounterVec
	webhooks *prometheus.CounterVec
}

// NewHTTPMetrics builds a registry with process collectors plus the
// storefront counters and histograms.
func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_total",
		Help: "Orders created, by payment method.",
	}, []string{"method"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_transitions_total",
		Help: "Payment status transitions applied to orders.",
	}, []string{"to"})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_webhook_events_total",
		Help: "Gateway webhook deliveries, by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(duration, orders, payments, webhooks)

	return &HTTPMetrics{
		registry: registry,
		duration: duration,
		orders:   orders,
		payments: payments,
		webhooks: webhooks,
	}
}

// ObserveRequest records the duration of a handled request.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.duration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncOrder counts a newly created order for the payment method.
func (m *HTTPMetrics) IncOrder(method string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(method).Inc()
}

// IncPaymentTransition counts a payment status transition.
func (m *HTTPMetrics) IncPaymentTransition(to string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(to).Inc()
}

// IncWebhook counts a webhook delivery by outcome (accepted, rejected,
// unmatched, malformed).
func (m *HTTPMetrics) IncWebhook(outcome string) {
	if m == nil || m.webhooks == nil {
		return
	}
	m.webhooks.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry for scraping.
func (m *HTTPMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

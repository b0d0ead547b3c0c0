package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the application collectors so main can wire them once.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OrdersPlaced     *prometheus.CounterVec
	CheckoutFailures *prometheus.CounterVec
	CartMutations    *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopeasy_http_requests_total",
			Help: "HTTP requests by route, method and status class.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopeasy_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		OrdersPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopeasy_orders_placed_total",
			Help: "Orders placed, by payment method.",
		}, []string{"payment_method"}),
		CheckoutFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopeasy_checkout_failures_total",
			Help: "Checkout attempts that failed, by reason.",
		}, []string{"reason"}),
		CartMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopeasy_cart_mutations_total",
			Help: "Cart writes, by operation.",
		}, []string{"operation"}),
	}
}

// Handler serves the scrape endpoint for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

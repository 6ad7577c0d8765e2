package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests          *prometheus.CounterVec
	LatencyMS         *prometheus.HistogramVec
	OrdersCreated     prometheus.Counter
	CartsMerged       prometheus.Counter
	PaymentsConfirmed prometheus.Counter
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modora",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "modora",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "modora",
		Subsystem: service,
		Name:      "orders_created_total",
		Help:      "Total number of orders created at checkout.",
	})
	cartsMerged := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "modora",
		Subsystem: service,
		Name:      "carts_merged_total",
		Help:      "Total number of guest carts merged into user carts.",
	})
	paymentsConfirmed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "modora",
		Subsystem: service,
		Name:      "payments_confirmed_total",
		Help:      "Total number of payment confirmations applied to orders.",
	})

	prometheus.MustRegister(requests, latency, ordersCreated, cartsMerged, paymentsConfirmed)
	return &ServerMetrics{
		Requests:          requests,
		LatencyMS:         latency,
		OrdersCreated:     ordersCreated,
		CartsMerged:       cartsMerged,
		PaymentsConfirmed: paymentsConfirmed,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

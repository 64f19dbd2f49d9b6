package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of successfully placed orders",
		},
	)

	StockRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_stock_rejected_total",
			Help: "Total number of placements rejected for insufficient stock",
		},
	)

	LowStockGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shop_product_low_stock",
			Help: "Remaining stock for products below the low-stock threshold",
		},
		[]string{"product_id"},
	)
)

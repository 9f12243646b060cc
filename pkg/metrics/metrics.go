package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	BookingsConfirmed   prometheus.Counter
	BookingsCancelled   prometheus.Counter
	PaymentsVerified    prometheus.Counter
	PaymentsFailed      prometheus.Counter
	PriceMismatches     prometheus.Counter
	PricingFallbacks    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		BookingsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dexotix_bookings_confirmed_total",
			Help: "Number of bookings confirmed.",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dexotix_bookings_cancelled_total",
			Help: "Number of bookings cancelled.",
		}),
		PaymentsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dexotix_payments_verified_total",
			Help: "Number of payments whose gateway signature verified.",
		}),
		PaymentsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dexotix_payments_failed_total",
			Help: "Number of failed or rejected payments.",
		}),
		PriceMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dexotix_price_mismatches_total",
			Help: "Payment requests rejected because the reconciled total disagreed with the stored booking total.",
		}),
		PricingFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dexotix_pricing_quantity_fallbacks_total",
			Help: "Quantity normalizations that degraded to the path default instead of using upstream data.",
		}, []string{"path"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dexotix_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler exposes the default registry as a gin handler for /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout outcomes and observes order totals.
type CheckoutMetrics struct {
	Checkouts  *prometheus.CounterVec
	OrderTotal prometheus.Histogram
}

// NewCheckoutMetrics registers on the default registry; call once.
func NewCheckoutMetrics() *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopping",
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Total number of checkout attempts by outcome.",
	}, []string{"outcome"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shopping",
		Subsystem: "checkout",
		Name:      "order_total",
		Help:      "Totals of successfully created orders.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	prometheus.MustRegister(checkouts, orderTotal)
	return &CheckoutMetrics{Checkouts: checkouts, OrderTotal: orderTotal}
}

// Outcome labels for the checkout counter.
const (
	OutcomeSuccess         = "success"
	OutcomeNotFound        = "not_found"
	OutcomeEmptyCart       = "empty_cart"
	OutcomePaymentDeclined = "payment_declined"
	OutcomePersistFailed   = "persist_failed"
)

func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart activity and order submission outcomes.
type StorefrontMetrics struct {
	cartOps       *prometheus.CounterVec
	orderDuration prometheus.Histogram
	orderSuccess  prometheus.Counter
	orderFailure  prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	orderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_submission_duration_seconds",
		Help:    "Duration of order-creation calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	orderSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders accepted by the order-creation collaborator.",
	})
	orderFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order submissions rejected or failed.",
	})
	reg.MustRegister(cartOps, orderDuration, orderSuccess, orderFailure)
	return &StorefrontMetrics{
		cartOps:       cartOps,
		orderDuration: orderDuration,
		orderSuccess:  orderSuccess,
		orderFailure:  orderFailure,
	}
}

// ObserveCartOp increments the counter for the named cart operation.
func (m *StorefrontMetrics) ObserveCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveOrderDuration records how long an order submission took.
func (m *StorefrontMetrics) ObserveOrderDuration(duration time.Duration) {
	if m == nil || m.orderDuration == nil {
		return
	}
	m.orderDuration.Observe(duration.Seconds())
}

// IncOrderSuccess increments the accepted-order counter.
func (m *StorefrontMetrics) IncOrderSuccess() {
	if m == nil || m.orderSuccess == nil {
		return
	}
	m.orderSuccess.Inc()
}

// IncOrderFailure increments the failed-submission counter.
func (m *StorefrontMetrics) IncOrderFailure() {
	if m == nil || m.orderFailure == nil {
		return
	}
	m.orderFailure.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}

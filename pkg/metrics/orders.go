package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks storefront order placement outcomes.
type OrderMetrics struct {
	placed *prometheus.CounterVec
	failed *prometheus.CounterVec
	emails *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders committed successfully.",
	}, []string{"source"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order placements rolled back, labelled by reason.",
	}, []string{"reason"})
	emails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_emails_total",
		Help: "Confirmation email delivery attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(placed, failed, emails)
	return &OrderMetrics{
		placed: placed,
		failed: failed,
		emails: emails,
	}
}

// IncPlaced increments the placed counter for the given source.
func (o *OrderMetrics) IncPlaced(source string) {
	if o == nil || o.placed == nil {
		return
	}
	o.placed.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFailed increments the failed counter for the given reason.
func (o *OrderMetrics) IncFailed(reason string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncEmail increments the email counter for the given outcome.
func (o *OrderMetrics) IncEmail(outcome string) {
	if o == nil || o.emails == nil {
		return
	}
	o.emails.WithLabelValues(normalizeLabel(outcome)).Inc()
}

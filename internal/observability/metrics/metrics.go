// Package metrics exposes prometheus instruments for the booking engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking outcomes and conflict rejections.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	conflictsTotal  prometheus.Counter
	bookingLatency  *prometheus.HistogramVec
	snapshotLoads   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "schedule",
			Name:      "bookings_total",
			Help:      "Booking mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "schedule",
			Name:      "conflicts_rejected_total",
			Help:      "Bookings rejected because a slot was already taken",
		}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "schedule",
			Name:      "booking_latency_seconds",
			Help:      "Latency of booking mutations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		snapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "sync",
			Name:      "snapshot_loads_total",
			Help:      "Snapshot loads by source (store, cache, defaults)",
		}, []string{"source"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "sync",
			Name:      "persist_failures_total",
			Help:      "Fire-and-forget persistence writes that failed",
		}, []string{"collection"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.conflictsTotal, m.bookingLatency, m.snapshotLoads, m.persistFailures)
	return m
}

func (m *BookingMetrics) ObserveBooking(operation, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *BookingMetrics) ObserveBookingLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *BookingMetrics) ObserveSnapshotLoad(source string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(source).Inc()
}

func (m *BookingMetrics) ObservePersistFailure(collection string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(collection).Inc()
}

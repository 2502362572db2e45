package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the booking core.
type Metrics struct {
	BookingsCreated        prometheus.Counter
	BookingStatusChanges   *prometheus.CounterVec
	BookingConflicts       prometheus.Counter
	FeedbackCreated        prometheus.Counter
	TouristProfilesCreated prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tour_booking_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingStatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_booking_booking_status_changes_total",
			Help: "Booking status transitions applied by agencies",
		}, []string{"status"}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "tour_booking_booking_conflicts_total",
			Help: "Booking writes rejected because the record changed since it was read",
		}),
		FeedbackCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tour_booking_feedback_created_total",
			Help: "Total number of feedback entries created",
		}),
		TouristProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tour_booking_tourist_profiles_created_total",
			Help: "Tourist profiles created on first use",
		}),
	}
}

// NewNop returns collectors bound to a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

package ports

import (
	"context"

	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// BookingCache holds role-scoped booking lists. A miss returns ok == false
// together with the generation a following SetBookings must pass; a list
// written for a generation that Invalidate has moved past is never served.
type BookingCache interface {
	GetBookings(ctx context.Context, scope string) (bookings []domain.Booking, generation int64, ok bool, err error)
	SetBookings(ctx context.Context, scope string, generation int64, bookings []domain.Booking) error
	Invalidate(ctx context.Context, scopes ...string) error
}

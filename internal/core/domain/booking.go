package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "Pending"
	BookingApproved BookingStatus = "Approved"
	BookingRejected BookingStatus = "Rejected"
)

// ParseBookingStatus normalizes s case-insensitively to one of the known statuses.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return BookingPending, nil
	case "approved":
		return BookingApproved, nil
	case "rejected":
		return BookingRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type Booking struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	TouristID        uuid.UUID     `json:"tourist_id" db:"tourist_id"`
	PackageID        uuid.UUID     `json:"package_id" db:"package_id"`
	BookingDate      time.Time     `json:"booking_date" db:"booking_date"`
	Status           BookingStatus `json:"status" db:"status"`
	ParticipantCount int           `json:"participant_count" db:"participant_count"`
	Version          int           `json:"version" db:"version"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// IsApproved tolerates legacy rows stored with a different casing.
func (b *Booking) IsApproved() bool {
	status, err := ParseBookingStatus(string(b.Status))
	return err == nil && status == BookingApproved
}

// BookingDetail is a booking loaded together with its package and the agency
// owning that package.
type BookingDetail struct {
	Booking Booking
	Package TourPackage
	Agency  TravelAgency
}

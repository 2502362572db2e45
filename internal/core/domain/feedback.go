package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookingID uuid.UUID `json:"booking_id" db:"booking_id"`
	TouristID uuid.UUID `json:"tourist_id" db:"tourist_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d, got %d", ErrInvalidRating, MinRating, MaxRating, rating)
	}
	return nil
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TourPackage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AgencyID     uuid.UUID `json:"agency_id" db:"agency_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	Price        float64   `json:"price" db:"price"`
	MaxGroupSize int       `json:"max_group_size" db:"max_group_size"`
	TourImage    string    `json:"tour_image" db:"tour_image"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CheckCapacity reports ErrCapacityExceeded unless 1 <= participants <= MaxGroupSize.
func (p *TourPackage) CheckCapacity(participants int) error {
	if participants < 1 {
		return fmt.Errorf("%w: at least one participant is required", ErrCapacityExceeded)
	}
	if participants > p.MaxGroupSize {
		return fmt.Errorf("%w: group size cannot exceed the tour limit (%d)", ErrCapacityExceeded, p.MaxGroupSize)
	}
	return nil
}

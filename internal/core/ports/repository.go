package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// Transactor runs fn as a single logical transaction. Repositories called with
// the ctx handed to fn participate in it; a nested WithinTx joins the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TouristRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Tourist, error)
	GetByEmail(ctx context.Context, email string) (*domain.Tourist, error)
	// CreateIfAbsent inserts tourist unless a row for the same user already
	// exists, in which case the existing row is returned.
	CreateIfAbsent(ctx context.Context, tourist *domain.Tourist) (*domain.Tourist, error)
}

type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.TravelAgency) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TravelAgency, error)
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.TourPackage) error
	GetByID(ctx context.Context, packageID uuid.UUID) (*domain.TourPackage, error)
	List(ctx context.Context) ([]domain.TourPackage, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	GetDetail(ctx context.Context, bookingID uuid.UUID) (*domain.BookingDetail, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Booking, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]domain.Booking, error)
	// Update writes booking only if the stored version still equals
	// booking.Version, returning domain.ErrConflict otherwise. On success
	// booking.Version is advanced. TouristID is never written.
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, bookingID uuid.UUID) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	List(ctx context.Context) ([]domain.Feedback, error)
	ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Feedback, error)
}

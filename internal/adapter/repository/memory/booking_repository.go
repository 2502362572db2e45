package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type PackageRepository struct {
	store *Store
}

func (r *PackageRepository) Create(ctx context.Context, pkg *domain.TourPackage) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.data.agencies[pkg.AgencyID]; !ok {
		return fmt.Errorf("%w: tour_packages_agency_id_fkey", domain.ErrInvalidReference)
	}

	r.store.data.packages[pkg.ID] = *pkg
	return nil
}

func (r *PackageRepository) GetByID(ctx context.Context, packageID uuid.UUID) (*domain.TourPackage, error) {
	defer r.store.lock(ctx)()

	pkg, ok := r.store.data.packages[packageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &pkg, nil
}

func (r *PackageRepository) List(ctx context.Context) ([]domain.TourPackage, error) {
	defer r.store.lock(ctx)()

	packages := make([]domain.TourPackage, 0, len(r.store.data.packages))
	for _, pkg := range r.store.data.packages {
		packages = append(packages, pkg)
	}
	sort.Slice(packages, func(i, j int) bool {
		if !packages[i].CreatedAt.Equal(packages[j].CreatedAt) {
			return packages[i].CreatedAt.Before(packages[j].CreatedAt)
		}
		return packages[i].ID.String() < packages[j].ID.String()
	})
	return packages, nil
}

type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.data.tourists[booking.TouristID]; !ok {
		return fmt.Errorf("%w: bookings_tourist_id_fkey", domain.ErrInvalidReference)
	}
	if _, ok := r.store.data.packages[booking.PackageID]; !ok {
		return fmt.Errorf("%w: bookings_package_id_fkey", domain.ErrInvalidReference)
	}

	r.store.data.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	defer r.store.lock(ctx)()

	booking, ok := r.store.data.bookings[bookingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &booking, nil
}

func (r *BookingRepository) GetDetail(ctx context.Context, bookingID uuid.UUID) (*domain.BookingDetail, error) {
	defer r.store.lock(ctx)()

	booking, ok := r.store.data.bookings[bookingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	pkg, ok := r.store.data.packages[booking.PackageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	agency, ok := r.store.data.agencies[pkg.AgencyID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return &domain.BookingDetail{Booking: booking, Package: pkg, Agency: agency}, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.filter(ctx, func(domain.Booking) bool { return true }), nil
}

func (r *BookingRepository) ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool { return b.TouristID == touristID }), nil
}

func (r *BookingRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool {
		pkg, ok := r.store.data.packages[b.PackageID]
		return ok && pkg.AgencyID == agencyID
	}), nil
}

func (r *BookingRepository) filter(ctx context.Context, keep func(domain.Booking) bool) []domain.Booking {
	defer r.store.lock(ctx)()

	bookings := []domain.Booking{}
	for _, b := range r.store.data.bookings {
		if keep(b) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.Before(bookings[j].BookingDate)
		}
		return bookings[i].ID.String() < bookings[j].ID.String()
	})
	return bookings
}

func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.data.bookings[booking.ID]
	if !ok || stored.Version != booking.Version {
		return domain.ErrConflict
	}
	if _, ok := r.store.data.packages[booking.PackageID]; !ok {
		return fmt.Errorf("%w: bookings_package_id_fkey", domain.ErrInvalidReference)
	}

	stored.PackageID = booking.PackageID
	stored.BookingDate = booking.BookingDate
	stored.Status = booking.Status
	stored.ParticipantCount = booking.ParticipantCount
	stored.UpdatedAt = booking.UpdatedAt
	stored.Version++

	r.store.data.bookings[booking.ID] = stored
	booking.Version = stored.Version
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, bookingID uuid.UUID) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.data.bookings[bookingID]; !ok {
		return domain.ErrNotFound
	}

	delete(r.store.data.bookings, bookingID)
	for id, f := range r.store.data.feedback {
		if f.BookingID == bookingID {
			delete(r.store.data.feedback, id)
		}
	}
	return nil
}

type FeedbackRepository struct {
	store *Store
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.data.bookings[feedback.BookingID]; !ok {
		return fmt.Errorf("%w: feedback_booking_id_fkey", domain.ErrInvalidReference)
	}

	r.store.data.feedback[feedback.ID] = *feedback
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	return r.filter(ctx, func(domain.Feedback) bool { return true }), nil
}

func (r *FeedbackRepository) ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Feedback, error) {
	return r.filter(ctx, func(f domain.Feedback) bool { return f.TouristID == touristID }), nil
}

func (r *FeedbackRepository) filter(ctx context.Context, keep func(domain.Feedback) bool) []domain.Feedback {
	defer r.store.lock(ctx)()

	entries := []domain.Feedback{}
	for _, f := range r.store.data.feedback {
		if keep(f) {
			entries = append(entries, f)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
)

type CreateBookingRequest struct {
	PackageID        uuid.UUID
	BookingDate      time.Time
	ParticipantCount int
}

// BookingChanges lists the fields an edit may touch. Nil fields are kept.
// Version, when set, must equal the stored version.
type BookingChanges struct {
	PackageID        *uuid.UUID
	BookingDate      *time.Time
	ParticipantCount *int
	Version          *int
}

type BookingService struct {
	tx       ports.Transactor
	profiles *ProfileService
	packages ports.PackageRepository
	bookings ports.BookingRepository
	cache    ports.BookingCache
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// NewBookingService wires the lifecycle engine. cache may be nil.
func NewBookingService(tx ports.Transactor, profiles *ProfileService, packageRepo ports.PackageRepository, bookingRepo ports.BookingRepository, cache ports.BookingCache, m *metrics.Metrics, log logrus.FieldLogger) *BookingService {
	return &BookingService{
		tx:       tx,
		profiles: profiles,
		packages: packageRepo,
		bookings: bookingRepo,
		cache:    cache,
		metrics:  m,
		log:      log,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, p *domain.Principal, req CreateBookingRequest) (*domain.Booking, error) {
	tourist, err := s.profiles.actingTourist(ctx, p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bookingDate := req.BookingDate
	if bookingDate.IsZero() {
		bookingDate = now
	}

	var booking *domain.Booking
	var pkg *domain.TourPackage

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pkg, err = s.loadPackage(ctx, req.PackageID)
		if err != nil {
			return err
		}

		if err := pkg.CheckCapacity(req.ParticipantCount); err != nil {
			return err
		}

		booking = &domain.Booking{
			ID:               uuid.New(),
			TouristID:        tourist.ID,
			PackageID:        pkg.ID,
			BookingDate:      bookingDate,
			Status:           domain.BookingPending,
			ParticipantCount: req.ParticipantCount,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, touristScope(tourist.ID), agencyScope(pkg.AgencyID))
	s.metrics.BookingsCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"tourist_id":   tourist.ID,
		"package_id":   pkg.ID,
		"participants": booking.ParticipantCount,
	}).Info("Booking created")

	return booking, nil
}

// ListBookings returns the bookings visible to p: a tourist sees its own, an
// agency sees the bookings of its packages and an admin sees all of them.
func (s *BookingService) ListBookings(ctx context.Context, p *domain.Principal) ([]domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	var scope string
	var load func(ctx context.Context) ([]domain.Booking, error)

	switch p.Role {
	case domain.RoleTourist:
		tourist, err := s.profiles.actingTourist(ctx, p)
		if err != nil {
			return nil, err
		}
		scope = touristScope(tourist.ID)
		load = func(ctx context.Context) ([]domain.Booking, error) {
			return s.bookings.ListByTourist(ctx, tourist.ID)
		}
	case domain.RoleAgency:
		agency, err := s.profiles.ResolveAgency(ctx, p)
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Booking{}, nil
		}
		if err != nil {
			return nil, err
		}
		scope = agencyScope(agency.ID)
		load = func(ctx context.Context) ([]domain.Booking, error) {
			return s.bookings.ListByAgency(ctx, agency.ID)
		}
	case domain.RoleAdmin:
		scope = allScope
		load = s.bookings.List
	default:
		return nil, domain.ErrUnauthorized
	}

	// The generation is read before storage so a concurrent invalidation
	// orphans this fill.
	var generation int64
	fill := false
	if s.cache != nil {
		cached, gen, ok, err := s.cache.GetBookings(ctx, scope)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("scope", scope).Warn("Booking cache read failed")
		case ok:
			return cached, nil
		default:
			generation, fill = gen, true
		}
	}

	bookings, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	sortBookings(bookings)

	if fill {
		if err := s.cache.SetBookings(ctx, scope, generation, bookings); err != nil {
			s.log.WithError(err).WithField("scope", scope).Warn("Booking cache write failed")
		}
	}

	return bookings, nil
}

// UpdateStatus moves a booking to requested. Only the agency owning the
// booked package may do this; any status may follow any other.
func (s *BookingService) UpdateStatus(ctx context.Context, p *domain.Principal, bookingID uuid.UUID, requested string) (*domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	var updated domain.Booking
	var agencyID uuid.UUID

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		detail, err := s.bookings.GetDetail(ctx, bookingID)
		if err != nil {
			return err
		}

		if !ownsPackage(p, detail) {
			return fmt.Errorf("%w: only the agency owning the package may change this booking", domain.ErrForbidden)
		}

		status, err := domain.ParseBookingStatus(requested)
		if err != nil {
			return err
		}

		updated = detail.Booking
		updated.Status = status
		updated.UpdatedAt = time.Now().UTC()
		agencyID = detail.Agency.ID

		return s.bookings.Update(ctx, &updated)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.BookingConflicts.Inc()
			s.log.WithField("booking_id", bookingID).Warn("Booking status update lost a concurrent write")
		}
		return nil, err
	}

	s.invalidate(ctx, touristScope(updated.TouristID), agencyScope(agencyID))
	s.metrics.BookingStatusChanges.WithLabelValues(string(updated.Status)).Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"status":     updated.Status,
		"user_id":    p.UserID,
	}).Info("Booking status updated")

	return &updated, nil
}

// EditBooking applies changes on behalf of the owning tourist or an admin.
// The participant count is checked again against the package the booking
// ends up referencing, and the tourist is always kept.
func (s *BookingService) EditBooking(ctx context.Context, p *domain.Principal, bookingID uuid.UUID, changes BookingChanges) (*domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	var actingTouristID *uuid.UUID
	switch p.Role {
	case domain.RoleTourist:
		tourist, err := s.profiles.actingTourist(ctx, p)
		if err != nil {
			return nil, err
		}
		actingTouristID = &tourist.ID
	case domain.RoleAdmin:
	case domain.RoleAgency:
		return nil, fmt.Errorf("%w: agencies change bookings through their status", domain.ErrForbidden)
	default:
		return nil, domain.ErrUnauthorized
	}

	var updated domain.Booking
	var scopes []string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		if actingTouristID != nil && current.TouristID != *actingTouristID {
			return fmt.Errorf("%w: booking belongs to another tourist", domain.ErrForbidden)
		}

		if changes.Version != nil && *changes.Version != current.Version {
			return fmt.Errorf("%w: booking is at version %d, not %d", domain.ErrConflict, current.Version, *changes.Version)
		}

		previous, err := s.packages.GetByID(ctx, current.PackageID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to load package %s: %w", current.PackageID, err)
		}
		if previous != nil {
			scopes = append(scopes, agencyScope(previous.AgencyID))
		}

		updated = *current
		if changes.PackageID != nil {
			updated.PackageID = *changes.PackageID
		}
		if changes.BookingDate != nil {
			updated.BookingDate = *changes.BookingDate
		}
		if changes.ParticipantCount != nil {
			updated.ParticipantCount = *changes.ParticipantCount
		}

		pkg, err := s.loadPackage(ctx, updated.PackageID)
		if err != nil {
			return err
		}
		if err := pkg.CheckCapacity(updated.ParticipantCount); err != nil {
			return err
		}
		scopes = append(scopes, agencyScope(pkg.AgencyID), touristScope(current.TouristID))

		updated.TouristID = current.TouristID
		updated.UpdatedAt = time.Now().UTC()

		return s.bookings.Update(ctx, &updated)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.invalidate(ctx, scopes...)
	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"version":    updated.Version,
	}).Info("Booking edited")

	return &updated, nil
}

// DeleteBooking removes a booking without any ownership check. Callers must
// restrict it to administrators.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	var detail *domain.BookingDetail

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		detail, err = s.bookings.GetDetail(ctx, bookingID)
		if err != nil {
			return err
		}
		return s.bookings.Delete(ctx, bookingID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, touristScope(detail.Booking.TouristID), agencyScope(detail.Agency.ID))
	s.log.WithField("booking_id", bookingID).Info("Booking deleted")

	return nil
}

func (s *BookingService) loadPackage(ctx context.Context, packageID uuid.UUID) (*domain.TourPackage, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: tour package %s does not exist", domain.ErrInvalidReference, packageID)
		}
		return nil, fmt.Errorf("failed to load package %s: %w", packageID, err)
	}
	return pkg, nil
}

func (s *BookingService) invalidate(ctx context.Context, scopes ...string) {
	if s.cache == nil {
		return
	}
	seen := make(map[string]bool, len(scopes)+1)
	unique := make([]string, 0, len(scopes)+1)
	for _, scope := range append(scopes, allScope) {
		if !seen[scope] {
			seen[scope] = true
			unique = append(unique, scope)
		}
	}
	if err := s.cache.Invalidate(ctx, unique...); err != nil {
		s.log.WithError(err).Warn("Booking cache invalidation failed")
	}
}

func ownsPackage(p *domain.Principal, detail *domain.BookingDetail) bool {
	return p.Role == domain.RoleAgency && detail.Agency.UserID == p.UserID
}

const allScope = "all"

func touristScope(id uuid.UUID) string { return "tourist:" + id.String() }

func agencyScope(id uuid.UUID) string { return "agency:" + id.String() }

func sortBookings(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.Before(bookings[j].BookingDate)
		}
		return bookings[i].ID.String() < bookings[j].ID.String()
	})
}

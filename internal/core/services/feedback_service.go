package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
)

type CreateFeedbackRequest struct {
	BookingID uuid.UUID
	Rating    int
	Comment   string
}

// FeedbackService decides whether a tourist may attach feedback to a booking.
type FeedbackService struct {
	tx       ports.Transactor
	profiles *ProfileService
	bookings ports.BookingRepository
	feedback ports.FeedbackRepository
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

func NewFeedbackService(tx ports.Transactor, profiles *ProfileService, bookingRepo ports.BookingRepository, feedbackRepo ports.FeedbackRepository, m *metrics.Metrics, log logrus.FieldLogger) *FeedbackService {
	return &FeedbackService{
		tx:       tx,
		profiles: profiles,
		bookings: bookingRepo,
		feedback: feedbackRepo,
		metrics:  m,
		log:      log,
	}
}

// CreateFeedback records feedback for an approved booking owned by the acting
// tourist. Nothing is written unless every check passes.
func (s *FeedbackService) CreateFeedback(ctx context.Context, p *domain.Principal, req CreateFeedbackRequest) (*domain.Feedback, error) {
	tourist, err := s.profiles.actingTourist(ctx, p)
	if err != nil {
		return nil, err
	}

	var feedback *domain.Feedback

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}

		if booking.TouristID != tourist.ID {
			return fmt.Errorf("%w: booking not found or not yours", domain.ErrForbidden)
		}

		if !booking.IsApproved() {
			return fmt.Errorf("%w: you can only give feedback for an approved booking", domain.ErrNotEligible)
		}

		if err := domain.ValidateRating(req.Rating); err != nil {
			return err
		}

		feedback = &domain.Feedback{
			ID:        uuid.New(),
			BookingID: booking.ID,
			TouristID: booking.TouristID,
			Rating:    req.Rating,
			CreatedAt: time.Now().UTC(),
		}
		if comment := strings.TrimSpace(req.Comment); comment != "" {
			feedback.Comment = &comment
		}

		return s.feedback.Create(ctx, feedback)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.FeedbackCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"feedback_id": feedback.ID,
		"booking_id":  feedback.BookingID,
		"rating":      feedback.Rating,
	}).Info("Feedback submitted")

	return feedback, nil
}

// ListFeedback returns the tourist's own feedback, or everything for other
// roles, newest first.
func (s *FeedbackService) ListFeedback(ctx context.Context, p *domain.Principal) ([]domain.Feedback, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	var entries []domain.Feedback
	var err error

	switch p.Role {
	case domain.RoleTourist:
		tourist, rerr := s.profiles.actingTourist(ctx, p)
		if rerr != nil {
			return nil, rerr
		}
		entries, err = s.feedback.ListByTourist(ctx, tourist.ID)
	case domain.RoleAgency, domain.RoleAdmin:
		entries, err = s.feedback.List(ctx)
	default:
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// ListEligibleBookings returns the acting tourist's approved bookings, latest
// booking date first.
func (s *FeedbackService) ListEligibleBookings(ctx context.Context, p *domain.Principal) ([]domain.Booking, error) {
	tourist, err := s.profiles.actingTourist(ctx, p)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByTourist(ctx, tourist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	eligible := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsApproved() {
			eligible = append(eligible, b)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].BookingDate.After(eligible[j].BookingDate)
	})

	return eligible, nil
}

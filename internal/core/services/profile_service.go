package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
)

// ProfileService maps a principal to its Tourist or TravelAgency profile.
type ProfileService struct {
	users    ports.UserRepository
	tourists ports.TouristRepository
	agencies ports.AgencyRepository
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

func NewProfileService(users ports.UserRepository, tourists ports.TouristRepository, agencies ports.AgencyRepository, m *metrics.Metrics, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		users:    users,
		tourists: tourists,
		agencies: agencies,
		metrics:  m,
		log:      log,
	}
}

// ResolveTourist returns the tourist profile of p, creating it on first use.
// A principal with any other role yields domain.ErrNotFound. Concurrent first
// calls for the same user all end up with the same row.
func (s *ProfileService) ResolveTourist(ctx context.Context, p *domain.Principal) (*domain.Tourist, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	if p.Role != domain.RoleTourist {
		return nil, domain.ErrNotFound
	}

	tourist, err := s.tourists.GetByUserID(ctx, p.UserID)
	if err == nil {
		return tourist, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load tourist for user %s: %w", p.UserID, err)
	}

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", p.UserID, err)
	}

	tourist, err = s.tourists.GetByEmail(ctx, domain.Normalize(user.Email))
	if err == nil {
		return tourist, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load tourist by email: %w", err)
	}

	candidate := &domain.Tourist{
		ID:           uuid.New(),
		FullName:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		UserID:       user.ID,
		CreatedAt:    time.Now().UTC(),
	}

	tourist, err = s.tourists.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create tourist profile: %w", err)
	}

	if tourist.ID == candidate.ID {
		s.metrics.TouristProfilesCreated.Inc()
		s.log.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"tourist_id": tourist.ID,
		}).Info("Tourist profile created on first use")
	}

	return tourist, nil
}

// ResolveAgency returns the agency profile owned by p.
func (s *ProfileService) ResolveAgency(ctx context.Context, p *domain.Principal) (*domain.TravelAgency, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	if p.Role != domain.RoleAgency {
		return nil, domain.ErrNotFound
	}

	agency, err := s.agencies.GetByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load agency for user %s: %w", p.UserID, err)
	}

	return agency, nil
}

// actingTourist is ResolveTourist for operations that require a tourist.
func (s *ProfileService) actingTourist(ctx context.Context, p *domain.Principal) (*domain.Tourist, error) {
	tourist, err := s.ResolveTourist(ctx, p)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: a tourist profile is required", domain.ErrUnauthorized)
	}
	return tourist, err
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type CreatePackageRequest struct {
	Title        string
	Description  string
	DurationDays int
	Price        float64
	MaxGroupSize int
	TourImage    string
}

type PackageService struct {
	profiles *ProfileService
	packages ports.PackageRepository
	log      logrus.FieldLogger
}

func NewPackageService(profiles *ProfileService, packageRepo ports.PackageRepository, log logrus.FieldLogger) *PackageService {
	return &PackageService{
		profiles: profiles,
		packages: packageRepo,
		log:      log,
	}
}

// CreatePackage publishes a package owned by the acting agency.
func (s *PackageService) CreatePackage(ctx context.Context, p *domain.Principal, req CreatePackageRequest) (*domain.TourPackage, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}

	switch p.Role {
	case domain.RoleAgency:
	case domain.RoleTourist, domain.RoleAdmin:
		return nil, fmt.Errorf("%w: only agencies publish packages", domain.ErrForbidden)
	default:
		return nil, domain.ErrUnauthorized
	}

	agency, err := s.profiles.ResolveAgency(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: an agency profile is required", domain.ErrUnauthorized)
		}
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case req.DurationDays < 1:
		return nil, fmt.Errorf("%w: duration must be at least one day", domain.ErrInvalidInput)
	case req.Price < 0:
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	case req.MaxGroupSize < 1:
		return nil, fmt.Errorf("%w: max group size must be at least 1", domain.ErrInvalidInput)
	}

	pkg := &domain.TourPackage{
		ID:           uuid.New(),
		AgencyID:     agency.ID,
		Title:        title,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		MaxGroupSize: req.MaxGroupSize,
		TourImage:    req.TourImage,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"package_id": pkg.ID,
		"agency_id":  agency.ID,
	}).Info("Tour package created")

	return pkg, nil
}

func (s *PackageService) ListPackages(ctx context.Context) ([]domain.TourPackage, error) {
	packages, err := s.packages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.data.users {
		if domain.Normalize(existing.Username) == domain.Normalize(user.Username) {
			return fmt.Errorf("%w: ux_users_username", domain.ErrAlreadyExists)
		}
		if domain.Normalize(existing.Email) == domain.Normalize(user.Email) {
			return fmt.Errorf("%w: ux_users_email", domain.ErrAlreadyExists)
		}
	}

	r.store.data.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	defer r.store.lock(ctx)()

	user, ok := r.store.data.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.store.lock(ctx)()

	for _, user := range r.store.data.users {
		if domain.Normalize(user.Username) == username {
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.store.lock(ctx)()

	for _, user := range r.store.data.users {
		if domain.Normalize(user.Email) == email {
			return true, nil
		}
	}
	return false, nil
}

type TouristRepository struct {
	store *Store
}

func (r *TouristRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Tourist, error) {
	defer r.store.lock(ctx)()
	return r.byUserID(userID)
}

func (r *TouristRepository) byUserID(userID uuid.UUID) (*domain.Tourist, error) {
	for _, tourist := range r.store.data.tourists {
		if tourist.UserID == userID {
			return &tourist, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *TouristRepository) GetByEmail(ctx context.Context, email string) (*domain.Tourist, error) {
	defer r.store.lock(ctx)()

	var found *domain.Tourist
	for _, tourist := range r.store.data.tourists {
		if domain.Normalize(tourist.Email) != email {
			continue
		}
		if found == nil || tourist.CreatedAt.Before(found.CreatedAt) {
			t := tourist
			found = &t
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *TouristRepository) CreateIfAbsent(ctx context.Context, tourist *domain.Tourist) (*domain.Tourist, error) {
	defer r.store.lock(ctx)()

	if existing, err := r.byUserID(tourist.UserID); err == nil {
		return existing, nil
	}

	r.store.data.tourists[tourist.ID] = *tourist
	created := *tourist
	return &created, nil
}

type AgencyRepository struct {
	store *Store
}

func (r *AgencyRepository) Create(ctx context.Context, agency *domain.TravelAgency) error {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.data.agencies {
		if existing.UserID == agency.UserID {
			return fmt.Errorf("%w: ux_travel_agencies_user_id", domain.ErrAlreadyExists)
		}
	}

	r.store.data.agencies[agency.ID] = *agency
	return nil
}

func (r *AgencyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TravelAgency, error) {
	defer r.store.lock(ctx)()

	for _, agency := range r.store.data.agencies {
		if agency.UserID == userID {
			return &agency, nil
		}
	}
	return nil, domain.ErrNotFound
}

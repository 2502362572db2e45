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

const minPasswordLength = 6

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserID    uuid.UUID   `json:"user_id"`
	Role      domain.Role `json:"role"`
}

// AuthService registers users and produces the identity tokens the rest of
// the API trusts.
type AuthService struct {
	tx       ports.Transactor
	users    ports.UserRepository
	agencies ports.AgencyRepository
	profiles *ProfileService
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	log      logrus.FieldLogger
}

func NewAuthService(tx ports.Transactor, users ports.UserRepository, agencies ports.AgencyRepository, profiles *ProfileService, hasher ports.PasswordHasher, tokens ports.TokenService, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		tx:       tx,
		users:    users,
		agencies: agencies,
		profiles: profiles,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
	}
}

// Register creates a user and the profile matching its role in one transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be Tourist or Agency", domain.ErrInvalidInput)
	}

	user, err := s.createUser(ctx, req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")

	return user, nil
}

// EnsureAdmin creates the administrator account unless a user with that
// username exists already. Admins cannot register themselves, so this is how
// the first one is provisioned.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, domain.Normalize(username))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: %s is registered as %s", domain.ErrAlreadyExists, existing.Username, existing.Role)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user, err := s.createUser(ctx, username, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("Admin account created")

	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmail(ctx, domain.Normalize(email))
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: email already exists", domain.ErrAlreadyExists)
		}

		exists, err = s.users.ExistsByUsername(ctx, domain.Normalize(username))
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: username already exists", domain.ErrAlreadyExists)
		}

		if err := s.users.Create(ctx, user); err != nil {
			return err
		}

		switch role {
		case domain.RoleTourist:
			_, err := s.profiles.ResolveTourist(ctx, &domain.Principal{UserID: user.ID, Role: role})
			return err
		case domain.RoleAgency:
			return s.agencies.Create(ctx, &domain.TravelAgency{
				ID:              uuid.New(),
				Name:            user.Username,
				ContactInfo:     user.Email,
				Description:     "New agency created",
				ServicesOffered: "Not specified yet",
				ProfileImage:    "Please update your picture",
				UserID:          user.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, domain.Normalize(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Login rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Role:      user.Role,
	}, nil
}

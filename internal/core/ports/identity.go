package ports

import (
	"time"

	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// TokenService issues and verifies the bearer tokens that carry a Principal.
type TokenService interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.Principal, error)
}

// PasswordHasher keeps the hash algorithm outside the core.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const userColumns = `id, username, email, password_hash, role, created_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (id, username, email, password_hash, role, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return translate(err, "create user")
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

// GetByUsername expects a normalized username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE lower(username) = $1`, username)
	if err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = $1)`, username)
	if err != nil {
		return false, translate(err, "check username")
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email)
	if err != nil {
		return false, translate(err, "check email")
	}
	return exists, nil
}

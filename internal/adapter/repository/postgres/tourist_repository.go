package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const touristColumns = `id, full_name, email, password_hash, contact_number, user_id, created_at`

type TouristRepository struct {
	db *sqlx.DB
}

func NewTouristRepository(db *sqlx.DB) *TouristRepository {
	return &TouristRepository{db: db}
}

func (r *TouristRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Tourist, error) {
	var tourist domain.Tourist
	err := conn(ctx, r.db).GetContext(ctx, &tourist, `SELECT `+touristColumns+` FROM tourists WHERE user_id = $1`, userID)
	if err != nil {
		return nil, translate(err, "get tourist")
	}
	return &tourist, nil
}

// GetByEmail expects a normalized email.
func (r *TouristRepository) GetByEmail(ctx context.Context, email string) (*domain.Tourist, error) {
	var tourist domain.Tourist
	err := conn(ctx, r.db).GetContext(ctx, &tourist, `SELECT `+touristColumns+` FROM tourists WHERE lower(email) = $1 ORDER BY created_at LIMIT 1`, email)
	if err != nil {
		return nil, translate(err, "get tourist by email")
	}
	return &tourist, nil
}

// CreateIfAbsent relies on the unique index on tourists.user_id: when another
// request inserted first, its row is read back instead.
func (r *TouristRepository) CreateIfAbsent(ctx context.Context, tourist *domain.Tourist) (*domain.Tourist, error) {
	query := `
	INSERT INTO tourists (id, full_name, email, password_hash, contact_number, user_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id) DO NOTHING
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		tourist.ID,
		tourist.FullName,
		tourist.Email,
		tourist.PasswordHash,
		tourist.ContactNumber,
		tourist.UserID,
		tourist.CreatedAt,
	)
	if err != nil {
		return nil, translate(err, "insert tourist")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, translate(err, "insert tourist")
	}

	if rowsAffected == 1 {
		created := *tourist
		return &created, nil
	}

	return r.GetByUserID(ctx, tourist.UserID)
}

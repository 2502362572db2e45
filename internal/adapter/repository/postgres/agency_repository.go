package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type AgencyRepository struct {
	db *sqlx.DB
}

func NewAgencyRepository(db *sqlx.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) Create(ctx context.Context, agency *domain.TravelAgency) error {
	query := `
	INSERT INTO travel_agencies (id, name, contact_info, description, services_offered, profile_image, user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		agency.ID,
		agency.Name,
		agency.ContactInfo,
		agency.Description,
		agency.ServicesOffered,
		agency.ProfileImage,
		agency.UserID,
	)
	if err != nil {
		return translate(err, "create agency")
	}

	return nil
}

func (r *AgencyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TravelAgency, error) {
	query := `
	SELECT id, name, contact_info, description, services_offered, profile_image, user_id
	FROM travel_agencies
	WHERE user_id = $1
	`

	var agency domain.TravelAgency
	if err := conn(ctx, r.db).GetContext(ctx, &agency, query, userID); err != nil {
		return nil, translate(err, "get agency")
	}

	return &agency, nil
}

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const packageColumns = `id, agency_id, title, description, duration_days, price, max_group_size, tour_image, created_at`

type PackageRepository struct {
	db *sqlx.DB
}

func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(ctx context.Context, pkg *domain.TourPackage) error {
	query := `
	INSERT INTO tour_packages (id, agency_id, title, description, duration_days, price, max_group_size, tour_image, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		pkg.ID,
		pkg.AgencyID,
		pkg.Title,
		pkg.Description,
		pkg.DurationDays,
		pkg.Price,
		pkg.MaxGroupSize,
		pkg.TourImage,
		pkg.CreatedAt,
	)
	if err != nil {
		return translate(err, "create package")
	}

	return nil
}

func (r *PackageRepository) GetByID(ctx context.Context, packageID uuid.UUID) (*domain.TourPackage, error) {
	var pkg domain.TourPackage
	err := conn(ctx, r.db).GetContext(ctx, &pkg, `SELECT `+packageColumns+` FROM tour_packages WHERE id = $1`, packageID)
	if err != nil {
		return nil, translate(err, "get package")
	}
	return &pkg, nil
}

func (r *PackageRepository) List(ctx context.Context) ([]domain.TourPackage, error) {
	packages := []domain.TourPackage{}
	err := conn(ctx, r.db).SelectContext(ctx, &packages, `SELECT `+packageColumns+` FROM tour_packages ORDER BY created_at, id`)
	if err != nil {
		return nil, translate(err, "list packages")
	}
	return packages, nil
}

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const bookingColumns = `id, tourist_id, package_id, booking_date, status, participant_count, version, created_at, updated_at`

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, tourist_id, package_id, booking_date, status, participant_count, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		booking.ID,
		booking.TouristID,
		booking.PackageID,
		booking.BookingDate,
		booking.Status,
		booking.ParticipantCount,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert booking")
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking domain.Booking
	if err := conn(ctx, r.db).GetContext(ctx, &booking, query, bookingID); err != nil {
		return nil, translate(err, "get booking")
	}

	return &booking, nil
}

type bookingDetailRow struct {
	domain.Booking
	Package domain.TourPackage  `db:"package"`
	Agency  domain.TravelAgency `db:"agency"`
}

func (r *BookingRepository) GetDetail(ctx context.Context, bookingID uuid.UUID) (*domain.BookingDetail, error) {
	query := `
	SELECT b.id, b.tourist_id, b.package_id, b.booking_date, b.status, b.participant_count, b.version, b.created_at, b.updated_at,
		p.id AS "package.id", p.agency_id AS "package.agency_id", p.title AS "package.title",
		p.description AS "package.description", p.duration_days AS "package.duration_days",
		p.price AS "package.price", p.max_group_size AS "package.max_group_size",
		p.tour_image AS "package.tour_image", p.created_at AS "package.created_at",
		a.id AS "agency.id", a.name AS "agency.name", a.contact_info AS "agency.contact_info",
		a.description AS "agency.description", a.services_offered AS "agency.services_offered",
		a.profile_image AS "agency.profile_image", a.user_id AS "agency.user_id"
	FROM bookings b
	JOIN tour_packages p ON p.id = b.package_id
	JOIN travel_agencies a ON a.id = p.agency_id
	WHERE b.id = $1
	`

	var row bookingDetailRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, bookingID); err != nil {
		return nil, translate(err, "get booking detail")
	}

	return &domain.BookingDetail{
		Booking: row.Booking,
		Package: row.Package,
		Agency:  row.Agency,
	}, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booking_date, id`
	return r.selectBookings(ctx, query)
}

func (r *BookingRepository) ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tourist_id = $1 ORDER BY booking_date, id`
	return r.selectBookings(ctx, query, touristID)
}

func (r *BookingRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]domain.Booking, error) {
	query := `
	SELECT b.id, b.tourist_id, b.package_id, b.booking_date, b.status, b.participant_count, b.version, b.created_at, b.updated_at
	FROM bookings b
	JOIN tour_packages p ON p.id = b.package_id
	WHERE p.agency_id = $1
	ORDER BY b.booking_date, b.id
	`
	return r.selectBookings(ctx, query, agencyID)
}

func (r *BookingRepository) selectBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := conn(ctx, r.db).SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, translate(err, "list bookings")
	}
	return bookings, nil
}

func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
	UPDATE bookings
	SET package_id = $1,
		booking_date = $2,
		status = $3,
		participant_count = $4,
		updated_at = $5,
		version = version + 1
	WHERE id = $6 AND version = $7
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		booking.PackageID,
		booking.BookingDate,
		booking.Status,
		booking.ParticipantCount,
		booking.UpdatedAt,
		booking.ID,
		booking.Version,
	)
	if err != nil {
		return translate(err, "update booking")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translate(err, "update booking")
	}

	if rowsAffected == 0 {
		return domain.ErrConflict
	}

	booking.Version++
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, bookingID uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return translate(err, "delete booking")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translate(err, "delete booking")
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

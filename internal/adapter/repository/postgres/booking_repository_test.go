package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var bookingRowColumns = []string{
	"id", "tourist_id", "package_id", "booking_date", "status", "participant_count", "version", "created_at", "updated_at",
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now().UTC()

	booking := &domain.Booking{
		ID:               uuid.New(),
		TouristID:        uuid.New(),
		PackageID:        uuid.New(),
		BookingDate:      now,
		Status:           domain.BookingPending,
		ParticipantCount: 3,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(booking.ID, booking.TouristID, booking.PackageID, booking.BookingDate, booking.Status,
				booking.ParticipantCount, booking.Version, booking.CreatedAt, booking.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), booking))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Package", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "bookings_package_id_fkey"})

		err := repo.Create(context.Background(), booking)

		assert.ErrorIs(t, err, domain.ErrInvalidReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(errors.New("connection refused"))

		err := repo.Create(context.Background(), booking)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert booking")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now().UTC()
	bookingID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = $1`)).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).
				AddRow(bookingID.String(), uuid.New().String(), uuid.New().String(), now, "Approved", 4, 2, now, now))

		booking, err := repo.GetByID(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, domain.BookingApproved, booking.Status)
		assert.Equal(t, 2, booking.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = $1`)).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		booking, err := repo.GetByID(context.Background(), bookingID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetDetail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now().UTC()

	bookingID, packageID, agencyID, agencyUserID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	columns := append(append([]string{}, bookingRowColumns...),
		"package.id", "package.agency_id", "package.title", "package.description", "package.duration_days",
		"package.price", "package.max_group_size", "package.tour_image", "package.created_at",
		"agency.id", "agency.name", "agency.contact_info", "agency.description", "agency.services_offered",
		"agency.profile_image", "agency.user_id",
	)

	mock.ExpectQuery(`JOIN tour_packages p ON p.id = b.package_id`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			bookingID.String(), uuid.New().String(), packageID.String(), now, "Pending", 2, 1, now, now,
			packageID.String(), agencyID.String(), "Galle fort walk", "", 1, 45.5, 12, "", now,
			agencyID.String(), "Coastline", "info@coastline.lk", "", "", "", agencyUserID.String(),
		))

	detail, err := repo.GetDetail(context.Background(), bookingID)

	require.NoError(t, err)
	assert.Equal(t, bookingID, detail.Booking.ID)
	assert.Equal(t, 12, detail.Package.MaxGroupSize)
	assert.Equal(t, agencyID, detail.Package.AgencyID)
	assert.Equal(t, agencyUserID, detail.Agency.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ListByAgency(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now().UTC()
	agencyID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.agency_id = $1`)).
		WithArgs(agencyID).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(uuid.New().String(), uuid.New().String(), uuid.New().String(), now, "Pending", 1, 1, now, now).
			AddRow(uuid.New().String(), uuid.New().String(), uuid.New().String(), now, "Rejected", 2, 3, now, now))

	bookings, err := repo.ListByAgency(context.Background(), agencyID)

	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now().UTC()

	newBooking := func() *domain.Booking {
		return &domain.Booking{
			ID:               uuid.New(),
			PackageID:        uuid.New(),
			BookingDate:      now,
			Status:           domain.BookingApproved,
			ParticipantCount: 5,
			Version:          3,
			UpdatedAt:        now,
		}
	}

	t.Run("Success", func(t *testing.T) {
		booking := newBooking()
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $6 AND version = $7`)).
			WithArgs(booking.PackageID, booking.BookingDate, booking.Status, booking.ParticipantCount, booking.UpdatedAt, booking.ID, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), booking))
		assert.Equal(t, 4, booking.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale Version", func(t *testing.T) {
		booking := newBooking()
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $6 AND version = $7`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), booking)

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, 3, booking.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	bookingID := uuid.New()

	mock.ExpectExec(`DELETE FROM bookings`).WithArgs(bookingID).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), bookingID), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_WithinTx(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	repo := NewBookingRepository(db)
	bookingID := uuid.New()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM bookings`).WithArgs(bookingID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			return tx.WithinTx(ctx, func(ctx context.Context) error {
				return repo.Delete(ctx, bookingID)
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM bookings`).WithArgs(bookingID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			return repo.Delete(ctx, bookingID)
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTouristRepository_CreateIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTouristRepository(db)
	now := time.Now().UTC()

	candidate := &domain.Tourist{
		ID:        uuid.New(),
		FullName:  "nimal",
		Email:     "nimal@example.com",
		UserID:    uuid.New(),
		CreatedAt: now,
	}

	t.Run("Inserted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (user_id) DO NOTHING`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tourist, err := repo.CreateIfAbsent(context.Background(), candidate)

		require.NoError(t, err)
		assert.Equal(t, candidate.ID, tourist.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Created By Another Request", func(t *testing.T) {
		winnerID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (user_id) DO NOTHING`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM tourists WHERE user_id = $1`)).
			WithArgs(candidate.UserID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "password_hash", "contact_number", "user_id", "created_at"}).
				AddRow(winnerID.String(), "nimal", "nimal@example.com", "", nil, candidate.UserID.String(), now))

		tourist, err := repo.CreateIfAbsent(context.Background(), candidate)

		require.NoError(t, err)
		assert.Equal(t, winnerID, tourist.ID)
		assert.Nil(t, tourist.ContactNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(&pq.Error{Code: "23505", Constraint: "ux_users_email"}, "insert user"), domain.ErrAlreadyExists)
	assert.ErrorIs(t, translate(&pq.Error{Code: "23503"}, "insert booking"), domain.ErrInvalidReference)

	err := translate(errors.New("timeout"), "list bookings")
	assert.EqualError(t, err, "failed to list bookings: timeout")
}

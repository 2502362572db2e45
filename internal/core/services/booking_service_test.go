package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/tour_booking/internal/adapter/cache"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports/mocks"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const cacheTTL = 5 * time.Minute

type bookingFixture struct {
	tx        *mocks.Transactor
	users     *mocks.UserRepository
	tourists  *mocks.TouristRepository
	agencies  *mocks.AgencyRepository
	packages  *mocks.PackageRepository
	bookings  *mocks.BookingRepository
	mockRedis redismock.ClientMock
	service   *services.BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	f := &bookingFixture{
		tx:       mocks.NewTransactor(t),
		users:    mocks.NewUserRepository(t),
		tourists: mocks.NewTouristRepository(t),
		agencies: mocks.NewAgencyRepository(t),
		packages: mocks.NewPackageRepository(t),
		bookings: mocks.NewBookingRepository(t),
	}

	db, mockRedis := redismock.NewClientMock()
	f.mockRedis = mockRedis

	log, _ := test.NewNullLogger()
	m := metrics.NewNop()
	profiles := services.NewProfileService(f.users, f.tourists, f.agencies, m, log)
	f.service = services.NewBookingService(f.tx, profiles, f.packages, f.bookings, cache.NewBookingCache(db, cacheTTL), m, log)

	return f
}

// expectInvalidate expects the generation bumps of one cache invalidation.
func expectInvalidate(m redismock.ClientMock, scopes ...string) {
	for _, scope := range scopes {
		m.ExpectIncr(cache.GenerationKey(scope)).SetVal(1)
	}
}

// passThroughTx makes the mocked transactor run the unit of work inline.
func passThroughTx(tx *mocks.Transactor) {
	tx.On("WithinTx", mock.Anything, mock.Anything).Return(func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	})
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	tourist := &domain.Tourist{ID: uuid.New(), UserID: principal.UserID}
	pkg := &domain.TourPackage{ID: uuid.New(), AgencyID: uuid.New(), MaxGroupSize: 10}

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, principal.UserID).Return(tourist, nil)
	f.packages.On("GetByID", ctx, pkg.ID).Return(pkg, nil)
	f.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TouristID == tourist.ID && b.PackageID == pkg.ID &&
			b.Status == domain.BookingPending && b.Version == 1 && b.ParticipantCount == 10
	})).Return(nil)

	expectInvalidate(f.mockRedis, "tourist:"+tourist.ID.String(), "agency:"+pkg.AgencyID.String(), "all")

	booking, err := f.service.CreateBooking(ctx, principal, services.CreateBookingRequest{
		PackageID:        pkg.ID,
		ParticipantCount: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, tourist.ID, booking.TouristID)
	assert.Equal(t, domain.BookingPending, booking.Status)
	assert.False(t, booking.BookingDate.IsZero())

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateBooking_Fail_CapacityExceeded(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	pkg := &domain.TourPackage{ID: uuid.New(), AgencyID: uuid.New(), MaxGroupSize: 10}

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, principal.UserID).Return(&domain.Tourist{ID: uuid.New()}, nil)
	f.packages.On("GetByID", ctx, pkg.ID).Return(pkg, nil)

	for _, participants := range []int{0, 11} {
		booking, err := f.service.CreateBooking(ctx, principal, services.CreateBookingRequest{
			PackageID:        pkg.ID,
			ParticipantCount: participants,
		})

		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		assert.Nil(t, booking)
	}
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_Fail_UnknownPackage(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	packageID := uuid.New()

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, principal.UserID).Return(&domain.Tourist{ID: uuid.New()}, nil)
	f.packages.On("GetByID", ctx, packageID).Return(nil, domain.ErrNotFound)

	booking, err := f.service.CreateBooking(ctx, principal, services.CreateBookingRequest{
		PackageID:        packageID,
		ParticipantCount: 2,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Nil(t, booking)
}

func TestCreateBooking_Fail_NotATourist(t *testing.T) {
	f := newBookingFixture(t)

	for _, role := range []domain.Role{domain.RoleAgency, domain.RoleAdmin} {
		booking, err := f.service.CreateBooking(context.Background(), &domain.Principal{UserID: uuid.New(), Role: role}, services.CreateBookingRequest{
			PackageID:        uuid.New(),
			ParticipantCount: 1,
		})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, booking)
	}
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}

func TestCreateBooking_StorageFailureIsNotABusinessError(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	packageID := uuid.New()

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, principal.UserID).Return(&domain.Tourist{ID: uuid.New()}, nil)
	f.packages.On("GetByID", ctx, packageID).Return(nil, errors.New("connection reset"))

	_, err := f.service.CreateBooking(ctx, principal, services.CreateBookingRequest{PackageID: packageID, ParticipantCount: 1})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidReference)
	assert.Contains(t, err.Error(), "failed to load package")
}

func approvedDetail(agencyUserID uuid.UUID) *domain.BookingDetail {
	agencyID := uuid.New()
	packageID := uuid.New()
	return &domain.BookingDetail{
		Booking: domain.Booking{
			ID:               uuid.New(),
			TouristID:        uuid.New(),
			PackageID:        packageID,
			Status:           domain.BookingPending,
			ParticipantCount: 2,
			Version:          3,
		},
		Package: domain.TourPackage{ID: packageID, AgencyID: agencyID, MaxGroupSize: 10},
		Agency:  domain.TravelAgency{ID: agencyID, UserID: agencyUserID},
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	detail := approvedDetail(principal.UserID)

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, detail.Booking.ID).Return(detail, nil)
	f.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).Version++
		}).
		Return(nil)

	expectInvalidate(f.mockRedis, "tourist:"+detail.Booking.TouristID.String(), "agency:"+detail.Agency.ID.String(), "all")

	booking, err := f.service.UpdateStatus(ctx, principal, detail.Booking.ID, "approved")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, booking.Status)
	assert.Equal(t, 4, booking.Version)
	assert.Equal(t, detail.Booking.TouristID, booking.TouristID)

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpdateStatus_Fail_NotOwningAgency(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	detail := approvedDetail(uuid.New())

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, detail.Booking.ID).Return(detail, nil)

	for _, principal := range []*domain.Principal{
		{UserID: uuid.New(), Role: domain.RoleAgency},
		{UserID: detail.Agency.UserID, Role: domain.RoleTourist},
		{UserID: uuid.New(), Role: domain.RoleAdmin},
	} {
		booking, err := f.service.UpdateStatus(ctx, principal, detail.Booking.ID, "Approved")

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, booking)
	}
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateStatus_Fail_UnknownStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	detail := approvedDetail(principal.UserID)

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, detail.Booking.ID).Return(detail, nil)

	_, err := f.service.UpdateStatus(ctx, principal, detail.Booking.ID, "Cancelled")

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatus_Fail_MissingBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	bookingID := uuid.New()

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, bookingID).Return(nil, domain.ErrNotFound)

	_, err := f.service.UpdateStatus(ctx, &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}, bookingID, "Approved")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_Fail_ConcurrentWrite(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	detail := approvedDetail(principal.UserID)

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, detail.Booking.ID).Return(detail, nil)
	f.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrConflict)

	booking, err := f.service.UpdateStatus(ctx, principal, detail.Booking.ID, "Rejected")

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, booking)

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("cache must not be touched on conflict: %s", err)
	}
}

func TestEditBooking_Fail_StaleVersion(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	tourist := &domain.Tourist{ID: uuid.New(), UserID: principal.UserID}
	current := &domain.Booking{ID: uuid.New(), TouristID: tourist.ID, PackageID: uuid.New(), Version: 2, ParticipantCount: 1}
	stale := 1

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, principal.UserID).Return(tourist, nil)
	f.bookings.On("GetByID", ctx, current.ID).Return(current, nil)

	_, err := f.service.EditBooking(ctx, principal, current.ID, services.BookingChanges{Version: &stale})

	assert.ErrorIs(t, err, domain.ErrConflict)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEditBooking_Fail_AgencyMayNotEdit(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.EditBooking(context.Background(), &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}, uuid.New(), services.BookingChanges{})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListBookings_CacheHit(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	cached := []domain.Booking{{ID: uuid.New(), Status: domain.BookingApproved}}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	f.mockRedis.ExpectGet(cache.GenerationKey("all")).SetVal("2")
	f.mockRedis.ExpectGet(cache.Key("all", 2)).SetVal(string(raw))

	bookings, err := f.service.ListBookings(ctx, &domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, cached[0].ID, bookings[0].ID)
	f.bookings.AssertNotCalled(t, "List", mock.Anything)
}

func TestListBookings_CacheErrorFallsBackToStorage(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	agencyPrincipal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	agency := &domain.TravelAgency{ID: uuid.New(), UserID: agencyPrincipal.UserID}

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	later := domain.Booking{ID: uuid.New(), BookingDate: day.AddDate(0, 0, 2)}
	earlier := domain.Booking{ID: uuid.New(), BookingDate: day}

	f.agencies.On("GetByUserID", ctx, agencyPrincipal.UserID).Return(agency, nil)
	f.bookings.On("ListByAgency", ctx, agency.ID).Return([]domain.Booking{later, earlier}, nil)
	f.mockRedis.ExpectGet(cache.GenerationKey("agency:" + agency.ID.String())).SetErr(errors.New("redis down"))

	bookings, err := f.service.ListBookings(ctx, agencyPrincipal)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, earlier.ID, bookings[0].ID)
	assert.Equal(t, later.ID, bookings[1].ID)

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("a failed cache read must not be followed by a fill: %s", err)
	}
}

func TestListBookings_FillRacingStatusChangeIsNotServed(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	touristPrincipal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	agencyPrincipal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	tourist := &domain.Tourist{ID: uuid.New(), UserID: touristPrincipal.UserID}

	detail := approvedDetail(agencyPrincipal.UserID)
	detail.Booking.TouristID = tourist.ID
	pending := detail.Booking
	approved := pending
	approved.Status = domain.BookingApproved
	approved.Version = 4

	touristScope := "tourist:" + tourist.ID.String()
	agencyScope := "agency:" + detail.Agency.ID.String()

	passThroughTx(f.tx)
	f.tourists.On("GetByUserID", ctx, touristPrincipal.UserID).Return(tourist, nil)
	f.bookings.On("GetDetail", ctx, pending.ID).Return(detail, nil)
	f.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).Version++
		}).
		Return(nil)

	// The agency approves between the first list's storage read and its cache fill.
	f.bookings.On("ListByTourist", ctx, tourist.ID).
		Run(func(mock.Arguments) {
			_, err := f.service.UpdateStatus(ctx, agencyPrincipal, pending.ID, "approved")
			require.NoError(t, err)
		}).
		Return([]domain.Booking{pending}, nil).Once()
	f.bookings.On("ListByTourist", ctx, tourist.ID).Return([]domain.Booking{approved}, nil).Once()

	stale, err := json.Marshal([]domain.Booking{pending})
	require.NoError(t, err)
	fresh, err := json.Marshal([]domain.Booking{approved})
	require.NoError(t, err)

	f.mockRedis.ExpectGet(cache.GenerationKey(touristScope)).RedisNil()
	f.mockRedis.ExpectGet(cache.Key(touristScope, 0)).RedisNil()
	expectInvalidate(f.mockRedis, touristScope, agencyScope, "all")
	f.mockRedis.ExpectSet(cache.Key(touristScope, 0), stale, cacheTTL).SetVal("OK")
	f.mockRedis.ExpectGet(cache.GenerationKey(touristScope)).SetVal("1")
	f.mockRedis.ExpectGet(cache.Key(touristScope, 1)).RedisNil()
	f.mockRedis.ExpectSet(cache.Key(touristScope, 1), fresh, cacheTTL).SetVal("OK")

	first, err := f.service.ListBookings(ctx, touristPrincipal)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, domain.BookingPending, first[0].Status)

	second, err := f.service.ListBookings(ctx, touristPrincipal)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, domain.BookingApproved, second[0].Status)

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestListBookings_CacheWriteFailureIsLogged(t *testing.T) {
	tx := mocks.NewTransactor(t)
	bookings := mocks.NewBookingRepository(t)
	bookingCache := mocks.NewBookingCache(t)
	log, hook := test.NewNullLogger()
	m := metrics.NewNop()

	profiles := services.NewProfileService(mocks.NewUserRepository(t), mocks.NewTouristRepository(t), mocks.NewAgencyRepository(t), m, log)
	svc := services.NewBookingService(tx, profiles, mocks.NewPackageRepository(t), bookings, bookingCache, m, log)

	ctx := context.Background()
	stored := []domain.Booking{{ID: uuid.New()}}

	bookingCache.On("GetBookings", ctx, "all").Return(nil, int64(3), false, nil)
	bookings.On("List", ctx).Return(stored, nil)
	bookingCache.On("SetBookings", ctx, "all", int64(3), stored).Return(errors.New("read-only replica"))

	result, err := svc.ListBookings(ctx, &domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, stored, result)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Booking cache write failed", hook.LastEntry().Message)
}

func TestListBookings_AgencyWithoutProfileSeesNothing(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleAgency}
	f.agencies.On("GetByUserID", ctx, principal.UserID).Return(nil, domain.ErrNotFound)

	bookings, err := f.service.ListBookings(ctx, principal)

	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestDeleteBooking_InvalidatesCache(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	detail := approvedDetail(uuid.New())

	passThroughTx(f.tx)
	f.bookings.On("GetDetail", ctx, detail.Booking.ID).Return(detail, nil)
	f.bookings.On("Delete", ctx, detail.Booking.ID).Return(nil)
	expectInvalidate(f.mockRedis, "tourist:"+detail.Booking.TouristID.String(), "agency:"+detail.Agency.ID.String(), "all")

	require.NoError(t, f.service.DeleteBooking(ctx, detail.Booking.ID))

	if err := f.mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

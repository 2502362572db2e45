package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports/mocks"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T) (*services.ProfileService, *mocks.UserRepository, *mocks.TouristRepository) {
	users := mocks.NewUserRepository(t)
	tourists := mocks.NewTouristRepository(t)
	agencies := mocks.NewAgencyRepository(t)
	log, _ := test.NewNullLogger()

	return services.NewProfileService(users, tourists, agencies, metrics.NewNop(), log), users, tourists
}

func TestResolveTourist_ExistingProfile(t *testing.T) {
	svc, _, tourists := newProfileService(t)
	ctx := context.Background()

	principal := &domain.Principal{UserID: uuid.New(), Role: domain.RoleTourist}
	existing := &domain.Tourist{ID: uuid.New(), UserID: principal.UserID}
	tourists.On("GetByUserID", ctx, principal.UserID).Return(existing, nil)

	tourist, err := svc.ResolveTourist(ctx, principal)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, tourist.ID)
}

func TestResolveTourist_CreatesProfileOnFirstUse(t *testing.T) {
	svc, users, tourists := newProfileService(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Username: "maya", Email: "Maya@Example.com", PasswordHash: "hash", Role: domain.RoleTourist}
	principal := &domain.Principal{UserID: user.ID, Role: domain.RoleTourist}

	tourists.On("GetByUserID", ctx, user.ID).Return(nil, domain.ErrNotFound)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	tourists.On("GetByEmail", ctx, "maya@example.com").Return(nil, domain.ErrNotFound)
	tourists.On("CreateIfAbsent", ctx, mock.AnythingOfType("*domain.Tourist")).
		Return(func(_ context.Context, candidate *domain.Tourist) (*domain.Tourist, error) {
			return candidate, nil
		})

	tourist, err := svc.ResolveTourist(ctx, principal)

	require.NoError(t, err)
	assert.Equal(t, user.ID, tourist.UserID)
	assert.Equal(t, "maya", tourist.FullName)
	assert.Equal(t, user.Email, tourist.Email)
	assert.Equal(t, "hash", tourist.PasswordHash)
	assert.NotEqual(t, uuid.Nil, tourist.ID)
}

func TestResolveTourist_MatchesLegacyProfileByEmail(t *testing.T) {
	svc, users, tourists := newProfileService(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Email: " Legacy@Example.com"}
	legacy := &domain.Tourist{ID: uuid.New(), Email: "legacy@example.com"}

	tourists.On("GetByUserID", ctx, user.ID).Return(nil, domain.ErrNotFound)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	tourists.On("GetByEmail", ctx, "legacy@example.com").Return(legacy, nil)

	tourist, err := svc.ResolveTourist(ctx, &domain.Principal{UserID: user.ID, Role: domain.RoleTourist})

	require.NoError(t, err)
	assert.Equal(t, legacy.ID, tourist.ID)
	tourists.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestResolveTourist_LosingTheCreateRaceReturnsTheWinner(t *testing.T) {
	svc, users, tourists := newProfileService(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Email: "racer@example.com"}
	winner := &domain.Tourist{ID: uuid.New(), UserID: user.ID}

	tourists.On("GetByUserID", ctx, user.ID).Return(nil, domain.ErrNotFound)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	tourists.On("GetByEmail", ctx, "racer@example.com").Return(nil, domain.ErrNotFound)
	tourists.On("CreateIfAbsent", ctx, mock.AnythingOfType("*domain.Tourist")).Return(winner, nil)

	tourist, err := svc.ResolveTourist(ctx, &domain.Principal{UserID: user.ID, Role: domain.RoleTourist})

	require.NoError(t, err)
	assert.Equal(t, winner.ID, tourist.ID)
}

func TestResolveTourist_OtherRoles(t *testing.T) {
	svc, _, _ := newProfileService(t)

	_, err := svc.ResolveTourist(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	for _, role := range []domain.Role{domain.RoleAgency, domain.RoleAdmin} {
		_, err := svc.ResolveTourist(context.Background(), &domain.Principal{UserID: uuid.New(), Role: role})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestResolveTourist_ConcurrentFirstUseCreatesOneProfile(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	svc := services.NewProfileService(store.Users(), store.Tourists(), store.Agencies(), metrics.NewNop(), log)

	user := &domain.User{ID: uuid.New(), Username: "crowd", Email: "crowd@example.com", Role: domain.RoleTourist}
	require.NoError(t, store.Users().Create(ctx, user))
	principal := &domain.Principal{UserID: user.ID, Role: domain.RoleTourist}

	const callers = 16
	ids := make([]uuid.UUID, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tourist, err := svc.ResolveTourist(ctx, principal)
			if assert.NoError(t, err) {
				ids[i] = tourist.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	stored, err := store.Tourists().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], stored.ID)
}

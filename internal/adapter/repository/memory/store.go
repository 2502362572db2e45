package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type state struct {
	users    map[uuid.UUID]domain.User
	tourists map[uuid.UUID]domain.Tourist
	agencies map[uuid.UUID]domain.TravelAgency
	packages map[uuid.UUID]domain.TourPackage
	bookings map[uuid.UUID]domain.Booking
	feedback map[uuid.UUID]domain.Feedback
}

func newState() state {
	return state{
		users:    map[uuid.UUID]domain.User{},
		tourists: map[uuid.UUID]domain.Tourist{},
		agencies: map[uuid.UUID]domain.TravelAgency{},
		packages: map[uuid.UUID]domain.TourPackage{},
		bookings: map[uuid.UUID]domain.Booking{},
		feedback: map[uuid.UUID]domain.Feedback{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.tourists {
		c.tourists[k] = v
	}
	for k, v := range s.agencies {
		c.agencies[k] = v
	}
	for k, v := range s.packages {
		c.packages[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.feedback {
		c.feedback[k] = v
	}
	return c
}

// Store keeps every entity in process memory. It serializes all access: a
// transaction holds the store lock from start to finish and its writes are
// discarded when it fails.
type Store struct {
	mu   sync.Mutex
	data state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Restored on error and on panic, like a deferred Rollback.
	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}

	committed = true
	return nil
}

// lock takes the store lock unless ctx already runs inside one of its
// transactions.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }
func (s *Store) Tourists() *TouristRepository { return &TouristRepository{store: s} }
func (s *Store) Agencies() *AgencyRepository { return &AgencyRepository{store: s} }
func (s *Store) Packages() *PackageRepository { return &PackageRepository{store: s} }
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{store: s} }
func (s *Store) Feedback() *FeedbackRepository { return &FeedbackRepository{store: s} }

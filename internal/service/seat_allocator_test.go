package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/service"
)

// memStore implements service.Store in memory. A per-show mutex gives
// ReserveUnit the same exclusion the MySQL row lock provides, so the
// concurrency tests exercise the allocator against real goroutine
// interleavings.
type memStore struct {
	mu       sync.Mutex
	shows    map[uint64]*model.Show
	locks    map[uint64]*sync.Mutex
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		shows:    map[uint64]*model.Show{},
		locks:    map[uint64]*sync.Mutex{},
		bookings: map[uint64]*model.Booking{},
	}
}

func (s *memStore) addShow(id uint64, totalSeats uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shows[id] = &model.Show{
		ID:         id,
		MovieID:    1,
		ScreenName: "Screen 1",
		StartsAt:   time.Now().Add(time.Hour),
		TotalSeats: totalSeats,
	}
	s.locks[id] = &sync.Mutex{}
}

type memUnit struct {
	s      *memStore
	show   *model.Show
	staged *model.Booking
}

func (u *memUnit) Show() *model.Show { return u.show }

func (u *memUnit) CountBooked(ctx context.Context) (int, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	n := 0
	for _, b := range u.s.bookings {
		if b.ShowID == u.show.ID && b.Status == model.BookingStatusBooked {
			n++
		}
	}
	return n, nil
}

func (u *memUnit) SeatBooked(ctx context.Context, seatNumber uint32) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, b := range u.s.bookings {
		if b.ShowID == u.show.ID && b.SeatNumber == seatNumber && b.Status == model.BookingStatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (u *memUnit) Insert(ctx context.Context, b *model.Booking) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.s.nextID++
	b.ID = u.s.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	u.staged = b
	return nil
}

func (s *memStore) ReserveUnit(ctx context.Context, showID uint64, fn func(u service.ReserveUnit) error) error {
	s.mu.Lock()
	show, ok := s.shows[showID]
	if !ok {
		s.mu.Unlock()
		return service.ErrShowNotFound
	}
	lk := s.locks[showID]
	s.mu.Unlock()

	lk.Lock()
	defer lk.Unlock()

	u := &memUnit{s: s, show: show}
	if err := fn(u); err != nil {
		return err
	}
	if u.staged != nil {
		s.mu.Lock()
		s.bookings[u.staged.ID] = u.staged
		s.mu.Unlock()
	}
	return nil
}

func (s *memStore) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, service.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) MarkCancelled(ctx context.Context, bookingID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return service.ErrBookingNotFound
	}
	if b.Status != model.BookingStatusCancelled {
		b.Status = model.BookingStatusCancelled
		b.UpdatedAt = time.Now()
	}
	return nil
}

func (s *memStore) bookedCount(showID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.ShowID == showID && b.Status == model.BookingStatusBooked {
			n++
		}
	}
	return n
}

func TestReserve_Success(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 10)
	a := service.NewSeatAllocator(st)

	b, err := a.Reserve(context.Background(), 1, 3, 42)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, uint64(42), b.UserID)
	assert.Equal(t, uint64(1), b.ShowID)
	assert.Equal(t, uint32(3), b.SeatNumber)
	assert.Equal(t, model.BookingStatusBooked, b.Status)
	assert.NotEmpty(t, b.Reference)
	assert.NotZero(t, b.ID)
}

func TestReserve_ShowNotFound(t *testing.T) {
	a := service.NewSeatAllocator(newMemStore())

	_, err := a.Reserve(context.Background(), 99, 1, 1)
	assert.ErrorIs(t, err, service.ErrShowNotFound)
}

func TestReserve_InvalidSeat(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 10)
	a := service.NewSeatAllocator(st)

	for _, seat := range []int64{0, -1, 11, 1 << 40} {
		_, err := a.Reserve(context.Background(), 1, seat, 1)
		assert.ErrorIs(t, err, service.ErrInvalidSeat, "seat %d", seat)
	}
	assert.Zero(t, st.bookedCount(1))
}

func TestReserve_SeatTaken(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 10)
	a := service.NewSeatAllocator(st)

	_, err := a.Reserve(context.Background(), 1, 5, 1)
	require.NoError(t, err)

	_, err = a.Reserve(context.Background(), 1, 5, 2)
	assert.ErrorIs(t, err, service.ErrSeatTaken)
	assert.Equal(t, 1, st.bookedCount(1))
}

// A full show reports ErrShowFull before any per-seat check, so even a
// request for an occupied seat is answered with the capacity error.
func TestReserve_ShowFull(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 2)
	a := service.NewSeatAllocator(st)

	ctx := context.Background()
	_, err := a.Reserve(ctx, 1, 1, 10)
	require.NoError(t, err)
	_, err = a.Reserve(ctx, 1, 2, 11)
	require.NoError(t, err)

	_, err = a.Reserve(ctx, 1, 1, 12)
	assert.ErrorIs(t, err, service.ErrShowFull)
	_, err = a.Reserve(ctx, 1, 2, 12)
	assert.ErrorIs(t, err, service.ErrShowFull)
}

func TestReserve_AfterCancelSeatIsFree(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 2)
	a := service.NewSeatAllocator(st)
	ctx := context.Background()

	b1, err := a.Reserve(ctx, 1, 1, 10)
	require.NoError(t, err)
	_, err = a.Reserve(ctx, 1, 2, 11)
	require.NoError(t, err)

	require.NoError(t, a.Cancel(ctx, b1.ID, 10))

	b3, err := a.Reserve(ctx, 1, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), b3.UserID)
	assert.Equal(t, 2, st.bookedCount(1))
}

func TestCancel_NotFound(t *testing.T) {
	a := service.NewSeatAllocator(newMemStore())
	err := a.Cancel(context.Background(), 123, 1)
	assert.ErrorIs(t, err, service.ErrBookingNotFound)
}

func TestCancel_Forbidden(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 10)
	a := service.NewSeatAllocator(st)
	ctx := context.Background()

	b, err := a.Reserve(ctx, 1, 1, 10)
	require.NoError(t, err)

	err = a.Cancel(ctx, b.ID, 99)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, 1, st.bookedCount(1))
}

func TestCancel_Idempotent(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 10)
	a := service.NewSeatAllocator(st)
	ctx := context.Background()

	b, err := a.Reserve(ctx, 1, 1, 10)
	require.NoError(t, err)

	require.NoError(t, a.Cancel(ctx, b.ID, 10))
	require.NoError(t, a.Cancel(ctx, b.ID, 10))

	got, err := st.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
}

// Many goroutines race for the same seat; exactly one wins and every
// loser sees ErrSeatTaken.
func TestReserve_SameSeatConcurrent(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 100)
	a := service.NewSeatAllocator(st)

	const workers = 32
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Reserve(context.Background(), 1, 7, uint64(i+1))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, service.ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, st.bookedCount(1))
}

// More contenders than seats; the show never ends up with more active
// bookings than capacity and no seat is booked twice.
func TestReserve_CapacityUnderConcurrency(t *testing.T) {
	const totalSeats = 10
	const workers = 50

	st := newMemStore()
	st.addShow(1, totalSeats)
	a := service.NewSeatAllocator(st)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			seat := int64(i%totalSeats + 1)
			_, err := a.Reserve(context.Background(), 1, seat, uint64(i+1))
			if err != nil {
				assert.True(t,
					err == service.ErrSeatTaken || err == service.ErrShowFull,
					"unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, st.bookedCount(1), totalSeats)

	seen := map[uint32]bool{}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, b := range st.bookings {
		if b.Status != model.BookingStatusBooked {
			continue
		}
		assert.False(t, seen[b.SeatNumber], "seat %d booked twice", b.SeatNumber)
		seen[b.SeatNumber] = true
	}
}

// Reservations on different shows never contend for the same lock, so
// both sides make progress and each show keeps its own invariants.
func TestReserve_IndependentShows(t *testing.T) {
	st := newMemStore()
	st.addShow(1, 5)
	st.addShow(2, 5)
	a := service.NewSeatAllocator(st)

	var wg sync.WaitGroup
	for showID := uint64(1); showID <= 2; showID++ {
		for seat := int64(1); seat <= 5; seat++ {
			wg.Add(1)
			go func(showID uint64, seat int64) {
				defer wg.Done()
				_, err := a.Reserve(context.Background(), showID, seat, uint64(seat))
				assert.NoError(t, err)
			}(showID, seat)
		}
	}
	wg.Wait()

	assert.Equal(t, 5, st.bookedCount(1))
	assert.Equal(t, 5, st.bookedCount(2))
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
)

// Store is the storage collaborator the allocator runs against. The
// MySQL implementation lives in internal/repository; tests use an
// in-memory implementation with a per-show mutex.
type Store interface {
	// ReserveUnit acquires an exclusive lock on the show identified by
	// showID and runs fn while holding it. The write performed by fn is
	// committed only when fn returns nil; any error rolls the unit back
	// and is returned unchanged. ReserveUnit returns ErrShowNotFound
	// when the show does not exist and ErrLockTimeout when the lock
	// cannot be acquired within the context deadline.
	ReserveUnit(ctx context.Context, showID uint64, fn func(u ReserveUnit) error) error

	// GetBooking loads a booking by ID, returning ErrBookingNotFound
	// when no row exists.
	GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)

	// MarkCancelled sets the booking's status to cancelled. Calling it
	// on an already-cancelled booking is a no-op.
	MarkCancelled(ctx context.Context, bookingID uint64) error
}

// ReserveUnit is the view of booking state available to the Reserve
// sequence while the show lock is held. All reads observe the state as
// of lock acquisition; no concurrent Reserve for the same show can
// interleave between them and the final insert.
type ReserveUnit interface {
	// Show returns the locked show row.
	Show() *model.Show

	// CountBooked returns the number of active bookings for the show.
	CountBooked(ctx context.Context) (int, error)

	// SeatBooked reports whether an active booking exists for the seat.
	SeatBooked(ctx context.Context, seatNumber uint32) (bool, error)

	// Insert persists a new booking row and populates its ID and
	// timestamps on the passed record.
	Insert(ctx context.Context, b *model.Booking) error
}

// SeatAllocator enforces the seat-booking invariants atomically under
// concurrent access. Reserve calls targeting the same show serialize on
// the store's show lock; calls for different shows never contend.
type SeatAllocator struct {
	store Store
}

// NewSeatAllocator returns an allocator bound to the given store.
func NewSeatAllocator(store Store) *SeatAllocator {
	if store == nil {
		panic("nil store passed to NewSeatAllocator")
	}
	return &SeatAllocator{store: store}
}

// Reserve atomically books seatNumber on the show for the user. The
// validate-then-write sequence runs as one exclusive unit of work per
// show, so no two callers can both observe a seat as free and both
// commit. On success the persisted booking is returned; otherwise one
// of ErrShowNotFound, ErrInvalidSeat, ErrShowFull, ErrSeatTaken or the
// retryable ErrLockTimeout.
func (a *SeatAllocator) Reserve(ctx context.Context, showID uint64, seatNumber int64, userID uint64) (*model.Booking, error) {
	var booking *model.Booking
	err := a.store.ReserveUnit(ctx, showID, func(u ReserveUnit) error {
		show := u.Show()
		if seatNumber < 1 || seatNumber > int64(show.TotalSeats) {
			return ErrInvalidSeat
		}
		seat := uint32(seatNumber)

		// Capacity check first. It is independent of the per-seat check
		// so a full show is reported as full even when the requested
		// seat would otherwise pass, and it catches any accounting
		// drift between the count and the seat rows.
		booked, err := u.CountBooked(ctx)
		if err != nil {
			return err
		}
		if booked >= int(show.TotalSeats) {
			return ErrShowFull
		}

		taken, err := u.SeatBooked(ctx, seat)
		if err != nil {
			return err
		}
		if taken {
			return ErrSeatTaken
		}

		b := &model.Booking{
			Reference:  uuid.NewString(),
			UserID:     userID,
			ShowID:     showID,
			SeatNumber: seat,
			Status:     model.BookingStatusBooked,
		}
		if err := u.Insert(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel transitions the user's booking to cancelled, freeing its seat
// for subsequent Reserve calls. It returns ErrBookingNotFound when the
// booking does not exist and ErrForbidden when it belongs to another
// user. Cancelling an already-cancelled booking succeeds without
// touching the row: cancellation is one-way and idempotent. No show
// lock is needed here; freeing a seat never breaks the invariants a
// concurrent Reserve relies on.
func (a *SeatAllocator) Cancel(ctx context.Context, bookingID, userID uint64) error {
	b, err := a.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	if b.Status == model.BookingStatusCancelled {
		return nil
	}
	return a.store.MarkCancelled(ctx, bookingID)
}

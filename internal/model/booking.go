package model

import "time"

// Booking status values. A booking is created as BOOKED and can only
// move to CANCELLED; cancelled bookings are terminal and are never
// deleted or re-activated. A cancelled booking frees its seat for
// subsequent reservations.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

// Booking is a claim on one numbered seat of one show by one user.
// At most one booking with status=booked may exist per
// (show, seat_number) pair; the uniqueness is over the active subset
// only, so cancelled rows do not block the seat.
//
// Fields:
//  ID         – primary key identifier.
//  Reference  – client-facing booking reference (UUID string).
//  UserID     – user who made the booking.
//  ShowID     – show the seat belongs to.
//  SeatNumber – seat claimed, in [1, show.total_seats].
//  Status     – booked or cancelled.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp (set on cancellation).
type Booking struct {
	ID         uint64    `json:"id"`          // bookings.id
	Reference  string    `json:"reference"`   // bookings.reference
	UserID     uint64    `json:"user_id"`     // bookings.user_id
	ShowID     uint64    `json:"show_id"`     // bookings.show_id
	SeatNumber uint32    `json:"seat_number"` // bookings.seat_number
	Status     string    `json:"status"`      // bookings.status
	CreatedAt  time.Time `json:"created_at"`  // bookings.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // bookings.updated_at
}

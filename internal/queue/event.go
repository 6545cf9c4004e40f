// Package queue defines message payloads exchanged over the message
// broker, the publisher used by the booking handlers and the background
// consumer that writes the booking audit log.
package queue

// Queue names used on the broker. Both queues are declared durable.
const (
	SeatBookedQueue       = "booking.booked"
	BookingCancelledQueue = "booking.cancelled"
)

// SeatBookedEvent is published after a seat reservation commits. It
// carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type SeatBookedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	Reference  string `json:"reference"`
	UserID     uint64 `json:"user_id"`
	ShowID     uint64 `json:"show_id"`
	MovieTitle string `json:"movie_title"`
	ScreenName string `json:"screen_name"`
	StartsAt   string `json:"starts_at"`
	SeatNumber uint32 `json:"seat_number"`
	BookedAt   string `json:"booked_at"`
}

// BookingCancelledEvent is published after a booking is cancelled and
// its seat returns to the free pool.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Reference   string `json:"reference"`
	UserID      uint64 `json:"user_id"`
	ShowID      uint64 `json:"show_id"`
	SeatNumber  uint32 `json:"seat_number"`
	CancelledAt string `json:"cancelled_at"`
}

package model

import "time"

// Show represents a single scheduled screening of a movie on a named
// screen. A show owns a finite numbered seat space {1 .. TotalSeats}.
// TotalSeats is fixed at creation and never resized; the booking
// invariants in the service layer depend on that.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenName – name of the screen/auditorium.
//  StartsAt   – when the show begins (UTC).
//  TotalSeats – capacity of the show, seats are numbered 1..TotalSeats.
//  CreatedAt  – creation timestamp.
type Show struct {
	ID         uint64    `json:"id"`          // shows.id
	MovieID    uint64    `json:"movie_id"`    // shows.movie_id
	ScreenName string    `json:"screen_name"` // shows.screen_name
	StartsAt   time.Time `json:"starts_at"`   // shows.starts_at
	TotalSeats uint32    `json:"total_seats"` // shows.total_seats
	CreatedAt  time.Time `json:"created_at"`  // shows.created_at
}

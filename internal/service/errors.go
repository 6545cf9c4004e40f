// Package service contains the seat allocation core. The allocator
// enforces the booking invariants for a show (no double-booked seat,
// never more active bookings than seats) inside a single exclusive
// unit of work per show. Handlers translate the sentinel errors below
// into HTTP responses; the storage layer maps driver errors onto them.
package service

import "errors"

// Business rejections. These are expected, common outcomes under
// contention and must never be wrapped as opaque faults: callers
// compare them with errors.Is and map each to a distinct response.
// Retrying a business rejection will not change the outcome.
var (
	// ErrShowNotFound is returned when the requested show does not exist.
	ErrShowNotFound = errors.New("show not found")

	// ErrInvalidSeat is returned when the seat number is not in
	// [1, show.total_seats], regardless of current occupancy.
	ErrInvalidSeat = errors.New("invalid seat number")

	// ErrShowFull is returned when the show already has as many active
	// bookings as it has seats.
	ErrShowFull = errors.New("show is fully booked")

	// ErrSeatTaken is returned when an active booking already exists
	// for the requested seat.
	ErrSeatTaken = errors.New("seat already booked")

	// ErrBookingNotFound is returned by Cancel when no booking exists
	// with the given ID.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden is returned by Cancel when the booking belongs to a
	// different user.
	ErrForbidden = errors.New("forbidden")
)

// ErrLockTimeout is returned when the show lock could not be acquired
// within the caller's deadline. Unlike the business rejections above it
// is transient: nothing was written and the caller may retry.
var ErrLockTimeout = errors.New("timed out waiting for show lock")

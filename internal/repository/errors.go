// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers to distinguish between different failure scenarios
// without inspecting driver errors. Errors belonging to the seat
// allocation core itself (seat taken, show full, lock timeout) live in
// the service package; the sentinels here cover plain lookups and
// writes outside the allocator's unit of work.
package repository

import "errors"

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrEmailExists is returned when registering with an email address
// that already has an account.
var ErrEmailExists = errors.New("email already exists")

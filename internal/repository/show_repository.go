// Package repository contains data access logic for Show operations.
// A Show is a scheduled screening of a movie with a fixed seat
// capacity. The show row doubles as the serialization point for seat
// allocation: the allocator's store locks it with FOR UPDATE (see
// booking_repository.go), so nothing here mutates total_seats after
// creation.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// Create inserts a new show and populates the generated ID and
// creation timestamp on the passed record. The caller must provide
// movie_id, screen_name, starts_at and a positive total_seats;
// total_seats is fixed for the lifetime of the show.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, screen_name, starts_at, total_seats) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.ScreenName, s.StartsAt, s.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at FROM shows WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt)
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, screen_name, starts_at, total_seats, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovie returns all shows for the given movie ordered by start
// time ascending. When the movie has no shows it returns an empty
// slice and nil error; callers wanting a 404 for unknown movies should
// check the movie separately.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	const q = `SELECT id, movie_id, screen_name, starts_at, total_seats, created_at
	           FROM shows WHERE movie_id = ? ORDER BY starts_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.CreatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
)

// MovieRepo manages persistence for movies. Movies are created by
// admins and are immutable afterwards; there is no update or delete
// path in this service.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a new movie and populates the generated ID and
// creation timestamp on the passed record.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, duration_min) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.DurationMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt)
}

// GetByID retrieves a movie by its ID. It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, duration_min, created_at FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.DurationMin, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies ordered by title. When no movies exist it
// returns an empty slice and nil error.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, duration_min, created_at FROM movies ORDER BY title ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMin, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

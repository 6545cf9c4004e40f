package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/repository"
)

func TestMovieCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO movies (title, duration_min) VALUES (?, ?)`)).
		WithArgs("Dune", uint32(155)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_at FROM movies WHERE id = ?`)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := repository.NewMovieRepo(db)
	m := &model.Movie{Title: "Dune", DurationMin: 155}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, uint64(3), m.ID)
	assert.Equal(t, now, m.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, duration_min").
		WithArgs(uint64(8)).
		WillReturnError(sql.ErrNoRows)

	repo := repository.NewMovieRepo(db)
	_, err = repo.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestMovieList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, title, duration_min").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "duration_min", "created_at"}).
			AddRow(2, "Alien", 117, now).
			AddRow(1, "Dune", 155, now))

	repo := repository.NewMovieRepo(db)
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alien", got[0].Title)
}

package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kunals990/movie-ticket-booking/internal/handler"
	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/repository"
	"github.com/Kunals990/movie-ticket-booking/internal/service"
)

// fakeAlloc satisfies handler.Allocator with canned results.
type fakeAlloc struct {
	booking    *model.Booking
	reserveErr error
	cancelErr  error
}

func (f *fakeAlloc) Reserve(ctx context.Context, showID uint64, seatNumber int64, userID uint64) (*model.Booking, error) {
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return f.booking, nil
}

func (f *fakeAlloc) Cancel(ctx context.Context, bookingID, userID uint64) error {
	return f.cancelErr
}

func newBookingHandler(t *testing.T, a handler.Allocator) *handler.BookingHandler {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewBookingHandler(a,
		repository.NewBookingRepo(db),
		repository.NewShowRepo(db),
		repository.NewMovieRepo(db))
}

func bookRequest(t *testing.T, h *handler.BookingHandler, showID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/shows/"+showID+"/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/shows/:id/book")
	c.SetParamNames("id")
	c.SetParamValues(showID)
	c.Set("user_id", float64(42))
	require.NoError(t, h.BookSeat(c))
	return rec
}

func TestBookSeat_Created(t *testing.T) {
	booking := &model.Booking{
		ID: 1, Reference: "ref-1", UserID: 42, ShowID: 7,
		SeatNumber: 3, Status: model.BookingStatusBooked, CreatedAt: time.Now(),
	}
	h := newBookingHandler(t, &fakeAlloc{booking: booking})

	rec := bookRequest(t, h, "7", `{"seat_number":3}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reference":"ref-1"`)
}

func TestBookSeat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid seat", service.ErrInvalidSeat, http.StatusBadRequest},
		{"show full", service.ErrShowFull, http.StatusConflict},
		{"seat taken", service.ErrSeatTaken, http.StatusConflict},
		{"show not found", service.ErrShowNotFound, http.StatusNotFound},
		{"lock timeout", service.ErrLockTimeout, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newBookingHandler(t, &fakeAlloc{reserveErr: tc.err})
			rec := bookRequest(t, h, "7", `{"seat_number":3}`)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestBookSeat_BadShowID(t *testing.T) {
	h := newBookingHandler(t, &fakeAlloc{})
	rec := bookRequest(t, h, "abc", `{"seat_number":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func cancelRequest(t *testing.T, h *handler.BookingHandler, bookingID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues(bookingID)
	c.Set("user_id", float64(42))
	require.NoError(t, h.CancelBooking(c))
	return rec
}

func TestCancelBooking_OK(t *testing.T) {
	h := newBookingHandler(t, &fakeAlloc{})
	rec := cancelRequest(t, h, "5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled")
}

func TestCancelBooking_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newBookingHandler(t, &fakeAlloc{cancelErr: tc.err})
			rec := cancelRequest(t, h, "5")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestMyBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT b.id, b.reference").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference", "show_id", "seat_number", "status", "created_at",
			"title", "screen_name", "starts_at",
		}).AddRow(1, "ref-1", 7, 3, "booked", now, "Dune", "Screen 1", now.Add(time.Hour)))

	h := handler.NewBookingHandler(&fakeAlloc{},
		repository.NewBookingRepo(db),
		repository.NewShowRepo(db),
		repository.NewMovieRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my-bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))

	require.NoError(t, h.MyBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"movie_title":"Dune"`)
}

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/queue"
	"github.com/Kunals990/movie-ticket-booking/internal/repository"
	"github.com/Kunals990/movie-ticket-booking/internal/service"
)

// Allocator is the seat-allocation surface the booking handlers need.
// *service.SeatAllocator satisfies it.
type Allocator interface {
	Reserve(ctx context.Context, showID uint64, seatNumber int64, userID uint64) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, userID uint64) error
}

// BookingHandler serves the customer booking endpoints.
type BookingHandler struct {
	Alloc    Allocator
	Bookings *repository.BookingRepo
	Shows    *repository.ShowRepo
	Movies   *repository.MovieRepo
}

func NewBookingHandler(a Allocator, b *repository.BookingRepo, s *repository.ShowRepo, m *repository.MovieRepo) *BookingHandler {
	return &BookingHandler{Alloc: a, Bookings: b, Shows: s, Movies: m}
}

type bookSeatReq struct {
	SeatNumber int64 `json:"seat_number"`
}

// allocatorStatus maps allocation errors onto HTTP status codes.
// Contention rejections are 409 so clients can distinguish them from
// bad input; lock starvation is 503 because a retry may succeed.
func allocatorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidSeat):
		return http.StatusBadRequest, "seat_number out of range"
	case errors.Is(err, service.ErrShowFull):
		return http.StatusConflict, "show is fully booked"
	case errors.Is(err, service.ErrSeatTaken):
		return http.StatusConflict, "seat already booked"
	case errors.Is(err, service.ErrShowNotFound):
		return http.StatusNotFound, "show not found"
	case errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "booking belongs to another user"
	case errors.Is(err, service.ErrLockTimeout):
		return http.StatusServiceUnavailable, "show is busy, retry"
	default:
		return http.StatusInternalServerError, "booking failed"
	}
}

// BookSeat: POST /v1/shows/:id/book with body {"seat_number": n}.
func (h *BookingHandler) BookSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req bookSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Alloc.Reserve(ctx, showID, req.SeatNumber, uid)
	if err != nil {
		code, msg := allocatorStatus(err)
		return c.JSON(code, echo.Map{"error": msg})
	}

	h.publishBooked(b)

	return c.JSON(http.StatusCreated, b)
}

// CancelBooking: POST /v1/bookings/:id/cancel. Cancelling an already
// cancelled booking succeeds without any state change.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Alloc.Cancel(ctx, bookingID, uid); err != nil {
		code, msg := allocatorStatus(err)
		return c.JSON(code, echo.Map{"error": msg})
	}

	h.publishCancelled(ctx, bookingID, uid)

	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

// MyBookings: GET /v1/my-bookings — the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// publishBooked emits the booked event in the background. Broker
// trouble must never fail a committed booking.
func (h *BookingHandler) publishBooked(b *model.Booking) {
	ev := queue.SeatBookedEvent{
		BookingID:  b.ID,
		Reference:  b.Reference,
		UserID:     b.UserID,
		ShowID:     b.ShowID,
		SeatNumber: b.SeatNumber,
		BookedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s, err := h.Shows.GetByID(ctx, ev.ShowID); err == nil {
			ev.ScreenName = s.ScreenName
			ev.StartsAt = s.StartsAt.UTC().Format(time.RFC3339)
			if m, err := h.Movies.GetByID(ctx, s.MovieID); err == nil {
				ev.MovieTitle = m.Title
			}
		}
		if err := queue.PublishSeatBooked(ctx, ev); err != nil {
			log.Printf("publish booked event: %v", err)
		}
	}()
}

func (h *BookingHandler) publishCancelled(ctx context.Context, bookingID, userID uint64) {
	b, err := h.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		log.Printf("load booking %d for cancel event: %v", bookingID, err)
		return
	}
	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		Reference:   b.Reference,
		UserID:      userID,
		ShowID:      b.ShowID,
		SeatNumber:  b.SeatNumber,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue.PublishBookingCancelled(pctx, ev); err != nil {
			log.Printf("publish cancel event: %v", err)
		}
	}()
}

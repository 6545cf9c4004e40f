package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Kunals990/movie-ticket-booking/internal/config"
	"github.com/Kunals990/movie-ticket-booking/internal/handler"
	"github.com/Kunals990/movie-ticket-booking/internal/middleware"
)

// RegisterBooking registers the customer booking endpoints under /v1.
// All routes require a valid JWT and the CUSTOMER or ADMIN role. Book
// and cancel sit behind the Redis token bucket when a client is
// available; limiter outages fail open inside the middleware.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	var limited *echo.Group
	if rdb != nil {
		cfg := config.LoadRateLimitConfig()
		if cfg.Enabled {
			limited = e.Group(
				"/v1",
				middleware.JWTAuth(jwtSecret),
				middleware.RequireRole("CUSTOMER", "ADMIN"),
				middleware.NewTokenBucket(cfg, rdb),
			)
		}
	}
	if limited == nil {
		limited = g
	}

	limited.POST("/shows/:id/book", h.BookSeat)
	limited.POST("/bookings/:id/cancel", h.CancelBooking)
	g.GET("/my-bookings", h.MyBookings)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Kunals990/movie-ticket-booking/internal/handler"
	"github.com/Kunals990/movie-ticket-booking/internal/middleware"
)

// RegisterAdmin registers the catalogue-management endpoints. All
// routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/movies", h.CreateMovie)
	g.POST("/shows", h.CreateShow)
}

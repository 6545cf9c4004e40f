package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/repository"
)

// AdminHandler serves the catalogue-management endpoints. Routes using
// it must sit behind JWTAuth plus RequireRole("ADMIN").
type AdminHandler struct {
	Movies *repository.MovieRepo
	Shows  *repository.ShowRepo
}

func NewAdminHandler(m *repository.MovieRepo, s *repository.ShowRepo) *AdminHandler {
	return &AdminHandler{Movies: m, Shows: s}
}

type createMovieReq struct {
	Title       string `json:"title"`
	DurationMin uint32 `json:"duration_min"`
}

type createShowReq struct {
	MovieID    uint64 `json:"movie_id"`
	ScreenName string `json:"screen_name"`
	StartsAt   string `json:"starts_at"` // RFC3339
	TotalSeats uint32 `json:"total_seats"`
}

// CreateMovie: POST /v1/movies
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Movie{Title: req.Title, DurationMin: req.DurationMin}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// CreateShow: POST /v1/shows
// The movie must exist and total_seats must be at least one; the seat
// count is fixed for the lifetime of the show.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ScreenName = strings.TrimSpace(req.ScreenName)
	if req.MovieID == 0 || req.ScreenName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and screen_name required"})
	}
	if req.TotalSeats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be at least 1"})
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}

	s := &model.Show{
		MovieID:    req.MovieID,
		ScreenName: req.ScreenName,
		StartsAt:   startsAt.UTC(),
		TotalSeats: req.TotalSeats,
	}
	if err := h.Shows.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kunals990/movie-ticket-booking/internal/repository"
)

// MovieHandler serves the public, unauthenticated catalogue endpoints.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Shows  *repository.ShowRepo
}

func NewMovieHandler(m *repository.MovieRepo, s *repository.ShowRepo) *MovieHandler {
	return &MovieHandler{Movies: m, Shows: s}
}

// ListMovies: GET /v1/movies — every movie, ordered by title.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// GetMovie: GET /v1/movies/:id
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListShows: GET /v1/movies/:id/shows — all shows for one movie.
func (h *MovieHandler) ListShows(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}

	shows, err := h.Shows.ListByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// SearchShows: GET /v1/shows/search
// time: "upcoming" (default) or "any" (no time filter).
func (h *MovieHandler) SearchShows(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	screen := strings.TrimSpace(c.QueryParam("screen"))
	timeFilter := strings.ToLower(strings.TrimSpace(c.QueryParam("time")))
	if timeFilter == "" {
		timeFilter = "upcoming"
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.ShowSearchQuery{
		Title:      title,
		Screen:     screen,
		TimeFilter: timeFilter,
		Page:       page,
		PageSize:   ps,
	}

	items, total, err := h.Shows.SearchUpcoming(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}

package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Kunals990/movie-ticket-booking/internal/config"
	"github.com/Kunals990/movie-ticket-booking/internal/handler"
	"github.com/Kunals990/movie-ticket-booking/internal/middleware"
)

// RegisterPublic registers the unauthenticated catalogue endpoints.
// Listing responses are cached in Redis when a client is available;
// with rdb nil the routes are registered without caching.
func RegisterPublic(e *echo.Echo, h *handler.MovieHandler, rdb *redis.Client) {
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		cfg := config.LoadCacheConfig()
		if cfg.Enabled {
			mw = append(mw, middleware.NewRedisCache(cfg, rdb))
		}
	}
	g := e.Group("/v1", mw...)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/movies/:id/shows", h.ListShows)
	g.GET("/shows/search", h.SearchShows)
}

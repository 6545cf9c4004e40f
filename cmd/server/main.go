package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Kunals990/movie-ticket-booking/internal/config"
	"github.com/Kunals990/movie-ticket-booking/internal/database"
	"github.com/Kunals990/movie-ticket-booking/internal/handler"
	"github.com/Kunals990/movie-ticket-booking/internal/queue"
	"github.com/Kunals990/movie-ticket-booking/internal/repository"
	"github.com/Kunals990/movie-ticket-booking/internal/router"
	"github.com/Kunals990/movie-ticket-booking/internal/service"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Nil when Redis is unreachable; caching and rate limiting then stay off.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)
	bookings := repository.NewBookingRepo(db)

	allocator := service.NewSeatAllocator(bookings)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	movieH := handler.NewMovieHandler(movies, shows)
	adminH := handler.NewAdminHandler(movies, shows)
	bookingH := handler.NewBookingHandler(allocator, bookings, shows, movies)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, movieH, rdb)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret, rdb)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

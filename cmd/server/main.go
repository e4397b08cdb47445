package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/database"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/handler"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/mailer"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/queue"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, caching and rate limiting disabled")
	}

	shows := repository.NewShowRepo(db)
	dates := repository.NewShowDateRepo(db)
	shifts := repository.NewShiftRepo(db)
	volunteers := repository.NewVolunteerRepo(db)

	contact := mailer.Contact{Name: cfg.ContactName, Email: cfg.ContactEmail, Phone: cfg.ContactPhone}
	m := mailer.New(cfg)
	go queue.StartScheduleConsumer(contact, m)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, shows, dates, shifts, volunteers), cfg, rdb)
	router.RegisterVolunteer(e, handler.NewVolunteerHandler(cfg, shifts, volunteers), cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/facility-reservation/internal/config"
	"github.com/iliyamo/facility-reservation/internal/database"
	"github.com/iliyamo/facility-reservation/internal/handler"
	"github.com/iliyamo/facility-reservation/internal/queue"
	"github.com/iliyamo/facility-reservation/internal/repository"
	"github.com/iliyamo/facility-reservation/internal/router"
	"github.com/iliyamo/facility-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	facilityRepo := repository.NewFacilityRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)

	facilitySvc := service.NewFacilityService(facilityRepo, logger)
	reservationSvc := service.NewReservationService(facilityRepo, reservationRepo, logger)

	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	if publisher != nil {
		go queue.StartConsumer(cfg.AMQPURL, logger)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		Auth:         handler.NewAuthHandler(cfg, userRepo),
		Facilities:   handler.NewFacilityHandler(facilitySvc),
		Reservations: handler.NewReservationHandler(reservationSvc, publisher),
		Redis:        rdb,
	})

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

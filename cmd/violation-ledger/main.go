package main

import (
	"fmt"
	"os"

	"violation-ledger/internal/auth"
	"violation-ledger/internal/config"
	"violation-ledger/internal/db"
	"violation-ledger/internal/feed"
	httphandler "violation-ledger/internal/http"
	"violation-ledger/internal/http/middleware"
	"violation-ledger/internal/logger"
	"violation-ledger/internal/repository"
	"violation-ledger/internal/service"
	"violation-ledger/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	violationRepo := repository.NewViolationRepository(database)
	complaintRepo := repository.NewComplaintRepository(database)
	visitorRepo := repository.NewVisitorRepository(database)
	hostRepo := repository.NewHostRepository(database)

	violationFeed := feed.NewBroker(violationRepo.List, log)
	complaintFeed := feed.NewComplaintBroker(complaintRepo.List, log)

	violationService := service.NewViolationService(violationRepo, violationFeed)
	complaintService := service.NewComplaintService(complaintRepo, complaintFeed)
	visitorService := service.NewVisitorService(visitorRepo)
	vehicleService := service.NewVehicleService(visitorRepo, violationRepo, hostRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(
		violationService,
		complaintService,
		visitorService,
		vehicleService,
		cfg.Ledger.WarningWindowMinutes,
		cfg.Ledger.RepeatOffenderMin,
		log,
	)
	wsHandler := ws.NewHandler(violationFeed, complaintFeed, log)
	router := httphandler.NewRouter(handler, wsHandler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting violation ledger")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkus/internal/api"
	"parkus/internal/api/handler"
	"parkus/internal/api/middleware"
	"parkus/internal/config"
	"parkus/internal/repository/postgresql"
	"parkus/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	log.Println("database connection established")

	userRepo := postgresql.NewPgUserRepository(db)
	lotRepo := postgresql.NewPgParkingLotRepository(db)
	ledgerRepo := postgresql.NewPgReservationLedgerRepository(db)
	driverRepo := postgresql.NewPgDriverRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)

	wsManager := handler.NewWebSocketManager()
	go wsManager.Start()

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	ledger := service.NewReservationLedger(ledgerRepo, lotRepo, driverRepo, vehicleRepo, wsManager)
	lotService := service.NewLotService(lotRepo)

	authMw := middleware.NewAuthMiddleware(authService)

	router := api.SetupRouter(cfg, authService, ledger, lotService, authMw, wsManager)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("ParkUS API listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server stopped")
}

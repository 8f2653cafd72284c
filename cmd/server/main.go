package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"paytrack-backend/internal/auth"
	"paytrack-backend/internal/config"
	"paytrack-backend/internal/database"
	"paytrack-backend/internal/db"
	"paytrack-backend/internal/handlers"
	"paytrack-backend/internal/health"
	api "paytrack-backend/internal/http"
	"paytrack-backend/internal/middleware"
	"paytrack-backend/internal/repositories"
	"paytrack-backend/internal/services"
	"paytrack-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS)
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	requestRepo := repositories.NewPaymentRequestRepository(pool)
	claimRepo := repositories.NewPaymentClaimRepository(pool)
	entryRepo := repositories.NewPaymentEntryRepository(pool)
	trackerRepo := repositories.NewTrackerRepository(pool)
	sourceDocRepo := repositories.NewSourceDocumentRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	reconcileService := services.NewReconcileService(entryRepo, sourceDocRepo)
	queryService := services.NewRequestQueryService(requestRepo, claimRepo, trackerRepo, reconcileService)
	trackerService := services.NewTrackerService(trackerRepo, entryRepo, requestRepo)
	syncService := services.NewSyncService(requestRepo, claimRepo, entryRepo, trackerService)
	reportService := services.NewReportService(trackerRepo, entryRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	requestHandler := handlers.NewPaymentRequestHandler(queryService)
	trackerHandler := handlers.NewTrackerHandler(trackerService, entryRepo)
	syncHandler := handlers.NewSyncHandler(syncService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	corsMiddleware := middleware.NewCORS(cfg)

	router := api.NewRouter(
		authHandler,
		requestHandler,
		trackerHandler,
		syncHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)
	handler := corsMiddleware(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"log"

	"paytrack-backend/internal/config"
	"paytrack-backend/internal/db"
	"paytrack-backend/internal/models"
	"paytrack-backend/internal/repositories"
	"paytrack-backend/internal/services"
)

// Standalone bulk sync runner for cron or one-off maintenance. Walks every
// request or claim, reconciles it against its settlements and rewrites its
// tracker, same code path as POST /api/sync/{kind}.
func main() {
	kindFlag := flag.String("kind", "request", "What to sync: request or claim")
	flag.Parse()

	var kind models.ReferenceType
	switch *kindFlag {
	case "request":
		kind = models.ReferenceTypeRequest
	case "claim":
		kind = models.ReferenceTypeClaim
	default:
		log.Fatalf("Unknown kind %q: use request or claim", *kindFlag)
	}

	cfg := config.Load()
	pool := db.Connect(cfg)
	defer pool.Close()

	requestRepo := repositories.NewPaymentRequestRepository(pool)
	claimRepo := repositories.NewPaymentClaimRepository(pool)
	entryRepo := repositories.NewPaymentEntryRepository(pool)
	trackerRepo := repositories.NewTrackerRepository(pool)

	trackerService := services.NewTrackerService(trackerRepo, entryRepo, requestRepo)
	syncService := services.NewSyncService(requestRepo, claimRepo, entryRepo, trackerService)

	summary, err := syncService.SyncAll(context.Background(), kind)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	log.Printf("Sync complete: %d synced, %d failed in %s", summary.Synced, summary.Failed, summary.Elapsed)
}

package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"paytrack-backend/internal/metrics"
	"paytrack-backend/internal/models"
)

// RequestIterator lists every request of a kind for the batch path
type RequestIterator interface {
	GetAll(ctx context.Context) ([]models.PaymentRequest, error)
}

// ClaimIterator lists every claim for the batch path
type ClaimIterator interface {
	GetAll(ctx context.Context) ([]models.PaymentClaim, error)
}

// RepresentativeFinder resolves the single most recent submitted settlement through
// the kind-appropriate direct linkage field
type RepresentativeFinder interface {
	FirstByReferenceNo(ctx context.Context, requestNo string) (*models.PaymentEntry, error)
	FirstByClaimReference(ctx context.Context, claimNo string) (*models.PaymentEntry, error)
}

// SyncService is the batch maintenance path: it walks every request (or claim) of a
// kind, reconciles it against its representative settlement and upserts its tracker.
// Each item commits independently; a failure partway through leaves earlier items
// updated and later ones stale until the next run.
type SyncService struct {
	Requests RequestIterator
	Claims   ClaimIterator
	Entries  RepresentativeFinder
	Trackers *TrackerService

	// Two concurrent runs over the same kind would race on tracker rows
	// (last-write-wins, no optimistic check), so runs are serialized here.
	mu sync.Mutex
}

func NewSyncService(requests RequestIterator, claims ClaimIterator, entries RepresentativeFinder, trackers *TrackerService) *SyncService {
	return &SyncService{
		Requests: requests,
		Claims:   claims,
		Entries:  entries,
		Trackers: trackers,
	}
}

// SyncAll runs the bulk sync for one request kind and reports how many trackers
// were written. Per-item failures are logged and counted; the batch continues.
func (s *SyncService) SyncAll(ctx context.Context, kind models.ReferenceType) (*models.SyncSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	summary := &models.SyncSummary{Kind: kind}

	var err error
	switch kind {
	case models.ReferenceTypeRequest:
		err = s.syncRequests(ctx, summary)
	case models.ReferenceTypeClaim:
		err = s.syncClaims(ctx, summary)
	default:
		return nil, fmt.Errorf("unknown reference type: %s", kind)
	}
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	summary.Elapsed = elapsed.String()
	metrics.SyncDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	metrics.SyncLastRun.WithLabelValues(string(kind)).SetToCurrentTime()

	log.Printf("Sync complete for %s: %d synced, %d failed in %s",
		kind, summary.Synced, summary.Failed, summary.Elapsed)
	return summary, nil
}

func (s *SyncService) syncRequests(ctx context.Context, summary *models.SyncSummary) error {
	requests, err := s.Requests.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list payment requests: %w", err)
	}

	for _, req := range requests {
		representative, err := s.Entries.FirstByReferenceNo(ctx, req.RequestNo)
		if err != nil {
			s.recordFailure(summary, models.ReferenceTypeRequest, req.RequestNo, err)
			continue
		}

		paidFromEntry := 0.0
		var representativeNo *string
		if representative != nil {
			paidFromEntry = representative.PaidAmount
			representativeNo = &representative.EntryNo
		}

		existing, err := s.Trackers.Trackers.GetByRequestNo(ctx, req.RequestNo)
		if err != nil {
			s.recordFailure(summary, models.ReferenceTypeRequest, req.RequestNo, err)
			continue
		}
		existingPaid := 0.0
		if existing != nil {
			existingPaid = existing.TotalAmountPaid
		}

		totalPaid := EffectivePaid(paidFromEntry, existingPaid, existing != nil)
		remaining := Remaining(req.GrandTotal, totalPaid)
		remaining = ApplyPaidOverride(remaining, req.Status)

		if _, err := s.Trackers.UpsertForRequest(ctx, req.RequestNo, totalPaid, remaining, representativeNo); err != nil {
			s.recordFailure(summary, models.ReferenceTypeRequest, req.RequestNo, err)
			continue
		}

		summary.Synced++
		metrics.TrackersSynced.WithLabelValues(string(models.ReferenceTypeRequest), "ok").Inc()
	}

	return nil
}

func (s *SyncService) syncClaims(ctx context.Context, summary *models.SyncSummary) error {
	claims, err := s.Claims.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list payment claims: %w", err)
	}

	for _, claim := range claims {
		representative, err := s.Entries.FirstByClaimReference(ctx, claim.ClaimNo)
		if err != nil {
			s.recordFailure(summary, models.ReferenceTypeClaim, claim.ClaimNo, err)
			continue
		}

		paidFromEntry := 0.0
		var representativeNo *string
		if representative != nil {
			paidFromEntry = representative.PaidAmount
			representativeNo = &representative.EntryNo
		}

		existing, err := s.Trackers.Trackers.GetByClaimNo(ctx, claim.ClaimNo)
		if err != nil {
			s.recordFailure(summary, models.ReferenceTypeClaim, claim.ClaimNo, err)
			continue
		}
		existingPaid := 0.0
		if existing != nil {
			existingPaid = existing.TotalAmountPaid
		}

		totalPaid := EffectivePaid(paidFromEntry, existingPaid, existing != nil)
		remaining := Remaining(claim.GrandTotal, totalPaid)

		if _, err := s.Trackers.UpsertForClaim(ctx, claim.ClaimNo, totalPaid, remaining, representativeNo); err != nil {
			s.recordFailure(summary, models.ReferenceTypeClaim, claim.ClaimNo, err)
			continue
		}

		summary.Synced++
		metrics.TrackersSynced.WithLabelValues(string(models.ReferenceTypeClaim), "ok").Inc()
	}

	return nil
}

func (s *SyncService) recordFailure(summary *models.SyncSummary, kind models.ReferenceType, id string, err error) {
	log.Printf("Sync failed for %s %s: %v", kind, id, err)
	summary.Failed++
	metrics.TrackersSynced.WithLabelValues(string(kind), "error").Inc()
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"paytrack-backend/internal/metrics"
	"paytrack-backend/internal/models"
)

// TrackerStore is the persistence surface of the tracker service
type TrackerStore interface {
	GetByID(ctx context.Context, id int) (*models.PaymentTracker, error)
	GetByRequestNo(ctx context.Context, requestNo string) (*models.PaymentTracker, error)
	GetByClaimNo(ctx context.Context, claimNo string) (*models.PaymentTracker, error)
	Create(ctx context.Context, tracker *models.PaymentTracker) error
	UpdateTotals(ctx context.Context, tracker *models.PaymentTracker) error
	SaveWithDetails(ctx context.Context, tracker *models.PaymentTracker) error
}

// SettlementIndex resolves and creates settlements for the tracker service
type SettlementIndex interface {
	FindForRequest(ctx context.Context, requestNo string) ([]models.PaymentEntry, error)
	GetByNo(ctx context.Context, entryNo string) (*models.PaymentEntry, error)
	Create(ctx context.Context, req *models.CreatePaymentEntryRequest) (*models.PaymentEntry, error)
}

// RequestLookup reads one payment request by identity
type RequestLookup interface {
	GetByNo(ctx context.Context, requestNo string) (*models.PaymentRequest, error)
}

// TrackerService owns the denormalized per-request payment summaries: upsert from
// the sync path, child-table reads, and the manual detail edit path with its
// settlement-creation side effect
type TrackerService struct {
	Trackers TrackerStore
	Entries  SettlementIndex
	Requests RequestLookup
}

func NewTrackerService(trackers TrackerStore, entries SettlementIndex, requests RequestLookup) *TrackerService {
	return &TrackerService{
		Trackers: trackers,
		Entries:  entries,
		Requests: requests,
	}
}

// UpsertForRequest creates or overwrites the tracker for a payment request.
// Existence is checked by the request identity field, never by tracker id. The
// bulk path leaves detail rows untouched.
func (s *TrackerService) UpsertForRequest(ctx context.Context, requestNo string, paid, remaining float64, representative *string) (*models.PaymentTracker, error) {
	tracker, err := s.Trackers.GetByRequestNo(ctx, requestNo)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker for %s: %w", requestNo, err)
	}

	if tracker == nil {
		tracker = &models.PaymentTracker{RequestNo: &requestNo}
		tracker.TotalAmountPaid = paid
		tracker.TotalAmountRemaining = remaining
		tracker.PaymentEntryNo = representative
		tracker.RecomputeDetails()
		if err := s.Trackers.Create(ctx, tracker); err != nil {
			return nil, err
		}
		return tracker, nil
	}

	tracker.TotalAmountPaid = paid
	tracker.TotalAmountRemaining = remaining
	tracker.PaymentEntryNo = representative
	tracker.RecomputeDetails()
	if err := s.Trackers.UpdateTotals(ctx, tracker); err != nil {
		return nil, err
	}
	return tracker, nil
}

// UpsertForClaim creates or overwrites the tracker for a payment claim
func (s *TrackerService) UpsertForClaim(ctx context.Context, claimNo string, paid, remaining float64, representative *string) (*models.PaymentTracker, error) {
	tracker, err := s.Trackers.GetByClaimNo(ctx, claimNo)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker for %s: %w", claimNo, err)
	}

	if tracker == nil {
		tracker = &models.PaymentTracker{ClaimNo: &claimNo}
		tracker.TotalAmountPaid = paid
		tracker.TotalAmountRemaining = remaining
		tracker.PaymentEntryNo = representative
		tracker.RecomputeDetails()
		if err := s.Trackers.Create(ctx, tracker); err != nil {
			return nil, err
		}
		return tracker, nil
	}

	tracker.TotalAmountPaid = paid
	tracker.TotalAmountRemaining = remaining
	tracker.PaymentEntryNo = representative
	tracker.RecomputeDetails()
	if err := s.Trackers.UpdateTotals(ctx, tracker); err != nil {
		return nil, err
	}
	return tracker, nil
}

// GetChildTable returns a tracker's detail rows, totals and the settlement history
// resolved through the full union index. When the index finds nothing, the single
// representative settlement stored on the tracker is used as a fallback. History
// lookup failures degrade to an empty list; a missing tracker is a hard failure.
func (s *TrackerService) GetChildTable(ctx context.Context, trackerID int) (*models.TrackerChildTable, error) {
	tracker, err := s.Trackers.GetByID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		return nil, fmt.Errorf("tracker %d not found", trackerID)
	}

	var history []models.PaymentEntry
	if tracker.RequestNo != nil {
		history, err = s.Entries.FindForRequest(ctx, *tracker.RequestNo)
		if err != nil {
			log.Printf("Settlement history lookup failed for tracker %d: %v", trackerID, err)
			history = nil
		}
	}

	if len(history) == 0 && tracker.PaymentEntryNo != nil {
		if entry, err := s.Entries.GetByNo(ctx, *tracker.PaymentEntryNo); err == nil && entry != nil {
			history = []models.PaymentEntry{*entry}
		}
	}

	return &models.TrackerChildTable{
		ChildRows: tracker.Details,
		Totals: models.TrackerTotals{
			TotalAmountPaid:      tracker.TotalAmountPaid,
			TotalAmountRemaining: tracker.TotalAmountRemaining,
		},
		PaymentEntries: history,
	}, nil
}

// ReplaceDetails overwrites a tracker's totals from caller input and replaces its
// detail rows wholesale, re-deriving every row through the recompute hook. For each
// row with a positive paid amount a new settlement is created against the tracker's
// request; each creation runs in its own transaction, and a rejected creation is
// reported for that request without aborting sibling rows.
//
// Calling this twice with the same positive-amount rows creates duplicate
// settlements. That is the documented contract of this trusted override path.
func (s *TrackerService) ReplaceDetails(ctx context.Context, trackerID int, update *models.UpdateTrackerDetailsRequest) (*models.DetailUpdateResult, error) {
	tracker, err := s.Trackers.GetByID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		return nil, fmt.Errorf("tracker %d not found", trackerID)
	}

	tracker.TotalAmountPaid = update.Totals.TotalAmountPaid
	tracker.TotalAmountRemaining = update.Totals.TotalAmountRemaining

	tracker.Details = make([]models.TrackerDetail, 0, len(update.Rows))
	for _, row := range update.Rows {
		tracker.Details = append(tracker.Details, models.TrackerDetail{
			TrackerID:       tracker.ID,
			TransactionDate: row.TransactionDate,
			PaidAmount:      row.PaidAmount,
			PaidPct:         row.PaidPct,
		})
	}

	tracker.RecomputeDetails()

	result := &models.DetailUpdateResult{Status: "success"}

	if tracker.RequestNo != nil {
		for _, row := range update.Rows {
			if row.PaidAmount <= 0 {
				continue
			}
			if err := s.createSettlementForRow(ctx, *tracker.RequestNo, row); err != nil {
				log.Printf("Payment entry creation failed for %s: %v", *tracker.RequestNo, err)
				result.FailedRequests = append(result.FailedRequests,
					fmt.Sprintf("Payment entry creation failed for %s", *tracker.RequestNo))
				metrics.SettlementsCreated.WithLabelValues("error").Inc()
				continue
			}
			result.EntriesCreated++
			metrics.SettlementsCreated.WithLabelValues("ok").Inc()
		}
	}

	if err := s.Trackers.SaveWithDetails(ctx, tracker); err != nil {
		return nil, err
	}

	if len(result.FailedRequests) > 0 {
		result.Status = "partial"
	}
	return result, nil
}

func (s *TrackerService) createSettlementForRow(ctx context.Context, requestNo string, row models.TrackerDetailInput) error {
	request, err := s.Requests.GetByNo(ctx, requestNo)
	if err != nil {
		return err
	}
	if request == nil {
		return fmt.Errorf("payment request %s not found", requestNo)
	}

	postingDate := row.TransactionDate
	if postingDate.IsZero() {
		postingDate = time.Now()
	}

	_, err = s.Entries.Create(ctx, &models.CreatePaymentEntryRequest{
		PostingDate:      postingDate,
		PaidAmount:       row.PaidAmount,
		Party:            request.Party,
		ReferenceNo:      requestNo,
		ReferenceDoctype: models.DoctypePaymentRequest,
		ReferenceName:    requestNo,
		AllocatedAmount:  row.PaidAmount,
	})
	return err
}

package services

import (
	"context"
	"strings"

	"paytrack-backend/internal/models"
)

// RequestLister reads payment requests for the list views
type RequestLister interface {
	List(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentRequest, error)
	ListInward(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentRequest, error)
}

// ClaimLister reads payment claims for the list views
type ClaimLister interface {
	List(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentClaim, error)
}

// TrackerLookup reads trackers by their identity fields
type TrackerLookup interface {
	GetByRequestNo(ctx context.Context, requestNo string) (*models.PaymentTracker, error)
	GetByClaimNo(ctx context.Context, claimNo string) (*models.PaymentTracker, error)
}

// RequestQueryService produces the filtered, enriched list views: requests and
// claims joined with their trackers, computed paid/remaining figures, derived
// supplier fields and payment-terms summaries.
//
// The paid/unpaid skip rules deliberately differ between entry points; see the
// per-method comments. They mirror three independent business rules and must not
// be unified without product confirmation.
type RequestQueryService struct {
	Requests   RequestLister
	Claims     ClaimLister
	Trackers   TrackerLookup
	Reconciler *ReconcileService
}

func NewRequestQueryService(requests RequestLister, claims ClaimLister, trackers TrackerLookup, reconciler *ReconcileService) *RequestQueryService {
	return &RequestQueryService{
		Requests:   requests,
		Claims:     claims,
		Trackers:   trackers,
		Reconciler: reconciler,
	}
}

// ListRequests returns enriched payment requests, most recent first.
// Paid figures come from directly-referencing submitted settlements with the
// tracker fallback. Fully-paid skips rows with remaining > 0; unpaid skips rows
// with remaining == 0.
func (s *RequestQueryService) ListRequests(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.EnrichedRequestRow, error) {
	requests, err := s.Requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := []models.EnrichedRequestRow{}
	for _, req := range requests {
		if filter.Supplier != "" && req.PartyType == "Supplier" && !matchesSupplier(&req, filter.Supplier) {
			continue
		}

		tracker, err := s.Trackers.GetByRequestNo(ctx, req.RequestNo)
		if err != nil {
			// Enrichment lookup; treat as missing rather than failing the view
			tracker = nil
		}

		paid, remaining := s.Reconciler.ReconcileRequest(ctx, &req, tracker)

		if filter.OnlyFullyPaid && remaining > 0 {
			continue
		}
		if filter.OnlyUnpaid && remaining == 0 {
			continue
		}

		row := models.EnrichedRequestRow{
			RequestNo:            req.RequestNo,
			GrandTotal:           req.GrandTotal,
			ReferenceDoctype:     req.ReferenceDoctype,
			ReferenceName:        req.ReferenceName,
			TransactionDate:      req.TransactionDate,
			TotalAmountPaid:      paid,
			TotalAmountRemaining: remaining,
			PaymentTerms:         s.Reconciler.PaymentTerms(ctx, req.ReferenceDoctype, req.ReferenceName),
		}

		if req.PartyType == "Supplier" {
			row.SupplierID = req.Party
			row.SupplierName = req.PartyName
			if row.SupplierName == "" {
				row.SupplierName = req.Party
			}
		}

		attachTracker(&row, tracker)
		row.POGrandTotal, row.PORemaining = s.Reconciler.SourceDocumentTotals(ctx, req.ReferenceDoctype, req.ReferenceName)

		results = append(results, row)
	}

	return results, nil
}

// ListInwardRequests returns enriched submitted inward requests. A stored status of
// exactly "Paid" forces remaining to 0 regardless of settlement sums. Source
// document enrichment does not apply to inward requests.
func (s *RequestQueryService) ListInwardRequests(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.EnrichedRequestRow, error) {
	requests, err := s.Requests.ListInward(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := []models.EnrichedRequestRow{}
	for _, req := range requests {
		tracker, err := s.Trackers.GetByRequestNo(ctx, req.RequestNo)
		if err != nil {
			tracker = nil
		}

		paid, remaining := s.Reconciler.ReconcileRequest(ctx, &req, tracker)
		remaining = ApplyPaidOverride(remaining, req.Status)

		if filter.OnlyFullyPaid && remaining > 0 {
			continue
		}
		if filter.OnlyUnpaid && remaining == 0 {
			continue
		}

		row := models.EnrichedRequestRow{
			RequestNo:            req.RequestNo,
			GrandTotal:           req.GrandTotal,
			ReferenceDoctype:     req.ReferenceDoctype,
			ReferenceName:        req.ReferenceName,
			SupplierName:         req.PartyName, // the party is a customer here
			SupplierID:           req.Party,
			TransactionDate:      req.TransactionDate,
			TotalAmountPaid:      paid,
			TotalAmountRemaining: remaining,
		}

		attachTracker(&row, tracker)
		results = append(results, row)
	}

	return results, nil
}

// ListClaims returns enriched payment claims. Totals come strictly from the
// tracker; no settlement reconciliation happens on this path. Fully-paid skips
// rows with remaining != 0; unpaid skips rows with remaining <= 0.
func (s *RequestQueryService) ListClaims(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.EnrichedRequestRow, error) {
	claims, err := s.Claims.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := []models.EnrichedRequestRow{}
	for _, claim := range claims {
		tracker, err := s.Trackers.GetByClaimNo(ctx, claim.ClaimNo)
		if err != nil {
			tracker = nil
		}

		paid := 0.0
		if tracker != nil {
			paid = tracker.TotalAmountPaid
		}
		remaining := claim.GrandTotal - paid
		if tracker != nil {
			remaining = tracker.TotalAmountRemaining
		}
		if remaining < 0 {
			remaining = 0
		}

		if filter.OnlyFullyPaid && remaining != 0 {
			continue
		}
		if filter.OnlyUnpaid && remaining <= 0 {
			continue
		}

		row := models.EnrichedRequestRow{
			RequestNo:            claim.ClaimNo,
			GrandTotal:           claim.GrandTotal,
			ReferenceDoctype:     claim.ReferenceDoctype,
			ReferenceName:        claim.ReferenceName,
			TransactionDate:      claim.TransactionDate,
			TotalAmountPaid:      paid,
			TotalAmountRemaining: remaining,
			PaymentTerms:         s.Reconciler.PaymentTerms(ctx, claim.ReferenceDoctype, claim.ReferenceName),
			POGrandTotal:         &claim.GrandTotal,
			PORemaining:          &remaining,
		}

		if claim.PartyType == "Supplier" {
			row.SupplierID = claim.Party
			row.SupplierName = claim.PartyName
			if row.SupplierName == "" {
				row.SupplierName = claim.Party
			}
		}

		attachTracker(&row, tracker)
		results = append(results, row)
	}

	return results, nil
}

// matchesSupplier matches the supplier filter against both the display name and
// the party identifier, case-insensitively
func matchesSupplier(req *models.PaymentRequest, supplier string) bool {
	needle := strings.ToLower(supplier)
	return strings.Contains(strings.ToLower(req.PartyName), needle) ||
		strings.Contains(strings.ToLower(req.Party), needle)
}

func attachTracker(row *models.EnrichedRequestRow, tracker *models.PaymentTracker) {
	if tracker == nil {
		return
	}
	row.TrackerID = &tracker.ID
	row.PaymentEntryNo = tracker.PaymentEntryNo
	row.Budget = tracker.Budget
}

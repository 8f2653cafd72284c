package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"paytrack-backend/internal/models"
)

// SettlementSums is the slice of settlement data access the reconciler needs
type SettlementSums interface {
	SumPaidByReferenceNo(ctx context.Context, requestNo string) (float64, error)
	SumPaidForSourceDocument(ctx context.Context, doctype, name string) (float64, error)
}

// SourceDocuments reads the business documents referenced by requests and claims
type SourceDocuments interface {
	GetPurchaseOrder(ctx context.Context, name string) (*models.PurchaseOrder, error)
	GetPaymentSchedule(ctx context.Context, orderName string) ([]models.PaymentScheduleRow, error)
	GetReleaseMemo(ctx context.Context, name string) (*models.ReleaseMemo, error)
}

// TermsFunc extracts a human-readable payment-terms summary for one source-document
// type. Returning nil means "no terms available"; errors are swallowed by the
// caller so enrichment never fails a whole batch.
type TermsFunc func(ctx context.Context, name string) (*string, error)

// ReconcileService computes effective paid/remaining amounts for requests and
// claims, and enriches rows with payment terms and supplementary source-document
// totals. Source-document handling goes through an explicit doctype registry
// instead of probing arbitrary document types by name.
type ReconcileService struct {
	Entries    SettlementSums
	SourceDocs SourceDocuments

	termsRegistry map[string]TermsFunc
}

func NewReconcileService(entries SettlementSums, sourceDocs SourceDocuments) *ReconcileService {
	s := &ReconcileService{
		Entries:    entries,
		SourceDocs: sourceDocs,
	}

	s.termsRegistry = map[string]TermsFunc{
		models.DoctypePurchaseOrder: s.purchaseOrderTerms,
		models.DoctypeReleaseMemo:   s.releaseMemoTerms,
	}

	return s
}

// EffectivePaid applies the fallback precedence: settlement sums win when positive;
// otherwise an existing tracker's paid figure is trusted (a manually adjusted
// tracker with no matching settlements must not be clobbered to zero); otherwise 0.
func EffectivePaid(paidFromEntries, trackerPaid float64, hasTracker bool) float64 {
	if paidFromEntries > 0 {
		return paidFromEntries
	}
	if hasTracker {
		return trackerPaid
	}
	return 0
}

// Remaining returns the outstanding amount, never negative
func Remaining(grandTotal, effectivePaid float64) float64 {
	return math.Max(0, grandTotal-effectivePaid)
}

// ApplyPaidOverride forces remaining to 0 when a payment request's stored status is
// exactly "Paid". The override applies to the payment-request kind only, never to
// payment claims; whether the asymmetry is intentional is pending product
// confirmation, so it is preserved rather than unified.
func ApplyPaidOverride(remaining float64, status string) float64 {
	if status == "Paid" {
		return 0
	}
	return remaining
}

// ReconcileRequest computes effective paid and remaining for one payment request
// from its directly-referencing submitted settlements, falling back to the
// tracker's stored paid figure when no settlement money is found
func (s *ReconcileService) ReconcileRequest(ctx context.Context, req *models.PaymentRequest, tracker *models.PaymentTracker) (paid, remaining float64) {
	paidFromEntries, err := s.Entries.SumPaidByReferenceNo(ctx, req.RequestNo)
	if err != nil {
		// Degrade to the tracker fallback rather than failing the batch
		paidFromEntries = 0
	}

	trackerPaid := 0.0
	if tracker != nil {
		trackerPaid = tracker.TotalAmountPaid
	}

	paid = EffectivePaid(paidFromEntries, trackerPaid, tracker != nil)
	remaining = Remaining(req.GrandTotal, paid)
	return paid, remaining
}

// SourceDocumentTotals returns the referenced purchase order's own grand total and
// remaining amount, settlements joined through the reference child table only.
// Supplementary figures: they are never fed back into the request's effective paid.
// Any failure degrades to nil.
func (s *ReconcileService) SourceDocumentTotals(ctx context.Context, doctype, name string) (grandTotal, remaining *float64) {
	if doctype != models.DoctypePurchaseOrder || name == "" {
		return nil, nil
	}

	po, err := s.SourceDocs.GetPurchaseOrder(ctx, name)
	if err != nil || po == nil {
		return nil, nil
	}

	paid, err := s.Entries.SumPaidForSourceDocument(ctx, models.DoctypePurchaseOrder, name)
	if err != nil {
		return nil, nil
	}

	rem := math.Max(0, po.GrandTotal-paid)
	return &po.GrandTotal, &rem
}

// PaymentTerms resolves the payment-terms summary for a referenced source document.
// Unknown doctypes and all lookup failures degrade to nil.
func (s *ReconcileService) PaymentTerms(ctx context.Context, doctype, name string) *string {
	if doctype == "" || name == "" {
		return nil
	}

	extract, ok := s.termsRegistry[doctype]
	if !ok {
		return nil
	}

	terms, err := extract(ctx, name)
	if err != nil {
		return nil
	}
	return terms
}

func (s *ReconcileService) purchaseOrderTerms(ctx context.Context, name string) (*string, error) {
	po, err := s.SourceDocs.GetPurchaseOrder(ctx, name)
	if err != nil || po == nil {
		return nil, err
	}

	if po.PaymentTermsTemplate != "" {
		return &po.PaymentTermsTemplate, nil
	}

	schedule, err := s.SourceDocs.GetPaymentSchedule(ctx, name)
	if err != nil || len(schedule) == 0 {
		return nil, err
	}

	summary := SummarizeSchedule(schedule, po.Currency)
	if summary == "" {
		return nil, nil
	}
	return &summary, nil
}

func (s *ReconcileService) releaseMemoTerms(ctx context.Context, name string) (*string, error) {
	memo, err := s.SourceDocs.GetReleaseMemo(ctx, name)
	if err != nil || memo == nil {
		return nil, err
	}

	if memo.PaymentTermsTemplate != "" {
		return &memo.PaymentTermsTemplate, nil
	}
	if memo.PaymentTerms != "" {
		return &memo.PaymentTerms, nil
	}
	return nil, nil
}

// SummarizeSchedule builds a one-line summary from a payment schedule, e.g.
// "50% Advance Payment; 50% Upon Delivery". Each term renders as
// "<pct>% <label>" when a portion exists, else "<label> <amount>" when a fixed
// amount exists, else the bare label.
func SummarizeSchedule(schedule []models.PaymentScheduleRow, currency string) string {
	var parts []string
	for _, row := range schedule {
		label := row.PaymentTerm
		if label == "" {
			label = row.Description
		}
		if label == "" {
			label = "Payment"
		}

		switch {
		case row.InvoicePortion > 0:
			parts = append(parts, fmt.Sprintf("%d%% %s", int(row.InvoicePortion), label))
		case row.PaymentAmount > 0:
			parts = append(parts, fmt.Sprintf("%s %s", label, FormatMoney(row.PaymentAmount, currency)))
		default:
			parts = append(parts, label)
		}
	}

	return strings.Join(parts, "; ")
}

// FormatMoney renders an amount with thousands separators and the currency code,
// e.g. "INR 12,500.00"
func FormatMoney(amount float64, currency string) string {
	whole := int64(math.Abs(amount))
	frac := int64(math.Round((math.Abs(amount) - float64(whole)) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
	}

	if currency == "" {
		return fmt.Sprintf("%s%s.%02d", sign, grouped.String(), frac)
	}
	return fmt.Sprintf("%s %s%s.%02d", currency, sign, grouped.String(), frac)
}

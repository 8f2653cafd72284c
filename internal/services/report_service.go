package services

import (
	"context"

	"paytrack-backend/internal/models"
)

// TrackerIterator lists every tracker for the report
type TrackerIterator interface {
	GetAll(ctx context.Context) ([]models.PaymentTracker, error)
}

// LinkedEntryLister reads the settlements a tracker's subject is linked to through
// the kind's direct linkage field
type LinkedEntryLister interface {
	ListByDirectReference(ctx context.Context, kind models.ReferenceType, referenceNo string) ([]models.PaymentEntry, error)
}

// ReportService produces the tabular tracker report: one row per (tracker ×
// linked settlement), plus a placeholder row for trackers with no settlements when
// no date filter is active
type ReportService struct {
	Trackers TrackerIterator
	Entries  LinkedEntryLister
}

func NewReportService(trackers TrackerIterator, entries LinkedEntryLister) *ReportService {
	return &ReportService{
		Trackers: trackers,
		Entries:  entries,
	}
}

// Execute runs the report for one request kind
func (s *ReportService) Execute(ctx context.Context, filter *models.ReportFilter) (*models.Report, error) {
	kind := filter.ReferenceType
	if kind == "" {
		kind = models.ReferenceTypeRequest
	}

	trackers, err := s.Trackers.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := []models.ReportRow{}
	for _, tracker := range trackers {
		referenceNo := referenceForKind(&tracker, kind)
		if referenceNo == "" {
			continue
		}

		entries, err := s.Entries.ListByDirectReference(ctx, kind, referenceNo)
		if err != nil {
			// Enrichment lookup failure degrades to the no-settlement row
			entries = nil
		}

		if len(entries) == 0 {
			// Placeholder rows carry no posting date, so they are only
			// meaningful when no date window is requested
			if filter.FromDate == nil && filter.ToDate == nil {
				row := models.ReportRow{
					ReferenceNo:  referenceNo,
					TrackerID:    tracker.ID,
					PaidAmount:   0,
					UnpaidAmount: tracker.TotalAmountRemaining,
					GrandTotal:   tracker.TotalAmountRemaining,
				}
				if matchReportFilters(&row, filter) {
					rows = append(rows, row)
				}
			}
			continue
		}

		for _, entry := range entries {
			postingDate := entry.PostingDate
			entryNo := entry.EntryNo
			row := models.ReportRow{
				ReferenceNo:    referenceNo,
				TrackerID:      tracker.ID,
				PaymentEntryNo: &entryNo,
				PostingDate:    &postingDate,
				PaidAmount:     entry.PaidAmount,
				UnpaidAmount:   tracker.TotalAmountRemaining,
				GrandTotal:     entry.PaidAmount + tracker.TotalAmountRemaining,
			}
			if matchReportFilters(&row, filter) {
				rows = append(rows, row)
			}
		}
	}

	return &models.Report{
		Columns: reportColumns(kind),
		Rows:    rows,
	}, nil
}

// matchReportFilters applies the report's in-memory filters. The Full Paid rule
// compares grand total against paid amount; the Unpaid rule requires a zero paid
// amount. These operators are this report's own and differ from the list views.
func matchReportFilters(row *models.ReportRow, filter *models.ReportFilter) bool {
	if filter.FromDate != nil || filter.ToDate != nil {
		if row.PostingDate == nil {
			return false
		}
	}
	if filter.FromDate != nil && row.PostingDate != nil && row.PostingDate.Before(*filter.FromDate) {
		return false
	}
	if filter.ToDate != nil && row.PostingDate != nil && row.PostingDate.After(*filter.ToDate) {
		return false
	}

	switch filter.AmountPaid {
	case models.AmountPaidFullPaid:
		if row.GrandTotal != row.PaidAmount {
			return false
		}
	case models.AmountPaidUnpaid:
		if row.PaidAmount != 0 {
			return false
		}
	}

	return true
}

func referenceForKind(tracker *models.PaymentTracker, kind models.ReferenceType) string {
	switch kind {
	case models.ReferenceTypeClaim:
		if tracker.ClaimNo != nil {
			return *tracker.ClaimNo
		}
	default:
		if tracker.RequestNo != nil {
			return *tracker.RequestNo
		}
	}
	return ""
}

func reportColumns(kind models.ReferenceType) []models.ReportColumn {
	subjectLabel := "Payment Request"
	if kind == models.ReferenceTypeClaim {
		subjectLabel = "Payment Claim"
	}

	return []models.ReportColumn{
		{Label: subjectLabel, Fieldname: "payment_request", Fieldtype: "Link", Width: 200},
		{Label: "Payment Tracker", Fieldname: "prt_id", Fieldtype: "Link", Width: 200},
		{Label: "Payment Entry", Fieldname: "payment_entry", Fieldtype: "Link", Width: 200},
		{Label: "Posting Date", Fieldname: "posting_date", Fieldtype: "Date", Width: 120},
		{Label: "Paid Amount", Fieldname: "paid_amount", Fieldtype: "Currency", Width: 120},
		{Label: "Unpaid Amount", Fieldname: "unpaid_amount", Fieldtype: "Currency", Width: 120},
		{Label: "Grand Total", Fieldname: "grand_total", Fieldtype: "Currency", Width: 120},
	}
}

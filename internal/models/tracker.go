package models

import "time"

// PaymentTracker is the denormalized per-request summary of paid and remaining
// amounts. Exactly one of RequestNo / ClaimNo is set. PaymentEntryNo holds the most
// recent settlement for display, not an aggregate.
type PaymentTracker struct {
	ID                   int             `json:"id"`
	RequestNo            *string         `json:"request_no"`
	ClaimNo              *string         `json:"claim_no"`
	PaymentEntryNo       *string         `json:"payment_entry_no"`
	TotalAmountPaid      float64         `json:"total_amount_paid"`
	TotalAmountRemaining float64         `json:"total_amount_remaining"`
	Budget               *float64        `json:"budget"`
	Details              []TrackerDetail `json:"details"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TrackerDetail is one row of the tracker's detail breakdown. Rows are owned by the
// tracker and replaced wholesale on every manual edit.
type TrackerDetail struct {
	ID              int       `json:"id"`
	TrackerID       int       `json:"tracker_id"`
	TransactionDate time.Time `json:"transaction_date"`
	PaidAmount      float64   `json:"paid_amount"`
	UnpaidAmount    float64   `json:"unpaid_amount"`
	PaidPct         float64   `json:"paid"` // percentage of grand total, 0-100
	GrandTotal      float64   `json:"grand_total"`
	Idx             int       `json:"idx"`
}

// RecomputeDetails re-derives the per-row figures from the tracker totals. It is the
// single source of truth for detail-row derivation and must run before every save,
// on both the bulk sync path and the manual edit path.
//
// grand_total = total paid + total remaining; each row then gets
// unpaid = grand_total - row paid and paid% = row paid / grand_total * 100.
func (t *PaymentTracker) RecomputeDetails() {
	grandTotal := t.TotalAmountPaid + t.TotalAmountRemaining

	for i := range t.Details {
		row := &t.Details[i]
		row.GrandTotal = grandTotal
		row.UnpaidAmount = grandTotal - row.PaidAmount

		if grandTotal > 0 {
			row.PaidPct = row.PaidAmount / grandTotal * 100
		} else {
			row.PaidPct = 0
		}
	}
}

// TrackerTotals carries caller-supplied totals on the manual edit path
type TrackerTotals struct {
	TotalAmountPaid      float64 `json:"total_amount_paid"`
	TotalAmountRemaining float64 `json:"total_amount_remaining"`
}

// UpdateTrackerDetailsRequest is the payload of the manual detail edit endpoint
type UpdateTrackerDetailsRequest struct {
	Rows   []TrackerDetailInput `json:"rows"`
	Totals TrackerTotals        `json:"totals"`
}

// TrackerDetailInput is one caller-supplied detail row. Derived fields are
// recomputed server-side regardless of what the caller sends.
type TrackerDetailInput struct {
	TransactionDate time.Time `json:"transaction_date"`
	PaidAmount      float64   `json:"paid_amount"`
	PaidPct         float64   `json:"paid"`
}

// TrackerChildTable is the response of the tracker detail fetch: the detail rows,
// the stored totals and the settlement history resolved for the tracker's request
type TrackerChildTable struct {
	ChildRows      []TrackerDetail `json:"child_rows"`
	Totals         TrackerTotals   `json:"totals"`
	PaymentEntries []PaymentEntry  `json:"payment_entries"`
}

// DetailUpdateResult reports the outcome of a manual detail edit. Settlement
// creation failures are collected per row; they do not abort sibling rows.
type DetailUpdateResult struct {
	Status          string   `json:"status"`
	EntriesCreated  int      `json:"entries_created"`
	FailedRequests  []string `json:"failed_requests,omitempty"`
}

package models

import "time"

// ReferenceType selects which request kind a report or sync run operates on
type ReferenceType string

const (
	ReferenceTypeRequest ReferenceType = "Payment Request"
	ReferenceTypeClaim   ReferenceType = "Payment Claim"
)

// AmountPaidFilter values of the report
const (
	AmountPaidFullPaid = "Full Paid"
	AmountPaidUnpaid   = "Unpaid"
)

// ReportFilter is the filter set of the tabular tracker report
type ReportFilter struct {
	ReferenceType ReferenceType `json:"reference_type"`
	FromDate      *time.Time    `json:"from_date"`
	ToDate        *time.Time    `json:"to_date"`
	AmountPaid    string        `json:"amount_paid"` // "", "Full Paid" or "Unpaid"
}

// ReportColumn describes one column of the tabular report
type ReportColumn struct {
	Label     string `json:"label"`
	Fieldname string `json:"fieldname"`
	Fieldtype string `json:"fieldtype"`
	Width     int    `json:"width"`
}

// ReportRow is one row of the tracker report: a (tracker, settlement) pair, or a
// placeholder with no settlement when none exist and no date filter is active
type ReportRow struct {
	ReferenceNo    string     `json:"payment_request"`
	TrackerID      int        `json:"prt_id"`
	PaymentEntryNo *string    `json:"payment_entry"`
	PostingDate    *time.Time `json:"posting_date"`
	PaidAmount     float64    `json:"paid_amount"`
	UnpaidAmount   float64    `json:"unpaid_amount"`
	GrandTotal     float64    `json:"grand_total"`
}

// Report is the full tabular result
type Report struct {
	Columns []ReportColumn `json:"columns"`
	Rows    []ReportRow    `json:"rows"`
}

// SyncSummary reports the outcome of one bulk sync run
type SyncSummary struct {
	Kind    ReferenceType `json:"kind"`
	Synced  int           `json:"synced"`
	Failed  int           `json:"failed"`
	Elapsed string        `json:"elapsed"`
}

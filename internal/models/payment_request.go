package models

import "time"

// RequestType is the direction of a payment request
type RequestType string

const (
	RequestTypeOutward RequestType = "Outward" // Money going out (supplier payments)
	RequestTypeInward  RequestType = "Inward"  // Money coming in (customer receipts)
)

// Tri-state document lifecycle. Only submitted documents count toward reconciliation.
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// PaymentRequest represents an obligation to pay (or be paid), raised against a
// source business document such as a purchase order
type PaymentRequest struct {
	ID                int         `json:"id"`
	RequestNo         string      `json:"request_no"`
	RequestType       RequestType `json:"request_type"`
	GrandTotal        float64     `json:"grand_total"`
	ReferenceDoctype  string      `json:"reference_doctype"`
	ReferenceName     string      `json:"reference_name"`
	PartyType         string      `json:"party_type"`
	Party             string      `json:"party"`
	PartyName         string      `json:"party_name"`
	TransactionDate   time.Time   `json:"transaction_date"`
	Status            string      `json:"status"` // e.g. "Paid" once settled upstream
	DocStatus         int         `json:"docstatus"`
	CreatedAt         time.Time   `json:"created_at"`
}

// PaymentRequestFilter is the conjunctive filter set for the list views.
// All fields are optional; zero values mean "not filtered".
type PaymentRequestFilter struct {
	RequestNo        string     `json:"request_no"`        // substring match
	Supplier         string     `json:"supplier"`          // matched against party_name and party
	ReferenceDoctype string     `json:"reference_doctype"` // exact match
	ReferenceName    string     `json:"reference_name"`    // substring match
	FromDate         *time.Time `json:"from_date"`
	ToDate           *time.Time `json:"to_date"`
	OnlyFullyPaid    bool       `json:"only_fully_paid"`
	OnlyUnpaid       bool       `json:"only_unpaid"`
}

// EnrichedRequestRow is one row of the list views: the request joined with its
// tracker, computed paid/remaining figures and payment-terms enrichment
type EnrichedRequestRow struct {
	RequestNo            string     `json:"payment_request"`
	GrandTotal           float64    `json:"grand_total"`
	ReferenceDoctype     string     `json:"reference_doctype"`
	ReferenceName        string     `json:"reference_name"`
	SupplierName         string     `json:"supplier_name,omitempty"`
	SupplierID           string     `json:"supplier_id,omitempty"`
	PaymentTerms         *string    `json:"payment_terms"`
	TransactionDate      time.Time  `json:"transaction_date"`
	TrackerID            *int       `json:"tracker"`
	PaymentEntryNo       *string    `json:"payment_entry"`
	TotalAmountPaid      float64    `json:"total_amount_paid"`
	TotalAmountRemaining float64    `json:"total_amount_remaining"`
	POGrandTotal         *float64   `json:"po_grand_total"`
	PORemaining          *float64   `json:"po_remaining"`
	Budget               *float64   `json:"budget"`
}

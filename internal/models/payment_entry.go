package models

import "time"

// PaymentEntry is an executed settlement record. A submitted entry (docstatus = 1)
// reduces the outstanding amount of the request it is linked to. Linkage happens via
// exactly one of: the reference_no field, a PaymentEntryReference child row, or the
// claim_reference_no field for payment claims.
type PaymentEntry struct {
	ID                   int       `json:"id"`
	EntryNo              string    `json:"entry_no"`
	PostingDate          time.Time `json:"posting_date"`
	PaidAmount           float64   `json:"paid_amount"`
	ReceivedAmount       float64   `json:"received_amount"`
	TotalAllocatedAmount float64   `json:"total_allocated_amount"`
	Party                string    `json:"party"`
	ModeOfPayment        string    `json:"mode_of_payment"`
	Status               string    `json:"status"`
	DocStatus            int       `json:"docstatus"`
	ReferenceNo          *string   `json:"reference_no"`       // direct link to payment_requests.request_no
	ClaimReferenceNo     *string   `json:"claim_reference_no"` // direct link to payment_claims.claim_no
	CreatedAt            time.Time `json:"created_at"`
}

// PaymentEntryReference is a child association row pointing from a payment entry to
// a {reference_doctype, reference_name} pair
type PaymentEntryReference struct {
	ID               int     `json:"id"`
	PaymentEntryID   int     `json:"payment_entry_id"`
	ReferenceDoctype string  `json:"reference_doctype"`
	ReferenceName    string  `json:"reference_name"`
	AllocatedAmount  float64 `json:"allocated_amount"`
}

// CreatePaymentEntryRequest carries everything needed to persist a new settlement
// together with its first reference row
type CreatePaymentEntryRequest struct {
	PostingDate      time.Time `json:"posting_date"`
	PaidAmount       float64   `json:"paid_amount"`
	Party            string    `json:"party"`
	ModeOfPayment    string    `json:"mode_of_payment"`
	ReferenceNo      string    `json:"reference_no"`
	ReferenceDoctype string    `json:"reference_doctype"`
	ReferenceName    string    `json:"reference_name"`
	AllocatedAmount  float64   `json:"allocated_amount"`
}

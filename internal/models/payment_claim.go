package models

import "time"

// PaymentClaim is the alternate request variant: same shape as PaymentRequest but a
// separate identity, linked to settlements only through the dedicated
// claim_reference_no field on the payment entry
type PaymentClaim struct {
	ID               int       `json:"id"`
	ClaimNo          string    `json:"claim_no"`
	GrandTotal       float64   `json:"grand_total"`
	ReferenceDoctype string    `json:"reference_doctype"`
	ReferenceName    string    `json:"reference_name"`
	PartyType        string    `json:"party_type"`
	Party            string    `json:"party"`
	PartyName        string    `json:"party_name"`
	TransactionDate  time.Time `json:"transaction_date"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

package models

import "time"

// Source-document doctypes known to the payment-terms registry
const (
	DoctypePaymentRequest = "Payment Request"
	DoctypePurchaseOrder  = "Purchase Order"
	DoctypeReleaseMemo    = "Release Memo"
)

// PurchaseOrder is the slice of a purchase order this engine cares about:
// its total, its currency and its payment terms
type PurchaseOrder struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	GrandTotal           float64 `json:"grand_total"`
	Currency             string  `json:"currency"`
	PaymentTermsTemplate string  `json:"payment_terms_template"`
}

// PaymentScheduleRow is one term of a purchase order's payment schedule
type PaymentScheduleRow struct {
	ID             int       `json:"id"`
	OrderName      string    `json:"order_name"`
	PaymentTerm    string    `json:"payment_term"`
	Description    string    `json:"description"`
	InvoicePortion float64    `json:"invoice_portion"` // percentage of the order total
	PaymentAmount  float64    `json:"payment_amount"`  // fixed amount, used when no portion
	DueDate        *time.Time `json:"due_date"`
}

// ReleaseMemo is the source document the payment-claim variant references
type ReleaseMemo struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	PaymentTermsTemplate string `json:"payment_terms_template"`
	PaymentTerms         string `json:"payment_terms"`
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"paytrack-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentEntryRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentEntryRepository(db *pgxpool.Pool) *PaymentEntryRepository {
	return &PaymentEntryRepository{DB: db}
}

const paymentEntryColumns = `
	pe.id, pe.entry_no, pe.posting_date, pe.paid_amount, pe.received_amount,
	pe.total_allocated_amount,
	COALESCE(pe.party, '') as party,
	COALESCE(pe.mode_of_payment, '') as mode_of_payment,
	COALESCE(pe.status, '') as status,
	pe.docstatus, pe.reference_no, pe.claim_reference_no, pe.created_at`

// FindForRequest resolves every submitted settlement linked to a payment request,
// across both linkage conventions in use: the reference child table and the direct
// reference_no field. Results are de-duplicated and ordered most recent first; the
// first row is the representative settlement.
func (r *PaymentEntryRepository) FindForRequest(ctx context.Context, requestNo string) ([]models.PaymentEntry, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM payment_entries pe
		LEFT JOIN payment_entry_references per ON per.payment_entry_id = pe.id
		WHERE pe.docstatus = 1
		  AND (
		      (per.reference_doctype = 'Payment Request' AND per.reference_name = $1)
		      OR COALESCE(pe.reference_no, '') = $1
		  )
		ORDER BY pe.posting_date DESC, pe.created_at DESC
	`, paymentEntryColumns)

	return r.queryEntries(ctx, query, requestNo)
}

// FindForClaim resolves submitted settlements for a payment claim. Claims only use
// the dedicated claim_reference_no field, never the reference child table.
func (r *PaymentEntryRepository) FindForClaim(ctx context.Context, claimNo string) ([]models.PaymentEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_entries pe
		WHERE pe.docstatus = 1 AND pe.claim_reference_no = $1
		ORDER BY pe.posting_date DESC, pe.created_at DESC
	`, paymentEntryColumns)

	return r.queryEntries(ctx, query, claimNo)
}

// SumPaidByReferenceNo sums paid_amount across submitted settlements that name the
// request directly via reference_no
func (r *PaymentEntryRepository) SumPaidByReferenceNo(ctx context.Context, requestNo string) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(pe.paid_amount), 0)
		FROM payment_entries pe
		WHERE pe.docstatus = 1 AND pe.reference_no = $1
	`, requestNo).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum paid amount for %s: %w", requestNo, err)
	}

	return total, nil
}

// SumPaidForSourceDocument sums paid_amount across submitted settlements joined
// through the reference child table only. Used for the supplementary source-document
// totals (e.g. how much of a purchase order is settled overall).
func (r *PaymentEntryRepository) SumPaidForSourceDocument(ctx context.Context, doctype, name string) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(pe.paid_amount), 0)
		FROM payment_entries pe
		INNER JOIN payment_entry_references per ON per.payment_entry_id = pe.id
		WHERE pe.docstatus = 1
		  AND per.reference_doctype = $1
		  AND per.reference_name = $2
	`, doctype, name).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum paid amount for %s %s: %w", doctype, name, err)
	}

	return total, nil
}

// FirstByReferenceNo returns the most recent submitted settlement naming the request
// directly, nil when none exists. Used by the sync job as the representative entry.
func (r *PaymentEntryRepository) FirstByReferenceNo(ctx context.Context, requestNo string) (*models.PaymentEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_entries pe
		WHERE pe.docstatus = 1 AND pe.reference_no = $1
		ORDER BY pe.posting_date DESC, pe.created_at DESC
		LIMIT 1
	`, paymentEntryColumns)

	entries, err := r.queryEntries(ctx, query, requestNo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// FirstByClaimReference returns the most recent submitted settlement naming the
// claim, nil when none exists
func (r *PaymentEntryRepository) FirstByClaimReference(ctx context.Context, claimNo string) (*models.PaymentEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_entries pe
		WHERE pe.docstatus = 1 AND pe.claim_reference_no = $1
		ORDER BY pe.posting_date DESC, pe.created_at DESC
		LIMIT 1
	`, paymentEntryColumns)

	entries, err := r.queryEntries(ctx, query, claimNo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ListByDirectReference returns all settlements naming the request (or claim)
// through the kind's direct field, regardless of lifecycle state. The report lists
// settlement history verbatim; eligibility rules belong to reconciliation.
func (r *PaymentEntryRepository) ListByDirectReference(ctx context.Context, kind models.ReferenceType, referenceNo string) ([]models.PaymentEntry, error) {
	field := "pe.reference_no"
	if kind == models.ReferenceTypeClaim {
		field = "pe.claim_reference_no"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_entries pe
		WHERE %s = $1
		ORDER BY pe.posting_date DESC, pe.created_at DESC
	`, paymentEntryColumns, field)

	return r.queryEntries(ctx, query, referenceNo)
}

// GetByNo returns a payment entry by its entry number, nil when not found
func (r *PaymentEntryRepository) GetByNo(ctx context.Context, entryNo string) (*models.PaymentEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_entries pe
		WHERE pe.entry_no = $1
	`, paymentEntryColumns)

	entries, err := r.queryEntries(ctx, query, entryNo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// GenerateEntryNumber generates a unique entry number, PE-YYYYMMDD-NNNN
func (r *PaymentEntryRepository) GenerateEntryNumber(ctx context.Context) (string, error) {
	datePrefix := time.Now().Format("20060102")

	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_entries WHERE entry_no LIKE $1`,
		fmt.Sprintf("PE-%s-%%", datePrefix),
	).Scan(&count)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("PE-%s-%04d", datePrefix, count+1), nil
}

// Create inserts a submitted settlement together with its first reference row,
// atomically. The whole creation rolls back on any failure so a rejected settlement
// never leaves a partial record behind.
func (r *PaymentEntryRepository) Create(ctx context.Context, req *models.CreatePaymentEntryRequest) (*models.PaymentEntry, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entryNo, err := r.GenerateEntryNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entry number: %w", err)
	}

	if req.AllocatedAmount > req.PaidAmount {
		return nil, fmt.Errorf("allocated amount cannot be greater than paid amount for %s", req.ReferenceName)
	}

	var id int
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO payment_entries (
			entry_no, posting_date, paid_amount, received_amount,
			total_allocated_amount, party, mode_of_payment, status, docstatus,
			reference_no
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'Submitted', 1, $8)
		RETURNING id, created_at
	`,
		entryNo,
		req.PostingDate,
		req.PaidAmount,
		req.PaidAmount,
		req.AllocatedAmount,
		req.Party,
		req.ModeOfPayment,
		req.ReferenceNo,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment entry: %w", err)
	}

	if req.ReferenceDoctype != "" && req.ReferenceName != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO payment_entry_references (
				payment_entry_id, reference_doctype, reference_name, allocated_amount
			) VALUES ($1, $2, $3, $4)
		`, id, req.ReferenceDoctype, req.ReferenceName, req.AllocatedAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment entry reference: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	referenceNo := req.ReferenceNo
	return &models.PaymentEntry{
		ID:                   id,
		EntryNo:              entryNo,
		PostingDate:          req.PostingDate,
		PaidAmount:           req.PaidAmount,
		ReceivedAmount:       req.PaidAmount,
		TotalAllocatedAmount: req.AllocatedAmount,
		Party:                req.Party,
		ModeOfPayment:        req.ModeOfPayment,
		Status:               "Submitted",
		DocStatus:            models.DocStatusSubmitted,
		ReferenceNo:          &referenceNo,
		CreatedAt:            createdAt,
	}, nil
}

// UpdatePaidAmount overwrites one settlement's paid amount
func (r *PaymentEntryRepository) UpdatePaidAmount(ctx context.Context, entryNo string, paidAmount float64) error {
	result, err := r.DB.Exec(ctx, `
		UPDATE payment_entries
		SET paid_amount = $2
		WHERE entry_no = $1
	`, entryNo, paidAmount)
	if err != nil {
		return fmt.Errorf("failed to update paid amount for %s: %w", entryNo, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment entry %s not found", entryNo)
	}

	return nil
}

func (r *PaymentEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.PaymentEntry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PaymentEntry
	for rows.Next() {
		var e models.PaymentEntry
		var referenceNo *string
		var claimReferenceNo *string

		err := rows.Scan(
			&e.ID, &e.EntryNo, &e.PostingDate, &e.PaidAmount, &e.ReceivedAmount,
			&e.TotalAllocatedAmount, &e.Party, &e.ModeOfPayment, &e.Status,
			&e.DocStatus, &referenceNo, &claimReferenceNo, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		e.ReferenceNo = referenceNo
		e.ClaimReferenceNo = claimReferenceNo
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

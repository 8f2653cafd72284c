package repositories

import (
	"context"

	"paytrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceDocumentRepository reads the business documents payment requests reference.
// These are owned by the upstream request-issuing system; this engine only reads
// them for payment-terms enrichment and supplementary totals.
type SourceDocumentRepository struct {
	DB *pgxpool.Pool
}

func NewSourceDocumentRepository(db *pgxpool.Pool) *SourceDocumentRepository {
	return &SourceDocumentRepository{DB: db}
}

// GetPurchaseOrder returns a purchase order by name, nil when not found
func (r *SourceDocumentRepository) GetPurchaseOrder(ctx context.Context, name string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, grand_total,
			COALESCE(currency, 'INR') as currency,
			COALESCE(payment_terms_template, '') as payment_terms_template
		FROM purchase_orders
		WHERE name = $1
	`, name).Scan(&po.ID, &po.Name, &po.GrandTotal, &po.Currency, &po.PaymentTermsTemplate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &po, nil
}

// GetPaymentSchedule returns a purchase order's payment schedule rows in order
func (r *SourceDocumentRepository) GetPaymentSchedule(ctx context.Context, orderName string) ([]models.PaymentScheduleRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_name,
			COALESCE(payment_term, '') as payment_term,
			COALESCE(description, '') as description,
			COALESCE(invoice_portion, 0) as invoice_portion,
			COALESCE(payment_amount, 0) as payment_amount,
			due_date
		FROM payment_schedules
		WHERE order_name = $1
		ORDER BY id
	`, orderName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule []models.PaymentScheduleRow
	for rows.Next() {
		var row models.PaymentScheduleRow
		err := rows.Scan(
			&row.ID, &row.OrderName, &row.PaymentTerm, &row.Description,
			&row.InvoicePortion, &row.PaymentAmount, &row.DueDate,
		)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, row)
	}

	return schedule, rows.Err()
}

// GetReleaseMemo returns a release memo by name, nil when not found
func (r *SourceDocumentRepository) GetReleaseMemo(ctx context.Context, name string) (*models.ReleaseMemo, error) {
	var memo models.ReleaseMemo
	err := r.DB.QueryRow(ctx, `
		SELECT id, name,
			COALESCE(payment_terms_template, '') as payment_terms_template,
			COALESCE(payment_terms, '') as payment_terms
		FROM release_memos
		WHERE name = $1
	`, name).Scan(&memo.ID, &memo.Name, &memo.PaymentTermsTemplate, &memo.PaymentTerms)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &memo, nil
}

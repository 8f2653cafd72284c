package repositories

import (
	"context"
	"fmt"
	"strings"

	"paytrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRequestRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRequestRepository(db *pgxpool.Pool) *PaymentRequestRepository {
	return &PaymentRequestRepository{DB: db}
}

const paymentRequestColumns = `
	id, request_no, request_type, grand_total,
	COALESCE(reference_doctype, '') as reference_doctype,
	COALESCE(reference_name, '') as reference_name,
	COALESCE(party_type, '') as party_type,
	COALESCE(party, '') as party,
	COALESCE(party_name, '') as party_name,
	transaction_date, COALESCE(status, '') as status, docstatus, created_at`

// List returns payment requests matching the filter, most recent first.
// The supplier filter only narrows to supplier-party requests here; the
// name/identifier substring match happens in the query service because it spans
// two columns case-insensitively.
func (r *PaymentRequestRepository) List(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentRequest, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.RequestNo != "" {
		conditions = append(conditions, fmt.Sprintf("request_no ILIKE $%d", argNum))
		args = append(args, "%"+filter.RequestNo+"%")
		argNum++
	}

	if filter.Supplier != "" {
		conditions = append(conditions, "party_type = 'Supplier'")
	}

	if filter.ReferenceDoctype != "" {
		conditions = append(conditions, fmt.Sprintf("reference_doctype = $%d", argNum))
		args = append(args, filter.ReferenceDoctype)
		argNum++
	}

	if filter.ReferenceName != "" {
		conditions = append(conditions, fmt.Sprintf("reference_name ILIKE $%d", argNum))
		args = append(args, "%"+filter.ReferenceName+"%")
		argNum++
	}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argNum))
		args = append(args, filter.FromDate)
		argNum++
	}

	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argNum))
		args = append(args, filter.ToDate)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_requests
		%s
		ORDER BY transaction_date DESC
	`, paymentRequestColumns, whereClause)

	return r.queryRequests(ctx, query, args...)
}

// ListInward returns submitted inward payment requests matching the filter.
// The supplier filter here is a party-name substring match (inward parties are
// customers, not suppliers).
func (r *PaymentRequestRepository) ListInward(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentRequest, error) {
	conditions := []string{"request_type = 'Inward'", "docstatus = 1"}
	var args []interface{}
	argNum := 1

	if filter.RequestNo != "" {
		conditions = append(conditions, fmt.Sprintf("request_no ILIKE $%d", argNum))
		args = append(args, "%"+filter.RequestNo+"%")
		argNum++
	}

	if filter.Supplier != "" {
		conditions = append(conditions, fmt.Sprintf("party_name ILIKE $%d", argNum))
		args = append(args, "%"+filter.Supplier+"%")
		argNum++
	}

	if filter.ReferenceDoctype != "" {
		conditions = append(conditions, fmt.Sprintf("reference_doctype = $%d", argNum))
		args = append(args, filter.ReferenceDoctype)
		argNum++
	}

	if filter.ReferenceName != "" {
		conditions = append(conditions, fmt.Sprintf("reference_name ILIKE $%d", argNum))
		args = append(args, "%"+filter.ReferenceName+"%")
		argNum++
	}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argNum))
		args = append(args, filter.FromDate)
		argNum++
	}

	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argNum))
		args = append(args, filter.ToDate)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_requests
		WHERE %s
		ORDER BY transaction_date DESC
	`, paymentRequestColumns, strings.Join(conditions, " AND "))

	return r.queryRequests(ctx, query, args...)
}

// GetAll returns every payment request. Used by the bulk sync job.
func (r *PaymentRequestRepository) GetAll(ctx context.Context) ([]models.PaymentRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_requests
		ORDER BY id
	`, paymentRequestColumns)

	return r.queryRequests(ctx, query)
}

// GetByNo returns a payment request by its request number, nil when not found
func (r *PaymentRequestRepository) GetByNo(ctx context.Context, requestNo string) (*models.PaymentRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_requests
		WHERE request_no = $1
	`, paymentRequestColumns)

	var req models.PaymentRequest
	err := r.DB.QueryRow(ctx, query, requestNo).Scan(
		&req.ID, &req.RequestNo, &req.RequestType, &req.GrandTotal,
		&req.ReferenceDoctype, &req.ReferenceName,
		&req.PartyType, &req.Party, &req.PartyName,
		&req.TransactionDate, &req.Status, &req.DocStatus, &req.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &req, nil
}

func (r *PaymentRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.PaymentRequest, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.PaymentRequest
	for rows.Next() {
		var req models.PaymentRequest
		err := rows.Scan(
			&req.ID, &req.RequestNo, &req.RequestType, &req.GrandTotal,
			&req.ReferenceDoctype, &req.ReferenceName,
			&req.PartyType, &req.Party, &req.PartyName,
			&req.TransactionDate, &req.Status, &req.DocStatus, &req.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

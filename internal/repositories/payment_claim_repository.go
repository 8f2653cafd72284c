package repositories

import (
	"context"
	"fmt"
	"strings"

	"paytrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentClaimRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentClaimRepository(db *pgxpool.Pool) *PaymentClaimRepository {
	return &PaymentClaimRepository{DB: db}
}

const paymentClaimColumns = `
	id, claim_no, grand_total,
	COALESCE(reference_doctype, '') as reference_doctype,
	COALESCE(reference_name, '') as reference_name,
	COALESCE(party_type, '') as party_type,
	COALESCE(party, '') as party,
	COALESCE(party_name, '') as party_name,
	transaction_date, COALESCE(status, '') as status, created_at`

// List returns payment claims matching the filter, most recent first
func (r *PaymentClaimRepository) List(ctx context.Context, filter *models.PaymentRequestFilter) ([]models.PaymentClaim, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.RequestNo != "" {
		conditions = append(conditions, fmt.Sprintf("claim_no ILIKE $%d", argNum))
		args = append(args, "%"+filter.RequestNo+"%")
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

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_claims
		%s
		ORDER BY transaction_date DESC
	`, paymentClaimColumns, whereClause)

	return r.queryClaims(ctx, query, args...)
}

// GetAll returns every payment claim. Used by the bulk sync job.
func (r *PaymentClaimRepository) GetAll(ctx context.Context) ([]models.PaymentClaim, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_claims
		ORDER BY id
	`, paymentClaimColumns)

	return r.queryClaims(ctx, query)
}

// GetByNo returns a payment claim by its claim number, nil when not found
func (r *PaymentClaimRepository) GetByNo(ctx context.Context, claimNo string) (*models.PaymentClaim, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_claims
		WHERE claim_no = $1
	`, paymentClaimColumns)

	var claim models.PaymentClaim
	err := r.DB.QueryRow(ctx, query, claimNo).Scan(
		&claim.ID, &claim.ClaimNo, &claim.GrandTotal,
		&claim.ReferenceDoctype, &claim.ReferenceName,
		&claim.PartyType, &claim.Party, &claim.PartyName,
		&claim.TransactionDate, &claim.Status, &claim.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &claim, nil
}

func (r *PaymentClaimRepository) queryClaims(ctx context.Context, query string, args ...interface{}) ([]models.PaymentClaim, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []models.PaymentClaim
	for rows.Next() {
		var claim models.PaymentClaim
		err := rows.Scan(
			&claim.ID, &claim.ClaimNo, &claim.GrandTotal,
			&claim.ReferenceDoctype, &claim.ReferenceName,
			&claim.PartyType, &claim.Party, &claim.PartyName,
			&claim.TransactionDate, &claim.Status, &claim.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

package repositories

import (
	"context"
	"fmt"

	"paytrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrackerRepository struct {
	DB *pgxpool.Pool
}

func NewTrackerRepository(db *pgxpool.Pool) *TrackerRepository {
	return &TrackerRepository{DB: db}
}

const trackerColumns = `
	id, request_no, claim_no, payment_entry_no,
	total_amount_paid, total_amount_remaining, budget, created_at, updated_at`

// GetByID returns a tracker with its detail rows, nil when not found
func (r *TrackerRepository) GetByID(ctx context.Context, id int) (*models.PaymentTracker, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_trackers WHERE id = $1`, trackerColumns)

	tracker, err := r.scanTracker(r.DB.QueryRow(ctx, query, id))
	if err != nil || tracker == nil {
		return tracker, err
	}

	details, err := r.getDetails(ctx, tracker.ID)
	if err != nil {
		return nil, err
	}
	tracker.Details = details

	return tracker, nil
}

// GetByRequestNo returns the tracker for a payment request, nil when none exists.
// Identity lookup only; detail rows are not loaded here.
func (r *TrackerRepository) GetByRequestNo(ctx context.Context, requestNo string) (*models.PaymentTracker, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_trackers WHERE request_no = $1`, trackerColumns)
	return r.scanTracker(r.DB.QueryRow(ctx, query, requestNo))
}

// GetByClaimNo returns the tracker for a payment claim, nil when none exists
func (r *TrackerRepository) GetByClaimNo(ctx context.Context, claimNo string) (*models.PaymentTracker, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_trackers WHERE claim_no = $1`, trackerColumns)
	return r.scanTracker(r.DB.QueryRow(ctx, query, claimNo))
}

// GetAll returns every tracker. Used by the report.
func (r *TrackerRepository) GetAll(ctx context.Context) ([]models.PaymentTracker, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_trackers ORDER BY id`, trackerColumns)

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.PaymentTracker
	for rows.Next() {
		tracker, err := r.scanTrackerRow(rows)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, *tracker)
	}

	return trackers, rows.Err()
}

// Create inserts a new tracker. Exactly one of RequestNo / ClaimNo must be set;
// the schema enforces this with a CHECK constraint.
func (r *TrackerRepository) Create(ctx context.Context, tracker *models.PaymentTracker) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO payment_trackers (
			request_no, claim_no, payment_entry_no,
			total_amount_paid, total_amount_remaining, budget
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		tracker.RequestNo,
		tracker.ClaimNo,
		tracker.PaymentEntryNo,
		tracker.TotalAmountPaid,
		tracker.TotalAmountRemaining,
		tracker.Budget,
	).Scan(&tracker.ID, &tracker.CreatedAt, &tracker.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	return nil
}

// UpdateTotals overwrites a tracker's totals and representative settlement.
// The bulk sync path never touches detail rows.
func (r *TrackerRepository) UpdateTotals(ctx context.Context, tracker *models.PaymentTracker) error {
	result, err := r.DB.Exec(ctx, `
		UPDATE payment_trackers
		SET total_amount_paid = $2,
			total_amount_remaining = $3,
			payment_entry_no = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, tracker.ID, tracker.TotalAmountPaid, tracker.TotalAmountRemaining, tracker.PaymentEntryNo)
	if err != nil {
		return fmt.Errorf("failed to update tracker %d: %w", tracker.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tracker %d not found", tracker.ID)
	}

	return nil
}

// SaveWithDetails overwrites the tracker totals and replaces its detail rows
// wholesale, in one transaction. Callers must run the derivation hook first.
func (r *TrackerRepository) SaveWithDetails(ctx context.Context, tracker *models.PaymentTracker) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE payment_trackers
		SET total_amount_paid = $2,
			total_amount_remaining = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, tracker.ID, tracker.TotalAmountPaid, tracker.TotalAmountRemaining)
	if err != nil {
		return fmt.Errorf("failed to update tracker %d: %w", tracker.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tracker %d not found", tracker.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tracker_details WHERE tracker_id = $1`, tracker.ID); err != nil {
		return fmt.Errorf("failed to clear tracker details: %w", err)
	}

	for i, row := range tracker.Details {
		_, err := tx.Exec(ctx, `
			INSERT INTO tracker_details (
				tracker_id, transaction_date, paid_amount, unpaid_amount,
				paid_pct, grand_total, idx
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, tracker.ID, row.TransactionDate, row.PaidAmount, row.UnpaidAmount,
			row.PaidPct, row.GrandTotal, i+1)
		if err != nil {
			return fmt.Errorf("failed to insert tracker detail: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *TrackerRepository) getDetails(ctx context.Context, trackerID int) ([]models.TrackerDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, tracker_id, transaction_date, paid_amount, unpaid_amount,
			paid_pct, grand_total, idx
		FROM tracker_details
		WHERE tracker_id = $1
		ORDER BY idx
	`, trackerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.TrackerDetail
	for rows.Next() {
		var d models.TrackerDetail
		err := rows.Scan(
			&d.ID, &d.TrackerID, &d.TransactionDate, &d.PaidAmount,
			&d.UnpaidAmount, &d.PaidPct, &d.GrandTotal, &d.Idx,
		)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TrackerRepository) scanTracker(row rowScanner) (*models.PaymentTracker, error) {
	tracker, err := r.scanTrackerRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return tracker, nil
}

func (r *TrackerRepository) scanTrackerRow(row rowScanner) (*models.PaymentTracker, error) {
	var t models.PaymentTracker
	var requestNo, claimNo, paymentEntryNo *string
	var budget *float64

	err := row.Scan(
		&t.ID, &requestNo, &claimNo, &paymentEntryNo,
		&t.TotalAmountPaid, &t.TotalAmountRemaining, &budget,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.RequestNo = requestNo
	t.ClaimNo = claimNo
	t.PaymentEntryNo = paymentEntryNo
	t.Budget = budget

	return &t, nil
}

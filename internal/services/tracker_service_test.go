package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"paytrack-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrackerStore struct {
	byID        map[int]*models.PaymentTracker
	byRequestNo map[string]*models.PaymentTracker
	byClaimNo   map[string]*models.PaymentTracker

	created []models.PaymentTracker
	updated []models.PaymentTracker
	saved   []models.PaymentTracker
}

func (f *fakeTrackerStore) GetByID(ctx context.Context, id int) (*models.PaymentTracker, error) {
	return f.byID[id], nil
}

func (f *fakeTrackerStore) GetByRequestNo(ctx context.Context, requestNo string) (*models.PaymentTracker, error) {
	return f.byRequestNo[requestNo], nil
}

func (f *fakeTrackerStore) GetByClaimNo(ctx context.Context, claimNo string) (*models.PaymentTracker, error) {
	return f.byClaimNo[claimNo], nil
}

func (f *fakeTrackerStore) Create(ctx context.Context, tracker *models.PaymentTracker) error {
	tracker.ID = len(f.created) + 1
	f.created = append(f.created, *tracker)
	if tracker.RequestNo != nil && f.byRequestNo != nil {
		f.byRequestNo[*tracker.RequestNo] = tracker
	}
	if tracker.ClaimNo != nil && f.byClaimNo != nil {
		f.byClaimNo[*tracker.ClaimNo] = tracker
	}
	return nil
}

func (f *fakeTrackerStore) UpdateTotals(ctx context.Context, tracker *models.PaymentTracker) error {
	f.updated = append(f.updated, *tracker)
	return nil
}

func (f *fakeTrackerStore) SaveWithDetails(ctx context.Context, tracker *models.PaymentTracker) error {
	f.saved = append(f.saved, *tracker)
	return nil
}

type fakeSettlementIndex struct {
	forRequest map[string][]models.PaymentEntry
	byNo       map[string]*models.PaymentEntry

	created   []models.CreatePaymentEntryRequest
	createErr error
}

func (f *fakeSettlementIndex) FindForRequest(ctx context.Context, requestNo string) ([]models.PaymentEntry, error) {
	return f.forRequest[requestNo], nil
}

func (f *fakeSettlementIndex) GetByNo(ctx context.Context, entryNo string) (*models.PaymentEntry, error) {
	return f.byNo[entryNo], nil
}

func (f *fakeSettlementIndex) Create(ctx context.Context, req *models.CreatePaymentEntryRequest) (*models.PaymentEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, *req)
	return &models.PaymentEntry{EntryNo: "PE-NEW", PaidAmount: req.PaidAmount}, nil
}

type fakeRequestLookup struct {
	requests map[string]*models.PaymentRequest
}

func (f *fakeRequestLookup) GetByNo(ctx context.Context, requestNo string) (*models.PaymentRequest, error) {
	return f.requests[requestNo], nil
}

func strPtr(s string) *string { return &s }

func TestUpsertForRequest_CreatesWhenMissing(t *testing.T) {
	store := &fakeTrackerStore{byRequestNo: map[string]*models.PaymentTracker{}}
	svc := NewTrackerService(store, &fakeSettlementIndex{}, &fakeRequestLookup{})

	tracker, err := svc.UpsertForRequest(context.Background(), "PR-001", 400, 600, strPtr("PE-001"))
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Empty(t, store.updated)
	assert.Equal(t, "PR-001", *tracker.RequestNo)
	assert.Nil(t, tracker.ClaimNo)
	assert.Equal(t, 400.0, tracker.TotalAmountPaid)
	assert.Equal(t, 600.0, tracker.TotalAmountRemaining)
	assert.Equal(t, "PE-001", *tracker.PaymentEntryNo)
}

func TestUpsertForRequest_UpdatesExisting(t *testing.T) {
	existing := &models.PaymentTracker{ID: 7, RequestNo: strPtr("PR-001"), TotalAmountPaid: 100}
	store := &fakeTrackerStore{byRequestNo: map[string]*models.PaymentTracker{"PR-001": existing}}
	svc := NewTrackerService(store, &fakeSettlementIndex{}, &fakeRequestLookup{})

	tracker, err := svc.UpsertForRequest(context.Background(), "PR-001", 500, 500, nil)
	require.NoError(t, err)

	assert.Empty(t, store.created)
	require.Len(t, store.updated, 1)
	assert.Equal(t, 7, tracker.ID)
	assert.Equal(t, 500.0, tracker.TotalAmountPaid)
}

func TestUpsertForClaim_CreatesWithClaimIdentity(t *testing.T) {
	store := &fakeTrackerStore{byClaimNo: map[string]*models.PaymentTracker{}}
	svc := NewTrackerService(store, &fakeSettlementIndex{}, &fakeRequestLookup{})

	tracker, err := svc.UpsertForClaim(context.Background(), "PC-001", 200, 300, nil)
	require.NoError(t, err)

	assert.Nil(t, tracker.RequestNo)
	assert.Equal(t, "PC-001", *tracker.ClaimNo)
}

func TestGetChildTable_MissingTracker(t *testing.T) {
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{}}
	svc := NewTrackerService(store, &fakeSettlementIndex{}, &fakeRequestLookup{})

	_, err := svc.GetChildTable(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetChildTable_RepresentativeFallback(t *testing.T) {
	tracker := &models.PaymentTracker{
		ID:             1,
		RequestNo:      strPtr("PR-001"),
		PaymentEntryNo: strPtr("PE-009"),
	}
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{1: tracker}}
	index := &fakeSettlementIndex{
		byNo: map[string]*models.PaymentEntry{
			"PE-009": {EntryNo: "PE-009", PaidAmount: 150},
		},
	}
	svc := NewTrackerService(store, index, &fakeRequestLookup{})

	table, err := svc.GetChildTable(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, table.PaymentEntries, 1)
	assert.Equal(t, "PE-009", table.PaymentEntries[0].EntryNo)
}

func TestGetChildTable_IndexPreferredOverRepresentative(t *testing.T) {
	tracker := &models.PaymentTracker{
		ID:             1,
		RequestNo:      strPtr("PR-001"),
		PaymentEntryNo: strPtr("PE-009"),
	}
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{1: tracker}}
	index := &fakeSettlementIndex{
		forRequest: map[string][]models.PaymentEntry{
			"PR-001": {{EntryNo: "PE-001"}, {EntryNo: "PE-002"}},
		},
	}
	svc := NewTrackerService(store, index, &fakeRequestLookup{})

	table, err := svc.GetChildTable(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, table.PaymentEntries, 2)
	assert.Equal(t, "PE-001", table.PaymentEntries[0].EntryNo)
}

func TestReplaceDetails_CreatesSettlementsForPositiveRows(t *testing.T) {
	tracker := &models.PaymentTracker{ID: 1, RequestNo: strPtr("PR-001")}
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{1: tracker}}
	index := &fakeSettlementIndex{}
	lookup := &fakeRequestLookup{requests: map[string]*models.PaymentRequest{
		"PR-001": {RequestNo: "PR-001", Party: "SUP-001"},
	}}
	svc := NewTrackerService(store, index, lookup)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.ReplaceDetails(context.Background(), 1, &models.UpdateTrackerDetailsRequest{
		Totals: models.TrackerTotals{TotalAmountPaid: 200, TotalAmountRemaining: 800},
		Rows: []models.TrackerDetailInput{
			{TransactionDate: date, PaidAmount: 200},
			{PaidAmount: 0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.EntriesCreated, "zero-amount rows must not create settlements")
	require.Len(t, index.created, 1)
	assert.Equal(t, "PR-001", index.created[0].ReferenceNo)
	assert.Equal(t, models.DoctypePaymentRequest, index.created[0].ReferenceDoctype)
	assert.Equal(t, 200.0, index.created[0].PaidAmount)
	assert.Equal(t, 200.0, index.created[0].AllocatedAmount)
	assert.Equal(t, date, index.created[0].PostingDate)

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	require.Len(t, saved.Details, 2)
	assert.Equal(t, 1000.0, saved.Details[0].GrandTotal)
	assert.Equal(t, 800.0, saved.Details[0].UnpaidAmount)
	assert.Equal(t, 20.0, saved.Details[0].PaidPct)
}

func TestReplaceDetails_PartialOnCreationFailure(t *testing.T) {
	tracker := &models.PaymentTracker{ID: 1, RequestNo: strPtr("PR-001")}
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{1: tracker}}
	index := &fakeSettlementIndex{createErr: errors.New("allocation exceeds paid amount")}
	lookup := &fakeRequestLookup{requests: map[string]*models.PaymentRequest{
		"PR-001": {RequestNo: "PR-001"},
	}}
	svc := NewTrackerService(store, index, lookup)

	result, err := svc.ReplaceDetails(context.Background(), 1, &models.UpdateTrackerDetailsRequest{
		Rows: []models.TrackerDetailInput{{PaidAmount: 100}},
	})
	require.NoError(t, err, "row failures must not fail the edit")

	assert.Equal(t, "partial", result.Status)
	assert.Equal(t, 0, result.EntriesCreated)
	require.Len(t, result.FailedRequests, 1)
	assert.Contains(t, result.FailedRequests[0], "PR-001")
	assert.Len(t, store.saved, 1, "details are still saved after row failures")
}

func TestReplaceDetails_MissingTracker(t *testing.T) {
	store := &fakeTrackerStore{byID: map[int]*models.PaymentTracker{}}
	svc := NewTrackerService(store, &fakeSettlementIndex{}, &fakeRequestLookup{})

	_, err := svc.ReplaceDetails(context.Background(), 5, &models.UpdateTrackerDetailsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

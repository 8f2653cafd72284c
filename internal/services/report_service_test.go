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

type fakeTrackerIterator struct {
	trackers []models.PaymentTracker
}

func (f *fakeTrackerIterator) GetAll(ctx context.Context) ([]models.PaymentTracker, error) {
	return f.trackers, nil
}

type fakeLinkedEntryLister struct {
	entries map[string][]models.PaymentEntry
	err     error
}

func (f *fakeLinkedEntryLister) ListByDirectReference(ctx context.Context, kind models.ReferenceType, referenceNo string) ([]models.PaymentEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[referenceNo], nil
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestReportExecute_FanOutPerSettlement(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 600},
	}}
	entries := &fakeLinkedEntryLister{entries: map[string][]models.PaymentEntry{
		"PR-001": {
			{EntryNo: "PE-001", PaidAmount: 250, PostingDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			{EntryNo: "PE-002", PaidAmount: 150, PostingDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}
	svc := NewReportService(trackers, entries)

	report, err := svc.Execute(context.Background(), &models.ReportFilter{})
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "PE-001", *report.Rows[0].PaymentEntryNo)
	assert.Equal(t, 250.0, report.Rows[0].PaidAmount)
	assert.Equal(t, 600.0, report.Rows[0].UnpaidAmount)
	assert.Equal(t, 850.0, report.Rows[0].GrandTotal)
	assert.Equal(t, "PE-002", *report.Rows[1].PaymentEntryNo)
}

func TestReportExecute_PlaceholderWithoutDateFilter(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 600},
	}}
	svc := NewReportService(trackers, &fakeLinkedEntryLister{})

	report, err := svc.Execute(context.Background(), &models.ReportFilter{})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Nil(t, row.PaymentEntryNo)
	assert.Nil(t, row.PostingDate)
	assert.Equal(t, 0.0, row.PaidAmount)
	assert.Equal(t, 600.0, row.UnpaidAmount)
	assert.Equal(t, 600.0, row.GrandTotal)
}

func TestReportExecute_PlaceholderSuppressedByDateFilter(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 600},
	}}
	svc := NewReportService(trackers, &fakeLinkedEntryLister{})

	report, err := svc.Execute(context.Background(), &models.ReportFilter{
		FromDate: datePtr(2026, 1, 1),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Rows, "placeholder rows have no posting date to match a date window")
}

func TestReportExecute_DateWindow(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 0},
	}}
	entries := &fakeLinkedEntryLister{entries: map[string][]models.PaymentEntry{
		"PR-001": {
			{EntryNo: "PE-JAN", PaidAmount: 100, PostingDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
			{EntryNo: "PE-MAR", PaidAmount: 100, PostingDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		},
	}}
	svc := NewReportService(trackers, entries)

	report, err := svc.Execute(context.Background(), &models.ReportFilter{
		FromDate: datePtr(2026, 1, 1),
		ToDate:   datePtr(2026, 2, 1),
	})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "PE-JAN", *report.Rows[0].PaymentEntryNo)
}

func TestReportExecute_FullPaidFilter(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 0},
		{ID: 2, RequestNo: strPtr("PR-002"), TotalAmountRemaining: 400},
	}}
	entries := &fakeLinkedEntryLister{entries: map[string][]models.PaymentEntry{
		"PR-001": {{EntryNo: "PE-001", PaidAmount: 500, PostingDate: time.Now()}},
		"PR-002": {{EntryNo: "PE-002", PaidAmount: 100, PostingDate: time.Now()}},
	}}
	svc := NewReportService(trackers, entries)

	report, err := svc.Execute(context.Background(), &models.ReportFilter{
		AmountPaid: models.AmountPaidFullPaid,
	})
	require.NoError(t, err)

	// PR-001: grand total 500+0 equals paid 500. PR-002: 100+400 != 100.
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "PR-001", report.Rows[0].ReferenceNo)
}

func TestReportExecute_UnpaidFilter(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 600},
		{ID: 2, RequestNo: strPtr("PR-002"), TotalAmountRemaining: 400},
	}}
	entries := &fakeLinkedEntryLister{entries: map[string][]models.PaymentEntry{
		"PR-002": {{EntryNo: "PE-002", PaidAmount: 100, PostingDate: time.Now()}},
	}}
	svc := NewReportService(trackers, entries)

	report, err := svc.Execute(context.Background(), &models.ReportFilter{
		AmountPaid: models.AmountPaidUnpaid,
	})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "PR-001", report.Rows[0].ReferenceNo)
	assert.Equal(t, 0.0, report.Rows[0].PaidAmount)
}

func TestReportExecute_ClaimKind(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 100},
		{ID: 2, ClaimNo: strPtr("PC-001"), TotalAmountRemaining: 200},
	}}
	svc := NewReportService(trackers, &fakeLinkedEntryLister{})

	report, err := svc.Execute(context.Background(), &models.ReportFilter{
		ReferenceType: models.ReferenceTypeClaim,
	})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "PC-001", report.Rows[0].ReferenceNo)
	assert.Equal(t, "Payment Claim", report.Columns[0].Label)
}

func TestReportExecute_LookupErrorDegradesToPlaceholder(t *testing.T) {
	trackers := &fakeTrackerIterator{trackers: []models.PaymentTracker{
		{ID: 1, RequestNo: strPtr("PR-001"), TotalAmountRemaining: 300},
	}}
	svc := NewReportService(trackers, &fakeLinkedEntryLister{err: errors.New("db down")})

	report, err := svc.Execute(context.Background(), &models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Nil(t, report.Rows[0].PaymentEntryNo)
}

package services

import (
	"context"
	"errors"
	"testing"

	"paytrack-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettlementSums struct {
	byReferenceNo map[string]float64
	bySourceDoc   map[string]float64
	err           error
}

func (f *fakeSettlementSums) SumPaidByReferenceNo(ctx context.Context, requestNo string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.byReferenceNo[requestNo], nil
}

func (f *fakeSettlementSums) SumPaidForSourceDocument(ctx context.Context, doctype, name string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.bySourceDoc[doctype+"/"+name], nil
}

type fakeSourceDocuments struct {
	orders    map[string]*models.PurchaseOrder
	schedules map[string][]models.PaymentScheduleRow
	memos     map[string]*models.ReleaseMemo
}

func (f *fakeSourceDocuments) GetPurchaseOrder(ctx context.Context, name string) (*models.PurchaseOrder, error) {
	return f.orders[name], nil
}

func (f *fakeSourceDocuments) GetPaymentSchedule(ctx context.Context, orderName string) ([]models.PaymentScheduleRow, error) {
	return f.schedules[orderName], nil
}

func (f *fakeSourceDocuments) GetReleaseMemo(ctx context.Context, name string) (*models.ReleaseMemo, error) {
	return f.memos[name], nil
}

func TestEffectivePaid(t *testing.T) {
	tests := []struct {
		name            string
		paidFromEntries float64
		trackerPaid     float64
		hasTracker      bool
		want            float64
	}{
		{"settlement sums win", 400, 999, true, 400},
		{"tracker fallback when no settlements", 0, 300, true, 300},
		{"zero without tracker", 0, 0, false, 0},
		{"no fallback for missing tracker", 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectivePaid(tt.paidFromEntries, tt.trackerPaid, tt.hasTracker))
		})
	}
}

func TestRemaining_NeverNegative(t *testing.T) {
	assert.Equal(t, 600.0, Remaining(1000, 400))
	assert.Equal(t, 0.0, Remaining(1000, 1000))
	assert.Equal(t, 0.0, Remaining(1000, 1500), "overpayment clamps to zero")
}

func TestApplyPaidOverride(t *testing.T) {
	assert.Equal(t, 0.0, ApplyPaidOverride(600, "Paid"))
	assert.Equal(t, 600.0, ApplyPaidOverride(600, "Partially Paid"))
	assert.Equal(t, 600.0, ApplyPaidOverride(600, "paid"), "status match is exact")
}

func TestReconcileRequest(t *testing.T) {
	sums := &fakeSettlementSums{byReferenceNo: map[string]float64{
		"PR-001": 400,
	}}
	svc := NewReconcileService(sums, &fakeSourceDocuments{})

	req := &models.PaymentRequest{RequestNo: "PR-001", GrandTotal: 1000}
	paid, remaining := svc.ReconcileRequest(context.Background(), req, nil)
	assert.Equal(t, 400.0, paid)
	assert.Equal(t, 600.0, remaining)
}

func TestReconcileRequest_TrackerFallback(t *testing.T) {
	sums := &fakeSettlementSums{}
	svc := NewReconcileService(sums, &fakeSourceDocuments{})

	req := &models.PaymentRequest{RequestNo: "PR-002", GrandTotal: 800}
	tracker := &models.PaymentTracker{TotalAmountPaid: 300}

	paid, remaining := svc.ReconcileRequest(context.Background(), req, tracker)
	assert.Equal(t, 300.0, paid, "manually adjusted tracker must not be clobbered to zero")
	assert.Equal(t, 500.0, remaining)
}

func TestReconcileRequest_SumErrorDegradesToTracker(t *testing.T) {
	sums := &fakeSettlementSums{err: errors.New("db down")}
	svc := NewReconcileService(sums, &fakeSourceDocuments{})

	req := &models.PaymentRequest{RequestNo: "PR-003", GrandTotal: 500}
	tracker := &models.PaymentTracker{TotalAmountPaid: 100}

	paid, remaining := svc.ReconcileRequest(context.Background(), req, tracker)
	assert.Equal(t, 100.0, paid)
	assert.Equal(t, 400.0, remaining)
}

func TestSourceDocumentTotals(t *testing.T) {
	docs := &fakeSourceDocuments{orders: map[string]*models.PurchaseOrder{
		"PO-001": {Name: "PO-001", GrandTotal: 5000},
	}}
	sums := &fakeSettlementSums{bySourceDoc: map[string]float64{
		"Purchase Order/PO-001": 2000,
	}}
	svc := NewReconcileService(sums, docs)

	grandTotal, remaining := svc.SourceDocumentTotals(context.Background(), models.DoctypePurchaseOrder, "PO-001")
	require.NotNil(t, grandTotal)
	require.NotNil(t, remaining)
	assert.Equal(t, 5000.0, *grandTotal)
	assert.Equal(t, 3000.0, *remaining)
}

func TestSourceDocumentTotals_NonPurchaseOrder(t *testing.T) {
	svc := NewReconcileService(&fakeSettlementSums{}, &fakeSourceDocuments{})

	grandTotal, remaining := svc.SourceDocumentTotals(context.Background(), models.DoctypeReleaseMemo, "RM-001")
	assert.Nil(t, grandTotal)
	assert.Nil(t, remaining)
}

func TestPaymentTerms_TemplatePreferred(t *testing.T) {
	docs := &fakeSourceDocuments{orders: map[string]*models.PurchaseOrder{
		"PO-001": {Name: "PO-001", PaymentTermsTemplate: "30% Advance"},
	}}
	svc := NewReconcileService(&fakeSettlementSums{}, docs)

	terms := svc.PaymentTerms(context.Background(), models.DoctypePurchaseOrder, "PO-001")
	require.NotNil(t, terms)
	assert.Equal(t, "30% Advance", *terms)
}

func TestPaymentTerms_ScheduleFallback(t *testing.T) {
	docs := &fakeSourceDocuments{
		orders: map[string]*models.PurchaseOrder{
			"PO-002": {Name: "PO-002", Currency: "INR"},
		},
		schedules: map[string][]models.PaymentScheduleRow{
			"PO-002": {
				{PaymentTerm: "Advance Payment", InvoicePortion: 50},
				{PaymentTerm: "Upon Delivery", InvoicePortion: 50},
			},
		},
	}
	svc := NewReconcileService(&fakeSettlementSums{}, docs)

	terms := svc.PaymentTerms(context.Background(), models.DoctypePurchaseOrder, "PO-002")
	require.NotNil(t, terms)
	assert.Equal(t, "50% Advance Payment; 50% Upon Delivery", *terms)
}

func TestPaymentTerms_UnknownDoctype(t *testing.T) {
	svc := NewReconcileService(&fakeSettlementSums{}, &fakeSourceDocuments{})
	assert.Nil(t, svc.PaymentTerms(context.Background(), "Sales Invoice", "SI-001"))
	assert.Nil(t, svc.PaymentTerms(context.Background(), "", ""))
}

func TestSummarizeSchedule(t *testing.T) {
	schedule := []models.PaymentScheduleRow{
		{PaymentTerm: "Advance", InvoicePortion: 30},
		{Description: "On Delivery", PaymentAmount: 12500},
		{},
	}

	got := SummarizeSchedule(schedule, "INR")
	assert.Equal(t, "30% Advance; On Delivery INR 12,500.00; Payment", got)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "INR 12,500.00", FormatMoney(12500, "INR"))
	assert.Equal(t, "INR 1,234,567.89", FormatMoney(1234567.89, "INR"))
	assert.Equal(t, "INR 0.50", FormatMoney(0.5, "INR"))
	assert.Equal(t, "INR -250.00", FormatMoney(-250, "INR"))
	assert.Equal(t, "999.00", FormatMoney(999, ""))
}

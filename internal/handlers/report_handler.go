package handlers

import (
	"encoding/json"
	"net/http"

	"paytrack-backend/internal/models"
	"paytrack-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// Execute runs the payment tracker report. Without a date window each tracker
// without settlements still yields a placeholder row.
func (h *ReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &models.ReportFilter{}

	switch q.Get("reference_type") {
	case "", "request":
		filter.ReferenceType = models.ReferenceTypeRequest
	case "claim":
		filter.ReferenceType = models.ReferenceTypeClaim
	default:
		http.Error(w, "Invalid reference_type: use request or claim", http.StatusBadRequest)
		return
	}

	switch q.Get("amount_paid") {
	case "", models.AmountPaidFullPaid, models.AmountPaidUnpaid:
		filter.AmountPaid = q.Get("amount_paid")
	default:
		http.Error(w, "Invalid amount_paid: use Full Paid or Unpaid", http.StatusBadRequest)
		return
	}

	var err error
	if filter.FromDate, err = parseDateParam(q.Get("from_date"), "from_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.ToDate, err = parseDateParam(q.Get("to_date"), "to_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.Service.Execute(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

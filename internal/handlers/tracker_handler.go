package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"paytrack-backend/internal/models"
	"paytrack-backend/internal/repositories"
	"paytrack-backend/internal/services"

	"github.com/gorilla/mux"
)

type TrackerHandler struct {
	Service   *services.TrackerService
	EntryRepo *repositories.PaymentEntryRepository
}

func NewTrackerHandler(service *services.TrackerService, entryRepo *repositories.PaymentEntryRepository) *TrackerHandler {
	return &TrackerHandler{Service: service, EntryRepo: entryRepo}
}

// GetDetails returns a tracker's detail rows, stored totals and the settlement
// history resolved for its payment request
func (h *TrackerHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	trackerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid tracker id", http.StatusBadRequest)
		return
	}

	table, err := h.Service.GetChildTable(r.Context(), trackerID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(table)
}

// UpdateDetails replaces a tracker's detail rows and totals. Rows with a positive
// paid amount additionally create a settlement entry; per-row failures are
// reported in the response without rolling back sibling rows.
func (h *TrackerHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	trackerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid tracker id", http.StatusBadRequest)
		return
	}

	var req models.UpdateTrackerDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, row := range req.Rows {
		if row.PaidAmount < 0 {
			http.Error(w, "Paid amount cannot be negative", http.StatusBadRequest)
			return
		}
	}

	result, err := h.Service.ReplaceDetails(r.Context(), trackerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type adjustPaidAmountRequest struct {
	PaidAmount float64 `json:"paid_amount"`
}

// AdjustPaidAmount overwrites the paid amount of a single settlement entry
func (h *TrackerHandler) AdjustPaidAmount(w http.ResponseWriter, r *http.Request) {
	entryNo := mux.Vars(r)["entry_no"]

	var req adjustPaidAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PaidAmount < 0 {
		http.Error(w, "Paid amount cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.EntryRepo.UpdatePaidAmount(r.Context(), entryNo, req.PaidAmount); err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Paid amount updated"})
}

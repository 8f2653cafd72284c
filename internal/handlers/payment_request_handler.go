package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paytrack-backend/internal/models"
	"paytrack-backend/internal/services"
)

type PaymentRequestHandler struct {
	Query *services.RequestQueryService
}

func NewPaymentRequestHandler(query *services.RequestQueryService) *PaymentRequestHandler {
	return &PaymentRequestHandler{Query: query}
}

// ListOutward returns outward payment requests enriched with tracker totals,
// purchase order figures and payment terms
func (h *PaymentRequestHandler) ListOutward(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.Query.ListRequests(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// ListInward returns submitted inward requests with their settlement totals
func (h *PaymentRequestHandler) ListInward(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.Query.ListInwardRequests(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// ListClaims returns payment claims with totals taken from their trackers
func (h *PaymentRequestHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.Query.ListClaims(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// parseRequestFilter builds the list filter from query parameters. A malformed
// date or boolean rejects the whole request rather than being ignored.
func parseRequestFilter(r *http.Request) (*models.PaymentRequestFilter, error) {
	q := r.URL.Query()

	filter := &models.PaymentRequestFilter{
		RequestNo:        q.Get("request_no"),
		Supplier:         q.Get("supplier"),
		ReferenceDoctype: q.Get("reference_doctype"),
		ReferenceName:    q.Get("reference_name"),
	}

	var err error
	if filter.FromDate, err = parseDateParam(q.Get("from_date"), "from_date"); err != nil {
		return nil, err
	}
	if filter.ToDate, err = parseDateParam(q.Get("to_date"), "to_date"); err != nil {
		return nil, err
	}
	if filter.OnlyFullyPaid, err = parseBoolParam(q.Get("only_fully_paid"), "only_fully_paid"); err != nil {
		return nil, err
	}
	if filter.OnlyUnpaid, err = parseBoolParam(q.Get("only_unpaid"), "only_unpaid"); err != nil {
		return nil, err
	}

	return filter, nil
}

func parseDateParam(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	return &t, nil
}

func parseBoolParam(value, name string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: expected true or false", name)
	}
	return b, nil
}

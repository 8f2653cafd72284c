package handlers

import (
	"encoding/json"
	"net/http"

	"paytrack-backend/internal/models"
	"paytrack-backend/internal/services"

	"github.com/gorilla/mux"
)

type SyncHandler struct {
	Service *services.SyncService
}

func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{Service: service}
}

// Run executes a bulk tracker sync for the given kind. Runs are serialized by
// the service; a second request waits rather than interleaving.
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(mux.Vars(r)["kind"])
	if !ok {
		http.Error(w, "Unknown sync kind: use requests or claims", http.StatusBadRequest)
		return
	}

	summary, err := h.Service.SyncAll(r.Context(), kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func kindFromPath(value string) (models.ReferenceType, bool) {
	switch value {
	case "request", "requests":
		return models.ReferenceTypeRequest, true
	case "claim", "claims":
		return models.ReferenceTypeClaim, true
	}
	return "", false
}

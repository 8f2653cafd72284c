package http

import (
	"net/http"

	"paytrack-backend/internal/handlers"
	"paytrack-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all HTTP routes. Read endpoints are open; everything that
// mutates trackers or settlements requires a bearer token.
func NewRouter(
	authHandler *handlers.AuthHandler,
	requestHandler *handlers.PaymentRequestHandler,
	trackerHandler *handlers.TrackerHandler,
	syncHandler *handlers.SyncHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestMetrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.GzipCompression)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/payment-requests", requestHandler.ListOutward).Methods("GET")
	api.HandleFunc("/payment-requests/inward", requestHandler.ListInward).Methods("GET")
	api.HandleFunc("/payment-claims", requestHandler.ListClaims).Methods("GET")

	api.HandleFunc("/trackers/{id:[0-9]+}/details", trackerHandler.GetDetails).Methods("GET")

	api.HandleFunc("/reports/payment-requests", reportHandler.Execute).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/trackers/{id:[0-9]+}/details", trackerHandler.UpdateDetails).Methods("PUT")
	protected.HandleFunc("/payment-entries/{entry_no}/paid-amount", trackerHandler.AdjustPaidAmount).Methods("POST")
	protected.HandleFunc("/sync/{kind}", syncHandler.Run).Methods("POST")

	return r
}

// Package cron exposes the scheduler-triggered batch sync endpoints.
package cron

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	syncsvc "github.com/splashngo/dashboard-service/internal/services/sync"
	"github.com/splashngo/dashboard-service/pkg/observability"
)

// SyncHandler handles the cron endpoints that trigger batch sync runs.
type SyncHandler struct {
	synchronizer *syncsvc.Synchronizer
	logger       *zap.Logger
	cronSecret   string
}

// NewSyncHandler creates a new sync cron handler
func NewSyncHandler(synchronizer *syncsvc.Synchronizer, logger *zap.Logger, cronSecret string) *SyncHandler {
	return &SyncHandler{
		synchronizer: synchronizer,
		logger:       logger,
		cronSecret:   cronSecret,
	}
}

// SyncTransactionsRequest narrows the transaction backfill window.
type SyncTransactionsRequest struct {
	LocationID *string `json:"location_id"` // Optional: restrict to one location
	BeginTime  *string `json:"begin_time"`  // Optional: RFC3339, defaults to 30 days back
	EndTime    *string `json:"end_time"`    // Optional: RFC3339, defaults to now
}

// SyncCustomers handles POST /cron/sync-customers.
func (h *SyncHandler) SyncCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("customer sync cron job triggered",
		zap.String("remote_addr", r.RemoteAddr),
	)

	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}
	if !h.authenticateRequest(r) {
		h.logger.Warn("unauthorized cron request",
			zap.String("remote_addr", r.RemoteAddr),
		)
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.synchronizer.SyncCustomers(r.Context())
	if err != nil {
		h.logger.Error("customer sync aborted", zap.Error(err))
		observability.RecordSyncRun("customers", false)
		h.respondError(w, http.StatusInternalServerError, "customer sync failed")
		return
	}

	observability.RecordSyncRun("customers", result.Success)
	observability.RecordSyncRecords("customers", result.SyncedCount, result.ErrorCount)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	h.respondJSON(w, status, result)
}

// SyncTransactions handles POST /cron/sync-transactions.
func (h *SyncHandler) SyncTransactions(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("transaction sync cron job triggered",
		zap.String("remote_addr", r.RemoteAddr),
	)

	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}
	if !h.authenticateRequest(r) {
		h.logger.Warn("unauthorized cron request",
			zap.String("remote_addr", r.RemoteAddr),
		)
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SyncTransactionsRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("failed to parse request body, using defaults", zap.Error(err))
		}
	}

	var params square.ListPaymentsParams
	if req.LocationID != nil {
		params.LocationID = *req.LocationID
	}
	if req.BeginTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.BeginTime)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid begin_time format")
			return
		}
		params.BeginTime = parsed
	}
	if req.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid end_time format")
			return
		}
		params.EndTime = parsed
	}

	result, err := h.synchronizer.SyncTransactions(r.Context(), params)
	if err != nil {
		h.logger.Error("transaction sync aborted", zap.Error(err))
		observability.RecordSyncRun("transactions", false)
		h.respondError(w, http.StatusInternalServerError, "transaction sync failed")
		return
	}

	observability.RecordSyncRun("transactions", result.Success)
	observability.RecordSyncRecords("transactions", result.Count, 0)

	h.respondJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) authenticateRequest(r *http.Request) bool {
	// Check X-Cron-Secret header
	cronSecret := r.Header.Get("X-Cron-Secret")
	if cronSecret != "" && cronSecret == h.cronSecret {
		return true
	}

	// Check Authorization header (Bearer token)
	authHeader := r.Header.Get("Authorization")
	if authHeader == "Bearer "+h.cronSecret {
		return true
	}

	// Check query parameter (less secure, for development only)
	querySecret := r.URL.Query().Get("secret")
	if querySecret != "" && querySecret == h.cronSecret {
		h.logger.Warn("using query parameter authentication (insecure)",
			zap.String("remote_addr", r.RemoteAddr),
		)
		return true
	}

	return false
}

func (h *SyncHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *SyncHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// Package dashboard exposes the read/query API consumed by the dashboard
// frontend: stores, transactions, customers, sales summaries, the live
// change stream and store login.
package dashboard

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/ports"
	"github.com/splashngo/dashboard-service/internal/services/auth"
	"github.com/splashngo/dashboard-service/internal/services/changefeed"
)

// Handler serves the dashboard API.
type Handler struct {
	transactions ports.TransactionRepository
	customers    ports.CustomerRepository
	stores       ports.StoreRepository
	authService  *auth.Service
	feed         *changefeed.Listener
	logger       *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(
	transactions ports.TransactionRepository,
	customers ports.CustomerRepository,
	stores ports.StoreRepository,
	authService *auth.Service,
	feed *changefeed.Listener,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		transactions: transactions,
		customers:    customers,
		stores:       stores,
		authService:  authService,
		feed:         feed,
		logger:       logger,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

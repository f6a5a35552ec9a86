// Package webhook exposes the provider event ingestion endpoint.
package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/ports"
	"github.com/splashngo/dashboard-service/internal/normalize"
	"github.com/splashngo/dashboard-service/internal/services/enrich"
	"github.com/splashngo/dashboard-service/internal/services/reconcile"
	"github.com/splashngo/dashboard-service/pkg/observability"
)

// maxBodySize bounds webhook request bodies.
const maxBodySize = 1 << 20 // 1 MiB

// Handler ingests provider webhook events.
type Handler struct {
	reconciler *reconcile.Reconciler
	enricher   *enrich.Enricher
	pinger     ports.Pinger
	logger     *zap.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(reconciler *reconcile.Reconciler, enricher *enrich.Enricher, pinger ports.Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		reconciler: reconciler,
		enricher:   enricher,
		pinger:     pinger,
		logger:     logger,
	}
}

// HandleEvent handles POST /api/square-webhook. The provider retries on
// non-2xx, so only genuinely retryable failures return 5xx; everything the
// service cannot act on is acknowledged.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// A panic while processing must not take the server down; the provider
	// will retry the delivery.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while processing webhook event",
				zap.Any("panic", rec),
			)
			h.respondError(w, http.StatusInternalServerError, "internal error")
		}
	}()

	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	// Empty deliveries are provider connectivity checks.
	if len(body) == 0 {
		h.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		return
	}

	event, err := square.DecodeEvent(body)
	if err != nil {
		h.logger.Warn("malformed webhook event", zap.Error(err))
		observability.RecordWebhookEvent("malformed", "rejected", time.Since(start))
		h.respondError(w, http.StatusBadRequest, "malformed event payload")
		return
	}

	logger := h.logger.With(zap.String("event_type", event.RawType))

	if event.Kind == square.EventKindUnknown {
		logger.Info("ignoring unrecognized event type")
		observability.RecordWebhookEvent("unknown", string(reconcile.OutcomeIgnored), time.Since(start))
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "event type not handled",
		})
		return
	}

	// Storage must be reachable before any write is attempted; a 5xx here
	// makes the provider redeliver once it is back.
	if err := h.pinger.Ping(r.Context()); err != nil {
		logger.Error("storage unreachable, requesting redelivery", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	outcome, err := h.dispatch(r, event)
	if err != nil {
		if domain.GetErrorCode(err) == domain.ErrorCodeStorageFailure {
			logger.Error("storage failure, requesting redelivery", zap.Error(err))
			observability.RecordWebhookEvent(string(event.Kind), "storage_failure", time.Since(start))
			h.respondError(w, http.StatusInternalServerError, "storage failure")
			return
		}
		logger.Warn("unprocessable event", zap.Error(err))
		observability.RecordWebhookEvent(string(event.Kind), "rejected", time.Since(start))
		h.respondError(w, http.StatusBadRequest, "unprocessable event")
		return
	}

	logger.Info("webhook event processed",
		zap.String("outcome", string(outcome)),
		zap.Duration("elapsed", time.Since(start)),
	)
	observability.RecordWebhookEvent(string(event.Kind), string(outcome), time.Since(start))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"outcome": string(outcome),
	})
}

func (h *Handler) dispatch(r *http.Request, event *square.Event) (reconcile.Outcome, error) {
	ctx := r.Context()

	switch {
	case event.Kind.IsPayment():
		enrichment := h.enricher.Enrich(ctx, event.Payment)
		txn, err := normalize.Payment(event.Payment, enrichment)
		if err != nil {
			return "", err
		}
		return h.reconciler.ApplyPayment(ctx, event.Kind, txn)

	case event.Kind.IsRefund():
		return h.reconciler.ApplyRefund(ctx, event.Refund)

	case event.Kind == square.EventKindCustomerDeleted:
		return h.reconciler.SoftDeleteCustomer(ctx, square.Str(event.Customer.ID))

	case event.Kind.IsCustomer():
		customer, err := normalize.Customer(event.Customer)
		if err != nil {
			return "", err
		}
		return h.reconciler.ApplyCustomer(ctx, event.Kind, customer)

	default:
		return reconcile.OutcomeIgnored, nil
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

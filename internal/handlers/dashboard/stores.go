package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/models"
)

// ListStores handles GET /api/stores.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, "only GET method is allowed")
		return
	}

	stores, err := h.stores.ListAll(r.Context())
	if err != nil {
		h.logger.Error("store listing failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to list stores")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stores":  storeViews(stores),
	})
}

type storeViewModel struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	ZipCode  string `json:"zip_code"`
	Address  string `json:"address"`
	Mail     string `json:"mail"`
}

func storeViews(stores []models.Store) []storeViewModel {
	views := make([]storeViewModel, 0, len(stores))
	for _, s := range stores {
		views = append(views, storeViewModel{
			ID:       s.ID,
			Name:     s.Name,
			Location: s.Location,
			Phone:    s.Phone,
			ZipCode:  s.ZipCode,
			Address:  s.Address,
			Mail:     s.Mail,
		})
	}
	return views
}

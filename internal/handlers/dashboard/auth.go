package dashboard

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
)

type loginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mail == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "mail and password are required")
		return
	}

	store, token, err := h.authService.Login(r.Context(), req.Mail, req.Password)
	if err != nil {
		if domain.GetErrorCode(err) == domain.ErrorCodeAuthInvalid {
			h.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"store": storeViewModel{
			ID:       store.ID,
			Name:     store.Name,
			Location: store.Location,
			Phone:    store.Phone,
			ZipCode:  store.ZipCode,
			Address:  store.Address,
			Mail:     store.Mail,
		},
	})
}

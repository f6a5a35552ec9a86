package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/normalize"
	"github.com/splashngo/dashboard-service/internal/stores"
)

const (
	defaultCustomerPageSize = 50
	maxCustomerPageSize     = 500
)

// Customers routes /api/customers by method.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCustomers(w, r)
	case http.MethodPost:
		h.createCustomer(w, r)
	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// CustomerByID routes /api/customers/{id} by method.
func (h *Handler) CustomerByID(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDFromPath(r.URL.Path)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getCustomer(w, r, id)
	case http.MethodPut:
		h.updateCustomer(w, r, id)
	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func customerIDFromPath(path string) (int64, error) {
	raw := strings.TrimPrefix(path, "/api/customers/")
	return strconv.ParseInt(raw, 10, 64)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := query.Get("search")

	limit := defaultCustomerPageSize
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if parsed > maxCustomerPageSize {
			parsed = maxCustomerPageSize
		}
		limit = parsed
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = parsed
	}

	customers, total, err := h.customers.List(r.Context(), search, limit, offset)
	if err != nil {
		h.logger.Error("customer listing failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"customers":  customerViews(customers),
		"totalCount": total,
	})
}

// createCustomerRequest carries the fields for a manually registered customer.
// The record gets a locally generated external id so it never collides with
// provider-synced rows.
type createCustomerRequest struct {
	FamilyName  string  `json:"family_name"`
	GivenName   string  `json:"given_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	ReferenceID string  `json:"reference_id"`
	Course      string  `json:"course"`
	CarModel    string  `json:"car_model"`
	Color       string  `json:"color"`
	PlateInfo1  *string `json:"plate_info_1"`
	PlateInfo2  *string `json:"plate_info_2"`
	PlateInfo3  *string `json:"plate_info_3"`
	PlateInfo4  *string `json:"plate_info_4"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FamilyName == "" && req.GivenName == "" {
		h.respondError(w, http.StatusBadRequest, "customer name is required")
		return
	}

	course := req.Course
	if course == "" {
		course = models.DefaultCourse
	}
	store := stores.ResolveReferencePrefix(req.ReferenceID)

	customer := &models.Customer{
		SquareCustomerID: "manual-" + uuid.NewString(),
		ReferenceID:      req.ReferenceID,
		FamilyName:       req.FamilyName,
		GivenName:        req.GivenName,
		Email:            req.Email,
		Phone:            req.Phone,
		RegistrationDate: normalize.ToReportingTime(time.Now()).Format("2006-01-02"),
		Status:           models.CustomerStatusActive,
		Course:           course,
		CarModel:         req.CarModel,
		Color:            req.Color,
		PlateInfo1:       req.PlateInfo1,
		PlateInfo2:       req.PlateInfo2,
		PlateInfo3:       req.PlateInfo3,
		PlateInfo4:       req.PlateInfo4,
		StoreName:        store.Name,
		StoreCode:        store.Code,
	}

	if err := h.customers.Insert(r.Context(), customer); err != nil {
		h.logger.Error("customer creation failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"customer": customerView(customer),
	})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("customer lookup failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to fetch customer")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": customerView(customer),
	})
}

// updateCustomerRequest carries the dashboard-editable customer fields.
type updateCustomerRequest struct {
	FamilyName *string `json:"family_name"`
	GivenName  *string `json:"given_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Course     *string `json:"course"`
	CarModel   *string `json:"car_model"`
	Color      *string `json:"color"`
	PlateInfo1 *string `json:"plate_info_1"`
	PlateInfo2 *string `json:"plate_info_2"`
	PlateInfo3 *string `json:"plate_info_3"`
	PlateInfo4 *string `json:"plate_info_4"`
	StoreName  *string `json:"store_name"`
	StoreCode  *string `json:"store_code"`
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("customer lookup failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to fetch customer")
		return
	}

	applyCustomerUpdate(customer, &req)

	affected, err := h.customers.UpdateByID(r.Context(), customer)
	if err != nil {
		h.logger.Error("customer update failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}
	if affected == 0 {
		h.respondError(w, http.StatusNotFound, "customer not found")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": customerView(customer),
	})
}

func applyCustomerUpdate(c *models.Customer, req *updateCustomerRequest) {
	if req.FamilyName != nil {
		c.FamilyName = *req.FamilyName
	}
	if req.GivenName != nil {
		c.GivenName = *req.GivenName
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Course != nil {
		c.Course = *req.Course
	}
	if req.CarModel != nil {
		c.CarModel = *req.CarModel
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.PlateInfo1 != nil {
		c.PlateInfo1 = req.PlateInfo1
	}
	if req.PlateInfo2 != nil {
		c.PlateInfo2 = req.PlateInfo2
	}
	if req.PlateInfo3 != nil {
		c.PlateInfo3 = req.PlateInfo3
	}
	if req.PlateInfo4 != nil {
		c.PlateInfo4 = req.PlateInfo4
	}
	if req.StoreName != nil {
		c.StoreName = *req.StoreName
	}
	if req.StoreCode != nil {
		c.StoreCode = *req.StoreCode
	}
}

type customerViewModel struct {
	ID               int64   `json:"id"`
	SquareCustomerID string  `json:"square_customer_id"`
	ReferenceID      string  `json:"reference_id"`
	FamilyName       string  `json:"family_name"`
	GivenName        string  `json:"given_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	RegistrationDate string  `json:"registration_date"`
	Status           string  `json:"status"`
	Course           string  `json:"course"`
	CarModel         string  `json:"car_model,omitempty"`
	Color            string  `json:"color,omitempty"`
	PlateInfo1       *string `json:"plate_info_1,omitempty"`
	PlateInfo2       *string `json:"plate_info_2,omitempty"`
	PlateInfo3       *string `json:"plate_info_3,omitempty"`
	PlateInfo4       *string `json:"plate_info_4,omitempty"`
	StoreName        string  `json:"store_name"`
	StoreCode        string  `json:"store_code"`
}

func customerView(c *models.Customer) customerViewModel {
	return customerViewModel{
		ID:               c.ID,
		SquareCustomerID: c.SquareCustomerID,
		ReferenceID:      c.ReferenceID,
		FamilyName:       c.FamilyName,
		GivenName:        c.GivenName,
		Email:            c.Email,
		Phone:            c.Phone,
		RegistrationDate: c.RegistrationDate,
		Status:           string(c.Status),
		Course:           c.Course,
		CarModel:         c.CarModel,
		Color:            c.Color,
		PlateInfo1:       c.PlateInfo1,
		PlateInfo2:       c.PlateInfo2,
		PlateInfo3:       c.PlateInfo3,
		PlateInfo4:       c.PlateInfo4,
		StoreName:        c.StoreName,
		StoreCode:        c.StoreCode,
	}
}

func customerViews(customers []models.Customer) []customerViewModel {
	views := make([]customerViewModel, 0, len(customers))
	for i := range customers {
		views = append(views, customerView(&customers[i]))
	}
	return views
}

package normalize

import (
	"strings"
	"time"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/stores"
)

// Customer converts one provider customer into the canonical customer record.
// Vehicle model and color are decoded from the company-name field by the
// "model/color" convention; the service course rides in the device-name field.
func Customer(c *square.Customer) (*models.Customer, error) {
	if c == nil || square.Str(c.ID) == "" {
		return nil, domain.ErrMissingExternalID
	}

	var carModel, color string
	if company := square.Str(c.CompanyName); company != "" {
		if idx := strings.Index(company, "/"); idx >= 0 {
			carModel = strings.TrimSpace(company[:idx])
			color = strings.TrimSpace(company[idx+1:])
		}
	}

	referenceID := square.Str(c.ReferenceID)
	if referenceID == "" {
		referenceID = *c.ID
	}

	registrationDate := time.Now().UTC().Format("2006-01-02")
	if raw := square.Str(c.CreatedAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			registrationDate = parsed.Format("2006-01-02")
		}
	}

	course := square.Str(c.DeviceName)
	if course == "" {
		course = models.DefaultCourse
	}

	store := stores.ResolveReferencePrefix(referenceID)

	return &models.Customer{
		SquareCustomerID: *c.ID,
		ReferenceID:      referenceID,
		FamilyName:       square.Str(c.FamilyName),
		GivenName:        square.Str(c.GivenName),
		Email:            square.Str(c.EmailAddress),
		Phone:            square.Str(c.PhoneNumber),
		RegistrationDate: registrationDate,
		Status:           models.CustomerStatusActive,
		Course:           course,
		CarModel:         carModel,
		Color:            color,
		StoreName:        store.Name,
		StoreCode:        store.Code,
	}, nil
}

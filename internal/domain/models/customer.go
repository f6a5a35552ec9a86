package models

import "time"

// CustomerStatus tracks soft-delete state. Rows are never removed.
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusDeleted CustomerStatus = "deleted"
)

// DefaultCourse is assigned when the provider record carries no plan name.
const DefaultCourse = "standard"

// Customer is the canonical internal customer record, keyed by the provider's
// customer id. The reference id encodes the store assignment as a 4-digit
// numeric prefix.
type Customer struct {
	ID               int64
	SquareCustomerID string
	ReferenceID      string

	FamilyName string
	GivenName  string
	Email      string
	Phone      string

	RegistrationDate string // YYYY-MM-DD
	Status           CustomerStatus
	Course           string

	CarModel string
	Color    string

	PlateInfo1 *string
	PlateInfo2 *string
	PlateInfo3 *string
	PlateInfo4 *string

	StoreName string
	StoreCode string

	CreatedAt time.Time
	UpdatedAt time.Time
}

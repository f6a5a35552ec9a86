package square

// Partial data-transfer structures for provider payloads. Every field is
// optional; consumers must supply defaults for anything absent. The provider
// only partially specifies payload shapes, so nothing here may be assumed
// present.

// Money is a signed amount in minor currency units plus a currency code.
type Money struct {
	Amount   *int64  `json:"amount,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// Value returns the amount, defaulting to zero.
func (m *Money) Value() int64 {
	if m == nil || m.Amount == nil {
		return 0
	}
	return *m.Amount
}

// Card describes the card used for a tender.
type Card struct {
	CardBrand *string `json:"card_brand,omitempty"`
	Last4     *string `json:"last_4,omitempty"`
	CardType  *string `json:"card_type,omitempty"`
}

// DeviceDetails identifies the terminal that took a payment.
type DeviceDetails struct {
	DeviceName *string `json:"device_name,omitempty"`
}

// CardDetails is present when a payment was tendered by card.
type CardDetails struct {
	Status        *string        `json:"status,omitempty"`
	Card          *Card          `json:"card,omitempty"`
	EntryMethod   *string        `json:"entry_method,omitempty"`
	DeviceDetails *DeviceDetails `json:"device_details,omitempty"`
}

// ProcessingFee is one fee line applied to a payment.
type ProcessingFee struct {
	EffectiveAt *string `json:"effective_at,omitempty"`
	Type        *string `json:"type,omitempty"`
	AmountMoney *Money  `json:"amount_money,omitempty"`
}

// ApplicationDetails identifies the provider application that created the
// payment. Invoice payments carry a known application id.
type ApplicationDetails struct {
	ApplicationID *string `json:"application_id,omitempty"`
}

// Payment is a provider payment record.
type Payment struct {
	ID                 *string             `json:"id,omitempty"`
	OrderID            *string             `json:"order_id,omitempty"`
	LocationID         *string             `json:"location_id,omitempty"`
	CustomerID         *string             `json:"customer_id,omitempty"`
	ReferenceID        *string             `json:"reference_id,omitempty"`
	CreatedAt          *string             `json:"created_at,omitempty"`
	UpdatedAt          *string             `json:"updated_at,omitempty"`
	Status             *string             `json:"status,omitempty"`
	SourceType         *string             `json:"source_type,omitempty"`
	Note               *string             `json:"note,omitempty"`
	ReceiptURL         *string             `json:"receipt_url,omitempty"`
	TotalMoney         *Money              `json:"total_money,omitempty"`
	AmountMoney        *Money              `json:"amount_money,omitempty"`
	TotalTaxMoney      *Money              `json:"total_tax_money,omitempty"`
	TaxMoney           *Money              `json:"tax_money,omitempty"`
	TotalDiscountMoney *Money              `json:"total_discount_money,omitempty"`
	DiscountMoney      *Money              `json:"discount_money,omitempty"`
	TotalTipMoney      *Money              `json:"total_tip_money,omitempty"`
	TipMoney           *Money              `json:"tip_money,omitempty"`
	ProcessingFee      []ProcessingFee     `json:"processing_fee,omitempty"`
	CardDetails        *CardDetails        `json:"card_details,omitempty"`
	ApplicationDetails *ApplicationDetails `json:"application_details,omitempty"`
}

// Preferences carries provider-side customer preferences.
type Preferences struct {
	EmailUnsubscribed *bool `json:"email_unsubscribed,omitempty"`
}

// Customer is a provider customer record. The company name field encodes
// vehicle model and color by a "/" convention; device name encodes the
// service plan.
type Customer struct {
	ID           *string      `json:"id,omitempty"`
	GivenName    *string      `json:"given_name,omitempty"`
	FamilyName   *string      `json:"family_name,omitempty"`
	EmailAddress *string      `json:"email_address,omitempty"`
	PhoneNumber  *string      `json:"phone_number,omitempty"`
	CompanyName  *string      `json:"company_name,omitempty"`
	DeviceName   *string      `json:"device_name,omitempty"`
	ReferenceID  *string      `json:"reference_id,omitempty"`
	CreatedAt    *string      `json:"created_at,omitempty"`
	UpdatedAt    *string      `json:"updated_at,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
}

// Refund is a provider refund record. PaymentID references the parent
// payment, not the refund itself.
type Refund struct {
	ID          *string `json:"id,omitempty"`
	PaymentID   *string `json:"payment_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	AmountMoney *Money  `json:"amount_money,omitempty"`
}

// Location is a provider location record.
type Location struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// OrderLineItem is one purchased item on an order.
type OrderLineItem struct {
	Name            *string `json:"name,omitempty"`
	VariationName   *string `json:"variation_name,omitempty"`
	CatalogObjectID *string `json:"catalog_object_id,omitempty"`
}

// Order is a provider order record.
type Order struct {
	ID        *string         `json:"id,omitempty"`
	LineItems []OrderLineItem `json:"line_items,omitempty"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Str returns the pointed-to string, or "" when absent.
func Str(s *string) string { return str(s) }

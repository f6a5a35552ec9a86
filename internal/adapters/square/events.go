package square

import (
	"encoding/json"

	"github.com/splashngo/dashboard-service/internal/domain"
)

// EventKind is the closed set of webhook event types. The envelope's raw type
// string is decoded into this enum exactly once, at the boundary; unrecognized
// strings map to EventKindUnknown, which is acknowledged and ignored.
type EventKind string

const (
	EventKindUnknown         EventKind = ""
	EventKindCustomerCreated EventKind = "customer.created"
	EventKindCustomerUpdated EventKind = "customer.updated"
	EventKindCustomerDeleted EventKind = "customer.deleted"
	EventKindCustomerMerged  EventKind = "customer.merged"
	EventKindPaymentCreated  EventKind = "payment.created"
	EventKindPaymentUpdated  EventKind = "payment.updated"
	EventKindRefundCreated   EventKind = "refund.created"
	EventKindRefundUpdated   EventKind = "refund.updated"
)

// ParseEventKind maps a raw provider type string into the enum.
func ParseEventKind(s string) EventKind {
	switch EventKind(s) {
	case EventKindCustomerCreated, EventKindCustomerUpdated, EventKindCustomerDeleted,
		EventKindCustomerMerged, EventKindPaymentCreated, EventKindPaymentUpdated,
		EventKindRefundCreated, EventKindRefundUpdated:
		return EventKind(s)
	default:
		return EventKindUnknown
	}
}

// IsCustomer reports whether the kind targets a customer record.
func (k EventKind) IsCustomer() bool {
	switch k {
	case EventKindCustomerCreated, EventKindCustomerUpdated, EventKindCustomerDeleted, EventKindCustomerMerged:
		return true
	}
	return false
}

// IsPayment reports whether the kind targets a transaction record.
func (k EventKind) IsPayment() bool {
	return k == EventKindPaymentCreated || k == EventKindPaymentUpdated
}

// IsRefund reports whether the kind is a refund overlay.
func (k EventKind) IsRefund() bool {
	return k == EventKindRefundCreated || k == EventKindRefundUpdated
}

// Event is a decoded webhook envelope. Exactly one of Customer, Payment,
// Refund is set for recognized kinds; all are nil for EventKindUnknown.
type Event struct {
	Kind     EventKind
	RawType  string
	Customer *Customer
	Payment  *Payment
	Refund   *Refund
}

type envelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Customer *Customer `json:"customer,omitempty"`
			Payment  *Payment  `json:"payment,omitempty"`
			Refund   *Refund   `json:"refund,omitempty"`
		} `json:"object"`
	} `json:"data"`
}

// DecodeEvent parses a webhook body into an Event. A body that is not valid
// JSON is malformed; a recognized kind whose payload object is absent is a
// bad payload shape. Unknown kinds decode successfully with no payload.
func DecodeEvent(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeEventMalformed, "unparseable webhook body", err)
	}

	ev := &Event{
		Kind:    ParseEventKind(env.Type),
		RawType: env.Type,
	}

	switch {
	case ev.Kind.IsCustomer():
		if env.Data.Object.Customer == nil {
			return nil, domain.NewDomainError(domain.ErrorCodeEventMalformed, "customer event without customer object")
		}
		ev.Customer = env.Data.Object.Customer
	case ev.Kind.IsPayment():
		if env.Data.Object.Payment == nil {
			return nil, domain.NewDomainError(domain.ErrorCodeEventMalformed, "payment event without payment object")
		}
		ev.Payment = env.Data.Object.Payment
	case ev.Kind.IsRefund():
		if env.Data.Object.Refund == nil {
			return nil, domain.NewDomainError(domain.ErrorCodeEventMalformed, "refund event without refund object")
		}
		ev.Refund = env.Data.Object.Refund
	}

	return ev, nil
}

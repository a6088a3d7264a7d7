package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodPayPal   PaymentMethod = "PAYPAL"
	PaymentMethodApplePay PaymentMethod = "APPLE_PAY"
	PaymentMethodGooglePay PaymentMethod = "GOOGLE_PAY"
	PaymentMethodOffline   PaymentMethod = "OFFLINE"
)

// IsOffline reports whether the payment settles outside the online
// processor and needs manual owner confirmation.
func (m PaymentMethod) IsOffline() bool {
	return m == PaymentMethodOffline
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodApplePay, PaymentMethodGooglePay, PaymentMethodOffline:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID              int32         `json:"id"`
	RentalRequestID int32         `json:"rental_request_id"` // unique: one payment per request
	Method          PaymentMethod `json:"method"`
	AmountCents     int32         `json:"amount_cents"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	ExternalRef     *string       `json:"external_ref,omitempty"` // nil for offline payments
	CompletedOn     *time.Time    `json:"completed_on,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}

// PaymentResult is what createPayment hands back to the caller. The client
// secret is only set for online payments and is never persisted.
type PaymentResult struct {
	Payment      *Payment `json:"payment"`
	ClientSecret string   `json:"client_secret,omitempty"`
}

type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "UNPAID"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

type Invoice struct {
	ID              int32         `json:"id"`
	RentalRequestID int32         `json:"rental_request_id"`
	Number          string        `json:"number"`
	Status          InvoiceStatus `json:"status"`
	PaidOn          *time.Time    `json:"paid_on,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
}

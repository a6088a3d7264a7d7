package domain

import (
	"fmt"
	"time"
)

type NotificationKind string

const (
	NotificationNewRequest         NotificationKind = "NEW_REQUEST"
	NotificationApproved           NotificationKind = "APPROVED"
	NotificationRejected           NotificationKind = "REJECTED"
	NotificationPaymentCompleted   NotificationKind = "PAYMENT_COMPLETED"
	NotificationPaymentConfirmed   NotificationKind = "PAYMENT_CONFIRMED"
	NotificationReturnConfirmed    NotificationKind = "RETURN_CONFIRMED"
	NotificationInvoiceEmailed     NotificationKind = "INVOICE_EMAILED"
	NotificationConflictingRejected NotificationKind = "CONFLICTING_REJECTED"
	NotificationReturnReminder      NotificationKind = "RETURN_REMINDER"
	NotificationRentalOverdue       NotificationKind = "RENTAL_OVERDUE"
)

type Notification struct {
	ID        int32             `json:"id"`
	UserID    int32             `json:"user_id"`
	Kind      NotificationKind  `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	IsRead    bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

// NotificationEvent is the closed payload type handed to the dispatcher.
// Each lifecycle transition builds one with the constructors below; the
// attribute schema is fixed per kind, never an open blob.
type NotificationEvent struct {
	UserID  int32
	Kind    NotificationKind
	Title   string
	Message string
	// Entity references carried into the attributes map.
	RentalRequestID int32
	PaymentID       int32
	ReturnID        int32
	InvoiceID       int32
	ProductName     string
}

// Attributes renders the fixed per-kind attribute set.
func (e NotificationEvent) Attributes() map[string]string {
	attrs := map[string]string{
		"type":              string(e.Kind),
		"rental_request_id": fmt.Sprintf("%d", e.RentalRequestID),
	}
	if e.PaymentID != 0 {
		attrs["payment_id"] = fmt.Sprintf("%d", e.PaymentID)
	}
	if e.ReturnID != 0 {
		attrs["return_id"] = fmt.Sprintf("%d", e.ReturnID)
	}
	if e.InvoiceID != 0 {
		attrs["invoice_id"] = fmt.Sprintf("%d", e.InvoiceID)
	}
	if e.ProductName != "" {
		attrs["product_name"] = e.ProductName
	}
	return attrs
}

func NewRequestEvent(ownerID int32, rt *RentalRequest, customerName, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          ownerID,
		Kind:            NotificationNewRequest,
		Title:           "New Rental Request",
		Message:         fmt.Sprintf("%s requested to rent %s", customerName, productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

func RequestApprovedEvent(customerID int32, rt *RentalRequest, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationApproved,
		Title:           "Rental Request Approved",
		Message:         fmt.Sprintf("Your rental request for %s was approved", productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

func RequestRejectedEvent(customerID int32, rt *RentalRequest, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationRejected,
		Title:           "Rental Request Rejected",
		Message:         fmt.Sprintf("Your rental request for %s was rejected", productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

func PaymentCompletedEvent(customerID int32, rt *RentalRequest, payment *Payment, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationPaymentCompleted,
		Title:           "Payment Completed",
		Message:         fmt.Sprintf("Your payment of %d %s for %s completed", payment.AmountCents, payment.Currency, productName),
		RentalRequestID: rt.ID,
		PaymentID:       payment.ID,
		ProductName:     productName,
	}
}

func PaymentConfirmedEvent(ownerID int32, rt *RentalRequest, payment *Payment, customerName, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          ownerID,
		Kind:            NotificationPaymentConfirmed,
		Title:           "Payment Received",
		Message:         fmt.Sprintf("%s paid for %s; the rental is now active", customerName, productName),
		RentalRequestID: rt.ID,
		PaymentID:       payment.ID,
		ProductName:     productName,
	}
}

func ReturnConfirmedEvent(customerID int32, rt *RentalRequest, ret *ProductReturn, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationReturnConfirmed,
		Title:           "Return Confirmed",
		Message:         fmt.Sprintf("Your return of %s was confirmed", productName),
		RentalRequestID: rt.ID,
		ReturnID:        ret.ID,
		ProductName:     productName,
	}
}

func InvoiceEmailedEvent(customerID int32, rt *RentalRequest, inv *Invoice) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationInvoiceEmailed,
		Title:           "Invoice Sent",
		Message:         fmt.Sprintf("Invoice %s has been emailed to you", inv.Number),
		RentalRequestID: rt.ID,
		InvoiceID:       inv.ID,
	}
}

func ConflictingRejectedEvent(customerID int32, rt *RentalRequest, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationConflictingRejected,
		Title:           "Rental Request Rejected",
		Message:         fmt.Sprintf("Your pending request for %s was rejected because the dates were booked by another customer", productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

func ReturnReminderEvent(customerID int32, rt *RentalRequest, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          customerID,
		Kind:            NotificationReturnReminder,
		Title:           "Return Reminder",
		Message:         fmt.Sprintf("Your rental of %s ends soon", productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

func RentalOverdueEvent(userID int32, rt *RentalRequest, productName string) NotificationEvent {
	return NotificationEvent{
		UserID:          userID,
		Kind:            NotificationRentalOverdue,
		Title:           "Rental Overdue",
		Message:         fmt.Sprintf("The rental of %s is past its end date", productName),
		RentalRequestID: rt.ID,
		ProductName:     productName,
	}
}

package service

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
)

type AvailabilityService interface {
	// Check reports active-booking overlaps and the request-pressure
	// signals for a product and date range.
	Check(ctx context.Context, productID int32, start, end time.Time) (*domain.Availability, error)
}

type RentalService interface {
	CreateRequest(ctx context.Context, customerID, productID int32, start, end time.Time, pickupLocation, returnLocation string) (*domain.RentalRequest, error)
	Approve(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error)
	Reject(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error)
	Cancel(ctx context.Context, customerID, requestID int32) (*domain.RentalRequest, error)
	Complete(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error)
	Get(ctx context.Context, userID, requestID int32) (*domain.RentalRequest, error)
	List(ctx context.Context, userID int32, role, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, customerID, rentalRequestID int32, method domain.PaymentMethod) (*domain.PaymentResult, error)
	ConfirmPayment(ctx context.Context, userID, paymentID int32, status domain.PaymentStatus) (*domain.Payment, error)
	GetPayment(ctx context.Context, userID, paymentID int32) (*domain.Payment, error)
	GetInvoice(ctx context.Context, userID, rentalRequestID int32) (*domain.Invoice, error)
}

type ReturnService interface {
	Initiate(ctx context.Context, customerID, rentalRequestID int32) (*domain.ProductReturn, error)
	Progress(ctx context.Context, ownerID, returnID int32) (*domain.ProductReturn, error)
	Confirm(ctx context.Context, ownerID, returnID int32, signature, conditionNotes string) (*domain.ProductReturn, error)
	RecordDamage(ctx context.Context, ownerID, returnID int32, severity domain.DamageSeverity, description string, photoURLs []string) (*domain.DamageAssessment, error)
	Get(ctx context.Context, userID, returnID int32) (*domain.ProductReturn, *domain.DamageAssessment, error)
}

type ProductService interface {
	AddProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int32) (*domain.Product, error)
	UpdateProduct(ctx context.Context, ownerID int32, product *domain.Product) error
	ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
	ListMyProducts(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	RegisterDevice(ctx context.Context, userID int32, token, platform string) (*domain.DeviceToken, error)
	RemoveDevice(ctx context.Context, userID, deviceID int32) error
}

// NotificationDispatcher fans a lifecycle notification out to every
// delivery channel. Dispatch is contained: a channel failure is logged
// and never surfaces to the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent)
}

type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, email, name, customerName, productName string) error
	SendRentalDecisionNotification(ctx context.Context, email, name, productName string, approved bool) error
	SendInvoiceEmail(ctx context.Context, email, name, invoiceNumber, productName string, amountCents int32, currency string) error
	SendReturnConfirmationNotification(ctx context.Context, email, name, productName string) error
	SendReturnReminderNotification(ctx context.Context, email, name, productName string, endDate time.Time) error
}

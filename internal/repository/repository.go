package repository

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error)
}

type RentalRequestRepository interface {
	// Create inserts the request. A range-exclusion constraint on active
	// bookings backs the advisory overlap check; violations surface as
	// domain.ErrConflict.
	Create(ctx context.Context, rt *domain.RentalRequest) error
	GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error)
	Update(ctx context.Context, rt *domain.RentalRequest) error
	// ListByProduct returns every request for the product, newest first.
	// The availability checker derives overlap and throttle signals from it.
	ListByProduct(ctx context.Context, productID int32) ([]domain.RentalRequest, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
	ListStalePending(ctx context.Context, before time.Time) ([]domain.RentalRequest, error)
	ListActiveEndingBetween(ctx context.Context, from, to time.Time) ([]domain.RentalRequest, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error)
}

type PaymentRepository interface {
	// CreateWithInvoice inserts the payment and its unpaid invoice in one
	// transaction. The unique constraint on rental_request_id makes
	// concurrent creation attempts race to a single winner; losers get
	// domain.ErrDuplicatePayment and no rows are left behind.
	CreateWithInvoice(ctx context.Context, payment *domain.Payment, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus) error
	// ConfirmCompleted applies the completion cascade in one transaction:
	// payment COMPLETED with timestamp, rental request ACTIVE, product
	// RENTED, invoice PAID. Any step failing rolls back the whole cascade.
	ConfirmCompleted(ctx context.Context, paymentID, rentalRequestID, productID int32, completedAt time.Time) error
	GetInvoiceByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Invoice, error)
}

type ReturnRepository interface {
	// Create inserts the return record; the unique constraint on
	// rental_request_id rejects a second return with domain.ErrConflict.
	Create(ctx context.Context, ret *domain.ProductReturn) error
	GetByID(ctx context.Context, id int32) (*domain.ProductReturn, error)
	GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.ProductReturn, error)
	Update(ctx context.Context, ret *domain.ProductReturn) error
	// CompleteWithRental finishes the return, completes the rental request
	// and frees the product, all in one transaction.
	CompleteWithRental(ctx context.Context, ret *domain.ProductReturn, productID int32) error
	// CreateAssessment inserts the assessment and its photos in one
	// transaction; a second assessment for the same return fails with
	// domain.ErrConflict.
	CreateAssessment(ctx context.Context, assessment *domain.DamageAssessment) error
	GetAssessmentByReturnID(ctx context.Context, returnID int32) (*domain.DamageAssessment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type DeviceTokenRepository interface {
	Create(ctx context.Context, token *domain.DeviceToken) error
	ListByUser(ctx context.Context, userID int32) ([]domain.DeviceToken, error)
	Delete(ctx context.Context, id, userID int32) error
}

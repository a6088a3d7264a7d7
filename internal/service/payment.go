package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/events"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/payments"
	"peerrent-backend/internal/repository"
)

type paymentService struct {
	paymentRepo  repository.PaymentRepository
	rentalRepo   repository.RentalRequestRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	intentClient payments.IntentClient
	dispatcher   NotificationDispatcher
	emailSvc     EmailService
	producer     events.Producer
	currency     string
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rentalRepo repository.RentalRequestRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	intentClient payments.IntentClient,
	dispatcher NotificationDispatcher,
	emailSvc EmailService,
	producer events.Producer,
	currency string,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		rentalRepo:   rentalRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		intentClient: intentClient,
		dispatcher:   dispatcher,
		emailSvc:     emailSvc,
		producer:     producer,
		currency:     currency,
	}
}

// CreatePayment opens the payment for an accepted rental request. The
// amount is always the server-side price snapshot; whatever the client
// claims to owe is never consulted. Online methods get an external
// payment intent first, so an intent failure leaves no payment row.
func (s *paymentService) CreatePayment(ctx context.Context, customerID, rentalRequestID int32, method domain.PaymentMethod) (*domain.PaymentResult, error) {
	if !method.Valid() {
		return nil, domain.NewValidationError("method", "unknown payment method")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != customerID {
		return nil, domain.ErrUnauthorized
	}
	if rt.Status != domain.RentalStatusAccepted {
		return nil, domain.ErrInvalidState
	}
	if rt.PriceCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	currency := rt.Currency
	if currency == "" {
		currency = s.currency
	}

	payment := &domain.Payment{
		RentalRequestID: rt.ID,
		Method:          method,
		AmountCents:     rt.PriceCents,
		Currency:        currency,
		Status:          domain.PaymentStatusPending,
	}

	var clientSecret string
	if !method.IsOffline() {
		intent, err := s.intentClient.CreateIntent(ctx, rt.PriceCents, currency, map[string]string{
			"rental_request_id": fmt.Sprintf("%d", rt.ID),
			"product_id":        fmt.Sprintf("%d", rt.ProductID),
			"customer_id":       fmt.Sprintf("%d", rt.CustomerID),
		})
		if err != nil {
			logger.ErrorContext(ctx, "payment intent creation failed", "rental_request_id", rt.ID, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
		}
		payment.ExternalRef = &intent.ID
		clientSecret = intent.ClientSecret
	}

	invoice := &domain.Invoice{
		RentalRequestID: rt.ID,
		Number:          newInvoiceNumber(),
		Status:          domain.InvoiceStatusUnpaid,
	}

	if err := s.paymentRepo.CreateWithInvoice(ctx, payment, invoice); err != nil {
		return nil, err
	}

	return &domain.PaymentResult{Payment: payment, ClientSecret: clientSecret}, nil
}

// ConfirmPayment settles a pending payment. A completed confirmation
// runs the activation cascade exactly once; a repeat lands on the
// status guard and comes back as an invalid state.
func (s *paymentService) ConfirmPayment(ctx context.Context, userID, paymentID int32, status domain.PaymentStatus) (*domain.Payment, error) {
	if status != domain.PaymentStatusCompleted && status != domain.PaymentStatusFailed {
		return nil, domain.NewValidationError("status", "must be COMPLETED or FAILED")
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	rt, err := s.rentalRepo.GetByID(ctx, payment.RentalRequestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	if payment.Method.IsOffline() && userID != rt.OwnerID {
		// Offline settlement happens in person; only the owner can attest
		// the money changed hands.
		return nil, domain.ErrForbidden
	}

	if status == domain.PaymentStatusFailed {
		if payment.Status != domain.PaymentStatusPending {
			return nil, domain.ErrInvalidState
		}
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed); err != nil {
			return nil, err
		}
		payment.Status = domain.PaymentStatusFailed
		return payment, nil
	}

	now := time.Now()
	if err := s.paymentRepo.ConfirmCompleted(ctx, payment.ID, rt.ID, rt.ProductID, now); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusCompleted
	payment.CompletedOn = &now
	rt.Status = domain.RentalStatusActive

	s.notifyCompleted(ctx, rt, payment)
	s.rejectConflictingPending(ctx, rt)

	s.producer.Publish(events.Event{
		Type:            "payment_completed",
		RentalRequestID: rt.ID,
		ProductID:       rt.ProductID,
		Status:          string(rt.Status),
		OccurredOn:      now,
	})

	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, userID, paymentID int32) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	rt, err := s.rentalRepo.GetByID(ctx, payment.RentalRequestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}

func (s *paymentService) GetInvoice(ctx context.Context, userID, rentalRequestID int32) (*domain.Invoice, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return s.paymentRepo.GetInvoiceByRentalRequestID(ctx, rentalRequestID)
}

func (s *paymentService) notifyCompleted(ctx context.Context, rt *domain.RentalRequest, payment *domain.Payment) {
	product, err := s.productRepo.GetByID(ctx, rt.ProductID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load product for notification", "product_id", rt.ProductID, "error", err)
		return
	}
	customer, err := s.userRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load customer for notification", "user_id", rt.CustomerID, "error", err)
		return
	}

	s.dispatcher.Dispatch(ctx, domain.PaymentCompletedEvent(rt.CustomerID, rt, payment, product.Name))
	s.dispatcher.Dispatch(ctx, domain.PaymentConfirmedEvent(rt.OwnerID, rt, payment, customer.Name, product.Name))

	invoice, err := s.paymentRepo.GetInvoiceByRentalRequestID(ctx, rt.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load invoice for email", "rental_request_id", rt.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendInvoiceEmail(ctx, customer.Email, customer.Name, invoice.Number, product.Name, payment.AmountCents, payment.Currency); err != nil {
		logger.ErrorContext(ctx, "failed to email invoice", "invoice", invoice.Number, "error", err)
		return
	}
	s.dispatcher.Dispatch(ctx, domain.InvoiceEmailedEvent(rt.CustomerID, rt, invoice))
}

// rejectConflictingPending clears pending requests whose dates were just
// taken by the completed payment, so their customers are not left
// waiting on a booking that can never be accepted.
func (s *paymentService) rejectConflictingPending(ctx context.Context, rt *domain.RentalRequest) {
	siblings, err := s.rentalRepo.ListByProduct(ctx, rt.ProductID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list requests for conflict rejection", "product_id", rt.ProductID, "error", err)
		return
	}

	var productName string
	if product, err := s.productRepo.GetByID(ctx, rt.ProductID); err == nil {
		productName = product.Name
	}

	for i := range siblings {
		sibling := siblings[i]
		if sibling.ID == rt.ID || sibling.Status != domain.RentalStatusPending {
			continue
		}
		if !sibling.Overlaps(rt.StartDate, rt.EndDate) {
			continue
		}
		sibling.Status = domain.RentalStatusRejected
		if err := s.rentalRepo.Update(ctx, &sibling); err != nil {
			logger.ErrorContext(ctx, "failed to reject conflicting request", "rental_request_id", sibling.ID, "error", err)
			continue
		}
		s.dispatcher.Dispatch(ctx, domain.ConflictingRejectedEvent(sibling.CustomerID, &sibling, productName))
	}
}

func newInvoiceNumber() string {
	return "INV-" + uuid.New().String()
}

package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/payments"
	"peerrent-backend/internal/service"
)

func newPaymentFixture() (service.PaymentService, *MockPaymentRepo, *MockRentalRequestRepo, *MockProductRepo, *MockUserRepo, *MockIntentClient, *MockDispatcher, *MockEmailService, *MockProducer) {
	paymentRepo := new(MockPaymentRepo)
	rentalRepo := new(MockRentalRequestRepo)
	productRepo := new(MockProductRepo)
	userRepo := new(MockUserRepo)
	intentClient := new(MockIntentClient)
	dispatcher := new(MockDispatcher)
	emailSvc := new(MockEmailService)
	producer := &MockProducer{}

	svc := service.NewPaymentService(paymentRepo, rentalRepo, productRepo, userRepo, intentClient, dispatcher, emailSvc, producer, "USD")
	return svc, paymentRepo, rentalRepo, productRepo, userRepo, intentClient, dispatcher, emailSvc, producer
}

func acceptedRequest() *domain.RentalRequest {
	return &domain.RentalRequest{
		ID:         100,
		ProductID:  10,
		CustomerID: 2,
		OwnerID:    1,
		StartDate:  day(1),
		EndDate:    day(4),
		PriceCents: 4500,
		Currency:   "USD",
		Status:     domain.RentalStatusAccepted,
	}
}

func TestPaymentService_CreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("online payment gets an intent and a client secret", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, intentClient, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		intentClient.On("CreateIntent", ctx, int32(4500), "USD", map[string]string{
			"rental_request_id": "100",
			"product_id":        "10",
			"customer_id":       "2",
		}).Return(&payments.Intent{ID: "pi_123", ClientSecret: "secret_123"}, nil)
		paymentRepo.On("CreateWithInvoice", ctx, mock.AnythingOfType("*domain.Payment"), mock.AnythingOfType("*domain.Invoice")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 500
		}).Return(nil)

		result, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodCard)
		require.NoError(t, err)
		assert.Equal(t, "secret_123", result.ClientSecret)
		assert.Equal(t, int32(4500), result.Payment.AmountCents)
		assert.Equal(t, domain.PaymentStatusPending, result.Payment.Status)
		require.NotNil(t, result.Payment.ExternalRef)
		assert.Equal(t, "pi_123", *result.Payment.ExternalRef)
	})

	t.Run("offline payment skips the intent", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, intentClient, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("CreateWithInvoice", ctx, mock.AnythingOfType("*domain.Payment"), mock.AnythingOfType("*domain.Invoice")).Return(nil)

		result, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodOffline)
		require.NoError(t, err)
		assert.Empty(t, result.ClientSecret)
		assert.Nil(t, result.Payment.ExternalRef)
		intentClient.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown method fails validation", func(t *testing.T) {
		svc, _, _, _, _, _, _, _, _ := newPaymentFixture()

		_, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethod("BARTER"))
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("only the customer can pay", func(t *testing.T) {
		svc, _, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)

		_, err := svc.CreatePayment(ctx, 1, 100, domain.PaymentMethodCard)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("request must be accepted", func(t *testing.T) {
		svc, _, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		for _, status := range []domain.RentalStatus{
			domain.RentalStatusPending,
			domain.RentalStatusActive,
			domain.RentalStatusCompleted,
		} {
			rentalRepo.ExpectedCalls = nil
			rt := acceptedRequest()
			rt.Status = status
			rentalRepo.On("GetByID", ctx, int32(100)).Return(rt, nil)

			_, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodCard)
			assert.ErrorIs(t, err, domain.ErrInvalidState, "status %s", status)
		}
	})

	t.Run("zero price snapshot is rejected", func(t *testing.T) {
		svc, _, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rt := acceptedRequest()
		rt.PriceCents = 0
		rentalRepo.On("GetByID", ctx, int32(100)).Return(rt, nil)

		_, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodCard)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("intent failure leaves no payment row", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, intentClient, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		intentClient.On("CreateIntent", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodCard)
		assert.ErrorIs(t, err, domain.ErrExternalService)
		paymentRepo.AssertNotCalled(t, "CreateWithInvoice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second payment attempt is a duplicate", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, intentClient, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		intentClient.On("CreateIntent", ctx, mock.Anything, mock.Anything, mock.Anything).Return(&payments.Intent{ID: "pi_9", ClientSecret: "s"}, nil)
		paymentRepo.On("CreateWithInvoice", ctx, mock.Anything, mock.Anything).Return(domain.ErrDuplicatePayment)

		_, err := svc.CreatePayment(ctx, 2, 100, domain.PaymentMethodCard)
		assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
	})
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	product := &domain.Product{ID: 10, OwnerID: 1, Name: "Cordless Drill"}
	customer := &domain.User{ID: 2, Name: "Casey", Email: "casey@example.com"}

	pendingPayment := func(method domain.PaymentMethod) *domain.Payment {
		return &domain.Payment{
			ID:              500,
			RentalRequestID: 100,
			Method:          method,
			AmountCents:     4500,
			Currency:        "USD",
			Status:          domain.PaymentStatusPending,
		}
	}

	t.Run("completed confirmation runs the activation cascade", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, productRepo, userRepo, _, dispatcher, emailSvc, producer := newPaymentFixture()

		rt := acceptedRequest()
		rentalRepo.On("GetByID", ctx, int32(100)).Return(rt, nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodCard), nil)
		paymentRepo.On("ConfirmCompleted", ctx, int32(500), int32(100), int32(10), mock.AnythingOfType("time.Time")).Return(nil)
		paymentRepo.On("GetInvoiceByRentalRequestID", ctx, int32(100)).Return(&domain.Invoice{ID: 600, Number: "INV-abc"}, nil)
		productRepo.On("GetByID", ctx, int32(10)).Return(product, nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(customer, nil)
		rentalRepo.On("ListByProduct", ctx, int32(10)).Return([]domain.RentalRequest{}, nil)
		dispatcher.On("Dispatch", ctx, mock.Anything).Return()
		emailSvc.On("SendInvoiceEmail", ctx, customer.Email, customer.Name, "INV-abc", product.Name, int32(4500), "USD").Return(nil)

		payment, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
		require.NotNil(t, payment.CompletedOn)

		dispatcher.AssertCalled(t, "Dispatch", ctx, mock.MatchedBy(func(e domain.NotificationEvent) bool {
			return e.Kind == domain.NotificationPaymentCompleted && e.UserID == 2
		}))
		dispatcher.AssertCalled(t, "Dispatch", ctx, mock.MatchedBy(func(e domain.NotificationEvent) bool {
			return e.Kind == domain.NotificationPaymentConfirmed && e.UserID == 1
		}))
		dispatcher.AssertCalled(t, "Dispatch", ctx, mock.MatchedBy(func(e domain.NotificationEvent) bool {
			return e.Kind == domain.NotificationInvoiceEmailed && e.UserID == 2
		}))

		require.Len(t, producer.Events, 1)
		assert.Equal(t, "payment_completed", producer.Events[0].Type)
		assert.Equal(t, string(domain.RentalStatusActive), producer.Events[0].Status)
	})

	t.Run("conflicting pending requests are rejected after completion", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, productRepo, userRepo, _, dispatcher, emailSvc, _ := newPaymentFixture()

		rt := acceptedRequest()
		overlapping := domain.RentalRequest{
			ID: 101, ProductID: 10, CustomerID: 3, OwnerID: 1,
			StartDate: day(2), EndDate: day(5), Status: domain.RentalStatusPending,
		}
		disjoint := domain.RentalRequest{
			ID: 102, ProductID: 10, CustomerID: 4, OwnerID: 1,
			StartDate: day(4), EndDate: day(7), Status: domain.RentalStatusPending,
		}

		rentalRepo.On("GetByID", ctx, int32(100)).Return(rt, nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodCard), nil)
		paymentRepo.On("ConfirmCompleted", ctx, int32(500), int32(100), int32(10), mock.AnythingOfType("time.Time")).Return(nil)
		paymentRepo.On("GetInvoiceByRentalRequestID", ctx, int32(100)).Return(&domain.Invoice{ID: 600, Number: "INV-abc"}, nil)
		productRepo.On("GetByID", ctx, int32(10)).Return(product, nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(customer, nil)
		rentalRepo.On("ListByProduct", ctx, int32(10)).Return([]domain.RentalRequest{*rt, overlapping, disjoint}, nil)
		rentalRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
			return r.ID == 101 && r.Status == domain.RentalStatusRejected
		})).Return(nil)
		dispatcher.On("Dispatch", ctx, mock.Anything).Return()
		emailSvc.On("SendInvoiceEmail", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusCompleted)
		require.NoError(t, err)

		// Touching end date (day 4) does not overlap the half-open range.
		rentalRepo.AssertNumberOfCalls(t, "Update", 1)
		dispatcher.AssertCalled(t, "Dispatch", ctx, mock.MatchedBy(func(e domain.NotificationEvent) bool {
			return e.Kind == domain.NotificationConflictingRejected && e.UserID == 3
		}))
	})

	t.Run("repeat confirmation lands on the status guard", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodCard), nil)
		paymentRepo.On("ConfirmCompleted", ctx, int32(500), int32(100), int32(10), mock.AnythingOfType("time.Time")).Return(domain.ErrInvalidState)

		_, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("failed confirmation marks the payment failed", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, producer := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodCard), nil)
		paymentRepo.On("UpdateStatus", ctx, int32(500), domain.PaymentStatusFailed).Return(nil)

		payment, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusFailed)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
		assert.Empty(t, producer.Events)
	})

	t.Run("failing a settled payment is invalid", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		settled := pendingPayment(domain.PaymentMethodCard)
		settled.Status = domain.PaymentStatusCompleted
		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(settled, nil)

		_, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusFailed)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("status other than completed or failed fails validation", func(t *testing.T) {
		svc, _, _, _, _, _, _, _, _ := newPaymentFixture()

		_, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusRefunded)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("offline payment is owner-confirmed only", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodOffline), nil)

		_, err := svc.ConfirmPayment(ctx, 2, 500, domain.PaymentStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(pendingPayment(domain.PaymentMethodCard), nil)

		_, err := svc.ConfirmPayment(ctx, 9, 500, domain.PaymentStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestPaymentService_GetPaymentAndInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("payment is visible to both parties only", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetByID", ctx, int32(500)).Return(&domain.Payment{
			ID: 500, RentalRequestID: 100, Status: domain.PaymentStatusPending,
		}, nil)

		_, err := svc.GetPayment(ctx, 2, 500)
		assert.NoError(t, err)
		_, err = svc.GetPayment(ctx, 1, 500)
		assert.NoError(t, err)
		_, err = svc.GetPayment(ctx, 9, 500)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invoice lookup is party-checked", func(t *testing.T) {
		svc, paymentRepo, rentalRepo, _, _, _, _, _, _ := newPaymentFixture()

		rentalRepo.On("GetByID", ctx, int32(100)).Return(acceptedRequest(), nil)
		paymentRepo.On("GetInvoiceByRentalRequestID", ctx, int32(100)).Return(&domain.Invoice{
			ID: 600, RentalRequestID: 100, Number: "INV-abc", Status: domain.InvoiceStatusUnpaid, CreatedOn: time.Now(),
		}, nil)

		inv, err := svc.GetInvoice(ctx, 2, 100)
		require.NoError(t, err)
		assert.Equal(t, "INV-abc", inv.Number)

		_, err = svc.GetInvoice(ctx, 9, 100)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

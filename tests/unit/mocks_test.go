package unit

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/events"
	"peerrent-backend/internal/payments"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockProductRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}
func (m *MockProductRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}

// MockRentalRequestRepo
type MockRentalRequestRepo struct {
	mock.Mock
}

func (m *MockRentalRequestRepo) Create(ctx context.Context, rt *domain.RentalRequest) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) Update(ctx context.Context, rt *domain.RentalRequest) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ListByProduct(ctx context.Context, productID int32) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRequestRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRequestRepo) ListStalePending(ctx context.Context, before time.Time) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) ListActiveEndingBetween(ctx context.Context, from, to time.Time) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreateWithInvoice(ctx context.Context, payment *domain.Payment, invoice *domain.Invoice) error {
	args := m.Called(ctx, payment, invoice)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Payment, error) {
	args := m.Called(ctx, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPaymentRepo) ConfirmCompleted(ctx context.Context, paymentID, rentalRequestID, productID int32, completedAt time.Time) error {
	args := m.Called(ctx, paymentID, rentalRequestID, productID, completedAt)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetInvoiceByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Invoice, error) {
	args := m.Called(ctx, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// MockReturnRepo
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) Create(ctx context.Context, ret *domain.ProductReturn) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockReturnRepo) GetByID(ctx context.Context, id int32) (*domain.ProductReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductReturn), args.Error(1)
}
func (m *MockReturnRepo) GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.ProductReturn, error) {
	args := m.Called(ctx, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductReturn), args.Error(1)
}
func (m *MockReturnRepo) Update(ctx context.Context, ret *domain.ProductReturn) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockReturnRepo) CompleteWithRental(ctx context.Context, ret *domain.ProductReturn, productID int32) error {
	args := m.Called(ctx, ret, productID)
	return args.Error(0)
}
func (m *MockReturnRepo) CreateAssessment(ctx context.Context, assessment *domain.DamageAssessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}
func (m *MockReturnRepo) GetAssessmentByReturnID(ctx context.Context, returnID int32) (*domain.DamageAssessment, error) {
	args := m.Called(ctx, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageAssessment), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockDeviceTokenRepo
type MockDeviceTokenRepo struct {
	mock.Mock
}

func (m *MockDeviceTokenRepo) Create(ctx context.Context, token *domain.DeviceToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockDeviceTokenRepo) ListByUser(ctx context.Context, userID int32) ([]domain.DeviceToken, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.DeviceToken), args.Error(1)
}
func (m *MockDeviceTokenRepo) Delete(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalRequestNotification(ctx context.Context, email, name, customerName, productName string) error {
	args := m.Called(ctx, email, name, customerName, productName)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalDecisionNotification(ctx context.Context, email, name, productName string, approved bool) error {
	args := m.Called(ctx, email, name, productName, approved)
	return args.Error(0)
}
func (m *MockEmailService) SendInvoiceEmail(ctx context.Context, email, name, invoiceNumber, productName string, amountCents int32, currency string) error {
	args := m.Called(ctx, email, name, invoiceNumber, productName, amountCents, currency)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnConfirmationNotification(ctx context.Context, email, name, productName string) error {
	args := m.Called(ctx, email, name, productName)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminderNotification(ctx context.Context, email, name, productName string, endDate time.Time) error {
	args := m.Called(ctx, email, name, productName, endDate)
	return args.Error(0)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) Check(ctx context.Context, productID int32, start, end time.Time) (*domain.Availability, error) {
	args := m.Called(ctx, productID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) {
	m.Called(ctx, event)
}

// MockIntentClient
type MockIntentClient struct {
	mock.Mock
}

func (m *MockIntentClient) CreateIntent(ctx context.Context, amountCents int32, currency string, metadata map[string]string) (*payments.Intent, error) {
	args := m.Called(ctx, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}

// MockProducer records published lifecycle events.
type MockProducer struct {
	Events []events.Event
}

func (m *MockProducer) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}
func (m *MockProducer) Close() error { return nil }

package service

import (
	"context"
	"errors"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/events"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/repository"
	"peerrent-backend/internal/utils"
)

// RentalPolicy configures lifecycle behavior that is deployment-specific.
type RentalPolicy struct {
	// RequireOwnerApproval keeps new requests in pending until the owner
	// acts. Off, a request is accepted the moment it is created.
	RequireOwnerApproval bool
}

type rentalService struct {
	rentalRepo   repository.RentalRequestRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	availability AvailabilityService
	dispatcher   NotificationDispatcher
	emailSvc     EmailService
	producer     events.Producer
	policy       RentalPolicy
}

func NewRentalService(
	rentalRepo repository.RentalRequestRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	dispatcher NotificationDispatcher,
	emailSvc EmailService,
	producer events.Producer,
	policy RentalPolicy,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		availability: availability,
		dispatcher:   dispatcher,
		emailSvc:     emailSvc,
		producer:     producer,
		policy:       policy,
	}
}

func (s *rentalService) CreateRequest(ctx context.Context, customerID, productID int32, start, end time.Time, pickupLocation, returnLocation string) (*domain.RentalRequest, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID == customerID {
		return nil, domain.ErrForbidden
	}
	if product.Status != domain.ProductStatusAvailable {
		return nil, domain.ErrConflict
	}

	quote, err := utils.ComputePrice(product.BaseRateCents, start, end, product.RateUnit)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidRange) {
			return nil, domain.NewValidationError("end_date", "must be after start date")
		}
		return nil, domain.NewValidationError("price", err.Error())
	}

	avail, err := s.availability.Check(ctx, productID, start, end)
	if err != nil {
		return nil, err
	}
	if !avail.Available() {
		return nil, domain.ErrConflict
	}

	rt := &domain.RentalRequest{
		ProductID:      productID,
		CustomerID:     customerID,
		OwnerID:        product.OwnerID,
		StartDate:      start,
		EndDate:        end,
		RateUnit:       product.RateUnit,
		BaseRateCents:  product.BaseRateCents,
		PeriodCount:    quote.PeriodCount,
		PriceCents:     quote.PriceCents,
		Currency:       product.Currency,
		Status:         domain.RentalStatusPending,
		PickupLocation: pickupLocation,
		ReturnLocation: returnLocation,
	}
	if !s.policy.RequireOwnerApproval {
		now := time.Now()
		rt.Status = domain.RentalStatusAccepted
		rt.AcceptedOn = &now
	}

	if err := s.rentalRepo.Create(ctx, rt); err != nil {
		return nil, err
	}

	s.notifyNewRequest(ctx, rt, product)
	s.publish("rental_request_created", rt)

	return rt, nil
}

func (s *rentalService) Approve(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if rt.Status != domain.RentalStatusPending {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	rt.Status = domain.RentalStatusAccepted
	rt.AcceptedOn = &now
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, rt, true)
	s.publish("rental_request_approved", rt)

	return rt, nil
}

func (s *rentalService) Reject(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if rt.Status != domain.RentalStatusPending {
		return nil, domain.ErrInvalidState
	}

	rt.Status = domain.RentalStatusRejected
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, rt, false)
	s.publish("rental_request_rejected", rt)

	return rt, nil
}

func (s *rentalService) Cancel(ctx context.Context, customerID, requestID int32) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != customerID {
		return nil, domain.ErrForbidden
	}
	if rt.Status != domain.RentalStatusPending && rt.Status != domain.RentalStatusAccepted {
		return nil, domain.ErrInvalidState
	}

	rt.Status = domain.RentalStatusCancelled
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	s.publish("rental_request_cancelled", rt)

	return rt, nil
}

// Complete closes an active rental directly, for handovers settled
// outside the return workflow. The return confirmation path is the usual
// way a rental completes.
func (s *rentalService) Complete(ctx context.Context, ownerID, requestID int32) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if !rt.Status.IsActive() {
		return nil, domain.ErrInvalidState
	}

	rt.Status = domain.RentalStatusCompleted
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateStatus(ctx, rt.ProductID, domain.ProductStatusAvailable); err != nil {
		logger.ErrorContext(ctx, "failed to free product after completion", "product_id", rt.ProductID, "error", err)
	}

	s.publish("rental_completed", rt)

	return rt, nil
}

func (s *rentalService) Get(ctx context.Context, userID, requestID int32) (*domain.RentalRequest, error) {
	rt, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return rt, nil
}

func (s *rentalService) List(ctx context.Context, userID int32, role, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if role == "owner" {
		return s.rentalRepo.ListByOwner(ctx, userID, status, page, pageSize)
	}
	return s.rentalRepo.ListByCustomer(ctx, userID, status, page, pageSize)
}

func (s *rentalService) notifyNewRequest(ctx context.Context, rt *domain.RentalRequest, product *domain.Product) {
	customer, err := s.userRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load customer for notification", "user_id", rt.CustomerID, "error", err)
		return
	}

	s.dispatcher.Dispatch(ctx, domain.NewRequestEvent(rt.OwnerID, rt, customer.Name, product.Name))

	owner, err := s.userRepo.GetByID(ctx, rt.OwnerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load owner for notification", "user_id", rt.OwnerID, "error", err)
		return
	}
	if err := s.emailSvc.SendRentalRequestNotification(ctx, owner.Email, owner.Name, customer.Name, product.Name); err != nil {
		logger.ErrorContext(ctx, "failed to email rental request notification", "rental_request_id", rt.ID, "error", err)
	}
}

func (s *rentalService) notifyDecision(ctx context.Context, rt *domain.RentalRequest, approved bool) {
	product, err := s.productRepo.GetByID(ctx, rt.ProductID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load product for notification", "product_id", rt.ProductID, "error", err)
		return
	}

	if approved {
		s.dispatcher.Dispatch(ctx, domain.RequestApprovedEvent(rt.CustomerID, rt, product.Name))
	} else {
		s.dispatcher.Dispatch(ctx, domain.RequestRejectedEvent(rt.CustomerID, rt, product.Name))
	}

	customer, err := s.userRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load customer for notification", "user_id", rt.CustomerID, "error", err)
		return
	}
	if err := s.emailSvc.SendRentalDecisionNotification(ctx, customer.Email, customer.Name, product.Name, approved); err != nil {
		logger.ErrorContext(ctx, "failed to email rental decision notification", "rental_request_id", rt.ID, "error", err)
	}
}

func (s *rentalService) publish(eventType string, rt *domain.RentalRequest) {
	s.producer.Publish(events.Event{
		Type:            eventType,
		RentalRequestID: rt.ID,
		ProductID:       rt.ProductID,
		Status:          string(rt.Status),
		OccurredOn:      time.Now(),
	})
}

package service

import (
	"context"
	"errors"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/events"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/repository"
)

type returnService struct {
	returnRepo  repository.ReturnRepository
	rentalRepo  repository.RentalRequestRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	dispatcher  NotificationDispatcher
	emailSvc    EmailService
	producer    events.Producer
}

func NewReturnService(
	returnRepo repository.ReturnRepository,
	rentalRepo repository.RentalRequestRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	dispatcher NotificationDispatcher,
	emailSvc EmailService,
	producer events.Producer,
) ReturnService {
	return &returnService{
		returnRepo:  returnRepo,
		rentalRepo:  rentalRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		emailSvc:    emailSvc,
		producer:    producer,
	}
}

func (s *returnService) Initiate(ctx context.Context, customerID, rentalRequestID int32) (*domain.ProductReturn, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != customerID {
		return nil, domain.ErrForbidden
	}
	if !rt.Status.IsActive() {
		return nil, domain.ErrInvalidState
	}

	ret := &domain.ProductReturn{
		RentalRequestID: rt.ID,
		Status:          domain.ReturnStatusInitiated,
	}
	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}

	s.producer.Publish(events.Event{
		Type:            "return_initiated",
		RentalRequestID: rt.ID,
		ProductID:       rt.ProductID,
		Status:          string(ret.Status),
		OccurredOn:      time.Now(),
	})

	return ret, nil
}

func (s *returnService) Progress(ctx context.Context, ownerID, returnID int32) (*domain.ProductReturn, error) {
	ret, rt, err := s.load(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if !ret.Status.CanTransitionTo(domain.ReturnStatusInProgress) {
		return nil, domain.ErrInvalidState
	}

	ret.Status = domain.ReturnStatusInProgress
	if err := s.returnRepo.Update(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Confirm finishes the return. The completion cascade runs once: the
// rental request completes and the product goes back to available in
// the same transaction as the status change.
func (s *returnService) Confirm(ctx context.Context, ownerID, returnID int32, signature, conditionNotes string) (*domain.ProductReturn, error) {
	ret, rt, err := s.load(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if !ret.Status.CanTransitionTo(domain.ReturnStatusCompleted) {
		return nil, domain.ErrInvalidState
	}

	ret.Signature = signature
	ret.ConditionNotes = conditionNotes
	if err := s.returnRepo.CompleteWithRental(ctx, ret, rt.ProductID); err != nil {
		return nil, err
	}
	rt.Status = domain.RentalStatusCompleted

	s.notifyConfirmed(ctx, rt, ret)
	s.producer.Publish(events.Event{
		Type:            "return_confirmed",
		RentalRequestID: rt.ID,
		ProductID:       rt.ProductID,
		Status:          string(rt.Status),
		OccurredOn:      time.Now(),
	})

	return ret, nil
}

func (s *returnService) RecordDamage(ctx context.Context, ownerID, returnID int32, severity domain.DamageSeverity, description string, photoURLs []string) (*domain.DamageAssessment, error) {
	if !severity.Valid() {
		return nil, domain.NewValidationError("severity", "must be MINOR, MODERATE or SEVERE")
	}

	ret, rt, err := s.load(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if ret.Status != domain.ReturnStatusCompleted {
		return nil, domain.ErrInvalidState
	}

	assessment := &domain.DamageAssessment{
		ProductReturnID: ret.ID,
		Severity:        severity,
		Description:     description,
	}
	for _, url := range photoURLs {
		assessment.Photos = append(assessment.Photos, domain.DamagePhoto{URL: url})
	}

	if err := s.returnRepo.CreateAssessment(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *returnService) Get(ctx context.Context, userID, returnID int32) (*domain.ProductReturn, *domain.DamageAssessment, error) {
	ret, rt, err := s.load(ctx, returnID)
	if err != nil {
		return nil, nil, err
	}
	if rt.CustomerID != userID && rt.OwnerID != userID {
		return nil, nil, domain.ErrForbidden
	}

	assessment, err := s.returnRepo.GetAssessmentByReturnID(ctx, returnID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ret, nil, nil
		}
		return nil, nil, err
	}
	return ret, assessment, nil
}

func (s *returnService) load(ctx context.Context, returnID int32) (*domain.ProductReturn, *domain.RentalRequest, error) {
	ret, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		return nil, nil, err
	}
	rt, err := s.rentalRepo.GetByID(ctx, ret.RentalRequestID)
	if err != nil {
		return nil, nil, err
	}
	return ret, rt, nil
}

func (s *returnService) notifyConfirmed(ctx context.Context, rt *domain.RentalRequest, ret *domain.ProductReturn) {
	product, err := s.productRepo.GetByID(ctx, rt.ProductID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load product for notification", "product_id", rt.ProductID, "error", err)
		return
	}

	s.dispatcher.Dispatch(ctx, domain.ReturnConfirmedEvent(rt.CustomerID, rt, ret, product.Name))

	customer, err := s.userRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load customer for notification", "user_id", rt.CustomerID, "error", err)
		return
	}
	if err := s.emailSvc.SendReturnConfirmationNotification(ctx, customer.Email, customer.Name, product.Name); err != nil {
		logger.ErrorContext(ctx, "failed to email return confirmation", "return_id", ret.ID, "error", err)
	}
}

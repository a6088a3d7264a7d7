package service

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

// AvailabilityPolicy tunes the request-pressure throttle.
type AvailabilityPolicy struct {
	// PendingCap is the pending-request count at which a product is
	// considered saturated.
	PendingCap int32
	// AcceptWindow is how far back an accept still counts as recent
	// owner activity.
	AcceptWindow time.Duration
}

type availabilityService struct {
	rentalRepo  repository.RentalRequestRepository
	productRepo repository.ProductRepository
	policy      AvailabilityPolicy
	now         func() time.Time
}

func NewAvailabilityService(
	rentalRepo repository.RentalRequestRepository,
	productRepo repository.ProductRepository,
	policy AvailabilityPolicy,
) AvailabilityService {
	return &availabilityService{
		rentalRepo:  rentalRepo,
		productRepo: productRepo,
		policy:      policy,
		now:         time.Now,
	}
}

// Check collects active-status overlaps for the half-open range
// [start, end) together with the throttle signal: a product with at
// least PendingCap pending requests and no accept inside the window is
// flagged so new requests can be advised against.
func (s *availabilityService) Check(ctx context.Context, productID int32, start, end time.Time) (*domain.Availability, error) {
	if !start.Before(end) {
		return nil, domain.NewValidationError("end_date", "must be after start date")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	requests, err := s.rentalRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	windowStart := s.now().Add(-s.policy.AcceptWindow)

	avail := &domain.Availability{}
	for _, rt := range requests {
		if rt.Status.IsActive() && rt.Overlaps(start, end) {
			avail.Overlaps = append(avail.Overlaps, rt)
		}
		if rt.Status == domain.RentalStatusPending {
			avail.PendingCount++
		}
		if rt.AcceptedOn != nil && rt.AcceptedOn.After(windowStart) {
			avail.RecentAcceptedCount++
		}
	}

	avail.IsThrottled = avail.PendingCount >= s.policy.PendingCap && avail.RecentAcceptedCount == 0
	return avail, nil
}

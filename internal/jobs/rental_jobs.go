package jobs

import (
	"context"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
)

// ExpireStalePendingRequests cancels pending requests the owner never
// acted on within the policy window.
func (jr *JobRunner) ExpireStalePendingRequests() {
	jr.runWithRecovery("ExpireStalePendingRequests", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-time.Duration(jr.config.Rental.StalePendingHours) * time.Hour)

		stale, err := jr.store.RentalRequestRepository.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending requests", "error", err)
			return
		}

		count := 0
		for i := range stale {
			rt := stale[i]
			rt.Status = domain.RentalStatusCancelled
			if err := jr.store.RentalRequestRepository.Update(ctx, &rt); err != nil {
				logger.Error("Failed to cancel stale request", "rental_request_id", rt.ID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Cancelled stale pending requests", "count", count)
	})
}

// SendReturnReminders notifies customers whose active rentals end within
// the next 24 hours.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		now := time.Now()

		ending, err := jr.store.RentalRequestRepository.ListActiveEndingBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list rentals ending soon", "error", err)
			return
		}

		for i := range ending {
			rt := ending[i]
			product, err := jr.store.ProductRepository.GetByID(ctx, rt.ProductID)
			if err != nil {
				logger.Error("Failed to load product for reminder", "product_id", rt.ProductID, "error", err)
				continue
			}

			jr.services.Dispatcher.Dispatch(ctx, domain.ReturnReminderEvent(rt.CustomerID, &rt, product.Name))

			customer, err := jr.store.UserRepository.GetByID(ctx, rt.CustomerID)
			if err != nil {
				logger.Error("Failed to load customer for reminder", "user_id", rt.CustomerID, "error", err)
				continue
			}
			if err := jr.services.Email.SendReturnReminderNotification(ctx, customer.Email, customer.Name, product.Name, rt.EndDate); err != nil {
				logger.Error("Failed to email return reminder", "rental_request_id", rt.ID, "error", err)
			}
		}
		logger.Info("Sent return reminders", "count", len(ending))
	})
}

// MarkOverdueRentals notifies both parties of active rentals past their
// end date. The rental stays active until the product actually comes
// back through the return workflow.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		overdue, err := jr.store.RentalRequestRepository.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		for i := range overdue {
			rt := overdue[i]
			product, err := jr.store.ProductRepository.GetByID(ctx, rt.ProductID)
			if err != nil {
				logger.Error("Failed to load product for overdue notice", "product_id", rt.ProductID, "error", err)
				continue
			}
			jr.services.Dispatcher.Dispatch(ctx, domain.RentalOverdueEvent(rt.CustomerID, &rt, product.Name))
			jr.services.Dispatcher.Dispatch(ctx, domain.RentalOverdueEvent(rt.OwnerID, &rt, product.Name))
		}
		logger.Info("Flagged overdue rentals", "count", len(overdue))
	})
}

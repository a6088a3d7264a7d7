package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusAccepted  RentalStatus = "ACCEPTED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusPaid      RentalStatus = "PAID"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusRejected  RentalStatus = "REJECTED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
	RentalStatusReturned  RentalStatus = "RETURNED"
)

// ActiveRentalStatuses are the statuses that occupy a product's date range.
// Only requests in one of these states participate in overlap checks.
var ActiveRentalStatuses = []RentalStatus{
	RentalStatusAccepted,
	RentalStatusActive,
	RentalStatusPaid,
}

// IsTerminal reports whether no further transition is legal from s.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusCompleted, RentalStatusRejected, RentalStatusCancelled, RentalStatusReturned:
		return true
	}
	return false
}

// IsActive reports whether s occupies the product for its date range.
func (s RentalStatus) IsActive() bool {
	for _, a := range ActiveRentalStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type RentalRequest struct {
	ID         int32 `json:"id"`
	ProductID  int32 `json:"product_id"`
	CustomerID int32 `json:"customer_id"`
	OwnerID    int32 `json:"owner_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	// Price snapshot fields — captured from the product at request creation time.
	// The payment amount always comes from these, never from the caller.
	RateUnit       RateUnit `json:"rate_unit"`
	BaseRateCents  int32    `json:"base_rate_cents"`
	PeriodCount    int32    `json:"period_count"`
	PriceCents     int32    `json:"price_cents"`
	Currency       string   `json:"currency"`
	Status         RentalStatus `json:"status"`
	PickupLocation string       `json:"pickup_location"`
	ReturnLocation string       `json:"return_location"`
	AcceptedOn     *time.Time   `json:"accepted_on,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// Overlaps reports whether [r.StartDate, r.EndDate) intersects [start, end).
// Half-open intervals: touching endpoints do not overlap.
func (r *RentalRequest) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && start.Before(r.EndDate)
}

// Availability is the result of an availability check for a product and
// date range.
type Availability struct {
	Overlaps            []RentalRequest `json:"overlaps"`
	PendingCount        int32           `json:"pending_count"`
	RecentAcceptedCount int32           `json:"recent_accepted_count"`
	IsThrottled         bool            `json:"is_throttled"`
}

// Available reports whether the requested range is free of active bookings.
func (a *Availability) Available() bool {
	return len(a.Overlaps) == 0
}

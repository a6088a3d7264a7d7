package utils

import (
	"errors"
	"math"
	"time"

	"peerrent-backend/internal/domain"
)

var (
	ErrInvalidRange = errors.New("end date must be after start date")
	ErrInvalidPrice = errors.New("computed price must be positive")
)

// PriceQuote is the result of a rental price computation.
type PriceQuote struct {
	PeriodCount int32
	PriceCents  int32
}

// unitLength returns the billing-period length for a rate unit. Unknown
// units fall back to daily.
func unitLength(unit domain.RateUnit) time.Duration {
	switch unit {
	case domain.RateUnitHour:
		return time.Hour
	case domain.RateUnitDay:
		return 24 * time.Hour
	case domain.RateUnitWeek:
		return 7 * 24 * time.Hour
	case domain.RateUnitMonth:
		return 30 * 24 * time.Hour
	case domain.RateUnitQuarter:
		return 90 * 24 * time.Hour
	case domain.RateUnitYear:
		return 365 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// unitMultiplier converts a per-day base rate into the rate for one billing
// period. Hourly and daily units charge the base rate as-is; longer units
// charge the base rate times the unit's day count.
func unitMultiplier(unit domain.RateUnit) int32 {
	switch unit {
	case domain.RateUnitWeek:
		return 7
	case domain.RateUnitMonth:
		return 30
	case domain.RateUnitQuarter:
		return 90
	case domain.RateUnitYear:
		return 365
	default:
		return 1
	}
}

// ComputePrice derives the billed period count and total price for a rental
// range. The period count is the ceiling of the duration over the unit
// length, so any started period is charged in full. Inputs are the trusted
// server-side product rate and validated dates; caller-supplied amounts are
// never consulted.
func ComputePrice(baseRateCents int32, start, end time.Time, unit domain.RateUnit) (PriceQuote, error) {
	if !start.Before(end) {
		return PriceQuote{}, ErrInvalidRange
	}

	length := unitLength(unit)
	duration := end.Sub(start)

	periods := int32(duration / length)
	if duration%length > 0 {
		periods++
	}

	// Multiply in 64 bits so a large rate on a long range cannot wrap
	// around past the positivity check.
	price := int64(periods) * int64(baseRateCents) * int64(unitMultiplier(unit))
	if periods <= 0 || price <= 0 || price > math.MaxInt32 {
		return PriceQuote{}, ErrInvalidPrice
	}

	return PriceQuote{PeriodCount: periods, PriceCents: int32(price)}, nil
}

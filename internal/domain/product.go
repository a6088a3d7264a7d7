package domain

import "time"

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "AVAILABLE"
	ProductStatusRented    ProductStatus = "RENTED"
)

type RateUnit string

const (
	RateUnitHour    RateUnit = "hour"
	RateUnitDay     RateUnit = "day"
	RateUnitWeek    RateUnit = "week"
	RateUnitMonth   RateUnit = "month"
	RateUnitQuarter RateUnit = "quarter"
	RateUnitYear    RateUnit = "year"
)

type Product struct {
	ID            int32         `json:"id"`
	OwnerID       int32         `json:"owner_id"`
	Owner         *User         `json:"owner,omitempty"` // Populated when fetching product details
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	BaseRateCents int32         `json:"base_rate_cents"`
	Currency      string        `json:"currency"`
	RateUnit      RateUnit      `json:"rate_unit"`
	Status        ProductStatus `json:"status"`
	CreatedOn     time.Time     `json:"created_on"`
	UpdatedOn     time.Time     `json:"updated_on"`
}

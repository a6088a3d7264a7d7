package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type rentalRequestRepository struct {
	db *sql.DB
}

func NewRentalRequestRepository(db *sql.DB) repository.RentalRequestRepository {
	return &rentalRequestRepository{db: db}
}

const rentalColumns = `id, product_id, customer_id, owner_id, start_date, end_date, rate_unit, base_rate_cents, period_count, price_cents, currency, status, pickup_location, return_location, accepted_on, created_on, updated_on`

func scanRental(row interface{ Scan(...interface{}) error }, rt *domain.RentalRequest) error {
	return row.Scan(&rt.ID, &rt.ProductID, &rt.CustomerID, &rt.OwnerID, &rt.StartDate, &rt.EndDate,
		&rt.RateUnit, &rt.BaseRateCents, &rt.PeriodCount, &rt.PriceCents, &rt.Currency, &rt.Status,
		&rt.PickupLocation, &rt.ReturnLocation, &rt.AcceptedOn, &rt.CreatedOn, &rt.UpdatedOn)
}

func (r *rentalRequestRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	query := `INSERT INTO rental_requests (product_id, customer_id, owner_id, start_date, end_date, rate_unit, base_rate_cents, period_count, price_cents, currency, status, pickup_location, return_location, accepted_on, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, rt.ProductID, rt.CustomerID, rt.OwnerID, rt.StartDate, rt.EndDate,
		rt.RateUnit, rt.BaseRateCents, rt.PeriodCount, rt.PriceCents, rt.Currency, rt.Status,
		rt.PickupLocation, rt.ReturnLocation, rt.AcceptedOn, now, now).Scan(&rt.ID)
	if isExclusionViolation(err) {
		// Another active booking holds an overlapping range; the advisory
		// availability check lost the race.
		return domain.ErrConflict
	}
	return err
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	rt := &domain.RentalRequest{}
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE id = $1`
	if err := scanRental(r.db.QueryRowContext(ctx, query, id), rt); err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRequestRepository) Update(ctx context.Context, rt *domain.RentalRequest) error {
	query := `UPDATE rental_requests SET status=$1, pickup_location=$2, return_location=$3, accepted_on=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, rt.Status, rt.PickupLocation, rt.ReturnLocation, rt.AcceptedOn, time.Now(), rt.ID)
	if isExclusionViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *rentalRequestRepository) ListByProduct(ctx context.Context, productID int32) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE product_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRequestRepository) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	return r.listPaged(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *rentalRequestRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	return r.listPaged(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *rentalRequestRepository) listPaged(ctx context.Context, column string, id int32, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE ` + column + ` = $1`
	args := []interface{}{id}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	return rentals, count, err
}

func (r *rentalRequestRepository) ListStalePending(ctx context.Context, before time.Time) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE status = $1 AND created_on < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRequestRepository) ListActiveEndingBetween(ctx context.Context, from, to time.Time) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE status = $1 AND end_date >= $2 AND end_date < $3`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRequestRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE status = $1 AND end_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func collectRentals(rows *sql.Rows) ([]domain.RentalRequest, error) {
	var rentals []domain.RentalRequest
	for rows.Next() {
		var rt domain.RentalRequest
		if err := scanRental(rows, &rt); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

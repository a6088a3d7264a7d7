package postgres

import (
	"context"
	"database/sql"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, rental_request_id, method, amount_cents, currency, status, external_ref, completed_on, created_on, updated_on`

func scanPayment(row interface{ Scan(...interface{}) error }, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.RentalRequestID, &p.Method, &p.AmountCents, &p.Currency, &p.Status,
		&p.ExternalRef, &p.CompletedOn, &p.CreatedOn, &p.UpdatedOn)
}

func (r *paymentRepository) CreateWithInvoice(ctx context.Context, p *domain.Payment, inv *domain.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO payments (rental_request_id, method, amount_cents, currency, status, external_ref, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err = tx.QueryRowContext(ctx, query, p.RentalRequestID, p.Method, p.AmountCents, p.Currency, p.Status, p.ExternalRef, now, now).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePayment
		}
		return err
	}
	p.CreatedOn = now
	p.UpdatedOn = now

	query = `INSERT INTO invoices (rental_request_id, number, status, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRowContext(ctx, query, inv.RentalRequestID, inv.Number, inv.Status, now).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePayment
		}
		return err
	}
	inv.CreatedOn = now

	return tx.Commit()
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *paymentRepository) GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_request_id = $1`
	if err := scanPayment(r.db.QueryRowContext(ctx, query, rentalRequestID), p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id int32, status domain.PaymentStatus) error {
	query := `UPDATE payments SET status=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) ConfirmCompleted(ctx context.Context, paymentID, rentalRequestID, productID int32, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Guard on PENDING so a concurrent confirmation cannot apply the
	// cascade twice.
	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status=$1, completed_on=$2, updated_on=$2 WHERE id=$3 AND status=$4`,
		domain.PaymentStatusCompleted, completedAt, paymentID, domain.PaymentStatusPending)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrInvalidState
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE rental_requests SET status=$1, updated_on=$2 WHERE id=$3 AND status = ANY($4)`,
		domain.RentalStatusActive, completedAt, rentalRequestID,
		statusArray(domain.RentalStatusAccepted, domain.RentalStatusPaid))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrInvalidState
	}

	// The product may already be RENTED if this request holds it; only a
	// different non-terminal holder would be a bug, and the rental guard
	// above already excludes that.
	if _, err = tx.ExecContext(ctx,
		`UPDATE products SET status=$1, updated_on=$2 WHERE id=$3`,
		domain.ProductStatusRented, completedAt, productID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE invoices SET status=$1, paid_on=$2 WHERE rental_request_id=$3 AND status=$4`,
		domain.InvoiceStatusPaid, completedAt, rentalRequestID, domain.InvoiceStatusUnpaid); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *paymentRepository) GetInvoiceByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	query := `SELECT id, rental_request_id, number, status, paid_on, created_on FROM invoices WHERE rental_request_id = $1`
	err := r.db.QueryRowContext(ctx, query, rentalRequestID).Scan(&inv.ID, &inv.RentalRequestID, &inv.Number, &inv.Status, &inv.PaidOn, &inv.CreatedOn)
	if err != nil {
		return nil, notFound(err)
	}
	return inv, nil
}

// statusArray renders a Postgres text array literal for status filters.
func statusArray(statuses ...domain.RentalStatus) string {
	out := "{"
	for i, s := range statuses {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out + "}"
}

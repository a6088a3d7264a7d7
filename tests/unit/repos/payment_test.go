package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository/postgres"
)

var paymentColumns = []string{
	"id", "rental_request_id", "method", "amount_cents", "currency", "status",
	"external_ref", "completed_on", "created_on", "updated_on",
}

func TestPaymentRepository_CreateWithInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("payment and invoice insert in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(500)))
		mock.ExpectQuery("INSERT INTO invoices").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(600)))
		mock.ExpectCommit()

		repo := postgres.NewPaymentRepository(db)
		payment := &domain.Payment{RentalRequestID: 100, Method: domain.PaymentMethodCard, AmountCents: 4500, Currency: "USD", Status: domain.PaymentStatusPending}
		invoice := &domain.Invoice{RentalRequestID: 100, Number: "INV-abc", Status: domain.InvoiceStatusUnpaid}

		require.NoError(t, repo.CreateWithInvoice(ctx, payment, invoice))
		assert.Equal(t, int32(500), payment.ID)
		assert.Equal(t, int32(600), invoice.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate payment rolls back and leaves nothing behind", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		repo := postgres.NewPaymentRepository(db)
		err = repo.CreateWithInvoice(ctx,
			&domain.Payment{RentalRequestID: 100, Status: domain.PaymentStatusPending},
			&domain.Invoice{RentalRequestID: 100, Number: "INV-abc", Status: domain.InvoiceStatusUnpaid})
		assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invoice insert failure rolls back the payment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(500)))
		mock.ExpectQuery("INSERT INTO invoices").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		repo := postgres.NewPaymentRepository(db)
		err = repo.CreateWithInvoice(ctx,
			&domain.Payment{RentalRequestID: 100, Status: domain.PaymentStatusPending},
			&domain.Invoice{RentalRequestID: 100, Number: "INV-abc", Status: domain.InvoiceStatusUnpaid})
		assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentRepository_ConfirmCompleted(t *testing.T) {
	ctx := context.Background()
	completedAt := time.Now()

	t.Run("cascade commits all four updates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE rental_requests SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE products SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE invoices SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := postgres.NewPaymentRepository(db)
		require.NoError(t, repo.ConfirmCompleted(ctx, 500, 100, 10, completedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already settled payment hits the guard", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := postgres.NewPaymentRepository(db)
		err = repo.ConfirmCompleted(ctx, 500, 100, 10, completedAt)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rental outside accepted or paid rolls back the payment update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE rental_requests SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := postgres.NewPaymentRepository(db)
		err = repo.ConfirmCompleted(ctx, 500, 100, 10, completedAt)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM payments WHERE id").
			WithArgs(int32(500)).
			WillReturnRows(sqlmock.NewRows(paymentColumns).AddRow(
				int32(500), int32(100), "CARD", int32(4500), "USD", "PENDING", nil, nil, now, now,
			))

		repo := postgres.NewPaymentRepository(db)
		payment, err := repo.GetByID(ctx, 500)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethodCard, payment.Method)
		assert.Nil(t, payment.ExternalRef)
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM payments WHERE id").
			WithArgs(int32(999)).
			WillReturnRows(sqlmock.NewRows(paymentColumns))

		repo := postgres.NewPaymentRepository(db)
		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPaymentRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("zero rows maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE payments SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := postgres.NewPaymentRepository(db)
		err = repo.UpdateStatus(ctx, 999, domain.PaymentStatusFailed)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

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

var rentalColumns = []string{
	"id", "product_id", "customer_id", "owner_id", "start_date", "end_date",
	"rate_unit", "base_rate_cents", "period_count", "price_cents", "currency", "status",
	"pickup_location", "return_location", "accepted_on", "created_on", "updated_on",
}

func rentalRow(id int32, status domain.RentalStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(rentalColumns).AddRow(
		id, int32(10), int32(2), int32(1), now, now.Add(72*time.Hour),
		"day", int32(1500), int32(3), int32(4500), "USD", status,
		"garage", "garage", nil, now, now,
	)
}

func TestRentalRequestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the returned id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO rental_requests").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(100)))

		repo := postgres.NewRentalRequestRepository(db)
		rt := &domain.RentalRequest{ProductID: 10, CustomerID: 2, OwnerID: 1, Status: domain.RentalStatusPending}
		require.NoError(t, repo.Create(ctx, rt))
		assert.Equal(t, int32(100), rt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("range exclusion maps to conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO rental_requests").
			WillReturnError(&pq.Error{Code: "23P01"})

		repo := postgres.NewRentalRequestRepository(db)
		err = repo.Create(ctx, &domain.RentalRequest{ProductID: 10})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE id").
			WithArgs(int32(100)).
			WillReturnRows(rentalRow(100, domain.RentalStatusPending))

		repo := postgres.NewRentalRequestRepository(db)
		rt, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int32(100), rt.ID)
		assert.Equal(t, domain.RentalStatusPending, rt.Status)
		assert.Equal(t, int32(4500), rt.PriceCents)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE id").
			WithArgs(int32(999)).
			WillReturnRows(sqlmock.NewRows(rentalColumns))

		repo := postgres.NewRentalRequestRepository(db)
		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRequestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE rental_requests SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := postgres.NewRentalRequestRepository(db)
		err = repo.Update(ctx, &domain.RentalRequest{ID: 100, Status: domain.RentalStatusAccepted})
		assert.NoError(t, err)
	})

	t.Run("accepting over a booked range maps to conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE rental_requests SET").
			WillReturnError(&pq.Error{Code: "23P01"})

		repo := postgres.NewRentalRequestRepository(db)
		err = repo.Update(ctx, &domain.RentalRequest{ID: 100, Status: domain.RentalStatusAccepted})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRentalRequestRepository_ListByProduct(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := rentalRow(101, domain.RentalStatusAccepted)
	now := time.Now()
	rows.AddRow(
		int32(102), int32(10), int32(3), int32(1), now, now.Add(24*time.Hour),
		"day", int32(1500), int32(1), int32(1500), "USD", domain.RentalStatusPending,
		"", "", nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE product_id").
		WithArgs(int32(10)).
		WillReturnRows(rows)

	repo := postgres.NewRentalRequestRepository(db)
	rentals, err := repo.ListByProduct(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, int32(101), rentals[0].ID)
	assert.Equal(t, int32(102), rentals[1].ID)
}

func TestRentalRequestRepository_ListByCustomer(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT count").
		WithArgs(int32(2), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(1)))
	mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE customer_id").
		WithArgs(int32(2), "PENDING", int32(20), int32(0)).
		WillReturnRows(rentalRow(100, domain.RentalStatusPending))

	repo := postgres.NewRentalRequestRepository(db)
	rentals, total, err := repo.ListByCustomer(ctx, 2, "PENDING", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, rentals, 1)
	assert.Equal(t, int32(100), rentals[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRequestRepository_ListStalePending(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Now().Add(-72 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE status").
		WithArgs(domain.RentalStatusPending, cutoff).
		WillReturnRows(rentalRow(100, domain.RentalStatusPending))

	repo := postgres.NewRentalRequestRepository(db)
	rentals, err := repo.ListStalePending(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, rentals, 1)
}

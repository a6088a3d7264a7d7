package postgres

import (
	"database/sql"
	"errors"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProductRepository
	repository.RentalRequestRepository
	repository.PaymentRepository
	repository.ReturnRepository
	repository.NotificationRepository
	repository.DeviceTokenRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		ProductRepository:       NewProductRepository(db),
		RentalRequestRepository: NewRentalRequestRepository(db),
		PaymentRepository:       NewPaymentRepository(db),
		ReturnRepository:        NewReturnRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		DeviceTokenRepository:   NewDeviceTokenRepository(db),
	}
}

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}

// notFound translates sql.ErrNoRows into the domain error so callers never
// see driver-level sentinels.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

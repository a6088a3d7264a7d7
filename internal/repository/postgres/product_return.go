package postgres

import (
	"context"
	"database/sql"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type returnRepository struct {
	db *sql.DB
}

func NewReturnRepository(db *sql.DB) repository.ReturnRepository {
	return &returnRepository{db: db}
}

const returnColumns = `id, rental_request_id, status, signature, condition_notes, returned_on, created_on, updated_on`

func scanReturn(row interface{ Scan(...interface{}) error }, ret *domain.ProductReturn) error {
	return row.Scan(&ret.ID, &ret.RentalRequestID, &ret.Status, &ret.Signature, &ret.ConditionNotes,
		&ret.ReturnedOn, &ret.CreatedOn, &ret.UpdatedOn)
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.ProductReturn) error {
	query := `INSERT INTO product_returns (rental_request_id, status, signature, condition_notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, ret.RentalRequestID, ret.Status, ret.Signature, ret.ConditionNotes, now, now).Scan(&ret.ID)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *returnRepository) GetByID(ctx context.Context, id int32) (*domain.ProductReturn, error) {
	ret := &domain.ProductReturn{}
	query := `SELECT ` + returnColumns + ` FROM product_returns WHERE id = $1`
	if err := scanReturn(r.db.QueryRowContext(ctx, query, id), ret); err != nil {
		return nil, notFound(err)
	}
	return ret, nil
}

func (r *returnRepository) GetByRentalRequestID(ctx context.Context, rentalRequestID int32) (*domain.ProductReturn, error) {
	ret := &domain.ProductReturn{}
	query := `SELECT ` + returnColumns + ` FROM product_returns WHERE rental_request_id = $1`
	if err := scanReturn(r.db.QueryRowContext(ctx, query, rentalRequestID), ret); err != nil {
		return nil, notFound(err)
	}
	return ret, nil
}

func (r *returnRepository) Update(ctx context.Context, ret *domain.ProductReturn) error {
	query := `UPDATE product_returns SET status=$1, signature=$2, condition_notes=$3, returned_on=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, ret.Status, ret.Signature, ret.ConditionNotes, ret.ReturnedOn, time.Now(), ret.ID)
	return err
}

func (r *returnRepository) CompleteWithRental(ctx context.Context, ret *domain.ProductReturn, productID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	// Guard on a non-completed status so a second confirmation cannot
	// replay the cascade.
	res, err := tx.ExecContext(ctx,
		`UPDATE product_returns SET status=$1, signature=$2, condition_notes=$3, returned_on=$4, updated_on=$4
		 WHERE id=$5 AND status != $1`,
		domain.ReturnStatusCompleted, ret.Signature, ret.ConditionNotes, now, ret.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrInvalidState
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE rental_requests SET status=$1, updated_on=$2 WHERE id=$3`,
		domain.RentalStatusCompleted, now, ret.RentalRequestID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE products SET status=$1, updated_on=$2 WHERE id=$3`,
		domain.ProductStatusAvailable, now, productID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	ret.Status = domain.ReturnStatusCompleted
	ret.ReturnedOn = &now
	ret.UpdatedOn = now
	return nil
}

func (r *returnRepository) CreateAssessment(ctx context.Context, a *domain.DamageAssessment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO damage_assessments (product_return_id, severity, description, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRowContext(ctx, query, a.ProductReturnID, a.Severity, a.Description, now).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	a.CreatedOn = now

	for i := range a.Photos {
		a.Photos[i].AssessmentID = a.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO damage_photos (assessment_id, url) VALUES ($1, $2) RETURNING id`,
			a.ID, a.Photos[i].URL).Scan(&a.Photos[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *returnRepository) GetAssessmentByReturnID(ctx context.Context, returnID int32) (*domain.DamageAssessment, error) {
	a := &domain.DamageAssessment{}
	query := `SELECT id, product_return_id, severity, description, created_on FROM damage_assessments WHERE product_return_id = $1`
	err := r.db.QueryRowContext(ctx, query, returnID).Scan(&a.ID, &a.ProductReturnID, &a.Severity, &a.Description, &a.CreatedOn)
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, assessment_id, url FROM damage_photos WHERE assessment_id = $1 ORDER BY id`, a.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.DamagePhoto
		if err := rows.Scan(&p.ID, &p.AssessmentID, &p.URL); err != nil {
			return nil, err
		}
		a.Photos = append(a.Photos, p)
	}
	return a, rows.Err()
}

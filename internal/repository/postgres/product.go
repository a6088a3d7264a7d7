package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (owner_id, name, description, base_rate_cents, currency, rate_unit, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, p.OwnerID, p.Name, p.Description, p.BaseRateCents, p.Currency, p.RateUnit, p.Status, now, now).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, owner_id, name, description, base_rate_cents, currency, rate_unit, status, created_on, updated_on
	          FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BaseRateCents, &p.Currency, &p.RateUnit, &p.Status, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=$1, description=$2, base_rate_cents=$3, currency=$4, rate_unit=$5, status=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.BaseRateCents, p.Currency, p.RateUnit, p.Status, time.Now(), p.ID)
	return err
}

func (r *productRepository) UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error {
	query := `UPDATE products SET status=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	return r.list(ctx, `SELECT id, owner_id, name, description, base_rate_cents, currency, rate_unit, status, created_on, updated_on FROM products`,
		`SELECT count(*) FROM products`, nil, page, pageSize)
}

func (r *productRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	return r.list(ctx, `SELECT id, owner_id, name, description, base_rate_cents, currency, rate_unit, status, created_on, updated_on FROM products WHERE owner_id = $1`,
		`SELECT count(*) FROM products WHERE owner_id = $1`, []interface{}{ownerID}, page, pageSize)
}

func (r *productRepository) list(ctx context.Context, query, countQuery string, args []interface{}, page, pageSize int32) ([]domain.Product, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BaseRateCents, &p.Currency, &p.RateUnit, &p.Status, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, count, rows.Err()
}

package service

import (
	"context"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type productService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository) ProductService {
	return &productService{productRepo: productRepo, userRepo: userRepo}
}

func (s *productService) AddProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if product.BaseRateCents <= 0 {
		return domain.NewValidationError("base_rate_cents", "must be positive")
	}
	if product.RateUnit == "" {
		product.RateUnit = domain.RateUnitDay
	}
	if product.Currency == "" {
		product.Currency = "USD"
	}
	product.Status = domain.ProductStatusAvailable
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.userRepo.GetByID(ctx, product.OwnerID); err == nil {
		product.Owner = owner
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID int32, product *domain.Product) error {
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	if product.BaseRateCents <= 0 {
		return domain.NewValidationError("base_rate_cents", "must be positive")
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.BaseRateCents = product.BaseRateCents
	if product.RateUnit != "" {
		existing.RateUnit = product.RateUnit
	}
	if product.Currency != "" {
		existing.Currency = product.Currency
	}
	if err := s.productRepo.Update(ctx, existing); err != nil {
		return err
	}
	*product = *existing
	return nil
}

func (s *productService) ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.productRepo.List(ctx, page, pageSize)
}

func (s *productService) ListMyProducts(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.productRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

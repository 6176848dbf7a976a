package product

import (
	"context"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// Service defines catalog management and browsing.
type Service interface {
	List(ctx context.Context, opts ListOptions) ([]Product, int64, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetFeatured(ctx context.Context, limit int) ([]Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta, expectedVersion int) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Product, int64, error) {
	products, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 8
	}
	featured := true
	products, err := s.repo.List(ctx, ListOptions{
		Featured:   &featured,
		OnlyActive: true,
		Limit:      limit,
	})
	return products, err
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("sku", input.SKU),
	)

	if input.Price.IsNegative() {
		log.Warn("rejected negative price")
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		log.Warn("rejected negative stock")
		return nil, ErrInvalidStock
	}

	p := &Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		ComparePrice:  input.ComparePrice,
		Category:      input.Category,
		Brand:         input.Brand,
		SKU:           input.SKU,
		StockQuantity: input.Stock,
		Images:        input.Images,
		Keywords:      utils.Keywords(input.Name),
		IsFeatured:    input.IsFeatured,
		IsActive:      input.IsActive,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
		p.Keywords = utils.Keywords(*input.Name)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		p.Price = *input.Price
	}
	if input.ComparePrice != nil {
		p.ComparePrice = input.ComparePrice
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Brand != nil {
		p.Brand = input.Brand
	}
	if input.SKU != nil {
		p.SKU = *input.SKU
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.IsFeatured != nil {
		p.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AdjustStock(ctx context.Context, id string, delta, expectedVersion int) (*Product, error) {
	if err := s.repo.AdjustStock(ctx, id, delta, expectedVersion); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

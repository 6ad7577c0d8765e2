package product

import (
	"context"

	"modora-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for the catalog.
type Service interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	Update(ctx context.Context, id string, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	return s.repo.GetList(ctx, opts)
}

func (s *service) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	if params.Name == "" {
		return nil, ErrEmptyName
	}
	if params.Price < 0 {
		return nil, ErrInvalidPrice
	}

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create product",
			zap.String("name", params.Name),
			zap.Error(err),
		)
		return nil, err
	}

	return p, nil
}

func (s *service) Update(ctx context.Context, id string, params UpdateProductParams) (*Product, error) {
	if params.Price != nil && *params.Price < 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

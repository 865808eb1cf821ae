package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wyzar-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, sellerID uint, input NewProduct) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}

	start := time.Now()
	products, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Debug("product list fetched",
		zap.Int("count", len(products)),
		zap.Int32("page", opts.Page),
		zap.Int32("limit", opts.Limit),
		zap.Duration("duration", time.Since(start)),
	)

	return products, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return s.repo.GetByID(ctx, productID)
}

func (s *service) Create(ctx context.Context, sellerID uint, input NewProduct) (*Product, error) {
	if err := validateNewProduct(input); err != nil {
		return nil, err
	}

	p := &Product{
		ID:              uuid.New(),
		SellerID:        sellerID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Images:          input.Images,
		Price:           input.Price,
		Category:        strings.TrimSpace(input.Category),
		Quantity:        input.Quantity,
		DeliveryTime:    input.DeliveryTime,
		CountryOfOrigin: input.CountryOfOrigin,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.Uint("seller_id", sellerID),
		zap.String("name", p.Name),
	)

	return p, nil
}

func validateNewProduct(input NewProduct) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case strings.TrimSpace(input.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	case strings.TrimSpace(input.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	case len(input.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidProduct)
	case input.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	case input.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidProduct)
	}
	return nil
}

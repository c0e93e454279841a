package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/cache"
	"catalog/internal/errors"
	"catalog/internal/model"
	"catalog/internal/repository"
)

const (
	productListCacheKey  = "products:active"
	productCountCacheKey = "products:active:count"
	productCacheTTL      = 5 * time.Minute
)

// ProductInput carries the caller-settable fields for creating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
}

// ProductUpdate carries the caller-settable fields for updating a product.
// The name is the product's identity and cannot be changed.
type ProductUpdate struct {
	Description string
	Price       decimal.Decimal
	CategoryID  uint
}

// ProductService implements the product lifecycle: per name a product is
// absent, active or inactive, and a create request on an inactive name
// revives the existing row instead of inserting a new one.
type ProductService interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]model.Product, error)
	CountActive(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	CreateOrReactivate(ctx context.Context, ident auth.Identity, input ProductInput) (*model.Product, error)
	Update(ctx context.Context, ident auth.Identity, id uint, input ProductUpdate) (*model.Product, error)
	Deactivate(ctx context.Context, ident auth.Identity, id uint) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      *cache.Client
	log        *zap.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, cache *cache.Client, log *zap.Logger) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		cache:      cache,
		log:        log,
	}
}

// ListActive returns all active products, read through the cache.
func (s *productService) ListActive(ctx context.Context) ([]model.Product, error) {
	if data, _ := s.cache.Get(ctx, productListCacheKey); data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if data, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, productListCacheKey, data, productCacheTTL)
	}
	return products, nil
}

// ListByCategory returns the active products of one category.
func (s *productService) ListByCategory(ctx context.Context, categoryID uint) ([]model.Product, error) {
	products, err := s.products.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

// CountActive returns the number of active products, read through the cache.
func (s *productService) CountActive(ctx context.Context) (int64, error) {
	if data, _ := s.cache.Get(ctx, productCountCacheKey); data != nil {
		var cached int64
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	count, err := s.products.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	if data, err := json.Marshal(count); err == nil {
		_ = s.cache.Set(ctx, productCountCacheKey, data, productCacheTTL)
	}
	return count, nil
}

// GetByID returns a product by id. Inactive products are still fetchable.
func (s *productService) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// CreateOrReactivate inserts a product under a previously-unused name, or
// revives the soft-deleted row holding that name. The whole read-check-write
// sequence runs in one transaction; the unique index on name is the backstop
// when two creates race, reported as the same conflict.
func (s *productService) CreateOrReactivate(ctx context.Context, ident auth.Identity, input ProductInput) (*model.Product, error) {
	if input.Price.IsNegative() {
		return nil, errors.ErrInvalidPrice
	}

	var result *model.Product
	err := s.products.WithTransaction(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		category, err := s.categories.FindByID(ctx, input.CategoryID)
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}

		existing, err := repo.FindByName(ctx, input.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find product by name: %w", err)
		}

		if existing != nil {
			if existing.Active {
				return &errors.ConflictError{Resource: "product", Name: input.Name}
			}
			// Revive the soft-deleted row in place so createdBy and
			// createdAt survive.
			existing.Description = input.Description
			existing.Price = input.Price
			existing.CategoryID = category.ID
			existing.Active = true
			existing.UpdatedBy = ident.Username
			if err := repo.Save(ctx, existing); err != nil {
				return fmt.Errorf("reactivate product: %w", err)
			}
			existing.Category = *category
			s.log.Info("product reactivated",
				zap.Uint("id", existing.ID),
				zap.String("name", existing.Name),
				zap.String("by", ident.Username))
			result = existing
			return nil
		}

		product := &model.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			CategoryID:  category.ID,
			Active:      true,
			CreatedBy:   ident.Username,
			UpdatedBy:   ident.Username,
		}
		if err := repo.Create(ctx, product); err != nil {
			if err == gorm.ErrDuplicatedKey {
				return &errors.ConflictError{Resource: "product", Name: input.Name}
			}
			return fmt.Errorf("create product: %w", err)
		}
		product.Category = *category
		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return result, nil
}

// Update changes a product's fields by id. It never touches the active flag
// or the name, and works on inactive rows as well.
func (s *productService) Update(ctx context.Context, ident auth.Identity, id uint, input ProductUpdate) (*model.Product, error) {
	if input.Price.IsNegative() {
		return nil, errors.ErrInvalidPrice
	}

	var result *model.Product
	err := s.products.WithTransaction(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		product, err := repo.FindByID(ctx, id)
		if err == gorm.ErrRecordNotFound {
			return errors.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}

		category, err := s.categories.FindByID(ctx, input.CategoryID)
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}

		product.Description = input.Description
		product.Price = input.Price
		product.CategoryID = category.ID
		product.UpdatedBy = ident.Username
		if err := repo.Save(ctx, product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		product.Category = *category
		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return result, nil
}

// Deactivate soft-deletes a product. Deactivating an already-inactive
// product is an idempotent success.
func (s *productService) Deactivate(ctx context.Context, ident auth.Identity, id uint) error {
	err := s.products.WithTransaction(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		product, err := repo.FindByID(ctx, id)
		if err == gorm.ErrRecordNotFound {
			return errors.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}

		product.Active = false
		product.UpdatedBy = ident.Username
		if err := repo.Save(ctx, product); err != nil {
			return fmt.Errorf("deactivate product: %w", err)
		}

		s.log.Info("product deactivated",
			zap.Uint("id", product.ID),
			zap.String("by", ident.Username))
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *productService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, productListCacheKey, productCountCacheKey)
}

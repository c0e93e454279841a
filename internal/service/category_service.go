package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/cache"
	"catalog/internal/errors"
	"catalog/internal/model"
	"catalog/internal/repository"
)

const (
	categoryListCacheKey = "categories:active"
	categoryCacheTTL     = 5 * time.Minute
)

// CategoryService exposes the read surface for categories plus an admin-only
// create. There is no reactivation path for categories: a duplicate name is
// a conflict regardless of the existing row's active flag.
type CategoryService interface {
	ListActive(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, ident auth.Identity, name, description string) (*model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	cache      *cache.Client
	log        *zap.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, cache *cache.Client, log *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		cache:      cache,
		log:        log,
	}
}

// ListActive returns all active categories, read through the cache.
func (s *categoryService) ListActive(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryListCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if data, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryListCacheKey, data, categoryCacheTTL)
	}
	return categories, nil
}

// Create adds a category, stamping the caller as creator.
func (s *categoryService) Create(ctx context.Context, ident auth.Identity, name, description string) (*model.Category, error) {
	existing, err := s.categories.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, &errors.ConflictError{Resource: "category", Name: name}
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category := &model.Category{
		Name:        name,
		Description: description,
		Active:      true,
		CreatedBy:   ident.Username,
		UpdatedBy:   ident.Username,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, &errors.ConflictError{Resource: "category", Name: name}
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	_ = s.cache.Delete(ctx, categoryListCacheKey)
	s.log.Info("category created", zap.String("name", name), zap.String("by", ident.Username))
	return category, nil
}

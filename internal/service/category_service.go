package service

import (
	"context"
	"strings"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

// CategoryService owns category lifecycle, including the periodic sweep of
// categories that no longer have posts.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns all categories, served cache-aside.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := cache.Aside(ctx, cache.CategoriesListKey, &categories, cache.CategoriesTTL, func() error {
		var fetchErr error
		categories, fetchErr = s.categoryRepo.List(ctx)
		return fetchErr
	})
	return categories, err
}

// CreateCategory creates a category with a unique, non-empty name.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CategoriesListKey)
	return category, nil
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CategoriesListKey)
	return category, nil
}

// DeleteCategory removes a category. Posts referencing it are detached,
// not deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CategoriesListKey)
	return nil
}

// PurgeEmpty deletes every category with zero posts and reports how many
// were removed. It is idempotent: an immediate second run removes nothing.
func (s *CategoryService) PurgeEmpty(ctx context.Context) (int64, error) {
	removed, err := s.categoryRepo.PurgeEmpty(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		cache.Invalidate(ctx, cache.CategoriesListKey)
	}
	return removed, nil
}

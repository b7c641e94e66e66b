package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) GetCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, tenantID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, tenantID)
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *models.Category) error {
	existing, err := s.categoryRepo.GetByID(ctx, category.TenantID, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("category not found")
	}
	return s.categoryRepo.Update(ctx, category)
}

func (s *categoryService) DeleteCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, tenantID, categoryID)
}

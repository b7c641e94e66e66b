package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	GetSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	if supplier.Name == "" {
		return fmt.Errorf("supplier name is required")
	}
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *supplierService) GetSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, tenantID, supplierID)
}

func (s *supplierService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx, tenantID, limit, offset)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	existing, err := s.supplierRepo.GetByID(ctx, supplier.TenantID, supplier.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("supplier not found")
	}
	return s.supplierRepo.Update(ctx, supplier)
}

func (s *supplierService) DeleteSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, tenantID, supplierID)
}

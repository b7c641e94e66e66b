package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type WarehouseService interface {
	CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error
	GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*models.Warehouse, error)
	DefaultWarehouse(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error)
	UpdateWarehouse(ctx context.Context, warehouse *models.Warehouse) error
	DeleteWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
}

type warehouseService struct {
	warehouseRepo repositories.WarehouseRepository
}

func NewWarehouseService(warehouseRepo repositories.WarehouseRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo}
}

func (s *warehouseService) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse.Name == "" {
		return fmt.Errorf("warehouse name is required")
	}
	if warehouse.ID == uuid.Nil {
		warehouse.ID = uuid.New()
	}
	return s.warehouseRepo.Create(ctx, warehouse)
}

func (s *warehouseService) GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*models.Warehouse, error) {
	return s.warehouseRepo.GetByID(ctx, tenantID, warehouseID)
}

func (s *warehouseService) DefaultWarehouse(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.First(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("organization has no warehouse")
	}
	return warehouse, nil
}

func (s *warehouseService) ListWarehouses(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error) {
	return s.warehouseRepo.List(ctx, tenantID)
}

func (s *warehouseService) UpdateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	existing, err := s.warehouseRepo.GetByID(ctx, warehouse.TenantID, warehouse.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("warehouse not found")
	}
	return s.warehouseRepo.Update(ctx, warehouse)
}

func (s *warehouseService) DeleteWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(warehouses) <= 1 {
		return fmt.Errorf("organization must keep at least one warehouse")
	}
	return s.warehouseRepo.Delete(ctx, tenantID, warehouseID)
}

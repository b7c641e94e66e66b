package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockbooks/internal/caching"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

const stockCacheTTL = time.Minute

// StockMovementInput describes a manual stock adjustment. WarehouseID may
// be nil, in which case the tenant's default warehouse is used.
type StockMovementInput struct {
	ItemID      uuid.UUID
	WarehouseID *uuid.UUID
	Quantity    int
	Notes       *string
	BatchNumber *string
	ExpiryDate  *time.Time
}

type LedgerService interface {
	GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int, error)
	AddStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error)
	ReduceStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error)
	AdjustStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error)
	ItemLedger(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error)
}

type ledgerService struct {
	ledgerRepo    repositories.LedgerRepository
	itemRepo      repositories.ItemRepository
	warehouseRepo repositories.WarehouseRepository
	cacheSvc      caching.CacheService
}

func NewLedgerService(
	ledgerRepo repositories.LedgerRepository,
	itemRepo repositories.ItemRepository,
	warehouseRepo repositories.WarehouseRepository,
	cacheSvc caching.CacheService,
) LedgerService {
	return &ledgerService{
		ledgerRepo:    ledgerRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *ledgerService) GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int, error) {
	if cached, ok, err := s.cacheSvc.GetStock(ctx, tenantID, warehouseID, itemID); err == nil && ok {
		return int(cached), nil
	}

	stock, err := s.ledgerRepo.GetStock(ctx, tenantID, warehouseID, itemID)
	if err != nil {
		return 0, err
	}
	if err := s.cacheSvc.SetStock(ctx, tenantID, warehouseID, itemID, int64(stock), stockCacheTTL); err != nil {
		log.Printf("WARN: failed to cache stock level: %v", err)
	}
	return stock, nil
}

func (s *ledgerService) AddStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	entry, err := s.buildEntry(ctx, tenantID, input, models.MovementIn)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateStock(ctx, entry)
	return entry, nil
}

func (s *ledgerService) ReduceStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	entry, err := s.buildEntry(ctx, tenantID, input, models.MovementOut)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.ReduceStock(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateStock(ctx, entry)
	return entry, nil
}

// AdjustStock records a signed correction. Negative adjustments go
// through the guarded reduction so stock can never be driven below zero.
func (s *ledgerService) AdjustStock(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput) (*models.LedgerEntry, error) {
	if input.Quantity == 0 {
		return nil, fmt.Errorf("quantity cannot be zero")
	}
	entry, err := s.buildEntry(ctx, tenantID, input, models.MovementAdjust)
	if err != nil {
		return nil, err
	}

	if entry.Quantity < 0 {
		entry.Quantity = -entry.Quantity
		entry.MovementType = models.MovementAdjust
		if err := s.ledgerRepo.ReduceStock(ctx, entry); err != nil {
			return nil, err
		}
	} else if err := s.ledgerRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateStock(ctx, entry)
	return entry, nil
}

func (s *ledgerService) ItemLedger(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error) {
	return s.ledgerRepo.ListByItem(ctx, tenantID, itemID, limit, offset)
}

func (s *ledgerService) buildEntry(ctx context.Context, tenantID uuid.UUID, input *StockMovementInput, movementType string) (*models.LedgerEntry, error) {
	item, err := s.itemRepo.GetByID(ctx, tenantID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item not found")
	}

	var warehouseID uuid.UUID
	if input.WarehouseID != nil {
		warehouse, err := s.warehouseRepo.GetByID(ctx, tenantID, *input.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, fmt.Errorf("warehouse not found")
		}
		warehouseID = warehouse.ID
	} else {
		warehouse, err := s.warehouseRepo.First(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, fmt.Errorf("organization has no warehouse")
		}
		warehouseID = warehouse.ID
	}

	refType := "manual"
	return &models.LedgerEntry{
		ID:           uuid.New(),
		TenantID:     tenantID,
		WarehouseID:  warehouseID,
		ItemID:       input.ItemID,
		Quantity:     input.Quantity,
		MovementType: movementType,
		RefType:      &refType,
		Notes:        input.Notes,
		BatchNumber:  input.BatchNumber,
		ExpiryDate:   input.ExpiryDate,
	}, nil
}

func (s *ledgerService) invalidateStock(ctx context.Context, entry *models.LedgerEntry) {
	if err := s.cacheSvc.DeleteStock(ctx, entry.TenantID, entry.WarehouseID, entry.ItemID); err != nil {
		log.Printf("WARN: failed to invalidate stock cache: %v", err)
	}
	if err := s.cacheSvc.DeleteDashboard(ctx, entry.TenantID); err != nil {
		log.Printf("WARN: failed to invalidate dashboard cache: %v", err)
	}
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"stockbooks/internal/caching"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

const itemCacheTTL = 5 * time.Minute

type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error)
	SearchItems(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error
	LowStockItems(ctx context.Context, tenantID uuid.UUID) ([]*repositories.LowStockItem, error)
}

type itemService struct {
	itemRepo     repositories.ItemRepository
	categoryRepo repositories.CategoryRepository
	orgRepo      repositories.OrganizationRepository
	sequenceRepo repositories.SequenceRepository
	cacheSvc     caching.CacheService
}

func NewItemService(
	itemRepo repositories.ItemRepository,
	categoryRepo repositories.CategoryRepository,
	orgRepo repositories.OrganizationRepository,
	sequenceRepo repositories.SequenceRepository,
	cacheSvc caching.CacheService,
) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		orgRepo:      orgRepo,
		sequenceRepo: sequenceRepo,
		cacheSvc:     cacheSvc,
	}
}

// CreateItem validates plan limits and assigns a generated SKU when the
// caller did not provide one.
func (s *itemService) CreateItem(ctx context.Context, item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if item.GSTRate == 0 {
		item.GSTRate = 18
	}
	if item.GSTRate < 0 || item.GSTRate > 100 {
		return fmt.Errorf("gst rate must be between 0 and 100")
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}

	org, err := s.orgRepo.GetByID(ctx, item.TenantID)
	if err != nil {
		return err
	}
	if org == nil {
		return fmt.Errorf("organization not found")
	}

	count, err := s.itemRepo.CountByTenant(ctx, item.TenantID)
	if err != nil {
		return err
	}
	if count >= org.ProductLimit {
		return fmt.Errorf("product limit reached for current plan (%d)", org.ProductLimit)
	}

	if item.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, item.TenantID, *item.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("category not found")
		}
	}

	if item.SKU == "" {
		sku, err := s.generateSKU(ctx, item.TenantID, item.Name)
		if err != nil {
			return fmt.Errorf("generate sku: %w", err)
		}
		item.SKU = sku
	} else if existing, err := s.itemRepo.GetBySKU(ctx, item.TenantID, item.SKU); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("sku %q already in use", item.SKU)
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return s.itemRepo.Create(ctx, item)
}

// generateSKU builds "<first 3 letters of name>-<counter>", e.g. a seventh
// item named "Wheel Bearing" becomes WHE-00007.
func (s *itemService) generateSKU(ctx context.Context, tenantID uuid.UUID, name string) (string, error) {
	prefix := skuPrefix(name)
	return s.sequenceRepo.NextFormatted(ctx, tenantID, "sku", prefix)
}

func skuPrefix(name string) string {
	var letters []rune
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "ITM"
	}
	return string(letters)
}

func (s *itemService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error) {
	if cached, err := s.cacheSvc.GetItem(ctx, tenantID, itemID); err == nil && cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil || item == nil {
		return item, err
	}

	if err := s.cacheSvc.SetItem(ctx, tenantID, item, itemCacheTTL); err != nil {
		log.Printf("WARN: failed to cache item %s: %v", itemID, err)
	}
	return item, nil
}

func (s *itemService) SearchItems(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.Item, error) {
	if filter == nil {
		filter = &models.ItemSearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.itemRepo.Search(ctx, tenantID, filter)
}

func (s *itemService) UpdateItem(ctx context.Context, item *models.Item) error {
	existing, err := s.itemRepo.GetByID(ctx, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("item not found")
	}
	if item.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if item.GSTRate < 0 || item.GSTRate > 100 {
		return fmt.Errorf("gst rate must be between 0 and 100")
	}

	if item.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, item.TenantID, *item.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("category not found")
		}
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteItem(ctx, item.TenantID, item.ID); err != nil {
		log.Printf("WARN: failed to invalidate item cache: %v", err)
	}
	return nil
}

func (s *itemService) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	if err := s.itemRepo.SoftDelete(ctx, tenantID, itemID); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteItem(ctx, tenantID, itemID); err != nil {
		log.Printf("WARN: failed to invalidate item cache: %v", err)
	}
	return nil
}

func (s *itemService) LowStockItems(ctx context.Context, tenantID uuid.UUID) ([]*repositories.LowStockItem, error) {
	return s.itemRepo.LowStock(ctx, tenantID)
}

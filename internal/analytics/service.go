package analytics

import (
	"context"
	"log"
	"time"

	"stockbooks/internal/caching"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

const dashboardCacheTTL = 5 * time.Minute

// Service aggregates dashboard KPIs from the order, invoice and ledger
// tables. Results are cached per tenant and invalidated on stock writes.
type Service struct {
	orderRepo   repositories.OrderRepository
	invoiceRepo repositories.InvoiceRepository
	itemRepo    repositories.ItemRepository
	userRepo    repositories.UserRepository
	cacheSvc    caching.CacheService
}

func NewService(
	orderRepo repositories.OrderRepository,
	invoiceRepo repositories.InvoiceRepository,
	itemRepo repositories.ItemRepository,
	userRepo repositories.UserRepository,
	cacheSvc caching.CacheService,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		cacheSvc:    cacheSvc,
	}
}

// SalesmanPerformance is one row of the per-salesman order report.
type SalesmanPerformance struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	OrderCount int       `json:"order_count"`
	OrderValue float64   `json:"order_value"`
}

// Dashboard returns the tenant's KPI block: 30-day order volume and
// value, unpaid invoice total and low-stock count.
func (s *Service) Dashboard(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error) {
	if cached, err := s.cacheSvc.GetDashboard(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	}

	now := time.Now()
	start := now.AddDate(0, 0, -30)

	orderCount, orderValue, err := s.orderRepo.CountByTenantAndDateRange(ctx, tenantID, start, now)
	if err != nil {
		return nil, err
	}

	unpaidTotal, err := s.invoiceRepo.UnpaidTotal(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.itemRepo.LowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	dashboard := map[string]interface{}{
		"orders_last_30_days":      orderCount,
		"order_value_last_30_days": orderValue,
		"unpaid_invoice_total":     unpaidTotal,
		"low_stock_items":          len(lowStock),
		"generated_at":             now.Format(time.RFC3339),
	}

	if err := s.cacheSvc.SetDashboard(ctx, tenantID, dashboard, dashboardCacheTTL); err != nil {
		log.Printf("WARN: failed to cache dashboard: %v", err)
	}
	return dashboard, nil
}

// SalesmanReport joins per-salesman order totals with user names.
func (s *Service) SalesmanReport(ctx context.Context, tenantID uuid.UUID) ([]SalesmanPerformance, error) {
	totals, err := s.orderRepo.SalesmanTotals(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := make([]SalesmanPerformance, 0, len(totals))
	for salesmanID, total := range totals {
		name := ""
		if user, err := s.userRepo.GetByID(ctx, tenantID, salesmanID); err == nil && user != nil {
			name = user.Name
		}
		report = append(report, SalesmanPerformance{
			UserID:     salesmanID,
			Name:       name,
			OrderCount: total.Orders,
			OrderValue: total.Value,
		})
	}
	return report, nil
}

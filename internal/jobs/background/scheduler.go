package background

import (
	"context"
	"log"
	"sync"
	"time"

	"stockbooks/internal/analytics"
	"stockbooks/internal/caching"
	"stockbooks/internal/repositories"
	"stockbooks/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Scheduler owns the recurring maintenance jobs: overdue invoice sweeps,
// low stock alerts and dashboard refreshes.
type Scheduler struct {
	scheduler    gocron.Scheduler
	invoiceSvc   services.InvoiceService
	analyticsSvc *analytics.Service
	cacheSvc     caching.CacheService
	itemRepo     repositories.ItemRepository
	orgRepo      repositories.OrganizationRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewScheduler(
	invoiceSvc services.InvoiceService,
	analyticsSvc *analytics.Service,
	cacheSvc caching.CacheService,
	itemRepo repositories.ItemRepository,
	orgRepo repositories.OrganizationRepository,
) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler:    scheduler,
		invoiceSvc:   invoiceSvc,
		analyticsSvc: analyticsSvc,
		cacheSvc:     cacheSvc,
		itemRepo:     itemRepo,
		orgRepo:      orgRepo,
		jobs:         make(map[string]gocron.Job),
	}
	s.registerJobs()
	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() {
	// Overdue invoice sweep - shortly after midnight every day
	overdueJob, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 30, 0))),
		gocron.NewTask(s.sweepOverdueInvoices),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue invoice job: %v", err)
	} else {
		s.jobs["overdue-invoices"] = overdueJob
	}

	// Low stock alerts - every hour
	lowStockJob, err := s.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.processLowStockAlerts),
		gocron.WithName("low-stock-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		s.jobs["low-stock-alerts"] = lowStockJob
	}

	// Dashboard refresh - every 5 minutes
	dashboardJob, err := s.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(s.refreshDashboards),
		gocron.WithName("dashboard-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard refresh job: %v", err)
	} else {
		s.jobs["dashboard-refresh"] = dashboardJob
	}

	log.Printf("Registered %d background jobs", len(s.jobs))
}

// sweepOverdueInvoices flips pending invoices past their due date to
// overdue, one tenant at a time.
func (s *Scheduler) sweepOverdueInvoices() error {
	ctx := context.Background()
	log.Printf("Starting overdue invoice sweep")

	orgs, err := s.orgRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list organizations for overdue sweep: %v", err)
		return err
	}

	asOf := time.Now()
	var total int64
	for _, org := range orgs {
		marked, err := s.invoiceSvc.MarkOverdueInvoices(ctx, org.ID, asOf)
		if err != nil {
			log.Printf("Failed to mark overdue invoices for tenant %s: %v", org.ID.String(), err)
			continue
		}
		if marked > 0 {
			s.cacheSvc.DeleteDashboard(ctx, org.ID)
		}
		total += marked
	}

	log.Printf("Overdue invoice sweep completed: %d invoices marked across %d tenants", total, len(orgs))
	return nil
}

// processLowStockAlerts logs items that have fallen to or below their
// reorder level.
func (s *Scheduler) processLowStockAlerts() error {
	ctx := context.Background()
	log.Printf("Starting low stock alert processing")

	orgs, err := s.orgRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list organizations for low stock alerts: %v", err)
		return err
	}

	for _, org := range orgs {
		lowStock, err := s.itemRepo.LowStock(ctx, org.ID)
		if err != nil {
			log.Printf("Failed to check low stock for tenant %s: %v", org.ID.String(), err)
			continue
		}
		if len(lowStock) > 0 {
			log.Printf("ALERT: Tenant %s has %d items at or below reorder level", org.Name, len(lowStock))
		}
	}

	log.Printf("Completed low stock alert processing")
	return nil
}

// refreshDashboards rebuilds the cached dashboard for every active tenant
// so interactive loads stay warm. Tenants are processed with a small
// concurrency cap.
func (s *Scheduler) refreshDashboards() error {
	ctx := context.Background()

	orgs, err := s.orgRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list organizations for dashboard refresh: %v", err)
		return err
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, org := range orgs {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := s.cacheSvc.DeleteDashboard(ctx, tenantID); err != nil {
				log.Printf("Failed to invalidate dashboard cache for tenant %s: %v", tenantID.String(), err)
			}
			if _, err := s.analyticsSvc.Dashboard(ctx, tenantID); err != nil {
				log.Printf("Failed to refresh dashboard for tenant %s: %v", tenantID.String(), err)
			}
		}(org.ID)
	}

	wg.Wait()
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"stockbooks/internal/analytics"
	"stockbooks/internal/caching"
	"stockbooks/internal/handlers"
	"stockbooks/internal/jobs/background"
	"stockbooks/internal/middleware"
	"stockbooks/internal/repositories"
	"stockbooks/internal/services"
	"stockbooks/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32, random.Alphanumeric)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	tokenTTL := durationEnv("TOKEN_TTL", 15*time.Minute)
	refreshTTL := durationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	invoiceBucket := os.Getenv("INVOICE_BUCKET")
	if invoiceBucket == "" {
		invoiceBucket = "stockbooks-invoices"
	}
	assetBucket := os.Getenv("ASSET_BUCKET")
	if assetBucket == "" {
		assetBucket = "stockbooks-assets"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	for _, bucket := range []string{invoiceBucket, assetBucket} {
		if err := minioSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
			log.Fatalf("Failed to ensure bucket %s: %v", bucket, err)
		}
	}

	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Repositories
	orgRepo := repositories.NewOrganizationRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	warehouseRepo := repositories.NewWarehouseRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	ledgerRepo := repositories.NewLedgerRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	sequenceRepo := repositories.NewSequenceRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	auditLogRepo := repositories.NewAuditLogRepo(pool)

	// Services
	rbacSvc := services.NewRBACService(roleRepo, userRepo)
	authSvc := services.NewAuthService(userRepo, orgRepo, roleRepo, warehouseRepo, subscriptionRepo, cacheSvc, jwtSecret, tokenTTL, refreshTTL)
	tenantSvc := services.NewTenantService(orgRepo)
	roleSvc := services.NewRoleService(roleRepo)
	teamSvc := services.NewTeamService(userRepo, roleRepo, customerRepo, orgRepo)
	customerSvc := services.NewCustomerService(customerRepo)
	supplierSvc := services.NewSupplierService(supplierRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	warehouseSvc := services.NewWarehouseService(warehouseRepo)
	itemSvc := services.NewItemService(itemRepo, categoryRepo, orgRepo, sequenceRepo, cacheSvc)
	ledgerSvc := services.NewLedgerService(ledgerRepo, itemRepo, warehouseRepo, cacheSvc)
	orderSvc := services.NewOrderService(pool, orderRepo, invoiceRepo, ledgerRepo, itemRepo, customerRepo, warehouseRepo, orgRepo, sequenceRepo, rbacSvc)
	invoiceSvc := services.NewInvoiceService(pool, invoiceRepo, ledgerRepo, itemRepo, customerRepo, warehouseRepo, orgRepo, sequenceRepo, userRepo, rbacSvc, minioSvc, invoiceBucket)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, orgRepo, itemRepo, userRepo)
	auditLogSvc := services.NewAuditLogService(auditLogRepo)
	exportSvc := services.NewExportService(invoiceRepo, orderRepo, rbacSvc)
	analyticsSvc := analytics.NewService(orderRepo, invoiceRepo, itemRepo, userRepo, cacheSvc)

	if err := subscriptionSvc.SeedDefaultPlans(context.Background()); err != nil {
		log.Fatalf("Failed to seed subscription plans: %v", err)
	}

	// Handlers
	healthHandlers := handlers.NewHealthHandlers()
	authHandlers := handlers.NewAuthHandlers(authSvc, teamSvc, minioSvc, assetBucket)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, minioSvc, assetBucket)
	roleHandlers := handlers.NewRoleHandlers(roleSvc)
	teamHandlers := handlers.NewTeamHandlers(teamSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc, rbacSvc, minioSvc, assetBucket)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	warehouseHandlers := handlers.NewWarehouseHandlers(warehouseSvc)
	itemHandlers := handlers.NewItemHandlers(itemSvc, ledgerSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, exportSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, exportSvc)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc)
	reportHandlers := handlers.NewReportHandlers(analyticsSvc, auditLogSvc)

	// Background jobs
	scheduler, err := background.NewScheduler(invoiceSvc, analyticsSvc, cacheSvc, itemRepo, orgRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Health)

	api := e.Group("/api/v1")

	// Public auth routes, rate limited per client
	auth := api.Group("/auth", middleware.RateLimit(cacheSvc, 20, time.Minute))
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))
	protected.Use(middleware.LoadIdentity())
	protected.Use(middleware.AuditMiddleware(auditLogSvc))

	perm := func(p string) echo.MiddlewareFunc {
		return middleware.RequirePermission(rbacSvc, p)
	}

	protected.POST("/auth/logout", authHandlers.Logout)
	protected.GET("/me", authHandlers.Me)
	protected.PUT("/me", authHandlers.UpdateMe)
	protected.POST("/me/avatar", authHandlers.UploadAvatar)
	protected.PUT("/me/password", authHandlers.ChangePassword)

	protected.GET("/organization", tenantHandlers.GetOrganization)
	protected.PUT("/organization", tenantHandlers.UpdateOrganization, perm("organization:manage"))
	protected.POST("/organization/logo", tenantHandlers.UploadLogo, perm("organization:manage"))
	protected.DELETE("/organization", tenantHandlers.DeactivateOrganization, perm("organization:manage"))

	protected.GET("/roles", roleHandlers.ListRoles, perm("team:read"))
	protected.POST("/roles", roleHandlers.CreateRole, perm("team:manage"))
	protected.GET("/roles/:id", roleHandlers.GetRole, perm("team:read"))
	protected.PUT("/roles/:id", roleHandlers.UpdateRole, perm("team:manage"))
	protected.DELETE("/roles/:id", roleHandlers.DeleteRole, perm("team:manage"))

	protected.GET("/team-members", teamHandlers.ListMembers, perm("team:read"))
	protected.POST("/team-members", teamHandlers.CreateMember, perm("team:manage"))
	protected.GET("/team-members/:id", teamHandlers.GetMember, perm("team:read"))
	protected.PUT("/team-members/:id", teamHandlers.UpdateMember, perm("team:manage"))
	protected.PUT("/team-members/:id/customers", teamHandlers.AssignCustomers, perm("team:manage"))
	protected.DELETE("/team-members/:id", teamHandlers.RemoveMember, perm("team:manage"))

	protected.GET("/sales/customers", customerHandlers.ListCustomers, perm("customers:read"))
	protected.POST("/sales/customers", customerHandlers.CreateCustomer, perm("customers:write"))
	protected.GET("/sales/customers/:id", customerHandlers.GetCustomer, perm("customers:read"))
	protected.PUT("/sales/customers/:id", customerHandlers.UpdateCustomer, perm("customers:write"))
	protected.POST("/sales/customers/:id/avatar", customerHandlers.UploadAvatar, perm("customers:write"))
	protected.DELETE("/sales/customers/:id", customerHandlers.DeleteCustomer, perm("customers:write"))

	protected.GET("/suppliers", supplierHandlers.ListSuppliers, perm("suppliers:read"))
	protected.POST("/suppliers", supplierHandlers.CreateSupplier, perm("suppliers:write"))
	protected.GET("/suppliers/:id", supplierHandlers.GetSupplier, perm("suppliers:read"))
	protected.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier, perm("suppliers:write"))
	protected.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier, perm("suppliers:write"))

	protected.GET("/categories", categoryHandlers.ListCategories, perm("items:read"))
	protected.POST("/categories", categoryHandlers.CreateCategory, perm("items:write"))
	protected.GET("/categories/:id", categoryHandlers.GetCategory, perm("items:read"))
	protected.PUT("/categories/:id", categoryHandlers.UpdateCategory, perm("items:write"))
	protected.DELETE("/categories/:id", categoryHandlers.DeleteCategory, perm("items:write"))

	protected.GET("/warehouses", warehouseHandlers.ListWarehouses, perm("warehouses:read"))
	protected.POST("/warehouses", warehouseHandlers.CreateWarehouse, perm("warehouses:write"))
	protected.GET("/warehouses/:id", warehouseHandlers.GetWarehouse, perm("warehouses:read"))
	protected.PUT("/warehouses/:id", warehouseHandlers.UpdateWarehouse, perm("warehouses:write"))
	protected.DELETE("/warehouses/:id", warehouseHandlers.DeleteWarehouse, perm("warehouses:write"))

	protected.GET("/items", itemHandlers.SearchItems, perm("items:read"))
	protected.POST("/items", itemHandlers.CreateItem, perm("items:write"))
	protected.GET("/items/low-stock", itemHandlers.LowStockItems, perm("items:read"))
	protected.GET("/items/:id", itemHandlers.GetItem, perm("items:read"))
	protected.PUT("/items/:id", itemHandlers.UpdateItem, perm("items:write"))
	protected.DELETE("/items/:id", itemHandlers.DeleteItem, perm("items:write"))
	protected.GET("/items/:id/stock", itemHandlers.GetStock, perm("stock:read"))
	protected.POST("/items/:id/stock", itemHandlers.RecordStockMovement, perm("stock:write"))
	protected.GET("/items/:id/ledger", itemHandlers.GetItemLedger, perm("stock:read"))

	protected.GET("/orders", orderHandlers.ListOrders, perm("orders:read"))
	protected.POST("/orders", orderHandlers.CreateOrder, perm("orders:write"))
	protected.GET("/orders/export", orderHandlers.ExportOrders, perm("orders:read"))
	protected.GET("/orders/:id", orderHandlers.GetOrder, perm("orders:read"))
	protected.POST("/orders/:id/approve", orderHandlers.ApproveOrder, perm("orders:approve"))
	protected.POST("/orders/:id/reject", orderHandlers.RejectOrder, perm("orders:approve"))
	protected.DELETE("/orders/:id", orderHandlers.DeleteOrder, perm("orders:write"))

	protected.GET("/sales/invoices", invoiceHandlers.ListInvoices, perm("invoices:read"))
	protected.POST("/sales/invoices", invoiceHandlers.CreateInvoice, perm("invoices:write"))
	protected.GET("/sales/invoices/export", invoiceHandlers.ExportInvoices, perm("invoices:read"))
	protected.GET("/sales/invoices/:id", invoiceHandlers.GetInvoice, perm("invoices:read"))
	protected.PUT("/sales/invoices/:id/paid", invoiceHandlers.MarkPaid, perm("invoices:write"))
	protected.GET("/sales/invoices/:id/pdf", invoiceHandlers.InvoicePDF, perm("invoices:read"))

	protected.GET("/subscription/plans", subscriptionHandlers.ListPlans)
	protected.PUT("/subscription", subscriptionHandlers.ChangePlan, perm("organization:manage"))

	protected.GET("/reports/dashboard", reportHandlers.Dashboard, perm("reports:read"))
	protected.GET("/reports/salesmen", reportHandlers.SalesmanReport, perm("reports:read"))
	protected.GET("/audit-logs", reportHandlers.ListAuditLogs, perm("organization:manage"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("stockbooks server v%s listening on port %s", version, port)
		if err := e.Start(fmt.Sprintf(":%s", port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Stop(); err != nil {
		log.Printf("Failed to stop scheduler: %v", err)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARNING: invalid %s %q, using default %s", name, v, fallback)
		return fallback
	}
	return d
}

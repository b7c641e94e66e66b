package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockbooks/internal/gst"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"
	"stockbooks/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyInvoiced is returned when an approval is retried for an order
// that already produced an invoice.
var ErrAlreadyInvoiced = errors.New("order already has an invoice")

// ErrCustomerOutOfScope is returned when a restricted user touches a
// customer outside their assignment.
var ErrCustomerOutOfScope = errors.New("customer is not assigned to this user")

// OrderLineInput names an item and quantity. Rate is the negotiated
// per-unit price; when absent the catalog price at creation time is
// snapshotted instead.
type OrderLineInput struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Rate     *float64  `json:"rate"`
}

type CreateOrderInput struct {
	CustomerID uuid.UUID
	OrderDate  time.Time
	Lines      []OrderLineInput
}

type OrderService interface {
	CreateOrder(ctx context.Context, tenantID, userID uuid.UUID, input *CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, tenantID, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.Order, error)
	// ApproveOrder runs the approval pipeline in one transaction: invoice
	// creation, stock reduction for every line and the status flip either
	// all commit or all roll back.
	ApproveOrder(ctx context.Context, tenantID, orderID, approverID uuid.UUID) (*models.Invoice, error)
	RejectOrder(ctx context.Context, tenantID, orderID uuid.UUID) error
	DeleteOrder(ctx context.Context, tenantID, orderID uuid.UUID) error
}

type orderService struct {
	db            database.Beginner
	orderRepo     repositories.OrderRepository
	invoiceRepo   repositories.InvoiceRepository
	ledgerRepo    repositories.LedgerRepository
	itemRepo      repositories.ItemRepository
	customerRepo  repositories.CustomerRepository
	warehouseRepo repositories.WarehouseRepository
	orgRepo       repositories.OrganizationRepository
	sequenceRepo  repositories.SequenceRepository
	rbacSvc       RBACService
}

func NewOrderService(
	db database.Beginner,
	orderRepo repositories.OrderRepository,
	invoiceRepo repositories.InvoiceRepository,
	ledgerRepo repositories.LedgerRepository,
	itemRepo repositories.ItemRepository,
	customerRepo repositories.CustomerRepository,
	warehouseRepo repositories.WarehouseRepository,
	orgRepo repositories.OrganizationRepository,
	sequenceRepo repositories.SequenceRepository,
	rbacSvc RBACService,
) OrderService {
	return &orderService{
		db:            db,
		orderRepo:     orderRepo,
		invoiceRepo:   invoiceRepo,
		ledgerRepo:    ledgerRepo,
		itemRepo:      itemRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		orgRepo:       orgRepo,
		sequenceRepo:  sequenceRepo,
		rbacSvc:       rbacSvc,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, tenantID, userID uuid.UUID, input *CreateOrderInput) (*models.Order, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("order must have at least one line")
	}

	customer, err := s.customerRepo.GetByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer not found")
	}

	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if scope != nil && !containsID(scope, input.CustomerID) {
		return nil, ErrCustomerOutOfScope
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	var (
		lines    []models.OrderLine
		subtotal float64
		totalTax float64
	)
	for _, li := range input.Lines {
		if li.Quantity <= 0 {
			return nil, fmt.Errorf("line quantity must be positive")
		}
		item, err := s.itemRepo.GetByID(ctx, tenantID, li.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s not found", li.ItemID)
		}

		rate := item.Price
		if li.Rate != nil {
			if *li.Rate < 0 {
				return nil, fmt.Errorf("line rate cannot be negative")
			}
			rate = *li.Rate
		}

		amount := gst.LineAmount(li.Quantity, rate)
		tax := gst.LineTax(amount, item.GSTRate)
		subtotal = gst.Round2(subtotal + amount)
		totalTax = gst.Round2(totalTax + tax)

		lines = append(lines, models.OrderLine{
			ID:       uuid.New(),
			ItemID:   item.ID,
			ItemName: item.Name,
			Quantity: li.Quantity,
			Unit:     item.Unit,
			Rate:     rate,
			Amount:   amount,
			GSTRate:  item.GSTRate,
		})
	}

	orderNumber, err := s.sequenceRepo.NextFormatted(ctx, tenantID, "order", "ORD")
	if err != nil {
		return nil, fmt.Errorf("allocate order number: %w", err)
	}

	order := &models.Order{
		ID:             uuid.New(),
		TenantID:       tenantID,
		OrderNumber:    orderNumber,
		CustomerID:     input.CustomerID,
		OrderDate:      orderDate,
		Status:         models.ApprovalPending,
		ApprovalStatus: models.ApprovalPending,
		Subtotal:       subtotal,
		TaxAmount:      totalTax,
		GrandTotal:     gst.Round2(subtotal + totalTax),
		Lines:          lines,
	}

	// Restricted creators are recorded as the selling user.
	if scope != nil {
		order.SalesmanID = &userID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, tenantID, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil || order == nil {
		return order, err
	}

	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if scope != nil && !containsID(scope, order.CustomerID) {
		return nil, nil
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.List(ctx, tenantID, scope, limit, offset)
}

func (s *orderService) ApproveOrder(ctx context.Context, tenantID, orderID, approverID uuid.UUID) (*models.Invoice, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}
	if order.InvoiceID != nil {
		return nil, ErrAlreadyInvoiced
	}
	if order.ApprovalStatus != models.ApprovalPending {
		return nil, fmt.Errorf("order is not pending approval")
	}

	customer, err := s.customerRepo.GetByID(ctx, tenantID, order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer not found")
	}

	org, err := s.orgRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization not found")
	}

	warehouse, err := s.warehouseRepo.First(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("organization has no warehouse")
	}

	var invoice *models.Invoice
	err = database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		seq, err := s.sequenceRepo.NextTx(ctx, tx, tenantID, "invoice")
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}

		invoice = invoiceFromOrder(order, org, customer, fmt.Sprintf("INV-%05d", seq))
		if err := s.invoiceRepo.CreateTx(ctx, tx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		refType := "invoice"
		for _, line := range order.Lines {
			entry := &models.LedgerEntry{
				ID:           uuid.New(),
				TenantID:     tenantID,
				WarehouseID:  warehouse.ID,
				ItemID:       line.ItemID,
				Quantity:     line.Quantity,
				MovementType: models.MovementOut,
				RefType:      &refType,
				RefID:        &invoice.ID,
			}
			if err := s.ledgerRepo.ReduceStockTx(ctx, tx, entry); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return fmt.Errorf("%w for %s", repositories.ErrInsufficientStock, line.ItemName)
				}
				return err
			}
		}

		return s.orderRepo.MarkApprovedTx(ctx, tx, tenantID, orderID, approverID, invoice.ID)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *orderService) RejectOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.orderRepo.MarkRejected(ctx, tenantID, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("order not found")
	}
	if order.InvoiceID != nil {
		return fmt.Errorf("invoiced orders cannot be deleted")
	}
	return s.orderRepo.SoftDelete(ctx, tenantID, orderID)
}

// invoiceFromOrder snapshots the order lines into invoice lines and splits
// the tax by GST type. Intra versus inter state is decided by comparing the
// customer's GSTIN state code against the organization's.
func invoiceFromOrder(order *models.Order, org *models.Organization, customer *models.Customer, number string) *models.Invoice {
	var (
		lines    []models.InvoiceLine
		subtotal float64
		totalTax float64
	)
	for _, ol := range order.Lines {
		tax := gst.LineTax(ol.Amount, ol.GSTRate)
		subtotal = gst.Round2(subtotal + ol.Amount)
		totalTax = gst.Round2(totalTax + tax)
		lines = append(lines, models.InvoiceLine{
			ID:        uuid.New(),
			ItemID:    ol.ItemID,
			ItemName:  ol.ItemName,
			Quantity:  ol.Quantity,
			Unit:      ol.Unit,
			Rate:      ol.Rate,
			Amount:    ol.Amount,
			TaxAmount: tax,
		})
	}

	gstType := gstTypeFor(org, customer)
	cgst, sgst, igst := gst.Split(totalTax, gstType == models.GSTTypeIntraState)

	now := time.Now()
	return &models.Invoice{
		ID:            uuid.New(),
		TenantID:      order.TenantID,
		InvoiceNumber: number,
		CustomerID:    order.CustomerID,
		OrderID:       &order.ID,
		IssuedDate:    now,
		DueDate:       now.AddDate(0, 0, 30),
		Status:        "issued",
		PaymentStatus: models.PaymentPending,
		GSTType:       gstType,
		Subtotal:      subtotal,
		CGST:          cgst,
		SGST:          sgst,
		IGST:          igst,
		GrandTotal:    gst.Round2(subtotal + cgst + sgst + igst),
		Lines:         lines,
	}
}

// gstTypeFor compares the first two GSTIN digits (the state code). Unknown
// or missing codes default to intra-state.
func gstTypeFor(org *models.Organization, customer *models.Customer) string {
	if org.StateCode == nil || customer.GSTIN == nil || len(*customer.GSTIN) < 2 {
		return models.GSTTypeIntraState
	}
	if (*customer.GSTIN)[:2] != *org.StateCode {
		return models.GSTTypeInterState
	}
	return models.GSTTypeIntraState
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

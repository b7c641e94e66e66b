package services

import (
	"context"
	"testing"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db            pgxmock.PgxPoolIface
	orderRepo     *MockOrderRepository
	invoiceRepo   *MockInvoiceRepository
	ledgerRepo    *MockLedgerRepository
	itemRepo      *MockItemRepository
	customerRepo  *MockCustomerRepository
	warehouseRepo *MockWarehouseRepository
	orgRepo       *MockOrganizationRepository
	sequenceRepo  *MockSequenceRepository
	rbacSvc       *MockRBACService
	service       OrderService

	tenantID   uuid.UUID
	userID     uuid.UUID
	customerID uuid.UUID
	itemID     uuid.UUID
	ctx        context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.db = db

	suite.orderRepo = &MockOrderRepository{}
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.ledgerRepo = &MockLedgerRepository{}
	suite.itemRepo = &MockItemRepository{}
	suite.customerRepo = &MockCustomerRepository{}
	suite.warehouseRepo = &MockWarehouseRepository{}
	suite.orgRepo = &MockOrganizationRepository{}
	suite.sequenceRepo = &MockSequenceRepository{}
	suite.rbacSvc = &MockRBACService{}

	suite.service = NewOrderService(
		suite.db,
		suite.orderRepo,
		suite.invoiceRepo,
		suite.ledgerRepo,
		suite.itemRepo,
		suite.customerRepo,
		suite.warehouseRepo,
		suite.orgRepo,
		suite.sequenceRepo,
		suite.rbacSvc,
	)

	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.customerID = uuid.New()
	suite.itemID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.db.Close()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) customer() *models.Customer {
	return &models.Customer{
		ID:       suite.customerID,
		TenantID: suite.tenantID,
		Name:     "Sharma Traders",
	}
}

func (suite *OrderServiceTestSuite) item() *models.Item {
	return &models.Item{
		ID:       suite.itemID,
		TenantID: suite.tenantID,
		Name:     "Wheel Bearing",
		SKU:      "WHE-00001",
		Unit:     "pcs",
		Price:    50,
		GSTRate:  18,
	}
}

func (suite *OrderServiceTestSuite) pendingOrder() *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		TenantID:       suite.tenantID,
		OrderNumber:    "ORD-00001",
		CustomerID:     suite.customerID,
		Status:         models.ApprovalPending,
		ApprovalStatus: models.ApprovalPending,
		Subtotal:       350,
		TaxAmount:      63,
		GrandTotal:     413,
		Lines: []models.OrderLine{{
			ID:       uuid.New(),
			ItemID:   suite.itemID,
			ItemName: "Wheel Bearing",
			Quantity: 7,
			Unit:     "pcs",
			Rate:     50,
			Amount:   350,
			GSTRate:  18,
		}},
	}
}

func (suite *OrderServiceTestSuite) TestCreateOrder_SnapshotsPricingAndTotals() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).Return(nil, nil)
	suite.itemRepo.On("GetByID", suite.ctx, suite.tenantID, suite.itemID).Return(suite.item(), nil)
	suite.sequenceRepo.On("NextFormatted", suite.ctx, suite.tenantID, "order", "ORD").Return("ORD-00001", nil)
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
		Lines:      []OrderLineInput{{ItemID: suite.itemID, Quantity: 7}},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ORD-00001", order.OrderNumber)
	assert.Equal(suite.T(), models.ApprovalPending, order.ApprovalStatus)
	assert.Equal(suite.T(), 350.0, order.Subtotal)
	assert.Equal(suite.T(), 63.0, order.TaxAmount)
	assert.Equal(suite.T(), 413.0, order.GrandTotal)
	assert.Len(suite.T(), order.Lines, 1)
	assert.Equal(suite.T(), 50.0, order.Lines[0].Rate)
	assert.Nil(suite.T(), order.SalesmanID)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_NegotiatedRateOverridesCatalog() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).Return(nil, nil)
	suite.itemRepo.On("GetByID", suite.ctx, suite.tenantID, suite.itemID).Return(suite.item(), nil)
	suite.sequenceRepo.On("NextFormatted", suite.ctx, suite.tenantID, "order", "ORD").Return("ORD-00003", nil)
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	rate := 40.0
	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
		Lines:      []OrderLineInput{{ItemID: suite.itemID, Quantity: 7, Rate: &rate}},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 40.0, order.Lines[0].Rate)
	assert.Equal(suite.T(), 280.0, order.Subtotal)
	assert.Equal(suite.T(), 50.4, order.TaxAmount)
	assert.Equal(suite.T(), 330.4, order.GrandTotal)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_NegativeRateRejected() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).Return(nil, nil)
	suite.itemRepo.On("GetByID", suite.ctx, suite.tenantID, suite.itemID).Return(suite.item(), nil)

	rate := -1.0
	_, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
		Lines:      []OrderLineInput{{ItemID: suite.itemID, Quantity: 1, Rate: &rate}},
	})

	assert.Error(suite.T(), err)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_RestrictedUserStampedAsSalesman() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).
		Return([]uuid.UUID{suite.customerID}, nil)
	suite.itemRepo.On("GetByID", suite.ctx, suite.tenantID, suite.itemID).Return(suite.item(), nil)
	suite.sequenceRepo.On("NextFormatted", suite.ctx, suite.tenantID, "order", "ORD").Return("ORD-00002", nil)
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
		Lines:      []OrderLineInput{{ItemID: suite.itemID, Quantity: 1}},
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order.SalesmanID)
	assert.Equal(suite.T(), suite.userID, *order.SalesmanID)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_CustomerOutOfScope() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).
		Return([]uuid.UUID{uuid.New()}, nil)

	_, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
		Lines:      []OrderLineInput{{ItemID: suite.itemID, Quantity: 1}},
	})

	assert.ErrorIs(suite.T(), err, ErrCustomerOutOfScope)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_NoLines() {
	_, err := suite.service.CreateOrder(suite.ctx, suite.tenantID, suite.userID, &CreateOrderInput{
		CustomerID: suite.customerID,
	})
	assert.Error(suite.T(), err)
}

func (suite *OrderServiceTestSuite) TestApproveOrder_GeneratesInvoiceAndReducesStock() {
	order := suite.pendingOrder()
	approverID := uuid.New()
	warehouse := &models.Warehouse{ID: uuid.New(), TenantID: suite.tenantID, Name: "Main Warehouse"}

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.tenantID).Return(&models.Organization{ID: suite.tenantID, Name: "Acme Spares"}, nil)
	suite.warehouseRepo.On("First", suite.ctx, suite.tenantID).Return(warehouse, nil)

	suite.db.ExpectBegin()
	suite.sequenceRepo.On("NextTx", suite.ctx, mock.Anything, suite.tenantID, "invoice").Return(1, nil)
	suite.invoiceRepo.On("CreateTx", suite.ctx, mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.ledgerRepo.On("ReduceStockTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entry *models.LedgerEntry) bool {
		return entry.ItemID == suite.itemID && entry.WarehouseID == warehouse.ID
	})).Return(nil)
	suite.orderRepo.On("MarkApprovedTx", suite.ctx, mock.Anything, suite.tenantID, order.ID, approverID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	suite.db.ExpectCommit()

	invoice, err := suite.service.ApproveOrder(suite.ctx, suite.tenantID, order.ID, approverID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INV-00001", invoice.InvoiceNumber)
	assert.Equal(suite.T(), models.PaymentPending, invoice.PaymentStatus)
	// No state codes on either side defaults to intra-state: tax is halved.
	assert.Equal(suite.T(), models.GSTTypeIntraState, invoice.GSTType)
	assert.Equal(suite.T(), 31.5, invoice.CGST)
	assert.Equal(suite.T(), 31.5, invoice.SGST)
	assert.Equal(suite.T(), 0.0, invoice.IGST)
	assert.Equal(suite.T(), 413.0, invoice.GrandTotal)
	assert.NoError(suite.T(), suite.db.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestApproveOrder_InterStateUsesIGST() {
	order := suite.pendingOrder()
	approverID := uuid.New()
	warehouse := &models.Warehouse{ID: uuid.New(), TenantID: suite.tenantID}

	orgState := "27"
	customerGSTIN := "29ABCDE1234F1Z5"
	customer := suite.customer()
	customer.GSTIN = &customerGSTIN

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(customer, nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.tenantID).
		Return(&models.Organization{ID: suite.tenantID, Name: "Acme Spares", StateCode: &orgState}, nil)
	suite.warehouseRepo.On("First", suite.ctx, suite.tenantID).Return(warehouse, nil)

	suite.db.ExpectBegin()
	suite.sequenceRepo.On("NextTx", suite.ctx, mock.Anything, suite.tenantID, "invoice").Return(2, nil)
	suite.invoiceRepo.On("CreateTx", suite.ctx, mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.ledgerRepo.On("ReduceStockTx", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.orderRepo.On("MarkApprovedTx", suite.ctx, mock.Anything, suite.tenantID, order.ID, approverID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	suite.db.ExpectCommit()

	invoice, err := suite.service.ApproveOrder(suite.ctx, suite.tenantID, order.ID, approverID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.GSTTypeInterState, invoice.GSTType)
	assert.Equal(suite.T(), 0.0, invoice.CGST)
	assert.Equal(suite.T(), 0.0, invoice.SGST)
	assert.Equal(suite.T(), 63.0, invoice.IGST)
}

func (suite *OrderServiceTestSuite) TestApproveOrder_AlreadyInvoiced() {
	order := suite.pendingOrder()
	invoiceID := uuid.New()
	order.InvoiceID = &invoiceID

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)

	_, err := suite.service.ApproveOrder(suite.ctx, suite.tenantID, order.ID, uuid.New())
	assert.ErrorIs(suite.T(), err, ErrAlreadyInvoiced)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestApproveOrder_NotPending() {
	order := suite.pendingOrder()
	order.ApprovalStatus = models.ApprovalRejected

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)

	_, err := suite.service.ApproveOrder(suite.ctx, suite.tenantID, order.ID, uuid.New())
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrAlreadyInvoiced)
}

func (suite *OrderServiceTestSuite) TestApproveOrder_InsufficientStockRollsBack() {
	order := suite.pendingOrder()
	approverID := uuid.New()
	warehouse := &models.Warehouse{ID: uuid.New(), TenantID: suite.tenantID}

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.tenantID, suite.customerID).Return(suite.customer(), nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.tenantID).Return(&models.Organization{ID: suite.tenantID, Name: "Acme Spares"}, nil)
	suite.warehouseRepo.On("First", suite.ctx, suite.tenantID).Return(warehouse, nil)

	suite.db.ExpectBegin()
	suite.sequenceRepo.On("NextTx", suite.ctx, mock.Anything, suite.tenantID, "invoice").Return(3, nil)
	suite.invoiceRepo.On("CreateTx", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.ledgerRepo.On("ReduceStockTx", suite.ctx, mock.Anything, mock.Anything).
		Return(repositories.ErrInsufficientStock)
	suite.db.ExpectRollback()

	_, err := suite.service.ApproveOrder(suite.ctx, suite.tenantID, order.ID, approverID)

	assert.ErrorIs(suite.T(), err, repositories.ErrInsufficientStock)
	assert.Contains(suite.T(), err.Error(), "Wheel Bearing")
	suite.orderRepo.AssertNotCalled(suite.T(), "MarkApprovedTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(suite.T(), suite.db.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestDeleteOrder_InvoicedOrderRefused() {
	order := suite.pendingOrder()
	invoiceID := uuid.New()
	order.InvoiceID = &invoiceID

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)

	err := suite.service.DeleteOrder(suite.ctx, suite.tenantID, order.ID)
	assert.Error(suite.T(), err)
	suite.orderRepo.AssertNotCalled(suite.T(), "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestGetOrder_HiddenOutsideScope() {
	order := suite.pendingOrder()

	suite.orderRepo.On("GetByID", suite.ctx, suite.tenantID, order.ID).Return(order, nil)
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).
		Return([]uuid.UUID{uuid.New()}, nil)

	got, err := suite.service.GetOrder(suite.ctx, suite.tenantID, suite.userID, order.ID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *OrderServiceTestSuite) TestListOrders_PassesScopeThrough() {
	scope := []uuid.UUID{suite.customerID}
	suite.rbacSvc.On("CustomerScope", suite.ctx, suite.tenantID, suite.userID).Return(scope, nil)
	suite.orderRepo.On("List", suite.ctx, suite.tenantID, scope, 50, 0).
		Return([]*models.Order{suite.pendingOrder()}, nil)

	orders, err := suite.service.ListOrders(suite.ctx, suite.tenantID, suite.userID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
}

package repositories

import (
	"context"
	"testing"
	"time"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LedgerRepoTestSuite struct {
	suite.Suite
	mock        pgxmock.PgxPoolIface
	repo        LedgerRepository
	tenantID    uuid.UUID
	warehouseID uuid.UUID
	itemID      uuid.UUID
	ctx         context.Context
}

func (suite *LedgerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewLedgerRepo(mock)
	suite.tenantID = uuid.New()
	suite.warehouseID = uuid.New()
	suite.itemID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *LedgerRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestLedgerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerRepoTestSuite))
}

func (suite *LedgerRepoTestSuite) entry(quantity int, movementType string) *models.LedgerEntry {
	return &models.LedgerEntry{
		ID:           uuid.New(),
		TenantID:     suite.tenantID,
		WarehouseID:  suite.warehouseID,
		ItemID:       suite.itemID,
		Quantity:     quantity,
		MovementType: movementType,
	}
}

func (suite *LedgerRepoTestSuite) TestInsert_Success() {
	entry := suite.entry(25, models.MovementIn)

	suite.mock.ExpectExec(`INSERT INTO stock_ledger`).
		WithArgs(entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
			entry.Quantity, entry.MovementType, entry.RefType, entry.RefID,
			entry.Notes, entry.BatchNumber, entry.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Insert(suite.ctx, entry)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *LedgerRepoTestSuite) TestGetStock_SumsLedger() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\)`).
		WithArgs(suite.tenantID, suite.warehouseID, suite.itemID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(42))

	stock, err := suite.repo.GetStock(suite.ctx, suite.tenantID, suite.warehouseID, suite.itemID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, stock)
}

func (suite *LedgerRepoTestSuite) TestGetStock_EmptyLedgerIsZero() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\)`).
		WithArgs(suite.tenantID, suite.warehouseID, suite.itemID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(0))

	stock, err := suite.repo.GetStock(suite.ctx, suite.tenantID, suite.warehouseID, suite.itemID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, stock)
}

func (suite *LedgerRepoTestSuite) TestReduceStock_Success() {
	entry := suite.entry(10, models.MovementOut)

	// The guard row is written only when the aggregate covers the
	// withdrawal; one row affected means it did.
	suite.mock.ExpectExec(`INSERT INTO stock_ledger`).
		WithArgs(entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
			-10, entry.MovementType, entry.RefType, entry.RefID,
			entry.Notes, entry.BatchNumber, entry.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.ReduceStock(suite.ctx, entry)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), -10, entry.Quantity)
}

func (suite *LedgerRepoTestSuite) TestReduceStock_NegatesPositiveQuantity() {
	entry := suite.entry(7, models.MovementOut)

	suite.mock.ExpectExec(`INSERT INTO stock_ledger`).
		WithArgs(entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
			-7, entry.MovementType, entry.RefType, entry.RefID,
			entry.Notes, entry.BatchNumber, entry.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.ReduceStock(suite.ctx, entry)
	assert.NoError(suite.T(), err)
}

func (suite *LedgerRepoTestSuite) TestReduceStock_InsufficientStock() {
	entry := suite.entry(500, models.MovementOut)

	suite.mock.ExpectExec(`INSERT INTO stock_ledger`).
		WithArgs(entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
			-500, entry.MovementType, entry.RefType, entry.RefID,
			entry.Notes, entry.BatchNumber, entry.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := suite.repo.ReduceStock(suite.ctx, entry)
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
}

func (suite *LedgerRepoTestSuite) TestReduceStockTx_InsufficientStockRollsUp() {
	suite.mock.ExpectBegin()
	tx, err := suite.mock.Begin(suite.ctx)
	assert.NoError(suite.T(), err)

	entry := suite.entry(3, models.MovementOut)

	suite.mock.ExpectExec(`INSERT INTO stock_ledger`).
		WithArgs(entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
			-3, entry.MovementType, entry.RefType, entry.RefID,
			entry.Notes, entry.BatchNumber, entry.ExpiryDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = suite.repo.ReduceStockTx(suite.ctx, tx, entry)
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
}

func (suite *LedgerRepoTestSuite) TestListByItem() {
	entryID := uuid.New()
	rows := pgxmock.NewRows([]string{
		"id", "tenant_id", "warehouse_id", "item_id", "quantity",
		"movement_type", "ref_type", "ref_id", "notes", "batch_number", "expiry_date", "created_at",
	}).AddRow(entryID, suite.tenantID, suite.warehouseID, suite.itemID, -5,
		models.MovementOut, nil, nil, nil, nil, nil, time.Now())

	suite.mock.ExpectQuery(`SELECT .* FROM stock_ledger`).
		WithArgs(suite.tenantID, suite.itemID, 50, 0).
		WillReturnRows(rows)

	entries, err := suite.repo.ListByItem(suite.ctx, suite.tenantID, suite.itemID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), entryID, entries[0].ID)
	assert.Equal(suite.T(), -5, entries[0].Quantity)
}

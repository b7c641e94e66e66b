package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SequenceRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     SequenceRepository
	tenantID uuid.UUID
	ctx      context.Context
}

func (suite *SequenceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSequenceRepo(mock)
	suite.tenantID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *SequenceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestSequenceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SequenceRepoTestSuite))
}

func (suite *SequenceRepoTestSuite) TestNext_FirstValueIsOne() {
	suite.mock.ExpectQuery(`INSERT INTO sequences`).
		WithArgs(suite.tenantID, "order").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(1))

	value, err := suite.repo.Next(suite.ctx, suite.tenantID, "order")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, value)
}

func (suite *SequenceRepoTestSuite) TestNext_Increments() {
	suite.mock.ExpectQuery(`INSERT INTO sequences`).
		WithArgs(suite.tenantID, "invoice").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(8))

	value, err := suite.repo.Next(suite.ctx, suite.tenantID, "invoice")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 8, value)
}

func (suite *SequenceRepoTestSuite) TestNextFormatted_PadsToFiveDigits() {
	suite.mock.ExpectQuery(`INSERT INTO sequences`).
		WithArgs(suite.tenantID, "order").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(7))

	number, err := suite.repo.NextFormatted(suite.ctx, suite.tenantID, "order", "ORD")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ORD-00007", number)
}

func (suite *SequenceRepoTestSuite) TestNextFormatted_WideValues() {
	suite.mock.ExpectQuery(`INSERT INTO sequences`).
		WithArgs(suite.tenantID, "sku").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(123456))

	number, err := suite.repo.NextFormatted(suite.ctx, suite.tenantID, "sku", "WHE")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "WHE-123456", number)
}

func (suite *SequenceRepoTestSuite) TestNextTx_UsesTransaction() {
	suite.mock.ExpectBegin()
	tx, err := suite.mock.Begin(suite.ctx)
	assert.NoError(suite.T(), err)

	suite.mock.ExpectQuery(`INSERT INTO sequences`).
		WithArgs(suite.tenantID, "invoice").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(3))

	value, err := suite.repo.NextTx(suite.ctx, tx, suite.tenantID, "invoice")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, value)
}

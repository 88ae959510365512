package repositories

import (
	"context"
	"testing"
	"time"

	"finance-admin/internal/database"
	"finance-admin/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     TransactionRepositoryInterface
	rent     *models.Concept
	sales    *models.Concept
	provider *models.Provider
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.rent = database.CreateTestConcept(s.T(), s.db, "Renta", models.TransactionTypeExpense)
	s.sales = database.CreateTestConcept(s.T(), s.db, "Ventas", models.TransactionTypeIncome)
	s.provider = database.CreateTestProvider(s.T(), s.db, gofakeit.Company())
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *TransactionRepositorySuite) TestCreateAndGetByID() {
	tx := &models.Transaction{
		Type:        models.TransactionTypeExpense,
		Amount:      decimal.RequireFromString("1500.50"),
		Date:        day(2025, 3, 5),
		ConceptID:   s.rent.ID,
		ProviderID:  &s.provider.ID,
		Description: gofakeit.Sentence(4),
	}

	s.Require().NoError(s.repo.Create(tx))
	s.Equal(models.TransactionStatusPending, tx.Status)

	found, err := s.repo.GetByID(tx.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("1500.50").Equal(found.Amount))
	s.Require().NotNil(found.Concept)
	s.Equal("Renta", found.Concept.Name)
	s.Require().NotNil(found.Provider)
	s.Equal(s.provider.Name, found.Provider.Name)
}

func (s *TransactionRepositorySuite) TestCreate_NegativeAmount() {
	err := s.repo.Create(&models.Transaction{
		Type:      models.TransactionTypeExpense,
		Amount:    decimal.NewFromInt(-1),
		Date:      day(2025, 3, 5),
		ConceptID: s.rent.ID,
	})
	s.ErrorIs(err, models.ErrInvalidAmount)
}

func (s *TransactionRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestGetWithFilters() {
	database.CreateTestTransaction(s.T(), s.db, s.rent, s.provider, "1000", day(2025, 1, 10))
	database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "1000", day(2025, 2, 10))
	database.CreateTestTransaction(s.T(), s.db, s.sales, nil, "5000", day(2025, 2, 15))

	start := day(2025, 2, 1)
	end := day(2025, 2, 28)

	testCases := []struct {
		name     string
		filters  models.TransactionFilters
		expected int64
	}{
		{"all", models.TransactionFilters{Limit: 10}, 3},
		{"by type", models.TransactionFilters{Type: models.TransactionTypeIncome, Limit: 10}, 1},
		{"by concept", models.TransactionFilters{ConceptID: &s.rent.ID, Limit: 10}, 2},
		{"by provider", models.TransactionFilters{ProviderID: &s.provider.ID, Limit: 10}, 1},
		{"by date range", models.TransactionFilters{StartDate: &start, EndDate: &end, Limit: 10}, 2},
		{"by status", models.TransactionFilters{Status: models.TransactionStatusPaid, Limit: 10}, 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			txs, total, err := s.repo.GetWithFilters(tc.filters)
			s.NoError(err)
			s.Equal(tc.expected, total)
			s.Len(txs, int(tc.expected))
		})
	}
}

func (s *TransactionRepositorySuite) TestGetWithFilters_Cursor() {
	first := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "100", day(2025, 3, 3))
	second := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "200", day(2025, 3, 2))
	third := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "300", day(2025, 3, 1))

	page, total, err := s.repo.GetWithFilters(models.TransactionFilters{Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(page, 2)
	s.Equal(first.ID, page[0].ID)
	s.Equal(second.ID, page[1].ID)

	cursorDate := page[1].Date
	next, total, err := s.repo.GetWithFilters(models.TransactionFilters{
		Limit:      2,
		CursorDate: &cursorDate,
		CursorID:   page[1].ID,
	})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(next, 1)
	s.Equal(third.ID, next[0].ID)
}

func (s *TransactionRepositorySuite) TestUpdate() {
	tx := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "100", day(2025, 3, 3))

	tx.Amount = decimal.RequireFromString("150.25")
	tx.Description = "Corrección"
	tx.ProviderID = &s.provider.ID
	s.Require().NoError(s.repo.Update(tx))

	found, err := s.repo.GetByID(tx.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("150.25").Equal(found.Amount))
	s.Equal("Corrección", found.Description)
	s.Require().NotNil(found.ProviderID)
	s.Equal(s.provider.ID, *found.ProviderID)
}

func (s *TransactionRepositorySuite) TestUpdateStatus() {
	tx := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "100", day(2025, 3, 3))

	s.Require().NoError(s.repo.UpdateStatus(tx.ID, models.TransactionStatusPaid))

	found, err := s.repo.GetByID(tx.ID)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusPaid, found.Status)

	s.ErrorIs(s.repo.UpdateStatus(uuid.New(), models.TransactionStatusPaid), ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestDelete() {
	tx := database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "100", day(2025, 3, 3))

	s.Require().NoError(s.repo.Delete(tx.ID))
	s.ErrorIs(s.repo.Delete(tx.ID), ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestImportBatch() {
	newProvider := models.Provider{ID: uuid.New(), Name: "Papelería Central"}
	txs := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(300), Date: day(2025, 4, 1), ConceptID: s.rent.ID, ProviderID: &newProvider.ID},
		{Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(900), Date: day(2025, 4, 2), ConceptID: s.sales.ID},
	}

	s.Require().NoError(s.repo.ImportBatch([]models.Provider{newProvider}, txs))

	_, total, err := s.repo.GetWithFilters(models.TransactionFilters{Limit: 10})
	s.NoError(err)
	s.Equal(int64(2), total)
}

func (s *TransactionRepositorySuite) TestImportBatch_RollsBackOnInvalidRow() {
	txs := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(300), Date: day(2025, 4, 1), ConceptID: s.rent.ID},
		{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(-1), Date: day(2025, 4, 1), ConceptID: s.rent.ID},
	}

	err := s.repo.ImportBatch([]models.Provider{{Name: "Nuevo"}}, txs)
	s.Error(err)

	_, total, err := s.repo.GetWithFilters(models.TransactionFilters{Limit: 10})
	s.NoError(err)
	s.Equal(int64(0), total)

	_, providerTotal, err := NewProviderRepository(s.db.DB).List("Nuevo", 0, 10)
	s.NoError(err)
	s.Equal(int64(0), providerTotal)
}

func (s *TransactionRepositorySuite) TestListRecent() {
	for i := 1; i <= 5; i++ {
		database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "10", day(2025, 1, i))
	}

	txs, err := s.repo.ListRecent(context.Background(), 3)
	s.Require().NoError(err)
	s.Require().Len(txs, 3)
	s.Equal(5, txs[0].Date.Day())
	s.Equal(3, txs[2].Date.Day())
}

func (s *TransactionRepositorySuite) TestGetByDateRange() {
	database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "10", day(2025, 1, 1))
	database.CreateTestTransaction(s.T(), s.db, s.rent, nil, "10", day(2025, 2, 1))
	database.CreateTestTransaction(s.T(), s.db, s.sales, nil, "10", day(2025, 3, 1))

	start := day(2025, 2, 1)
	txs, err := s.repo.GetByDateRange(context.Background(), &start, nil)
	s.Require().NoError(err)
	s.Len(txs, 2)
	s.Require().NotNil(txs[0].Concept)
	s.Equal("Renta", txs[0].Concept.Name)

	all, err := s.repo.GetByDateRange(context.Background(), nil, nil)
	s.Require().NoError(err)
	s.Len(all, 3)
}

package repositories

import (
	"context"
	"testing"
	"time"

	"finance-admin/internal/database"
	"finance-admin/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ConceptRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo ConceptRepositoryInterface
}

func TestConceptRepositorySuite(t *testing.T) {
	suite.Run(t, new(ConceptRepositorySuite))
}

func (s *ConceptRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewConceptRepository(s.db.DB)
}

func (s *ConceptRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *ConceptRepositorySuite) TestCreateAndGet() {
	concept := &models.Concept{Name: "Renta", Type: models.TransactionTypeExpense}

	s.Require().NoError(s.repo.Create(concept))
	s.NotEqual(uuid.Nil, concept.ID)

	found, err := s.repo.GetByID(concept.ID)
	s.Require().NoError(err)
	s.Equal("Renta", found.Name)
	s.Equal(models.TransactionTypeExpense, found.Type)
}

func (s *ConceptRepositorySuite) TestCreate_Invalid() {
	err := s.repo.Create(&models.Concept{Name: "Renta", Type: "transfer"})
	s.ErrorIs(err, models.ErrInvalidConceptType)
}

func (s *ConceptRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrConceptNotFound)
}

func (s *ConceptRepositorySuite) TestList_ByType() {
	database.CreateTestConcept(s.T(), s.db, "Renta", models.TransactionTypeExpense)
	database.CreateTestConcept(s.T(), s.db, "Nómina", models.TransactionTypeExpense)
	database.CreateTestConcept(s.T(), s.db, "Ventas", models.TransactionTypeIncome)

	concepts, total, err := s.repo.List(models.TransactionTypeExpense, 0, 10)
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(concepts, 2)

	all, err := s.repo.ListAll(context.Background())
	s.NoError(err)
	s.Len(all, 3)
}

func (s *ConceptRepositorySuite) TestUpdate() {
	concept := database.CreateTestConcept(s.T(), s.db, "Renta", models.TransactionTypeExpense)

	concept.Name = "Renta oficina"
	s.Require().NoError(s.repo.Update(concept))

	found, err := s.repo.GetByID(concept.ID)
	s.Require().NoError(err)
	s.Equal("Renta oficina", found.Name)
}

func (s *ConceptRepositorySuite) TestUpdate_NotFound() {
	err := s.repo.Update(&models.Concept{ID: uuid.New(), Name: "x", Type: models.TransactionTypeIncome})
	s.ErrorIs(err, ErrConceptNotFound)
}

func (s *ConceptRepositorySuite) TestDelete() {
	concept := database.CreateTestConcept(s.T(), s.db, "Renta", models.TransactionTypeExpense)

	s.Require().NoError(s.repo.Delete(concept.ID))

	_, err := s.repo.GetByID(concept.ID)
	s.ErrorIs(err, ErrConceptNotFound)
}

func (s *ConceptRepositorySuite) TestDelete_InUse() {
	concept := database.CreateTestConcept(s.T(), s.db, "Renta", models.TransactionTypeExpense)
	database.CreateTestTransaction(s.T(), s.db, concept, nil, "1500.00", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	err := s.repo.Delete(concept.ID)
	s.ErrorIs(err, ErrConceptInUse)
}

func (s *ConceptRepositorySuite) TestDelete_NotFound() {
	err := s.repo.Delete(uuid.New())
	s.ErrorIs(err, ErrConceptNotFound)
}

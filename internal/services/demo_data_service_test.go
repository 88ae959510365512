package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"finance-admin/internal/models"
	"finance-admin/internal/repositories/repository_mocks"
	"finance-admin/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type DemoDataServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	conceptRepo     *repository_mocks.MockConceptRepositoryInterface
	providerRepo    *repository_mocks.MockProviderRepositoryInterface
	auditService    *service_mocks.MockAuditServiceInterface
	metrics         *service_mocks.MockMetricsRecorderInterface
	service         *demoDataService

	ctx   context.Context
	today time.Time
}

func TestDemoDataServiceSuite(t *testing.T) {
	suite.Run(t, new(DemoDataServiceTestSuite))
}

func (s *DemoDataServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.conceptRepo = repository_mocks.NewMockConceptRepositoryInterface(s.ctrl)
	s.providerRepo = repository_mocks.NewMockProviderRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)

	s.ctx = context.Background()
	s.today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s.service = NewDemoDataService(s.transactionRepo, s.conceptRepo, s.providerRepo, s.auditService, s.metrics).(*demoDataService)
	s.service.now = func() time.Time { return s.today.Add(15 * time.Hour) }
	s.service.rng = rand.New(rand.NewSource(42))
}

func (s *DemoDataServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func catalogProviderCount() int {
	seen := map[string]bool{}
	for _, dc := range demoCatalog {
		for _, p := range dc.providers {
			seen[p] = true
		}
	}
	return len(seen)
}

func catalogMonthlyRows() int {
	rows := 0
	for _, dc := range demoCatalog {
		rows += dc.perMonth
	}
	return rows
}

func (s *DemoDataServiceTestSuite) TestSeed_EmptyDatabase() {
	created := map[uuid.UUID]models.Concept{}
	s.conceptRepo.EXPECT().ListAll(s.ctx).Return(nil, nil)
	s.conceptRepo.EXPECT().Create(gomock.Any()).Times(len(demoCatalog)).DoAndReturn(func(c *models.Concept) error {
		c.ID = uuid.New()
		created[c.ID] = *c
		return nil
	})
	s.providerRepo.EXPECT().ListAll(s.ctx).Return(nil, nil)

	s.transactionRepo.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(providers []models.Provider, transactions []models.Transaction) error {
			s.Len(providers, catalogProviderCount())
			providerIDs := map[uuid.UUID]bool{}
			for _, p := range providers {
				providerIDs[p.ID] = true
			}

			s.Len(transactions, 3*catalogMonthlyRows())
			windowStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			for _, tx := range transactions {
				concept, ok := created[tx.ConceptID]
				s.Require().True(ok, "transaction must reference a seeded concept")
				s.Equal(concept.Type, tx.Type)
				s.True(tx.Amount.IsPositive())
				s.False(tx.Date.Before(windowStart))
				s.False(tx.Date.After(s.today), "no movement after today")
				if tx.ProviderID != nil {
					s.True(providerIDs[*tx.ProviderID])
				}
				if tx.Date.Month() < time.March {
					s.Equal(models.TransactionStatusPaid, tx.Status)
				} else {
					s.True(models.IsValidTransactionStatus(tx.Status))
				}
			}
			return nil
		})

	s.auditService.EXPECT().Record(models.RequestActor{}, models.AuditActionImport, models.AuditResourceTransaction, "", gomock.Any()).
		Do(func(_ models.RequestActor, _, _, _ string, metadata map[string]interface{}) {
			s.Equal("demo", metadata["source"])
			s.Equal(len(demoCatalog), metadata["created_concepts"])
		})
	s.metrics.EXPECT().IncrementCounter(MetricImportCompleted, map[string]string{"status": "demo"})

	result, err := s.service.Seed(s.ctx, 3, models.RequestActor{})

	s.Require().NoError(err)
	s.Equal(3, result.Months)
	s.Equal(len(demoCatalog), result.ConceptsCreated)
	s.Equal(catalogProviderCount(), result.ProvidersCreated)
	s.Equal(3*catalogMonthlyRows(), result.TransactionsCreated)
}

func (s *DemoDataServiceTestSuite) TestSeed_ReusesExistingCatalog() {
	concepts := make([]models.Concept, 0, len(demoCatalog))
	for _, dc := range demoCatalog {
		// stored names may differ in case and padding
		concepts = append(concepts, models.Concept{ID: uuid.New(), Name: " " + dc.name, Type: dc.txType})
	}
	providers := []models.Provider{{ID: uuid.New(), Name: "cfe"}, {ID: uuid.New(), Name: "Telmex"}}

	s.conceptRepo.EXPECT().ListAll(s.ctx).Return(concepts, nil)
	s.providerRepo.EXPECT().ListAll(s.ctx).Return(providers, nil)
	s.transactionRepo.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(newProviders []models.Provider, _ []models.Transaction) error {
			s.Len(newProviders, catalogProviderCount()-2)
			for _, p := range newProviders {
				s.NotEqual("CFE", p.Name)
				s.NotEqual("Telmex", p.Name)
			}
			return nil
		})
	s.auditService.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any())

	result, err := s.service.Seed(s.ctx, 1, models.RequestActor{})

	s.Require().NoError(err)
	s.Zero(result.ConceptsCreated)
	s.Equal(catalogProviderCount()-2, result.ProvidersCreated)
}

func (s *DemoDataServiceTestSuite) TestSeed_InvalidMonths() {
	for _, months := range []int{0, -1, MaxDemoMonths + 1} {
		_, err := s.service.Seed(s.ctx, months, models.RequestActor{})
		s.ErrorIs(err, ErrInvalidDemoMonths)
	}
}

func (s *DemoDataServiceTestSuite) TestSeed_BatchFailure() {
	s.conceptRepo.EXPECT().ListAll(s.ctx).Return(nil, nil)
	s.conceptRepo.EXPECT().Create(gomock.Any()).Return(nil).AnyTimes()
	s.providerRepo.EXPECT().ListAll(s.ctx).Return(nil, nil)
	s.transactionRepo.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.service.Seed(s.ctx, 2, models.RequestActor{})

	s.Error(err)
	s.Contains(err.Error(), "disk full")
}

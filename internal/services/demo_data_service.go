package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultDemoMonths = 6
	MaxDemoMonths     = 24
)

var ErrInvalidDemoMonths = fmt.Errorf("months must be between 1 and %d", MaxDemoMonths)

// demoConcept describes how often and how much a concept moves per month
type demoConcept struct {
	name      string
	txType    string
	minAmount float64
	maxAmount float64
	perMonth  int
	providers []string
}

var demoCatalog = []demoConcept{
	{"Ventas", models.TransactionTypeIncome, 8000, 45000, 6, []string{"Comercializadora del Bajío", "Grupo Industrial Norte", "Distribuidora Occidente"}},
	{"Servicios profesionales", models.TransactionTypeIncome, 3000, 15000, 2, []string{"Consultoría Pérez y Asociados"}},
	{"Renta", models.TransactionTypeExpense, 15000, 15000, 1, []string{"Inmobiliaria del Sur"}},
	{"Nómina", models.TransactionTypeExpense, 28000, 32000, 2, nil},
	{"Luz", models.TransactionTypeExpense, 1200, 3500, 1, []string{"CFE"}},
	{"Internet", models.TransactionTypeExpense, 799, 799, 1, []string{"Telmex"}},
	{"Insumos", models.TransactionTypeExpense, 300, 6000, 5, []string{"Papelería Lozano", "Office Depot", "Costco"}},
	{"Mantenimiento", models.TransactionTypeExpense, 500, 8000, 1, []string{"Servicios Técnicos Ruiz"}},
}

// demoDataService fills an empty installation with plausible movements so the
// reports and the chatbot have something to work with
type demoDataService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	conceptRepo     repositories.ConceptRepositoryInterface
	providerRepo    repositories.ProviderRepositoryInterface
	auditService    AuditServiceInterface
	metrics         MetricsRecorderInterface
	now             func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemoDataService creates the demo data seeder
func NewDemoDataService(
	transactionRepo repositories.TransactionRepositoryInterface,
	conceptRepo repositories.ConceptRepositoryInterface,
	providerRepo repositories.ProviderRepositoryInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
) DemoDataServiceInterface {
	return &demoDataService{
		transactionRepo: transactionRepo,
		conceptRepo:     conceptRepo,
		providerRepo:    providerRepo,
		auditService:    auditService,
		metrics:         metrics,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed generates months of movements ending today. Concepts and providers
// that already exist by name are reused.
func (s *demoDataService) Seed(ctx context.Context, months int, actor models.RequestActor) (*dto.DemoSeedResult, error) {
	if months < 1 || months > MaxDemoMonths {
		return nil, ErrInvalidDemoMonths
	}

	concepts, conceptsCreated, err := s.ensureConcepts(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.providerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	providers := make(map[string]models.Provider, len(existing))
	for _, p := range existing {
		providers[nameKey(p.Name)] = p
	}

	var newProviders []models.Provider
	for _, dc := range demoCatalog {
		for _, name := range dc.providers {
			if _, ok := providers[nameKey(name)]; ok {
				continue
			}
			p := models.Provider{ID: uuid.New(), Name: name}
			providers[nameKey(name)] = p
			newProviders = append(newProviders, p)
		}
	}

	transactions := s.generate(months, concepts, providers)
	if err := s.transactionRepo.ImportBatch(newProviders, transactions); err != nil {
		return nil, fmt.Errorf("failed to insert demo transactions: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionImport, models.AuditResourceTransaction, "",
		map[string]interface{}{
			"rows":              len(transactions),
			"created_providers": len(newProviders),
			"created_concepts":  conceptsCreated,
			"source":            "demo",
		})
	s.metrics.IncrementCounter(MetricImportCompleted, map[string]string{"status": "demo"})

	return &dto.DemoSeedResult{
		Months:              months,
		ConceptsCreated:     conceptsCreated,
		ProvidersCreated:    len(newProviders),
		TransactionsCreated: len(transactions),
	}, nil
}

// ensureConcepts returns the catalog concepts keyed by name and type, creating missing ones
func (s *demoDataService) ensureConcepts(ctx context.Context) (map[string]models.Concept, int, error) {
	existing, err := s.conceptRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load concepts: %w", err)
	}

	concepts := make(map[string]models.Concept, len(existing))
	for _, c := range existing {
		concepts[conceptKey(c.Name, c.Type)] = c
	}

	created := 0
	for _, dc := range demoCatalog {
		key := conceptKey(dc.name, dc.txType)
		if _, ok := concepts[key]; ok {
			continue
		}
		concept := &models.Concept{Name: dc.name, Type: dc.txType}
		if err := s.conceptRepo.Create(concept); err != nil {
			return nil, 0, fmt.Errorf("failed to create concept %q: %w", dc.name, err)
		}
		concepts[key] = *concept
		created++
	}

	return concepts, created, nil
}

func conceptKey(name, txType string) string {
	return txType + ":" + nameKey(name)
}

// generate lays out the catalog over the window. Past months are settled;
// the current month mixes every status and stops at today.
func (s *demoDataService) generate(months int, concepts map[string]models.Concept, providers map[string]models.Provider) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := startOfDay(s.now().UTC())
	currentMonth := startOfMonth(today)

	transactions := make([]models.Transaction, 0)
	for m := months - 1; m >= 0; m-- {
		month := currentMonth.AddDate(0, -m, 0)
		lastDay := month.AddDate(0, 1, -1).Day()
		if m == 0 {
			lastDay = today.Day()
		}

		for _, dc := range demoCatalog {
			concept := concepts[conceptKey(dc.name, dc.txType)]
			for i := 0; i < dc.perMonth; i++ {
				tx := models.Transaction{
					ID:        uuid.New(),
					Type:      dc.txType,
					Amount:    s.amount(dc.minAmount, dc.maxAmount),
					Date:      month.AddDate(0, 0, s.rng.Intn(lastDay)),
					ConceptID: concept.ID,
					Status:    models.TransactionStatusPaid,
				}
				if m == 0 {
					tx.Status = s.currentStatus()
				}
				if len(dc.providers) > 0 {
					p := providers[nameKey(dc.providers[s.rng.Intn(len(dc.providers))])]
					tx.ProviderID = &p.ID
				}
				transactions = append(transactions, tx)
			}
		}
	}

	return transactions
}

func (s *demoDataService) amount(minValue, maxValue float64) decimal.Decimal {
	amount := minValue + s.rng.Float64()*(maxValue-minValue)
	return decimal.NewFromFloat(amount).Round(2)
}

// currentStatus draws 50% paid, 20% partial, 30% pending
func (s *demoDataService) currentStatus() string {
	roll := s.rng.Float64()
	if roll < 0.50 {
		return models.TransactionStatusPaid
	}
	if roll < 0.70 {
		return models.TransactionStatusPartial
	}
	return models.TransactionStatusPending
}


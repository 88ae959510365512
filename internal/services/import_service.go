package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrImportInvalidFile = errors.New("file is not a readable CSV")
	ErrImportEmptyFile   = errors.New("file contains no data rows")
)

const (
	colDate        = "date"
	colType        = "type"
	colAmount      = "amount"
	colConcept     = "concept"
	colProvider    = "provider"
	colStatus      = "status"
	colDescription = "description"
)

var requiredImportColumns = []string{colDate, colType, colAmount, colConcept}

// importService implements ImportServiceInterface
type importService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	conceptRepo     repositories.ConceptRepositoryInterface
	providerRepo    repositories.ProviderRepositoryInterface
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
}

// NewImportService creates the CSV import service
func NewImportService(
	transactionRepo repositories.TransactionRepositoryInterface,
	conceptRepo repositories.ConceptRepositoryInterface,
	providerRepo repositories.ProviderRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) ImportServiceInterface {
	return &importService{
		transactionRepo: transactionRepo,
		conceptRepo:     conceptRepo,
		providerRepo:    providerRepo,
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
	}
}

// importCatalog resolves concept and provider names of one upload.
// Providers unknown so far are created once per distinct name.
type importCatalog struct {
	concepts     map[string][]models.Concept
	providers    map[string]models.Provider
	newProviders []models.Provider
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newImportCatalog(concepts []models.Concept, providers []models.Provider) *importCatalog {
	c := &importCatalog{
		concepts:  make(map[string][]models.Concept, len(concepts)),
		providers: make(map[string]models.Provider, len(providers)),
	}
	for _, concept := range concepts {
		key := nameKey(concept.Name)
		c.concepts[key] = append(c.concepts[key], concept)
	}
	for _, provider := range providers {
		c.providers[nameKey(provider.Name)] = provider
	}
	return c
}

func (c *importCatalog) concept(name, txType string) (models.Concept, error) {
	candidates, ok := c.concepts[nameKey(name)]
	if !ok {
		return models.Concept{}, fmt.Errorf("concept %q does not exist", strings.TrimSpace(name))
	}
	for _, concept := range candidates {
		if concept.Type == txType {
			return concept, nil
		}
	}
	return models.Concept{}, fmt.Errorf("concept %q is not an %s concept", strings.TrimSpace(name), txType)
}

// provider returns a known provider or a new one that is not yet committed
func (c *importCatalog) provider(name string) (models.Provider, bool) {
	p, ok := c.providers[nameKey(name)]
	return p, !ok
}

func (c *importCatalog) addProvider(p models.Provider) {
	c.providers[nameKey(p.Name)] = p
	c.newProviders = append(c.newProviders, p)
}

// ImportCSV validates every row before writing anything. Rows are inserted in
// one database transaction only when all of them are valid and dryRun is false.
func (s *importService) ImportCSV(ctx context.Context, r io.Reader, dryRun bool, actor models.RequestActor) (*dto.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrImportEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrImportInvalidFile, err)
	}

	colIndex := buildImportColumnIndex(header)
	for _, col := range requiredImportColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrImportInvalidFile, col)
		}
	}

	concepts, err := s.conceptRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	providers, err := s.providerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	catalog := newImportCatalog(concepts, providers)

	result := &dto.ImportResult{DryRun: dryRun}
	var transactions []models.Transaction

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.TotalRows++
				result.Errors = append(result.Errors, dto.ImportRowError{Row: parseErr.StartLine, Errors: []string{parseErr.Err.Error()}, RawLine: record})
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrImportInvalidFile, err)
		}
		if isBlankRecord(record) {
			continue
		}
		// physical line where the record starts; quoted fields may span lines
		line, _ := reader.FieldPos(0)

		result.TotalRows++
		transaction, rowErrs := s.parseRow(record, colIndex, catalog)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: line, Errors: rowErrs, RawLine: record})
			continue
		}
		transactions = append(transactions, transaction)
	}

	if result.TotalRows == 0 {
		return nil, ErrImportEmptyFile
	}

	result.ValidRows = len(transactions)
	for _, p := range catalog.newProviders {
		result.CreatedProviders = append(result.CreatedProviders, p.Name)
	}

	s.metrics.RecordGauge(MetricImportRows, float64(result.ValidRows), map[string]string{"status": "valid"})
	s.metrics.RecordGauge(MetricImportRows, float64(len(result.Errors)), map[string]string{"status": "invalid"})

	switch {
	case result.HasErrors():
		s.metrics.IncrementCounter(MetricImportCompleted, map[string]string{"status": "rejected"})
	case dryRun:
		s.metrics.IncrementCounter(MetricImportCompleted, map[string]string{"status": "dry_run"})
	default:
		if err := s.transactionRepo.ImportBatch(catalog.newProviders, transactions); err != nil {
			return nil, fmt.Errorf("failed to import transactions: %w", err)
		}
		result.ImportedRows = len(transactions)

		s.auditService.Record(actor, models.AuditActionImport, models.AuditResourceTransaction, "",
			map[string]interface{}{
				"rows":              result.ImportedRows,
				"created_providers": len(result.CreatedProviders),
			})
		s.metrics.IncrementCounter(MetricImportCompleted, map[string]string{"status": "imported"})
	}

	s.auditLogger.LogImportCompleted(ctx, result)
	return result, nil
}

// parseRow validates one record and collects every problem found in it
func (s *importService) parseRow(record []string, colIndex map[string]int, catalog *importCatalog) (models.Transaction, []string) {
	var errs []string
	field := func(col string) string {
		i, ok := colIndex[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	transaction := models.Transaction{ID: uuid.New()}

	date, err := models.ParseDateValue(field(colDate))
	if err != nil {
		errs = append(errs, fmt.Sprintf("date: %v", err))
	} else {
		transaction.Date = date.Time()
	}

	transaction.Type = strings.ToLower(field(colType))
	if !models.IsValidTransactionType(transaction.Type) {
		errs = append(errs, fmt.Sprintf("type: %q must be income or expense", field(colType)))
	}

	amount, err := parseImportAmount(field(colAmount))
	if err != nil {
		errs = append(errs, fmt.Sprintf("amount: %v", err))
	} else {
		transaction.Amount = amount
	}

	transaction.Status = strings.ToLower(field(colStatus))
	if transaction.Status == "" {
		transaction.Status = models.TransactionStatusPending
	}
	if !models.IsValidTransactionStatus(transaction.Status) {
		errs = append(errs, fmt.Sprintf("status: %q must be pending, partial or paid", field(colStatus)))
	}

	transaction.Description = field(colDescription)
	if len(transaction.Description) > 500 {
		errs = append(errs, "description: must be at most 500 characters")
	}

	conceptName := field(colConcept)
	if conceptName == "" {
		errs = append(errs, "concept: is required")
	} else if models.IsValidTransactionType(transaction.Type) {
		concept, err := catalog.concept(conceptName, transaction.Type)
		if err != nil {
			errs = append(errs, fmt.Sprintf("concept: %v", err))
		} else {
			transaction.ConceptID = concept.ID
		}
	}

	providerName := field(colProvider)
	if len([]rune(providerName)) > 150 {
		errs = append(errs, "provider: must be at most 150 characters")
	}

	if len(errs) > 0 {
		return models.Transaction{}, errs
	}

	if providerName != "" {
		provider, isNew := catalog.provider(providerName)
		if isNew {
			provider = models.Provider{ID: uuid.New(), Name: providerName}
			catalog.addProvider(provider)
		}
		transaction.ProviderID = &provider.ID
	}

	return transaction, nil
}

func buildImportColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, exists := colIndex[name]; !exists {
			colIndex[name] = i
		}
	}
	return colIndex
}

// parseImportAmount accepts "1234.5", "1,234.50" and "$1,234.50"
func parseImportAmount(raw string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "$"), ",", "")
	if clean == "" {
		return decimal.Zero, errors.New("is required")
	}

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, errors.New("must have at most 2 decimal places")
	}
	return amount, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

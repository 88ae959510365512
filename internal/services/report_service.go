package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-admin/internal/models"
	"finance-admin/internal/repositories"
)

var ErrInvalidBucket = errors.New("bucket must be day, week or month")

// reportService implements ReportServiceInterface
type reportService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	now             func() time.Time
}

// NewReportService creates the summary report service
func NewReportService(transactionRepo repositories.TransactionRepositoryInterface, metrics MetricsRecorderInterface) ReportServiceInterface {
	return &reportService{
		transactionRepo: transactionRepo,
		metrics:         metrics,
		now:             time.Now,
	}
}

// GetSummary aggregates the transactions dated within [startDate, endDate].
// Both bounds are optional; bucket defaults to month.
func (s *reportService) GetSummary(ctx context.Context, startDate, endDate *time.Time, bucket string) (*models.FinancialReport, error) {
	start := time.Now()

	if bucket == "" {
		bucket = BucketMonth
	}
	if bucket != BucketDay && bucket != BucketWeek && bucket != BucketMonth {
		return nil, ErrInvalidBucket
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, ErrInvalidDateRange
	}

	transactions, err := s.transactionRepo.GetByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for report: %w", err)
	}

	details := ResolveTransactionDetails(transactions, nil, nil)

	report := &models.FinancialReport{
		StartDate:   startDate,
		EndDate:     endDate,
		Bucket:      bucket,
		Metrics:     CalculateMetrics(details),
		ByConcept:   ConsolidateGroups(GroupByConcept(details)),
		ByProvider:  ConsolidateGroups(GroupByProvider(details)),
		Periods:     BucketBy(bucket, details),
		GeneratedAt: s.now().UTC(),
	}

	s.metrics.RecordProcessingTime(MetricReportGenerated, time.Since(start))
	return report, nil
}

package services

import (
	"context"
	"log/slog"
	"time"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID stores the request's trace ID for structured log events
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogQuestionAnalyzed(ctx context.Context, analysis models.QuestionAnalysis, rowsRead int) {
	al.logger.InfoContext(ctx, "question analyzed",
		slog.String("event_type", "question_analyzed"),
		slog.String("timeframe", string(analysis.Timeframe.Kind)),
		slog.String("volume_tier", analysis.VolumeTier.Name),
		slog.Int("row_limit", analysis.VolumeTier.Limit),
		slog.Int("rows_read", rowsRead),
		slog.String("chart_type", string(analysis.ChartType)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogAIRequestFailed(ctx context.Context, reason string, err error, durationMs int64) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	al.logger.WarnContext(ctx, "ai request failed",
		slog.String("event_type", "ai_request_failed"),
		slog.String("reason", reason),
		slog.String("error", errMsg),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogFallbackUsed(ctx context.Context, reason string) {
	al.logger.InfoContext(ctx, "fallback answer used",
		slog.String("event_type", "fallback_used"),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogImportCompleted(ctx context.Context, result *dto.ImportResult) {
	if result == nil {
		return
	}
	al.logger.InfoContext(ctx, "csv import completed",
		slog.String("event_type", "import_completed"),
		slog.Bool("dry_run", result.DryRun),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("valid_rows", result.ValidRows),
		slog.Int("imported_rows", result.ImportedRows),
		slog.Int("invalid_rows", len(result.Errors)),
		slog.Int("created_providers", len(result.CreatedProviders)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogStatusTransition(ctx context.Context, transactionID uuid.UUID, oldStatus, newStatus string) {
	al.logger.InfoContext(ctx, "transaction status change",
		slog.String("event_type", "transaction_status_change"),
		slog.String("transaction_id", transactionID.String()),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

// CorrelationID returns the trace ID stored by WithCorrelationID, or ""
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(correlationIDKey).(string); ok {
		return correlationID
	}

	return ""
}

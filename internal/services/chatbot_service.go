package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"

	"golang.org/x/sync/errgroup"
)

var ErrEmptyQuestion = errors.New("question is required")

// Fallback reasons, also used as metric labels
const (
	fallbackNotConfigured   = "not_configured"
	fallbackCircuitOpen     = "circuit_open"
	fallbackTimeout         = "timeout"
	fallbackNetworkError    = "network_error"
	fallbackInvalidResponse = "invalid_response"
)

type ChatbotService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	conceptRepo     repositories.ConceptRepositoryInterface
	providerRepo    repositories.ProviderRepositoryInterface
	generator       TextGeneratorInterface
	breaker         CircuitBreakerInterface
	promptBuilder   *PromptBuilder
	metrics         MetricsRecorderInterface
	auditLogger     AuditLoggerInterface
	aiTimeout       time.Duration
	readTimeout     time.Duration
	now             func() time.Time
}

// NewChatbotService wires the question pipeline. generator may be nil, in
// which case every answer comes from the fallback responder.
func NewChatbotService(
	transactionRepo repositories.TransactionRepositoryInterface,
	conceptRepo repositories.ConceptRepositoryInterface,
	providerRepo repositories.ProviderRepositoryInterface,
	generator TextGeneratorInterface,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	auditLogger AuditLoggerInterface,
	aiCfg config.AIConfig,
	chatCfg config.ChatbotConfig,
) ChatbotServiceInterface {
	return &ChatbotService{
		transactionRepo: transactionRepo,
		conceptRepo:     conceptRepo,
		providerRepo:    providerRepo,
		generator:       generator,
		breaker:         breaker,
		promptBuilder:   NewPromptBuilder(chatCfg.CurrencyLabel),
		metrics:         metrics,
		auditLogger:     auditLogger,
		aiTimeout:       aiCfg.Timeout,
		readTimeout:     chatCfg.ReadTimeout,
		now:             time.Now,
	}
}

// Ask answers a question about the stored transactions. Data read failures
// are returned as errors; any text generation failure degrades to a template
// answer with the same locally computed data.
func (s *ChatbotService) Ask(ctx context.Context, question string) (*dto.ChatbotResponse, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	analysis := AnalyzeQuestion(question, s.now())

	snapshot, err := s.loadSnapshot(ctx, analysis.VolumeTier)
	if err != nil {
		return nil, err
	}
	s.auditLogger.LogQuestionAnalyzed(ctx, analysis, len(snapshot.Transactions))

	view := ConsolidateView(FilterView(snapshot, analysis))

	data := &dto.ChatbotData{
		Metrics:     view.Metrics,
		Percentages: BuildPercentages(analysis, view),
		ByConcept:   view.ByConcept,
		ByProvider:  view.ByProvider,
		Period:      view.PeriodLabel,
		Analysis:    analysis,
	}

	answer, aiResp, reason := s.generate(ctx, question, analysis, view)
	if aiResp != nil {
		data.Source = dto.AnswerSourceAI
		data.Chart = SelectChart(aiResp.ChartSpec(), analysis, view)
		data.Insights = aiResp.Insights()
	} else {
		s.auditLogger.LogFallbackUsed(ctx, reason)
		answer = FallbackAnswer(question, analysis, view)
		data.Source = dto.AnswerSourceFallback
		data.Chart = SelectChart(nil, analysis, view)
	}

	s.metrics.IncrementCounter(MetricChatbotRequest, map[string]string{"source": data.Source})
	s.metrics.RecordProcessingTime(MetricChatbotRequest, time.Since(start))

	return &dto.ChatbotResponse{
		Success:  true,
		Response: answer,
		Data:     data,
	}, nil
}

// loadSnapshot reads transactions, concepts and providers concurrently
func (s *ChatbotService) loadSnapshot(ctx context.Context, tier models.VolumeTier) (models.FinancialSnapshot, error) {
	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
		defer cancel()
	}

	var (
		transactions []models.Transaction
		concepts     []models.Concept
		providers    []models.Provider
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if transactions, err = s.transactionRepo.ListRecent(gctx, tier.Limit); err != nil {
			return fmt.Errorf("failed to read transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if concepts, err = s.conceptRepo.ListAll(gctx); err != nil {
			return fmt.Errorf("failed to read concepts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if providers, err = s.providerRepo.ListAll(gctx); err != nil {
			return fmt.Errorf("failed to read providers: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.FinancialSnapshot{}, err
	}

	return BuildSnapshot(transactions, concepts, providers), nil
}

// generate makes a single text generation attempt. It returns the parsed
// response, or nil and the reason the fallback has to be used.
func (s *ChatbotService) generate(ctx context.Context, question string, analysis models.QuestionAnalysis, view models.FilteredFinancialView) (string, *AIResponse, string) {
	if s.generator == nil {
		return "", nil, fallbackNotConfigured
	}
	if s.breaker != nil && s.breaker.IsOpen() {
		return "", nil, fallbackCircuitOpen
	}

	prompt := s.promptBuilder.Build(question, analysis, view)

	aiCtx := ctx
	if s.aiTimeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.generator.Generate(aiCtx, prompt)
	s.metrics.RecordProcessingTime(MetricAIRequest, time.Since(started))
	if err != nil {
		reason := fallbackNetworkError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(aiCtx.Err(), context.DeadlineExceeded) {
			reason = fallbackTimeout
		}
		s.recordAIFailure(ctx, reason, err, started)
		return "", nil, reason
	}

	parsed, err := ParseAIResponse(raw)
	if err != nil {
		s.recordAIFailure(ctx, fallbackInvalidResponse, err, started)
		return "", nil, fallbackInvalidResponse
	}

	if s.breaker != nil {
		s.breaker.RecordSuccess()
	}
	return parsed.Response, parsed, ""
}

func (s *ChatbotService) recordAIFailure(ctx context.Context, reason string, err error, started time.Time) {
	if s.breaker != nil {
		s.breaker.RecordFailure()
	}
	s.metrics.IncrementCounter(MetricAIRequestFailed, map[string]string{"reason": reason})
	s.auditLogger.LogAIRequestFailed(ctx, reason, err, time.Since(started).Milliseconds())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories/repository_mocks"
	"finance-admin/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ChatbotServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	conceptRepo     *repository_mocks.MockConceptRepositoryInterface
	providerRepo    *repository_mocks.MockProviderRepositoryInterface
	generator       *service_mocks.MockTextGeneratorInterface
	breaker         *service_mocks.MockCircuitBreakerInterface
	metrics         *service_mocks.MockMetricsRecorderInterface
	auditLogger     *service_mocks.MockAuditLoggerInterface
	service         *ChatbotService
	ctx             context.Context

	concepts     []models.Concept
	providers    []models.Provider
	transactions []models.Transaction
}

func TestChatbotServiceSuite(t *testing.T) {
	suite.Run(t, new(ChatbotServiceTestSuite))
}

func (s *ChatbotServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.conceptRepo = repository_mocks.NewMockConceptRepositoryInterface(s.ctrl)
	s.providerRepo = repository_mocks.NewMockProviderRepositoryInterface(s.ctrl)
	s.generator = service_mocks.NewMockTextGeneratorInterface(s.ctrl)
	s.breaker = service_mocks.NewMockCircuitBreakerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.ctx = WithCorrelationID(context.Background(), "trace-123")

	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordProcessingTime(gomock.Any(), gomock.Any()).AnyTimes()
	s.auditLogger.EXPECT().LogQuestionAnalyzed(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.service = s.newService(s.generator)
	s.seedData()
}

func (s *ChatbotServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ChatbotServiceTestSuite) newService(generator TextGeneratorInterface) *ChatbotService {
	svc := NewChatbotService(
		s.transactionRepo, s.conceptRepo, s.providerRepo,
		generator, s.breaker, s.metrics, s.auditLogger,
		config.AIConfig{Timeout: 5 * time.Second},
		config.ChatbotConfig{ReadTimeout: 5 * time.Second, CurrencyLabel: "MXN"},
	).(*ChatbotService)
	svc.now = func() time.Time { return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func (s *ChatbotServiceTestSuite) seedData() {
	renta := models.Concept{ID: uuid.New(), Name: "Renta", Type: models.TransactionTypeExpense}
	servicios := models.Concept{ID: uuid.New(), Name: "Servicios", Type: models.TransactionTypeExpense}
	ventas := models.Concept{ID: uuid.New(), Name: "Ventas", Type: models.TransactionTypeIncome}
	cfe := models.Provider{ID: uuid.New(), Name: "CFE"}

	s.concepts = []models.Concept{renta, servicios, ventas}
	s.providers = []models.Provider{cfe}

	tx := func(concept models.Concept, amount int64, date time.Time, provider *uuid.UUID) models.Transaction {
		return models.Transaction{
			ID:         uuid.New(),
			Type:       concept.Type,
			Amount:     decimal.NewFromInt(amount),
			Date:       date,
			ConceptID:  concept.ID,
			ProviderID: provider,
			Status:     models.TransactionStatusPaid,
		}
	}

	s.transactions = []models.Transaction{
		tx(renta, 700, utcDate(2026, time.April, 2), nil),
		tx(servicios, 250, utcDate(2026, time.March, 20), &cfe.ID),
		tx(ventas, 5000, utcDate(2026, time.March, 10), nil),
		tx(renta, 1000, utcDate(2026, time.March, 5), nil),
		tx(ventas, 300, utcDate(2026, time.February, 12), nil),
		tx(renta, 999, utcDate(2025, time.March, 3), nil),
	}
}

func (s *ChatbotServiceTestSuite) expectReads(limit int) {
	s.transactionRepo.EXPECT().ListRecent(gomock.Any(), limit).Return(s.transactions, nil)
	s.conceptRepo.EXPECT().ListAll(gomock.Any()).Return(s.concepts, nil)
	s.providerRepo.EXPECT().ListAll(gomock.Any()).Return(s.providers, nil)
}

func (s *ChatbotServiceTestSuite) expectFallback(reason string) {
	s.auditLogger.EXPECT().LogFallbackUsed(gomock.Any(), reason)
}

func (s *ChatbotServiceTestSuite) TestAsk_MarchScenarioWithAI() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordSuccess()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, prompt string) (string, error) {
			_, hasDeadline := ctx.Deadline()
			s.True(hasDeadline)
			s.Contains(prompt, "marzo 2026")
			s.Contains(prompt, "$1,250.00")
			s.NotContains(prompt, "$999.00")
			return "```json\n{\"response\": \"En marzo 2026 gastaste $1,250.00.\", \"metrics\": {\"gasto_total\": \"$1,250.00\"}, \"chart\": null}\n```", nil
		})

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal("En marzo 2026 gastaste $1,250.00.", resp.Response)
	s.Equal(dto.AnswerSourceAI, resp.Data.Source)
	s.Equal("marzo 2026", resp.Data.Period)
	s.True(decimal.NewFromInt(1250).Equal(resp.Data.Metrics.TotalExpense))
	s.True(decimal.NewFromInt(5000).Equal(resp.Data.Metrics.TotalIncome))
	s.Equal(3, resp.Data.Metrics.TransactionCount)
	s.Equal("$1,250.00", resp.Data.Insights["gasto_total"])
	s.Nil(resp.Data.Chart)
	s.Equal([]dto.PercentageItem{{Label: "Renta", Percentage: 80}, {Label: "Servicios", Percentage: 20}}, resp.Data.Percentages)
}

func (s *ChatbotServiceTestSuite) TestAsk_NetworkErrorUsesFallback() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordFailure()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("dial tcp: connection refused"))
	s.auditLogger.EXPECT().LogAIRequestFailed(gomock.Any(), "network_error", gomock.Any(), gomock.Any())
	s.expectFallback("network_error")

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(dto.AnswerSourceFallback, resp.Data.Source)
	s.Contains(resp.Response, "marzo 2026")
	s.Contains(resp.Response, "$1,250.00")
	s.True(decimal.NewFromInt(1250).Equal(resp.Data.Metrics.TotalExpense))
	s.Nil(resp.Data.Insights)
}

func (s *ChatbotServiceTestSuite) TestAsk_TimeoutUsesFallback() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordFailure()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		Return("", fmt.Errorf("failed to generate content: %w", context.DeadlineExceeded))
	s.auditLogger.EXPECT().LogAIRequestFailed(gomock.Any(), "timeout", gomock.Any(), gomock.Any())
	s.expectFallback("timeout")

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.Equal(dto.AnswerSourceFallback, resp.Data.Source)
}

func (s *ChatbotServiceTestSuite) TestAsk_InvalidJSONUsesFallback() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordFailure()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("Lo siento, no puedo responder eso.", nil)
	s.auditLogger.EXPECT().LogAIRequestFailed(gomock.Any(), "invalid_response", gomock.Any(), gomock.Any())
	s.expectFallback("invalid_response")

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.Equal(dto.AnswerSourceFallback, resp.Data.Source)
	s.NotEmpty(resp.Response)
}

func (s *ChatbotServiceTestSuite) TestAsk_OpenBreakerSkipsGenerator() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(true)
	s.expectFallback("circuit_open")

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.Equal(dto.AnswerSourceFallback, resp.Data.Source)
	s.True(decimal.NewFromInt(1250).Equal(resp.Data.Metrics.TotalExpense))
}

func (s *ChatbotServiceTestSuite) TestAsk_WithoutGenerator() {
	svc := s.newService(nil)
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.expectFallback("not_configured")

	resp, err := svc.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Require().NoError(err)
	s.Equal(dto.AnswerSourceFallback, resp.Data.Source)
}

func (s *ChatbotServiceTestSuite) TestAsk_TrendUsesLineChart() {
	s.expectReads(models.VolumeTierHistorical.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordSuccess()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(`{"response": "Tus gastos bajaron en abril.", "chart": null}`, nil)

	resp, err := s.service.Ask(s.ctx, "Muéstrame la tendencia de gastos")

	s.Require().NoError(err)
	s.Equal(models.VolumeTierHistorical, resp.Data.Analysis.VolumeTier)
	s.Require().NotNil(resp.Data.Chart)
	s.Equal(models.ChartLine, resp.Data.Chart.Type)
	s.Require().Len(resp.Data.Chart.Data, 4)
	s.Equal("2025-03", resp.Data.Chart.Data[0].Label)
	s.Equal(999.0, resp.Data.Chart.Data[0].Value)
}

func (s *ChatbotServiceTestSuite) TestAsk_MalformedModelChartIsReplaced() {
	s.expectReads(models.VolumeTierMonthly.Limit)
	s.breaker.EXPECT().IsOpen().Return(false)
	s.breaker.EXPECT().RecordSuccess()
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		Return(`{"response": "Renta es tu mayor gasto.", "chart": {"type": "radar", "data": [{"label": "Renta", "value": 1}]}}`, nil)

	resp, err := s.service.Ask(s.ctx, "distribución de gastos de marzo")

	s.Require().NoError(err)
	s.Equal(dto.AnswerSourceAI, resp.Data.Source)
	s.Require().NotNil(resp.Data.Chart)
	s.Equal(models.ChartPie, resp.Data.Chart.Type)
	s.Equal([]models.ChartPoint{{Label: "Renta", Value: 1000}, {Label: "Servicios", Value: 250}}, resp.Data.Chart.Data)
}

func (s *ChatbotServiceTestSuite) TestAsk_ReadErrorIsReturned() {
	s.transactionRepo.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	s.conceptRepo.EXPECT().ListAll(gomock.Any()).Return(s.concepts, nil).AnyTimes()
	s.providerRepo.EXPECT().ListAll(gomock.Any()).Return(s.providers, nil).AnyTimes()

	resp, err := s.service.Ask(s.ctx, "¿Cuánto gasté en marzo?")

	s.Nil(resp)
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to read transactions")
}

func (s *ChatbotServiceTestSuite) TestAsk_EmptyQuestion() {
	resp, err := s.service.Ask(s.ctx, "   ")

	s.Nil(resp)
	s.ErrorIs(err, ErrEmptyQuestion)
}

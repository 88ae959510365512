package services

import (
	"testing"
	"time"

	"finance-admin/internal/models"

	"github.com/stretchr/testify/suite"
)

type FallbackResponderTestSuite struct {
	suite.Suite
	now      time.Time
	snapshot models.FinancialSnapshot
}

func TestFallbackResponderSuite(t *testing.T) {
	suite.Run(t, new(FallbackResponderTestSuite))
}

func (s *FallbackResponderTestSuite) SetupTest() {
	s.now = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	s.snapshot = models.FinancialSnapshot{
		Transactions: []models.TransactionDetail{
			detail(models.TransactionTypeExpense, "8000", "Renta", "Inmobiliaria", time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)),
			detail(models.TransactionTypeExpense, "450", "Servicios", "CFE", time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC)),
			detail(models.TransactionTypeIncome, "25000", "Ventas", "", time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func (s *FallbackResponderTestSuite) answer(question string) string {
	analysis := AnalyzeQuestion(question, s.now)
	view := ConsolidateView(FilterView(s.snapshot, analysis))
	return FallbackAnswer(question, analysis, view)
}

func (s *FallbackResponderTestSuite) TestHighestExpense() {
	answer := s.answer("¿Cuál fue mi gasto más alto?")

	s.Contains(answer, "El gasto más alto en todo el historial fue de $8")
	s.Contains(answer, "Renta con Inmobiliaria")
	s.Contains(answer, "1 de septiembre de 2026")
}

func (s *FallbackResponderTestSuite) TestHighestExpense_TopDays() {
	answer := s.answer("gastos diarios más altos")

	s.Contains(answer, "Los días con gastos más altos fueron: 2026-09-01")
	s.Contains(answer, "2026-10-13 ($450.00)")
}

func (s *FallbackResponderTestSuite) TestHighestExpense_NoExpenses() {
	answer := s.answer("mayor gasto de enero")

	s.Equal("No se registraron gastos en enero 2026.", answer)
}

func (s *FallbackResponderTestSuite) TestWeeklySummary() {
	answer := s.answer("resumen de esta semana")

	s.Contains(answer, "En los últimos 7 días")
	s.Contains(answer, "registraste 2 movimientos")
	s.Contains(answer, "gastos por $450.00")
	s.Contains(answer, "El concepto con más gasto fue Servicios ($450.00)")
}

func (s *FallbackResponderTestSuite) TestMultiMonthSummary() {
	answer := s.answer("balance de los últimos 2 meses")

	s.Contains(answer, "En los últimos 2 meses tuviste ingresos por $25")
	s.Contains(answer, "Septiembre 2026: ingresos $0.00")
	s.Contains(answer, "Octubre 2026: ingresos $25")
	s.NotContains(answer, "Algunos meses")
}

func (s *FallbackResponderTestSuite) TestMultiMonthSummary_MissingMonths() {
	answer := s.answer("gastos de los últimos 6 meses")

	s.Contains(answer, "Algunos meses del periodo no tienen movimientos.")
}

func (s *FallbackResponderTestSuite) TestGenericOverview() {
	answer := s.answer("¿Cómo van las finanzas?")

	s.Contains(answer, "Resumen de todo el historial")
	s.Contains(answer, "(1 movimientos)")
	s.Contains(answer, "(2 movimientos)")
	s.Contains(answer, "El concepto con más gasto fue Renta")
	s.Contains(answer, "(94.7% del gasto)")
}

func (s *FallbackResponderTestSuite) TestGenericOverview_SameConceptNameOnBothSides() {
	day := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	s.snapshot = models.FinancialSnapshot{
		Transactions: []models.TransactionDetail{
			detail(models.TransactionTypeIncome, "5000", "Renta", "", day),
			detail(models.TransactionTypeExpense, "8000", "Renta", "", day),
			detail(models.TransactionTypeExpense, "450", "Servicios", "", day),
		},
	}

	answer := s.answer("resumen")

	s.Contains(answer, "El concepto con más gasto fue Renta")
	s.Contains(answer, "(94.7% del gasto)")
}

func (s *FallbackResponderTestSuite) TestGenericOverview_ZeroExpenseTotal() {
	day := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	s.snapshot = models.FinancialSnapshot{
		Transactions: []models.TransactionDetail{
			detail(models.TransactionTypeExpense, "0", "Otros", "", day),
			detail(models.TransactionTypeIncome, "100", "Otros", "", day),
		},
	}

	var answer string
	s.NotPanics(func() { answer = s.answer("resumen") })
	s.Contains(answer, "Resumen de todo el historial")
	s.NotContains(answer, "del gasto")
}

func (s *FallbackResponderTestSuite) TestNeverEmpty() {
	questions := []string{"", "hola", "gastos de marzo", "esta semana", "últimos 3 meses", "gasto más alto"}
	for _, q := range questions {
		analysis := AnalyzeQuestion(q, s.now)
		empty := FilterView(models.FinancialSnapshot{}, analysis)
		s.NotEmpty(FallbackAnswer(q, analysis, empty))
		s.NotEmpty(s.answer(q))
	}
}

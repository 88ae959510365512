package services

import (
	"strings"
	"testing"
	"time"

	"finance-admin/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ConsolidatorTestSuite struct {
	suite.Suite
}

func TestConsolidatorSuite(t *testing.T) {
	suite.Run(t, new(ConsolidatorTestSuite))
}

func group(name string, total string, count int) models.GroupTotal {
	return models.GroupTotal{
		Name:  name,
		Type:  models.TransactionTypeExpense,
		Total: decimal.RequireFromString(total),
		Count: count,
	}
}

func (s *ConsolidatorTestSuite) TestConsolidateGroups_MergesTrailingWhitespace() {
	result := ConsolidateGroups([]models.GroupTotal{
		group("Renta", "8000", 1),
		group("Renta ", "7500", 1),
		group("Servicios", "500", 2),
	})

	s.Require().Len(result, 2)
	s.Equal("Renta", result[0].Name)
	s.Equal("15500", result[0].Total.String())
	s.Equal(2, result[0].Count)
	s.Equal(96.88, result[0].Percentage)
	s.Equal("Servicios", result[1].Name)
	s.Equal(3.13, result[1].Percentage)
}

func (s *ConsolidatorTestSuite) TestConsolidateGroups_CaseIsSignificant() {
	result := ConsolidateGroups([]models.GroupTotal{
		group(" Renta", "10", 1),
		group("renta", "10", 1),
	})

	s.Len(result, 2)
}

func (s *ConsolidatorTestSuite) TestConsolidateGroups_KeepsSidesApart() {
	income := group("Renta", "5000", 1)
	income.Type = models.TransactionTypeIncome

	result := ConsolidateGroups([]models.GroupTotal{
		income,
		group("Renta ", "8000", 1),
		group("Servicios", "450", 1),
	})

	s.Require().Len(result, 3)
	s.Equal("Renta", result[0].Name)
	s.Equal(models.TransactionTypeExpense, result[0].Type)
	s.Equal("8000", result[0].Total.String())
	s.Equal("Renta", result[1].Name)
	s.Equal(models.TransactionTypeIncome, result[1].Type)
	s.Equal("5000", result[1].Total.String())
	s.Equal("Servicios", result[2].Name)
}

func (s *ConsolidatorTestSuite) TestConsolidateGroups_ZeroTotal() {
	result := ConsolidateGroups([]models.GroupTotal{
		group("Renta", "0", 1),
		group("Renta  ", "0", 1),
	})

	s.Require().Len(result, 1)
	s.Equal(0.0, result[0].Percentage)
	s.Equal(2, result[0].Count)
}

func (s *ConsolidatorTestSuite) TestConsolidateGroups_UniqueKeysAndFullPercentage() {
	names := []string{"Renta", "Nómina", "Servicios", "Proveedores", "Ventas"}
	pads := []string{"", " ", "  ", "\t", " \n"}

	for round := 0; round < 20; round++ {
		n := gofakeit.IntRange(1, 30)
		groups := make([]models.GroupTotal, 0, n)
		for i := 0; i < n; i++ {
			name := gofakeit.RandomString(pads) + gofakeit.RandomString(names) + gofakeit.RandomString(pads)
			amount := decimal.NewFromFloat(gofakeit.Float64Range(0.01, 20000)).Round(2)
			groups = append(groups, models.GroupTotal{Name: name, Total: amount, Count: 1})
		}

		result := ConsolidateGroups(groups)

		seen := make(map[string]bool)
		sum := 0.0
		for _, g := range result {
			key := strings.TrimSpace(g.Name)
			s.False(seen[key], "duplicate key %q", key)
			seen[key] = true
			sum += g.Percentage
		}
		s.InDelta(100.0, sum, 0.05)
	}
}

func (s *ConsolidatorTestSuite) TestConsolidateView_RentaScenario() {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	view := FilterView(models.FinancialSnapshot{
		Transactions: []models.TransactionDetail{
			detail(models.TransactionTypeExpense, "8000", "Renta", "Inmobiliaria", day),
			detail(models.TransactionTypeExpense, "1200.50", "Renta ", "Inmobiliaria ", day),
		},
	}, models.QuestionAnalysis{Timeframe: models.Timeframe{Kind: models.TimeframeAll}})
	s.Len(view.ByConcept, 2)

	consolidated := ConsolidateView(view)

	s.Require().Len(consolidated.ByConcept, 1)
	s.Equal("Renta", consolidated.ByConcept[0].Name)
	s.Equal("9200.5", consolidated.ByConcept[0].Total.String())
	s.Equal(100.0, consolidated.ByConcept[0].Percentage)
	s.Require().Len(consolidated.ByProvider, 1)
	s.Equal("Inmobiliaria", consolidated.ByProvider[0].Name)
	s.Equal(view.Metrics, consolidated.Metrics)
}

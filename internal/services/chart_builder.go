package services

import (
	"fmt"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
)

// BuildChart derives chart data from the filtered view. It returns nil when
// the chart type is unknown or there is nothing to plot.
func BuildChart(chartType models.ChartType, analysis models.QuestionAnalysis, view models.FilteredFinancialView) *models.ChartSpec {
	var chart *models.ChartSpec

	switch chartType {
	case models.ChartPie:
		chart = pieChart(analysis, view)
	case models.ChartBar:
		if analysis.TopDailyExpenses {
			chart = topDaysChart(view)
		} else {
			chart = incomeVsExpenseChart(view)
		}
	case models.ChartLine:
		chart = trendChart(analysis, view)
	}

	if chart == nil || len(chart.Data) == 0 {
		return nil
	}
	return chart
}

// SelectChart keeps the model's chart only when it is well formed. Otherwise
// the deterministic chart is used if the question suggested one.
func SelectChart(modelChart *models.ChartSpec, analysis models.QuestionAnalysis, view models.FilteredFinancialView) *models.ChartSpec {
	if modelChart.IsWellFormed() {
		return modelChart
	}
	if analysis.ChartType == models.ChartNone {
		return nil
	}
	return BuildChart(analysis.ChartType, analysis, view)
}

// focusType is the ledger side a question is about; expense unless only income was asked
func focusType(analysis models.QuestionAnalysis) string {
	if analysis.WantsIncome && !analysis.WantsExpense {
		return models.TransactionTypeIncome
	}
	return models.TransactionTypeExpense
}

// BuildPercentages returns each concept's share of the focus side's total
func BuildPercentages(analysis models.QuestionAnalysis, view models.FilteredFinancialView) []dto.PercentageItem {
	side := make([]models.GroupTotal, 0, len(view.ByConcept))
	for _, g := range view.ByConcept {
		if g.Type == focusType(analysis) {
			side = append(side, g)
		}
	}
	applyPercentages(side)

	items := make([]dto.PercentageItem, 0, len(side))
	for _, g := range side {
		items = append(items, dto.PercentageItem{Label: g.Name, Percentage: g.Percentage})
	}
	return items
}

func pieChart(analysis models.QuestionAnalysis, view models.FilteredFinancialView) *models.ChartSpec {
	side := focusType(analysis)
	title := "Distribución de gastos por concepto"
	if side == models.TransactionTypeIncome {
		title = "Distribución de ingresos por concepto"
	}

	chart := &models.ChartSpec{Type: models.ChartPie, Title: withPeriod(title, view)}
	for _, g := range view.ByConcept {
		if g.Type != side || !g.Total.IsPositive() {
			continue
		}
		chart.Data = append(chart.Data, models.ChartPoint{Label: g.Name, Value: g.Total.InexactFloat64()})
	}
	return chart
}

func topDaysChart(view models.FilteredFinancialView) *models.ChartSpec {
	chart := &models.ChartSpec{Type: models.ChartBar, Title: withPeriod("Días con gastos más altos", view)}
	for _, day := range TopExpenseDays(view.Daily, topExpenseDaysCount) {
		chart.Data = append(chart.Data, models.ChartPoint{Label: day.Key, Value: day.Expense.InexactFloat64()})
	}
	return chart
}

func incomeVsExpenseChart(view models.FilteredFinancialView) *models.ChartSpec {
	if view.Metrics.TransactionCount == 0 {
		return nil
	}
	return &models.ChartSpec{
		Type:  models.ChartBar,
		Title: withPeriod("Ingresos vs gastos", view),
		Data: []models.ChartPoint{
			{Label: "Ingresos", Value: view.Metrics.TotalIncome.InexactFloat64()},
			{Label: "Gastos", Value: view.Metrics.TotalExpense.InexactFloat64()},
		},
	}
}

// trendChart plots daily points for windows of a month or less, monthly otherwise
func trendChart(analysis models.QuestionAnalysis, view models.FilteredFinancialView) *models.ChartSpec {
	periods := view.Monthly
	granularity := "mensual"
	switch analysis.Timeframe.Kind {
	case models.TimeframeWeek, models.TimeframeSpecificMonth, models.TimeframeCurrentMonth:
		periods = view.Daily
		granularity = "diaria"
	}

	side := focusType(analysis)
	title := fmt.Sprintf("Evolución %s de gastos", granularity)
	if side == models.TransactionTypeIncome {
		title = fmt.Sprintf("Evolución %s de ingresos", granularity)
	}

	chart := &models.ChartSpec{Type: models.ChartLine, Title: withPeriod(title, view)}
	for _, p := range periods {
		value := p.Expense
		if side == models.TransactionTypeIncome {
			value = p.Income
		}
		chart.Data = append(chart.Data, models.ChartPoint{Label: p.Key, Value: value.InexactFloat64()})
	}
	return chart
}

func withPeriod(title string, view models.FilteredFinancialView) string {
	if view.PeriodLabel == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, view.PeriodLabel)
}

package services

import (
	"fmt"
	"strings"

	"finance-admin/internal/models"
)

var highestExpensePhrases = []string{
	"gasto mas alto", "gasto mas grande", "mayor gasto", "gasto mayor", "gasto mas caro",
	"highest expense", "biggest expense", "largest expense",
}

// FallbackAnswer builds a template answer from the filtered view. It is used
// whenever the text generator fails and never returns an empty string.
func FallbackAnswer(question string, analysis models.QuestionAnalysis, view models.FilteredFinancialView) string {
	q := normalizeQuestion(question)

	switch {
	case analysis.TopDailyExpenses || q.hasPhrase(highestExpensePhrases...):
		return highestExpenseAnswer(analysis, view)
	case analysis.Timeframe.Kind == models.TimeframeWeek:
		return weeklyAnswer(view)
	case analysis.Timeframe.Kind == models.TimeframeLastNMonths:
		return multiMonthAnswer(analysis, view)
	default:
		return overviewAnswer(view)
	}
}

func highestExpenseAnswer(analysis models.QuestionAnalysis, view models.FilteredFinancialView) string {
	var top *models.TransactionDetail
	for i := range view.Transactions {
		t := &view.Transactions[i]
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		if top == nil || t.Amount.GreaterThan(top.Amount) {
			top = t
		}
	}

	if top == nil {
		return fmt.Sprintf("No se registraron gastos en %s.", view.PeriodLabel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "El gasto más alto en %s fue de %s por concepto de %s",
		view.PeriodLabel, FormatCurrency(top.Amount), strings.TrimSpace(top.ConceptName))
	if top.ProviderName != "" {
		fmt.Fprintf(&b, " con %s", strings.TrimSpace(top.ProviderName))
	}
	fmt.Fprintf(&b, ", el %s de %d.", shortDate(top.Date), top.Date.Year())

	if analysis.TopDailyExpenses {
		days := TopExpenseDays(view.Daily, topExpenseDaysCount)
		parts := make([]string, 0, len(days))
		for _, d := range days {
			parts = append(parts, fmt.Sprintf("%s (%s)", d.Key, FormatCurrency(d.Expense)))
		}
		fmt.Fprintf(&b, " Los días con gastos más altos fueron: %s.", strings.Join(parts, ", "))
	}

	return b.String()
}

func weeklyAnswer(view models.FilteredFinancialView) string {
	m := view.Metrics
	if m.TransactionCount == 0 {
		return fmt.Sprintf("No se registraron movimientos en los %s.", view.PeriodLabel)
	}

	answer := fmt.Sprintf("En los %s registraste %d movimientos: ingresos por %s y gastos por %s, con un balance de %s.",
		view.PeriodLabel, m.TransactionCount, FormatCurrency(m.TotalIncome), FormatCurrency(m.TotalExpense), FormatCurrency(m.Balance))

	if top, ok := topConcept(view, models.TransactionTypeExpense); ok {
		answer += fmt.Sprintf(" El concepto con más gasto fue %s (%s).", top.Name, FormatCurrency(top.Total))
	}
	return answer
}

func multiMonthAnswer(analysis models.QuestionAnalysis, view models.FilteredFinancialView) string {
	m := view.Metrics
	if m.TransactionCount == 0 {
		return fmt.Sprintf("No se registraron movimientos en los %s.", view.PeriodLabel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "En los %s tuviste ingresos por %s y gastos por %s, con un balance de %s.",
		view.PeriodLabel, FormatCurrency(m.TotalIncome), FormatCurrency(m.TotalExpense), FormatCurrency(m.Balance))

	for _, month := range view.Monthly {
		fmt.Fprintf(&b, " %s %d: ingresos %s, gastos %s.",
			capitalize(spanishMonthNames[month.Start.Month()]), month.Start.Year(),
			FormatCurrency(month.Income), FormatCurrency(month.Expense))
	}

	if len(view.Monthly) < analysis.Timeframe.LastNMonths {
		b.WriteString(" Algunos meses del periodo no tienen movimientos.")
	}
	return b.String()
}

func overviewAnswer(view models.FilteredFinancialView) string {
	m := view.Metrics
	if m.TransactionCount == 0 {
		return fmt.Sprintf("No encontré transacciones para %s.", view.PeriodLabel)
	}

	answer := fmt.Sprintf("Resumen de %s: ingresos por %s (%d movimientos), gastos por %s (%d movimientos) y un balance de %s.",
		view.PeriodLabel, FormatCurrency(m.TotalIncome), m.IncomeCount, FormatCurrency(m.TotalExpense), m.ExpenseCount, FormatCurrency(m.Balance))

	if top, ok := topConcept(view, models.TransactionTypeExpense); ok && m.TotalExpense.IsPositive() {
		share := top.Total.Div(m.TotalExpense).Mul(hundred).Round(1)
		answer += fmt.Sprintf(" El concepto con más gasto fue %s con %s (%s%% del gasto).", top.Name, FormatCurrency(top.Total), share.String())
	}
	return answer
}

// topConcept returns the largest concept of a ledger side; groups are sorted by total
func topConcept(view models.FilteredFinancialView, txType string) (models.GroupTotal, bool) {
	for _, g := range view.ByConcept {
		if g.Type == txType && g.Total.IsPositive() {
			return g, true
		}
	}
	return models.GroupTotal{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package services

import (
	"fmt"
	"time"

	"finance-admin/internal/models"
)

var spanishMonthNames = [...]string{
	"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FilterView narrows a snapshot to the timeframe of the analysis. Every
// aggregate is recomputed from the selected transactions. For the whole
// history the transaction list is passed through untouched.
func FilterView(snapshot models.FinancialSnapshot, analysis models.QuestionAnalysis) models.FilteredFinancialView {
	tf := analysis.Timeframe

	selected := snapshot.Transactions
	if tf.Kind != models.TimeframeAll {
		selected = make([]models.TransactionDetail, 0, len(snapshot.Transactions))
		for _, t := range snapshot.Transactions {
			if tf.Contains(t.Date) {
				selected = append(selected, t)
			}
		}
	}

	return models.FilteredFinancialView{
		Metrics:      CalculateMetrics(selected),
		ByConcept:    GroupByConcept(selected),
		ByProvider:   GroupByProvider(selected),
		Daily:        BucketByDay(selected),
		Weekly:       BucketByWeek(selected),
		Monthly:      BucketByMonth(selected),
		Transactions: selected,
		PeriodLabel:  PeriodLabel(tf),
	}
}

// PeriodLabel renders a timeframe in Spanish ("marzo 2026", "últimos 3 meses")
func PeriodLabel(tf models.Timeframe) string {
	switch tf.Kind {
	case models.TimeframeSpecificMonth:
		return fmt.Sprintf("%s %d", spanishMonthNames[tf.Month], tf.Year)
	case models.TimeframeCurrentMonth:
		return fmt.Sprintf("este mes (%s %d)", spanishMonthNames[tf.Month], tf.Year)
	case models.TimeframeSpecificYear:
		return fmt.Sprintf("año %d", tf.Year)
	case models.TimeframeCurrentYear:
		return fmt.Sprintf("este año (%d)", tf.Year)
	case models.TimeframeWeek:
		return fmt.Sprintf("últimos 7 días (%s al %s)", shortDate(tf.Start), shortDate(tf.End.AddDate(0, 0, -1)))
	case models.TimeframeLastNMonths:
		if tf.LastNMonths == 1 {
			return "último mes"
		}
		return fmt.Sprintf("últimos %d meses", tf.LastNMonths)
	default:
		return "todo el historial"
	}
}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), spanishMonthNames[t.Month()])
}

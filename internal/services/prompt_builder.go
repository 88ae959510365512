package services

import (
	"fmt"
	"strings"

	"finance-admin/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxPromptGroups       = 15
	maxPromptTransactions = 40
	maxPromptPeriods      = 24
	topExpenseDaysCount   = 5
)

// Mexican peso amounts share the en-US separators ("," groups, "." decimals)
// and, unlike the es locales, group four-digit amounts too.
var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as Mexican pesos, e.g. "$1,234.56"
func FormatCurrency(amount decimal.Decimal) string {
	value := amount.Round(2).InexactFloat64()
	if value < 0 {
		return "-$" + currencyPrinter.Sprintf("%.2f", -value)
	}
	return "$" + currencyPrinter.Sprintf("%.2f", value)
}

func typeLabel(txType string) string {
	if txType == models.TransactionTypeIncome {
		return "ingreso"
	}
	return "gasto"
}

func statusLabel(status string) string {
	switch status {
	case models.TransactionStatusPaid:
		return "pagada"
	case models.TransactionStatusPartial:
		return "parcial"
	default:
		return "pendiente"
	}
}

// PromptBuilder serializes a consolidated view into the instructions sent to
// the text generator
type PromptBuilder struct {
	currencyLabel string
}

func NewPromptBuilder(currencyLabel string) *PromptBuilder {
	if currencyLabel == "" {
		currencyLabel = "MXN"
	}
	return &PromptBuilder{currencyLabel: currencyLabel}
}

// Build returns the full prompt. Monetary values are pre-formatted; counts
// are plain integers.
func (pb *PromptBuilder) Build(question string, analysis models.QuestionAnalysis, view models.FilteredFinancialView) string {
	var b strings.Builder

	b.WriteString("Eres un asistente financiero para el área de administración de una empresa en México.\n")
	b.WriteString("Responde en español, de forma breve y clara, usando ÚNICAMENTE los datos proporcionados.\n\n")

	fmt.Fprintf(&b, "Pregunta del usuario: %q\n", strings.TrimSpace(question))
	fmt.Fprintf(&b, "Periodo analizado: %s\n", view.PeriodLabel)
	fmt.Fprintf(&b, "Moneda: pesos mexicanos (%s)\n", pb.currencyLabel)
	if focus := focusLabel(analysis); focus != "" {
		fmt.Fprintf(&b, "Enfoque solicitado: %s\n", focus)
	}

	m := view.Metrics
	b.WriteString("\nResumen del periodo:\n")
	fmt.Fprintf(&b, "- Ingresos totales: %s\n", FormatCurrency(m.TotalIncome))
	fmt.Fprintf(&b, "- Gastos totales: %s\n", FormatCurrency(m.TotalExpense))
	fmt.Fprintf(&b, "- Balance (ingresos - gastos): %s\n", FormatCurrency(m.Balance))
	fmt.Fprintf(&b, "- Número de transacciones: %d (ingresos: %d, gastos: %d)\n", m.TransactionCount, m.IncomeCount, m.ExpenseCount)
	fmt.Fprintf(&b, "- Gasto promedio: %s\n", FormatCurrency(m.AverageExpense))

	writeGroups(&b, "Totales por concepto", view.ByConcept)
	writeGroups(&b, "Totales por proveedor", view.ByProvider)

	if analysis.TopDailyExpenses {
		b.WriteString("\nDías con gastos más altos:\n")
		for _, day := range TopExpenseDays(view.Daily, topExpenseDaysCount) {
			fmt.Fprintf(&b, "- %s: %s (%d transacciones)\n", day.Key, FormatCurrency(day.Expense), day.Count)
		}
	}

	if len(view.Monthly) > 0 {
		b.WriteString("\nTotales por mes:\n")
		for _, period := range lastPeriods(view.Monthly, maxPromptPeriods) {
			fmt.Fprintf(&b, "- %s: ingresos %s, gastos %s, balance %s\n",
				period.Key, FormatCurrency(period.Income), FormatCurrency(period.Expense), FormatCurrency(period.Balance))
		}
	}

	if len(view.Transactions) > 0 {
		fmt.Fprintf(&b, "\nTransacciones del periodo (máximo %d):\n", maxPromptTransactions)
		for i, t := range view.Transactions {
			if i == maxPromptTransactions {
				break
			}
			provider := t.ProviderName
			if provider == "" {
				provider = "sin proveedor"
			}
			fmt.Fprintf(&b, "- %s | %s | %s | %s | %s | %s\n",
				t.Date.Format("2006-01-02"), typeLabel(t.Type), strings.TrimSpace(t.ConceptName), strings.TrimSpace(provider),
				FormatCurrency(t.Amount), statusLabel(t.Status))
		}
	} else {
		b.WriteString("\nNo hay transacciones registradas en este periodo.\n")
	}

	b.WriteString("\nReglas de respuesta:\n")
	b.WriteString("- Usa formato de moneda mexicana ($1,234.56) para todos los montos. Los conteos de transacciones van sin formato de moneda.\n")
	b.WriteString("- No inventes cifras; si no hay datos suficientes, dilo.\n")
	if analysis.ChartType != models.ChartNone {
		fmt.Fprintf(&b, "- Incluye una gráfica de tipo %q con valores numéricos no negativos.\n", analysis.ChartType)
	} else {
		b.WriteString("- Si no se necesita gráfica, usa \"chart\": null.\n")
	}
	b.WriteString("- Responde ÚNICAMENTE con JSON válido, sin bloques de código ni texto adicional, con esta forma exacta:\n")
	b.WriteString(`{"response": "texto de la respuesta", "metrics": {"nombre": "valor"}, "percentages": [{"label": "concepto", "percentage": 0}], "chart": {"type": "pie|bar|line", "title": "título", "data": [{"label": "etiqueta", "value": 0}]}}`)
	b.WriteString("\n")

	return b.String()
}

func focusLabel(analysis models.QuestionAnalysis) string {
	parts := make([]string, 0, 3)
	if analysis.WantsExpense {
		parts = append(parts, "gastos")
	}
	if analysis.WantsIncome {
		parts = append(parts, "ingresos")
	}
	if analysis.WantsBalance {
		parts = append(parts, "balance")
	}
	return strings.Join(parts, ", ")
}

func writeGroups(b *strings.Builder, title string, groups []models.GroupTotal) {
	if len(groups) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s:\n", title)
	for i, g := range groups {
		if i == maxPromptGroups {
			fmt.Fprintf(b, "- (%d más)\n", len(groups)-maxPromptGroups)
			break
		}
		fmt.Fprintf(b, "- %s (%s): %s, %d transacciones, %.2f%%\n",
			g.Name, typeLabel(g.Type), FormatCurrency(g.Total), g.Count, g.Percentage)
	}
}

func lastPeriods(periods []models.PeriodBucket, n int) []models.PeriodBucket {
	if len(periods) <= n {
		return periods
	}
	return periods[len(periods)-n:]
}

package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"finance-admin/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var monthsByName = map[string]time.Month{
	"enero": time.January, "january": time.January,
	"febrero": time.February, "february": time.February,
	"marzo": time.March, "march": time.March,
	"abril": time.April, "april": time.April,
	"mayo": time.May, "may": time.May,
	"junio": time.June, "june": time.June,
	"julio": time.July, "july": time.July,
	"agosto": time.August, "august": time.August,
	"septiembre": time.September, "setiembre": time.September, "september": time.September,
	"octubre": time.October, "october": time.October,
	"noviembre": time.November, "november": time.November,
	"diciembre": time.December, "december": time.December,
}

var numberWords = map[string]int{
	"un": 1, "uno": 1, "one": 1,
	"dos": 2, "two": 2,
	"tres": 3, "three": 3,
	"cuatro": 4, "four": 4,
	"cinco": 5, "five": 5,
	"seis": 6, "six": 6,
	"siete": 7, "seven": 7,
	"ocho": 8, "eight": 8,
	"nueve": 9, "nine": 9,
	"diez": 10, "ten": 10,
	"once": 11, "eleven": 11,
	"doce": 12, "twelve": 12,
}

var (
	yearPattern        = regexp.MustCompile(`\b(19\d{2}|20\d{2}|2100)\b`)
	lastNMonthsPattern = regexp.MustCompile(`\b(?:ultimos|last|past)\s+(\d{1,2}|[a-z]+)\s+(?:meses|months)\b`)
)

var (
	expenseKeywords = []string{"gasto", "gastos", "gaste", "gastado", "egreso", "egresos", "pague", "pagos", "expense", "expenses", "spent", "spend"}
	incomeKeywords  = []string{"ingreso", "ingresos", "gane", "ganado", "cobre", "ventas", "income", "earned", "revenue"}
	balanceKeywords = []string{"balance", "saldo", "utilidad", "ganancia", "neto", "profit"}

	pieKeywords     = []string{"distribucion", "porcentaje", "porcentajes", "categoria", "categorias", "concepto", "conceptos", "distribution", "percentage", "percentages", "category", "categories"}
	topDailyPhrases = []string{"gastos diarios mas altos", "gastos mas altos por dia", "dias con mas gastos", "top daily expenses", "highest daily expenses"}
	compareKeywords = []string{"compara", "comparar", "comparacion", "comparativa", "vs", "versus", "diferencia", "compare", "comparison"}
	trendKeywords   = []string{"tendencia", "tendencias", "evolucion", "historico", "trend", "trends", "evolution"}

	historicalTierKeywords = []string{"tendencia", "tendencias", "evolucion", "historico", "historial", "compara", "comparar", "comparacion", "trend", "trends", "history", "historical", "evolution", "compare"}
)

// normalizedQuestion is a question folded to lowercase ASCII-ish words
// separated by single spaces
type normalizedQuestion struct {
	text   string
	tokens map[string]bool
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeQuestion(question string) normalizedQuestion {
	lowered := strings.ToLower(question)
	folded, _, err := transform.String(accentFolder, lowered)
	if err != nil {
		folded = lowered
	}

	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]bool, len(words))
	for _, w := range words {
		tokens[w] = true
	}

	return normalizedQuestion{text: strings.Join(words, " "), tokens: tokens}
}

func (q normalizedQuestion) hasAny(words ...string) bool {
	for _, w := range words {
		if q.tokens[w] {
			return true
		}
	}
	return false
}

func (q normalizedQuestion) hasPhrase(phrases ...string) bool {
	padded := " " + q.text + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

// modalMonthNames are month names that double as common English words; they
// only count as a month next to a preposition or a year
var modalMonthNames = map[string]bool{"may": true}

var monthPrepositions = map[string]bool{
	"in": true, "of": true, "during": true, "since": true, "until": true, "for": true,
	"en": true, "de": true, "durante": true, "desde": true, "hasta": true,
}

// month returns the first month named in the question, in reading order
func (q normalizedQuestion) month() (time.Month, bool) {
	words := strings.Fields(q.text)
	for i, w := range words {
		m, ok := monthsByName[w]
		if !ok {
			continue
		}
		if modalMonthNames[w] && !monthInContext(words, i) {
			continue
		}
		return m, true
	}
	return 0, false
}

func monthInContext(words []string, i int) bool {
	if i > 0 && monthPrepositions[words[i-1]] {
		return true
	}
	return i+1 < len(words) && yearPattern.MatchString(words[i+1])
}

func (q normalizedQuestion) year() (int, bool) {
	match := yearPattern.FindString(q.text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

func (q normalizedQuestion) lastNMonths() (int, bool) {
	if m := lastNMonthsPattern.FindStringSubmatch(q.text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = numberWords[m[1]]
		}
		if n >= 1 {
			return n, true
		}
	}
	if q.hasPhrase("ultimo mes", "past month") {
		return 1, true
	}
	if q.hasAny("trimestre", "trimestral", "quarter") {
		return 3, true
	}
	return 0, false
}

// AnalyzeQuestion extracts timeframe, requested metrics, chart suggestion and
// volume tier from a free-text question. Timeframes resolve against now in UTC.
func AnalyzeQuestion(question string, now time.Time) models.QuestionAnalysis {
	q := normalizeQuestion(question)

	analysis := models.QuestionAnalysis{
		Timeframe:    resolveTimeframe(q, now.UTC()),
		WantsExpense: q.hasAny(expenseKeywords...),
		WantsIncome:  q.hasAny(incomeKeywords...),
		WantsBalance: q.hasAny(balanceKeywords...),
		VolumeTier:   selectVolumeTier(q),
	}
	analysis.ChartType, analysis.TopDailyExpenses = suggestChart(q)

	return analysis
}

// resolveTimeframe checks period phrases in a fixed order; the first match wins
func resolveTimeframe(q normalizedQuestion, now time.Time) models.Timeframe {
	if month, ok := q.month(); ok {
		year := now.Year()
		if y, found := q.year(); found {
			year = y
		}
		return monthTimeframe(year, month)
	}

	if q.hasPhrase("mes pasado", "mes anterior", "last month", "previous month") {
		prev := startOfMonth(now).AddDate(0, -1, 0)
		return monthTimeframe(prev.Year(), prev.Month())
	}

	if year, ok := q.year(); ok {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return models.Timeframe{
			Kind:  models.TimeframeSpecificYear,
			Start: start,
			End:   start.AddDate(1, 0, 0),
			Year:  year,
		}
	}

	if q.hasPhrase("esta semana", "ultima semana", "semana pasada", "ultimos 7 dias", "this week", "last week", "last 7 days") {
		end := startOfDay(now).AddDate(0, 0, 1)
		return models.Timeframe{
			Kind:  models.TimeframeWeek,
			Start: end.AddDate(0, 0, -7),
			End:   end,
		}
	}

	if n, ok := q.lastNMonths(); ok {
		current := startOfMonth(now)
		return models.Timeframe{
			Kind:        models.TimeframeLastNMonths,
			Start:       current.AddDate(0, -(n - 1), 0),
			End:         current.AddDate(0, 1, 0),
			LastNMonths: n,
		}
	}

	if q.hasPhrase("este mes", "this month") {
		tf := monthTimeframe(now.Year(), now.Month())
		tf.Kind = models.TimeframeCurrentMonth
		return tf
	}

	if q.hasPhrase("este ano", "this year") {
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return models.Timeframe{
			Kind:  models.TimeframeCurrentYear,
			Start: start,
			End:   start.AddDate(1, 0, 0),
			Year:  now.Year(),
		}
	}

	return models.Timeframe{Kind: models.TimeframeAll}
}

func suggestChart(q normalizedQuestion) (models.ChartType, bool) {
	switch {
	case q.hasAny(pieKeywords...):
		return models.ChartPie, false
	case q.hasPhrase(topDailyPhrases...):
		return models.ChartBar, true
	case q.hasAny(compareKeywords...):
		return models.ChartBar, false
	case q.hasAny(trendKeywords...):
		return models.ChartLine, false
	default:
		return models.ChartNone, false
	}
}

// SelectVolumeTier picks how many transactions to read for a question
func SelectVolumeTier(question string) models.VolumeTier {
	return selectVolumeTier(normalizeQuestion(question))
}

func selectVolumeTier(q normalizedQuestion) models.VolumeTier {
	_, namesMonth := q.month()
	_, namesYear := q.year()

	switch {
	case q.hasAny(historicalTierKeywords...):
		return models.VolumeTierHistorical
	case namesYear || q.hasAny("ano", "anos", "anual", "year", "yearly", "annual"):
		return models.VolumeTierYearly
	case q.hasAny("trimestre", "trimestral", "quarter", "quarterly") ||
		q.hasPhrase("3 meses", "tres meses", "3 months", "three months"):
		return models.VolumeTierQuarterly
	case q.hasAny("hoy", "ayer", "rapido", "today", "yesterday") ||
		q.hasPhrase("ultimo gasto", "last expense"):
		return models.VolumeTierQuick
	case namesMonth || q.hasAny("mes", "meses", "mensual", "semana", "month", "week"):
		return models.VolumeTierMonthly
	default:
		return models.VolumeTierMonthly
	}
}

func monthTimeframe(year int, month time.Month) models.Timeframe {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return models.Timeframe{
		Kind:  models.TimeframeSpecificMonth,
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Month: month,
		Year:  year,
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
